package ticket

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/redlineautoworks/mechanic-shop/internal/audit"
	domaininv "github.com/redlineautoworks/mechanic-shop/internal/domain/inventory"
	domain "github.com/redlineautoworks/mechanic-shop/internal/domain/ticket"
	"github.com/redlineautoworks/mechanic-shop/internal/httperr"
	"github.com/redlineautoworks/mechanic-shop/internal/models"
)

type AttachPart struct {
	tickets domain.Repository
	parts   domaininv.Repository
	audit   *audit.Dispatcher
}

func NewAttachPart(
	tickets domain.Repository,
	parts domaininv.Repository,
	audit *audit.Dispatcher,
) *AttachPart {
	return &AttachPart{
		tickets: tickets,
		parts:   parts,
		audit:   audit,
	}
}

// Execute links a part to a ticket, consuming one unit of stock. Already
// attached is a no-op success; the returned flag reports whether stock was
// actually consumed.
func (uc *AttachPart) Execute(
	ctx context.Context,
	ticketID uint,
	partID uint,
) (*models.Part, bool, error) {

	part, err := uc.parts.GetPart(ctx, partID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, httperr.ErrBusiness(httperr.CodePartNotFound)
		}
		return nil, false, err
	}

	if _, err := uc.tickets.GetTicket(ctx, ticketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, httperr.ErrBusiness(httperr.CodeTicketNotFound)
		}
		return nil, false, err
	}

	attached, err := uc.tickets.AttachPart(ctx, ticketID, partID)
	if err != nil {
		return nil, false, err
	}

	if attached {
		uc.audit.Dispatch(audit.Event{
			Action:   "part_attached",
			Entity:   "service_ticket",
			EntityID: &ticketID,
			Metadata: map[string]uint{"part_id": partID},
		})
	}

	return part, attached, nil
}
