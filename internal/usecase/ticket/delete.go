package ticket

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/redlineautoworks/mechanic-shop/internal/audit"
	domain "github.com/redlineautoworks/mechanic-shop/internal/domain/ticket"
	"github.com/redlineautoworks/mechanic-shop/internal/httperr"
	"github.com/redlineautoworks/mechanic-shop/internal/models"
)

type DeleteTicket struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteTicket(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteTicket {
	return &DeleteTicket{
		repo:  repo,
		audit: audit,
	}
}

// Execute removes the ticket with its labor logs and associations. Only the
// owning customer may delete.
func (uc *DeleteTicket) Execute(
	ctx context.Context,
	customer *models.Customer,
	ticketID uint,
) error {

	t, err := uc.repo.GetTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrBusiness(httperr.CodeTicketNotFound)
		}
		return err
	}

	if t.CustomerID != customer.ID {
		return httperr.ErrBusiness(httperr.CodeForbidden)
	}

	if err := uc.repo.DeleteTicket(ctx, ticketID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &customer.ID,
		ActorRole: "customer",
		Action:    "ticket_deleted",
		Entity:    "service_ticket",
		EntityID:  &ticketID,
	})

	return nil
}
