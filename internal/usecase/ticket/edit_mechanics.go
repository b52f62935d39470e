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

type EditMechanicsInput struct {
	AddMechanicIDs    []uint
	RemoveMechanicIDs []uint
}

type EditMechanics struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewEditMechanics(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *EditMechanics {
	return &EditMechanics{
		repo:  repo,
		audit: audit,
	}
}

// Execute adds and removes mechanic sets in one call. Unknown mechanic ids
// and removals of unassigned mechanics are skipped silently; the call only
// fails when the ticket is missing or the caller does not own it.
func (uc *EditMechanics) Execute(
	ctx context.Context,
	customer *models.Customer,
	ticketID uint,
	in EditMechanicsInput,
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

	for _, id := range in.AddMechanicIDs {
		if _, err := uc.repo.GetMechanic(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}
		if err := uc.repo.AssignMechanic(ctx, ticketID, id); err != nil {
			return err
		}
	}

	for _, id := range in.RemoveMechanicIDs {
		err := uc.repo.UnassignMechanic(ctx, ticketID, id)
		if err != nil && !httperr.IsBusiness(err, httperr.CodeNotAssigned) {
			return err
		}
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &customer.ID,
		ActorRole: "customer",
		Action:    "ticket_mechanics_edited",
		Entity:    "service_ticket",
		EntityID:  &ticketID,
	})

	return nil
}
