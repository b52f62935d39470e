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

type UnassignMechanic struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUnassignMechanic(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UnassignMechanic {
	return &UnassignMechanic{
		repo:  repo,
		audit: audit,
	}
}

// Execute removes the mechanic from the ticket's mechanic set. Removing a
// mechanic that was never assigned fails, unlike the idempotent assign.
func (uc *UnassignMechanic) Execute(
	ctx context.Context,
	actor *models.Mechanic,
	ticketID uint,
	mechanicID uint,
) (*models.Mechanic, error) {

	if _, err := uc.repo.GetTicket(ctx, ticketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeTicketNotFound)
		}
		return nil, err
	}

	mechanic, err := uc.repo.GetMechanic(ctx, mechanicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeMechanicNotFound)
		}
		return nil, err
	}

	if err := uc.repo.UnassignMechanic(ctx, ticketID, mechanicID); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &actor.ID,
		ActorRole: "mechanic",
		Action:    "mechanic_unassigned",
		Entity:    "service_ticket",
		EntityID:  &ticketID,
		Metadata:  map[string]uint{"mechanic_id": mechanicID},
	})

	return mechanic, nil
}
