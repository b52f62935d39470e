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

type AssignMechanic struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewAssignMechanic(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *AssignMechanic {
	return &AssignMechanic{
		repo:  repo,
		audit: audit,
	}
}

// Execute links the mechanic to the ticket. Assigning an already-assigned
// mechanic succeeds without duplication; the returned flag reports whether a
// new link was created.
func (uc *AssignMechanic) Execute(
	ctx context.Context,
	actor *models.Mechanic,
	ticketID uint,
	mechanicID uint,
) (*models.Mechanic, bool, error) {

	if _, err := uc.repo.GetTicket(ctx, ticketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, httperr.ErrBusiness(httperr.CodeTicketNotFound)
		}
		return nil, false, err
	}

	mechanic, err := uc.repo.GetMechanic(ctx, mechanicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, httperr.ErrBusiness(httperr.CodeMechanicNotFound)
		}
		return nil, false, err
	}

	already, err := uc.repo.IsMechanicAssigned(ctx, ticketID, mechanicID)
	if err != nil {
		return nil, false, err
	}
	if already {
		return mechanic, false, nil
	}

	if err := uc.repo.AssignMechanic(ctx, ticketID, mechanicID); err != nil {
		return nil, false, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &actor.ID,
		ActorRole: "mechanic",
		Action:    "mechanic_assigned",
		Entity:    "service_ticket",
		EntityID:  &ticketID,
		Metadata:  map[string]uint{"mechanic_id": mechanicID},
	})

	return mechanic, true, nil
}
