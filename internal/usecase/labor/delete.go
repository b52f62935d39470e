package labor

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/redlineautoworks/mechanic-shop/internal/audit"
	domain "github.com/redlineautoworks/mechanic-shop/internal/domain/ticket"
	"github.com/redlineautoworks/mechanic-shop/internal/httperr"
	"github.com/redlineautoworks/mechanic-shop/internal/models"
)

type DeleteLabor struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteLabor(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteLabor {
	return &DeleteLabor{
		repo:  repo,
		audit: audit,
	}
}

// Execute removes a labor log and returns the owning ticket's id. Restricted
// to the logging mechanic.
func (uc *DeleteLabor) Execute(
	ctx context.Context,
	mechanic *models.Mechanic,
	logID uint,
) (uint, error) {

	log, err := uc.repo.GetLaborLog(ctx, logID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, httperr.ErrBusiness(httperr.CodeLaborLogNotFound)
		}
		return 0, err
	}

	if log.MechanicID != mechanic.ID {
		return 0, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	if err := uc.repo.DeleteLaborLog(ctx, logID); err != nil {
		return 0, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &mechanic.ID,
		ActorRole: "mechanic",
		Action:    "labor_deleted",
		Entity:    "labor_log",
		EntityID:  &logID,
	})

	return log.TicketID, nil
}
