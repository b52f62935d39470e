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

type UpdateLabor struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateLabor(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateLabor {
	return &UpdateLabor{
		repo:  repo,
		audit: audit,
	}
}

// Execute changes the hours on a log. Only the mechanic that owns the log
// may update it.
func (uc *UpdateLabor) Execute(
	ctx context.Context,
	mechanic *models.Mechanic,
	logID uint,
	hoursWorked float64,
) (*models.LaborLog, error) {

	log, err := uc.repo.GetLaborLog(ctx, logID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeLaborLogNotFound)
		}
		return nil, err
	}

	if log.MechanicID != mechanic.ID {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	if hoursWorked < 0 {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	log.HoursWorked = hoursWorked
	if err := uc.repo.SaveLaborLog(ctx, log); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &mechanic.ID,
		ActorRole: "mechanic",
		Action:    "labor_updated",
		Entity:    "labor_log",
		EntityID:  &log.ID,
	})

	return log, nil
}
