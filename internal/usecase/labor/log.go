package labor

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/redlineautoworks/mechanic-shop/internal/audit"
	domain "github.com/redlineautoworks/mechanic-shop/internal/domain/ticket"
	"github.com/redlineautoworks/mechanic-shop/internal/httperr"
	"github.com/redlineautoworks/mechanic-shop/internal/models"
)

type LogLaborInput struct {
	MechanicID  uint
	HoursWorked float64
}

type LogLabor struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewLogLabor(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *LogLabor {
	return &LogLabor{
		repo:  repo,
		audit: audit,
	}
}

// Execute records hours against a ticket. The target mechanic must be a
// member of the ticket's mechanic set, and mechanics may only log their own
// hours.
func (uc *LogLabor) Execute(
	ctx context.Context,
	mechanic *models.Mechanic,
	ticketID uint,
	in LogLaborInput,
) (*models.LaborLog, error) {

	if _, err := uc.repo.GetTicket(ctx, ticketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeTicketNotFound)
		}
		return nil, err
	}

	if _, err := uc.repo.GetMechanic(ctx, in.MechanicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeMechanicNotFound)
		}
		return nil, err
	}

	assigned, err := uc.repo.IsMechanicAssigned(ctx, ticketID, in.MechanicID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, httperr.ErrBusiness(httperr.CodeNotAssigned)
	}

	if mechanic.ID != in.MechanicID {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	if in.HoursWorked < 0 {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	log := &models.LaborLog{
		TicketID:    ticketID,
		MechanicID:  in.MechanicID,
		HoursWorked: in.HoursWorked,
		DateLogged:  time.Now(),
	}

	if err := uc.repo.CreateLaborLog(ctx, log); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &mechanic.ID,
		ActorRole: "mechanic",
		Action:    "labor_logged",
		Entity:    "labor_log",
		EntityID:  &log.ID,
	})

	return log, nil
}
