package ticket

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/redlineautoworks/mechanic-shop/internal/audit"
	domain "github.com/redlineautoworks/mechanic-shop/internal/domain/ticket"
	"github.com/redlineautoworks/mechanic-shop/internal/httperr"
	"github.com/redlineautoworks/mechanic-shop/internal/models"
)

type UpdateTicketInput struct {
	ServiceDate *time.Time
	Description *string
	VIN         *string
	Status      *string
}

type UpdateTicket struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateTicket(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateTicket {
	return &UpdateTicket{
		repo:  repo,
		audit: audit,
	}
}

// Execute applies a partial patch. Only the owning customer may mutate the
// ticket, and customer_id itself is never patchable.
func (uc *UpdateTicket) Execute(
	ctx context.Context,
	customer *models.Customer,
	ticketID uint,
	in UpdateTicketInput,
) (*models.ServiceTicket, error) {

	t, err := uc.repo.GetTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeTicketNotFound)
		}
		return nil, err
	}

	if t.CustomerID != customer.ID {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	if in.ServiceDate != nil {
		if in.ServiceDate.IsZero() {
			return nil, httperr.ErrBusiness(httperr.CodeValidation)
		}
		t.ServiceDate = *in.ServiceDate
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" || len(*in.Description) > 500 {
			return nil, httperr.ErrBusiness(httperr.CodeValidation)
		}
		t.Description = *in.Description
	}
	if in.VIN != nil {
		if err := domain.ValidateVIN(*in.VIN); err != nil {
			return nil, err
		}
		t.VIN = domain.NormalizeVIN(*in.VIN)
	}
	if in.Status != nil {
		domain.ApplyStatus(t, *in.Status, time.Now())
	}

	if err := uc.repo.SaveTicket(ctx, t); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &customer.ID,
		ActorRole: "customer",
		Action:    "ticket_updated",
		Entity:    "service_ticket",
		EntityID:  &t.ID,
	})

	return t, nil
}
