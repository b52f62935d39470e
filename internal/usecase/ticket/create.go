package ticket

import (
	"context"
	"strings"
	"time"

	"github.com/redlineautoworks/mechanic-shop/internal/audit"
	domain "github.com/redlineautoworks/mechanic-shop/internal/domain/ticket"
	"github.com/redlineautoworks/mechanic-shop/internal/httperr"
	"github.com/redlineautoworks/mechanic-shop/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateTicketInput struct {
	ServiceDate time.Time
	Description string
	VIN         string
}

// ======================================================
// USE CASE
// ======================================================

type CreateTicket struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateTicket(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateTicket {
	return &CreateTicket{
		repo:  repo,
		audit: audit,
	}
}

// Execute creates a ticket bound to the authenticated customer. Any
// customer_id the caller supplied is ignored: ownership comes from the token.
func (uc *CreateTicket) Execute(
	ctx context.Context,
	customer *models.Customer,
	in CreateTicketInput,
) (*models.ServiceTicket, error) {

	if strings.TrimSpace(in.Description) == "" || len(in.Description) > 500 {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}
	if in.ServiceDate.IsZero() {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}
	if err := domain.ValidateVIN(in.VIN); err != nil {
		return nil, err
	}

	t := &models.ServiceTicket{
		CustomerID:  customer.ID,
		ServiceDate: in.ServiceDate,
		Description: in.Description,
		VIN:         domain.NormalizeVIN(in.VIN),
		Status:      string(domain.InitialStatus()),
	}

	if err := uc.repo.CreateTicket(ctx, t); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &customer.ID,
		ActorRole: "customer",
		Action:    "ticket_created",
		Entity:    "service_ticket",
		EntityID:  &t.ID,
	})

	return t, nil
}
