package report

import (
	"context"

	"github.com/redlineautoworks/mechanic-shop/internal/models"
)

// Repository is the read-only view the reporting use cases aggregate over.
type Repository interface {
	// ListTicketsWithLabor returns all tickets with their labor logs in
	// insertion (id) order and each log's mechanic loaded.
	ListTicketsWithLabor(ctx context.Context) ([]models.ServiceTicket, error)

	// ListMechanicsWithTickets returns all mechanics in id order with their
	// assigned tickets loaded.
	ListMechanicsWithTickets(ctx context.Context) ([]models.Mechanic, error)
}
