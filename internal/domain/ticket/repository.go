package ticket

import (
	"context"

	"github.com/redlineautoworks/mechanic-shop/internal/models"
)

type Repository interface {
	// -------- Ticket --------
	GetTicket(
		ctx context.Context,
		ticketID uint,
	) (*models.ServiceTicket, error)

	CreateTicket(
		ctx context.Context,
		t *models.ServiceTicket,
	) error

	SaveTicket(
		ctx context.Context,
		t *models.ServiceTicket,
	) error

	// DeleteTicket removes the ticket together with its labor logs and its
	// mechanic/part associations in one transaction.
	DeleteTicket(
		ctx context.Context,
		ticketID uint,
	) error

	// -------- Mechanic assignment --------
	GetMechanic(
		ctx context.Context,
		mechanicID uint,
	) (*models.Mechanic, error)

	IsMechanicAssigned(
		ctx context.Context,
		ticketID uint,
		mechanicID uint,
	) (bool, error)

	AssignMechanic(
		ctx context.Context,
		ticketID uint,
		mechanicID uint,
	) error

	UnassignMechanic(
		ctx context.Context,
		ticketID uint,
		mechanicID uint,
	) error

	// -------- Part attachment --------
	// AttachPart verifies stock >= 1, decrements by one and records the
	// attachment as a single atomic unit. Returns false when the part was
	// already attached (a no-op success, no second decrement).
	AttachPart(
		ctx context.Context,
		ticketID uint,
		partID uint,
	) (bool, error)

	// -------- Labor logs --------
	GetLaborLog(
		ctx context.Context,
		logID uint,
	) (*models.LaborLog, error)

	CreateLaborLog(
		ctx context.Context,
		log *models.LaborLog,
	) error

	SaveLaborLog(
		ctx context.Context,
		log *models.LaborLog,
	) error

	DeleteLaborLog(
		ctx context.Context,
		logID uint,
	) error
}
