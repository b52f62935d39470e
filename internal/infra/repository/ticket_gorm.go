package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	domain "github.com/redlineautoworks/mechanic-shop/internal/domain/ticket"
	"github.com/redlineautoworks/mechanic-shop/internal/httperr"
	"github.com/redlineautoworks/mechanic-shop/internal/models"
)

type TicketGormRepository struct {
	db *gorm.DB
}

func NewTicketGormRepository(db *gorm.DB) *TicketGormRepository {
	return &TicketGormRepository{db: db}
}

// --------------------------------------------------
// Ticket
// --------------------------------------------------

func (r *TicketGormRepository) GetTicket(
	ctx context.Context,
	ticketID uint,
) (*models.ServiceTicket, error) {

	var t models.ServiceTicket
	if err := r.db.WithContext(ctx).First(&t, ticketID).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketGormRepository) CreateTicket(
	ctx context.Context,
	t *models.ServiceTicket,
) error {

	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		// Uniqueness of the VIN is arbitrated by the store; a lost race
		// surfaces as a conflict, never as success.
		if isUniqueViolation(err) {
			return httperr.ErrBusiness(httperr.CodeDuplicateVIN)
		}
		return err
	}
	return nil
}

func (r *TicketGormRepository) SaveTicket(
	ctx context.Context,
	t *models.ServiceTicket,
) error {

	if err := r.db.WithContext(ctx).Save(t).Error; err != nil {
		if isUniqueViolation(err) {
			return httperr.ErrBusiness(httperr.CodeDuplicateVIN)
		}
		return err
	}
	return nil
}

func (r *TicketGormRepository) DeleteTicket(
	ctx context.Context,
	ticketID uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t := models.ServiceTicket{ID: ticketID}

		if err := tx.Where("ticket_id = ?", ticketID).
			Delete(&models.LaborLog{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&t).Association("Mechanics").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&t).Association("Parts").Clear(); err != nil {
			return err
		}
		return tx.Delete(&t).Error
	})
}

// --------------------------------------------------
// Mechanic assignment
// --------------------------------------------------

func (r *TicketGormRepository) GetMechanic(
	ctx context.Context,
	mechanicID uint,
) (*models.Mechanic, error) {

	var m models.Mechanic
	if err := r.db.WithContext(ctx).First(&m, mechanicID).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *TicketGormRepository) IsMechanicAssigned(
	ctx context.Context,
	ticketID uint,
	mechanicID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Table("ticket_mechanics").
		Where("service_ticket_id = ? AND mechanic_id = ?", ticketID, mechanicID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TicketGormRepository) AssignMechanic(
	ctx context.Context,
	ticketID uint,
	mechanicID uint,
) error {

	// ON CONFLICT DO NOTHING makes the check-then-insert a single atomic
	// statement: a concurrent duplicate degrades to a no-op, not an error.
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO ticket_mechanics (service_ticket_id, mechanic_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		ticketID, mechanicID,
	).Error
}

func (r *TicketGormRepository) UnassignMechanic(
	ctx context.Context,
	ticketID uint,
	mechanicID uint,
) error {

	res := r.db.WithContext(ctx).Exec(
		"DELETE FROM ticket_mechanics WHERE service_ticket_id = ? AND mechanic_id = ?",
		ticketID, mechanicID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(httperr.CodeNotAssigned)
	}
	return nil
}

// --------------------------------------------------
// Part attachment
// --------------------------------------------------

func (r *TicketGormRepository) AttachPart(
	ctx context.Context,
	ticketID uint,
	partID uint,
) (bool, error) {

	attached := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Claim the association first; the join table's composite key makes
		// this the serialization point for concurrent attach calls.
		res := tx.Exec(
			"INSERT INTO ticket_parts (service_ticket_id, part_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
			ticketID, partID,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already attached: success without a second stock decrement.
			return nil
		}

		dec := tx.Model(&models.Part{}).
			Where("id = ? AND quantity_in_stock >= 1", partID).
			UpdateColumn("quantity_in_stock", gorm.Expr("quantity_in_stock - 1"))
		if dec.Error != nil {
			return dec.Error
		}
		if dec.RowsAffected == 0 {
			// Rolls back the association insert above.
			return httperr.ErrBusiness(httperr.CodeInsufficientStock)
		}
		attached = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return attached, nil
}

// --------------------------------------------------
// Labor logs
// --------------------------------------------------

func (r *TicketGormRepository) GetLaborLog(
	ctx context.Context,
	logID uint,
) (*models.LaborLog, error) {

	var log models.LaborLog
	if err := r.db.WithContext(ctx).First(&log, logID).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *TicketGormRepository) CreateLaborLog(
	ctx context.Context,
	log *models.LaborLog,
) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *TicketGormRepository) SaveLaborLog(
	ctx context.Context,
	log *models.LaborLog,
) error {
	return r.db.WithContext(ctx).Save(log).Error
}

func (r *TicketGormRepository) DeleteLaborLog(
	ctx context.Context,
	logID uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.LaborLog{}, logID).Error
}

// isUniqueViolation matches both gorm's translated error and the raw driver
// messages of Postgres and SQLite.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// Compile-time check
var _ domain.Repository = (*TicketGormRepository)(nil)
