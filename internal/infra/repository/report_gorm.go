package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/redlineautoworks/mechanic-shop/internal/domain/report"
	"github.com/redlineautoworks/mechanic-shop/internal/models"
)

type ReportGormRepository struct {
	db *gorm.DB
}

func NewReportGormRepository(db *gorm.DB) *ReportGormRepository {
	return &ReportGormRepository{db: db}
}

func (r *ReportGormRepository) ListTicketsWithLabor(
	ctx context.Context,
) ([]models.ServiceTicket, error) {

	var tickets []models.ServiceTicket
	if err := r.db.WithContext(ctx).
		Preload("LaborLogs", func(db *gorm.DB) *gorm.DB {
			return db.Order("labor_logs.id ASC")
		}).
		Preload("LaborLogs.Mechanic").
		Order("id ASC").
		Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *ReportGormRepository) ListMechanicsWithTickets(
	ctx context.Context,
) ([]models.Mechanic, error) {

	var mechanics []models.Mechanic
	if err := r.db.WithContext(ctx).
		Preload("ServiceTickets").
		Order("id ASC").
		Find(&mechanics).Error; err != nil {
		return nil, err
	}
	return mechanics, nil
}

// Compile-time check
var _ domain.Repository = (*ReportGormRepository)(nil)
