package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/redlineautoworks/mechanic-shop/internal/domain/inventory"
	"github.com/redlineautoworks/mechanic-shop/internal/httperr"
	"github.com/redlineautoworks/mechanic-shop/internal/models"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

func (r *InventoryGormRepository) GetPart(
	ctx context.Context,
	partID uint,
) (*models.Part, error) {

	var part models.Part
	if err := r.db.WithContext(ctx).First(&part, partID).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *InventoryGormRepository) RemoveStock(
	ctx context.Context,
	partID uint,
	qty int,
) (int, error) {

	if qty <= 0 {
		return 0, httperr.ErrBusiness(httperr.CodeInvalidQuantity)
	}

	var newQty int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Guarded single-statement decrement: the WHERE clause is the stock
		// check, executed atomically with the subtraction.
		res := tx.Model(&models.Part{}).
			Where("id = ? AND quantity_in_stock >= ?", partID, qty).
			UpdateColumn("quantity_in_stock", gorm.Expr("quantity_in_stock - ?", qty))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var part models.Part
			if err := tx.First(&part, partID).Error; err != nil {
				return err
			}
			return httperr.ErrBusiness(httperr.CodeInsufficientStock)
		}

		var part models.Part
		if err := tx.First(&part, partID).Error; err != nil {
			return err
		}
		newQty = part.QuantityInStock
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newQty, nil
}

func (r *InventoryGormRepository) DeletePart(
	ctx context.Context,
	partID uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		part := models.Part{ID: partID}

		// Clear ticket associations first so no dangling join rows remain.
		if err := tx.Model(&part).Association("ServiceTickets").Clear(); err != nil {
			return err
		}
		return tx.Delete(&part).Error
	})
}

// Compile-time check
var _ domain.Repository = (*InventoryGormRepository)(nil)
