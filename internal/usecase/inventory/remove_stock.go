package inventory

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/redlineautoworks/mechanic-shop/internal/audit"
	domain "github.com/redlineautoworks/mechanic-shop/internal/domain/inventory"
	"github.com/redlineautoworks/mechanic-shop/internal/httperr"
	"github.com/redlineautoworks/mechanic-shop/internal/models"
)

type RemoveStock struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRemoveStock(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *RemoveStock {
	return &RemoveStock{
		repo:  repo,
		audit: audit,
	}
}

// Execute subtracts qty units from the part's stock and returns the part
// together with its new quantity.
func (uc *RemoveStock) Execute(
	ctx context.Context,
	partID uint,
	qty int,
) (*models.Part, int, error) {

	part, err := uc.repo.GetPart(ctx, partID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, httperr.ErrBusiness(httperr.CodePartNotFound)
		}
		return nil, 0, err
	}

	newQty, err := uc.repo.RemoveStock(ctx, partID, qty)
	if err != nil {
		return part, 0, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "stock_removed",
		Entity:   "part",
		EntityID: &partID,
		Metadata: map[string]int{"quantity": qty, "new_quantity": newQty},
	})

	return part, newQty, nil
}
