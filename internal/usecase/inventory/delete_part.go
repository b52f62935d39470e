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

type DeletePart struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeletePart(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeletePart {
	return &DeletePart{
		repo:  repo,
		audit: audit,
	}
}

// Execute deletes the part, clearing any ticket associations along with it.
func (uc *DeletePart) Execute(
	ctx context.Context,
	partID uint,
) (*models.Part, error) {

	part, err := uc.repo.GetPart(ctx, partID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodePartNotFound)
		}
		return nil, err
	}

	if err := uc.repo.DeletePart(ctx, partID); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "part_deleted",
		Entity:   "part",
		EntityID: &partID,
	})

	return part, nil
}
