package inventory

import (
	"context"

	"github.com/redlineautoworks/mechanic-shop/internal/models"
)

type Repository interface {
	GetPart(
		ctx context.Context,
		partID uint,
	) (*models.Part, error)

	// RemoveStock subtracts qty from the part's stock and returns the new
	// quantity. The check-and-decrement is a single atomic statement so that
	// concurrent removals on the same part can never drive stock negative.
	RemoveStock(
		ctx context.Context,
		partID uint,
		qty int,
	) (int, error)

	// DeletePart removes the part and clears any ticket associations so no
	// dangling join rows remain.
	DeletePart(
		ctx context.Context,
		partID uint,
	) error
}
