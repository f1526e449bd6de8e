package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetRepository defines the interface for asset persistence operations
type AssetRepository interface {
	// FindByID retrieves an asset by its ID
	// Returns ErrNotFound if no asset has that ID
	FindByID(ctx context.Context, id uuid.UUID) (*Asset, error)

	// FindAllByOwner retrieves every asset of an owner, most recently created first
	FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Asset, error)

	// Create stores a new asset, assigning its ID and timestamps
	// Returns ErrDuplicateAsset if (owner, symbol, purchase date) already exists
	Create(ctx context.Context, asset *Asset) (*Asset, error)

	// Update applies a partial update to an asset
	// Returns ErrNotFound if the asset is absent, ErrDuplicateAsset on a natural key clash
	Update(ctx context.Context, id uuid.UUID, patch AssetPatch) (*Asset, error)

	// Delete removes an asset. Returns false if nothing was deleted.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// SumByType returns the summed current value of an owner's assets per asset type
	SumByType(ctx context.Context, ownerID uuid.UUID) (map[AssetType]decimal.Decimal, error)
}
