package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/portfolio-backend/internal/domain"
)

type record struct {
	asset domain.Asset
	seq   uint64
}

// AssetRepository implements domain.AssetRepository in process memory.
// Assets are keyed by ID; a creation sequence keeps listing order stable
// when two assets share a CreatedAt timestamp.
type AssetRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*record
	seq     uint64

	// Now stamps CreatedAt and UpdatedAt
	Now func() time.Time
}

// NewAssetRepository creates an empty in-memory asset repository
func NewAssetRepository() *AssetRepository {
	return &AssetRepository{
		records: make(map[uuid.UUID]*record),
		Now:     time.Now,
	}
}

// FindByID retrieves an asset by its ID
func (r *AssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	asset := rec.asset
	return &asset, nil
}

// FindAllByOwner retrieves every asset of an owner, most recently created first
func (r *AssetRepository) FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := make([]*record, 0)
	for _, rec := range r.records {
		if rec.asset.OwnerID == ownerID {
			owned = append(owned, rec)
		}
	}

	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].asset.CreatedAt.Equal(owned[j].asset.CreatedAt) {
			return owned[i].asset.CreatedAt.After(owned[j].asset.CreatedAt)
		}
		return owned[i].seq > owned[j].seq
	})

	assets := make([]*domain.Asset, 0, len(owned))
	for _, rec := range owned {
		asset := rec.asset
		assets = append(assets, &asset)
	}
	return assets, nil
}

// Create stores a new asset, assigning its ID and timestamps
func (r *AssetRepository) Create(ctx context.Context, asset *domain.Asset) (*domain.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conflicts(uuid.Nil, asset.OwnerID, asset.Symbol, asset.PurchaseDate) {
		return nil, domain.ErrDuplicateAsset
	}

	stored := *asset
	stored.ID = uuid.New()
	stored.PurchaseDate = domain.NormalizeDate(stored.PurchaseDate)
	now := r.now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.seq++
	r.records[stored.ID] = &record{asset: stored, seq: r.seq}

	created := stored
	return &created, nil
}

// Update applies a partial update to an asset
func (r *AssetRepository) Update(ctx context.Context, id uuid.UUID, patch domain.AssetPatch) (*domain.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	next := patch.ApplyTo(rec.asset)
	if r.conflicts(id, next.OwnerID, next.Symbol, next.PurchaseDate) {
		return nil, domain.ErrDuplicateAsset
	}

	next.UpdatedAt = r.now()
	rec.asset = next

	updated := next
	return &updated, nil
}

// Delete removes an asset
func (r *AssetRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return false, nil
	}
	delete(r.records, id)
	return true, nil
}

// SumByType returns the summed current value of an owner's assets per asset type
func (r *AssetRepository) SumByType(ctx context.Context, ownerID uuid.UUID) (map[domain.AssetType]decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sums := make(map[domain.AssetType]decimal.Decimal)
	for _, rec := range r.records {
		if rec.asset.OwnerID != ownerID {
			continue
		}
		sum, ok := sums[rec.asset.Type]
		if !ok {
			sum = decimal.Zero
		}
		sums[rec.asset.Type] = sum.Add(rec.asset.CurrentValue())
	}
	return sums, nil
}

// conflicts reports whether another asset already holds the natural key. Caller holds the lock.
func (r *AssetRepository) conflicts(self, ownerID uuid.UUID, symbol string, purchaseDate time.Time) bool {
	date := domain.NormalizeDate(purchaseDate)
	for id, rec := range r.records {
		if id == self {
			continue
		}
		if rec.asset.OwnerID == ownerID && rec.asset.Symbol == symbol && rec.asset.PurchaseDate.Equal(date) {
			return true
		}
	}
	return false
}

func (r *AssetRepository) now() time.Time {
	if r.Now == nil {
		return time.Now().UTC()
	}
	return r.Now().UTC()
}
