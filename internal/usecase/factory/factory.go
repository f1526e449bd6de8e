package factory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/simaogato/portfolio-backend/internal/domain"
)

// Creator builds an unsaved asset of one type for an owner
type Creator func(ownerID uuid.UUID, fields domain.AssetFields) (*domain.Asset, error)

type registration struct {
	label   string
	creator Creator
}

// Registry maps asset type tags to construction routines.
// It is built once at startup and passed to the components that construct assets;
// registration after startup is not expected, but the map is guarded anyway.
type Registry struct {
	mu       sync.RWMutex
	creators map[domain.AssetType]registration
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		creators: make(map[domain.AssetType]registration),
	}
}

// NewDefaultRegistry creates a registry with the STOCK, BOND and CRYPTO types
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(domain.AssetTypeStock, "Stock", TypedCreator(domain.AssetTypeStock))
	r.Register(domain.AssetTypeBond, "Bond", TypedCreator(domain.AssetTypeBond))
	r.Register(domain.AssetTypeCrypto, "Crypto", TypedCreator(domain.AssetTypeCrypto))
	return r
}

// Register adds (or replaces) the creator for a type tag
// The label is the display name used when grouping a portfolio by type.
func (r *Registry) Register(tag domain.AssetType, label string, creator Creator) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if label == "" {
		label = string(tag)
	}
	r.creators[tag] = registration{label: label, creator: creator}
}

// Create builds an asset with the creator registered for tag.
// Tags are matched exactly (case-sensitive); an unknown tag returns domain.ErrInvalidType.
func (r *Registry) Create(tag domain.AssetType, ownerID uuid.UUID, fields domain.AssetFields) (*domain.Asset, error) {
	r.mu.RLock()
	reg, ok := r.creators[tag]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q is not registered", domain.ErrInvalidType, tag)
	}

	asset, err := reg.creator(ownerID, fields)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, fmt.Errorf("%w: creator for %q returned no asset", domain.ErrInvalidType, tag)
	}
	return asset, nil
}

// Has reports whether tag is registered
func (r *Registry) Has(tag domain.AssetType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.creators[tag]
	return ok
}

// Label returns the display label of a type, or the tag itself when it is not registered
func (r *Registry) Label(tag domain.AssetType) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if reg, ok := r.creators[tag]; ok {
		return reg.label
	}
	return string(tag)
}

// Types returns the registered tags in sorted order
func (r *Registry) Types() []domain.AssetType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]domain.AssetType, 0, len(r.creators))
	for tag := range r.creators {
		types = append(types, tag)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// TypedCreator returns a Creator that builds an asset of the given type,
// ignoring whatever type the fields carry
func TypedCreator(assetType domain.AssetType) Creator {
	return func(ownerID uuid.UUID, fields domain.AssetFields) (*domain.Asset, error) {
		fields.Type = assetType
		return domain.NewAsset(ownerID, fields), nil
	}
}
