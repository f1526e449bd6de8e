package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/portfolio-backend/internal/domain"
)

const assetColumns = `id, owner_id, asset_type, symbol, name, quantity, purchase_price, current_price, purchase_date, created_at, updated_at`

// AssetRepository implements domain.AssetRepository
type AssetRepository struct {
	db      *sql.DB
	dialect Dialect
	clock   *monotonicClock
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *sql.DB, dialect Dialect) *AssetRepository {
	return &AssetRepository{
		db:      db,
		dialect: dialect,
		clock:   &monotonicClock{},
	}
}

// WithClock replaces the timestamp source
func (r *AssetRepository) WithClock(now func() time.Time) *AssetRepository {
	r.clock = &monotonicClock{now: now}
	return r
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAsset(row rowScanner) (*domain.Asset, error) {
	var asset domain.Asset
	var assetType string
	purchaseDate := timeValue{layout: domain.DateLayout}
	createdAt := timeValue{layout: TimestampLayout}
	updatedAt := timeValue{layout: TimestampLayout}

	err := row.Scan(
		&asset.ID,
		&asset.OwnerID,
		&assetType,
		&asset.Symbol,
		&asset.Name,
		&asset.Quantity,
		&asset.PurchasePrice,
		&asset.CurrentPrice,
		&purchaseDate,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	asset.Type = domain.AssetType(assetType)
	asset.PurchaseDate = domain.NormalizeDate(purchaseDate.t)
	asset.CreatedAt = createdAt.t
	asset.UpdatedAt = updatedAt.t

	return &asset, nil
}

// FindByID retrieves an asset by its ID
func (r *AssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	query := r.dialect.Rebind(`SELECT ` + assetColumns + ` FROM assets WHERE id = ?`)

	asset, err := scanAsset(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get asset by ID: %w", err)
	}

	return asset, nil
}

// FindAllByOwner retrieves every asset of an owner, most recently created first
func (r *AssetRepository) FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Asset, error) {
	query := r.dialect.Rebind(`
		SELECT ` + assetColumns + `
		FROM assets
		WHERE owner_id = ?
		ORDER BY created_at DESC, id DESC
	`)

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	assets := make([]*domain.Asset, 0)
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}

	return assets, nil
}

// Create stores a new asset, assigning its ID and timestamps
func (r *AssetRepository) Create(ctx context.Context, asset *domain.Asset) (*domain.Asset, error) {
	query := r.dialect.Rebind(`
		INSERT INTO assets (` + assetColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	stored := *asset
	stored.ID = uuid.New()
	stored.PurchaseDate = domain.NormalizeDate(stored.PurchaseDate)
	now := r.clock.stamp()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		stored.ID,
		stored.OwnerID,
		string(stored.Type),
		stored.Symbol,
		stored.Name,
		stored.Quantity.String(),
		stored.PurchasePrice.String(),
		stored.CurrentPrice.String(),
		dateArg(stored.PurchaseDate),
		timestampArg(stored.CreatedAt),
		timestampArg(stored.UpdatedAt),
	)
	if err != nil {
		if r.dialect.IsUniqueViolation(err) {
			return nil, domain.ErrDuplicateAsset
		}
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	return &stored, nil
}

// Update applies a partial update to an asset inside one transaction
func (r *AssetRepository) Update(ctx context.Context, id uuid.UUID, patch domain.AssetPatch) (*domain.Asset, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	selectQuery := r.dialect.Rebind(`SELECT ` + assetColumns + ` FROM assets WHERE id = ?` + r.dialect.ForUpdate())
	current, err := scanAsset(tx.QueryRowContext(ctx, selectQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load asset for update: %w", err)
	}

	next := patch.ApplyTo(*current)
	next.UpdatedAt = r.clock.stamp()

	updateQuery := r.dialect.Rebind(`
		UPDATE assets
		SET asset_type = ?, symbol = ?, name = ?, quantity = ?, purchase_price = ?,
			current_price = ?, purchase_date = ?, updated_at = ?
		WHERE id = ?
	`)

	_, err = tx.ExecContext(ctx, updateQuery,
		string(next.Type),
		next.Symbol,
		next.Name,
		next.Quantity.String(),
		next.PurchasePrice.String(),
		next.CurrentPrice.String(),
		dateArg(next.PurchaseDate),
		timestampArg(next.UpdatedAt),
		id,
	)
	if err != nil {
		if r.dialect.IsUniqueViolation(err) {
			return nil, domain.ErrDuplicateAsset
		}
		return nil, fmt.Errorf("failed to update asset: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if r.dialect.IsUniqueViolation(err) {
			return nil, domain.ErrDuplicateAsset
		}
		return nil, fmt.Errorf("failed to commit asset update: %w", err)
	}

	return &next, nil
}

// Delete removes an asset
func (r *AssetRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := r.dialect.Rebind(`DELETE FROM assets WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete asset: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected > 0, nil
}

// SumByType returns the summed current value of an owner's assets per asset type.
// Products are summed in Go so no engine rounds the decimals.
func (r *AssetRepository) SumByType(ctx context.Context, ownerID uuid.UUID) (map[domain.AssetType]decimal.Decimal, error) {
	query := r.dialect.Rebind(`SELECT asset_type, quantity, current_price FROM assets WHERE owner_id = ?`)

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset values: %w", err)
	}
	defer rows.Close()

	sums := make(map[domain.AssetType]decimal.Decimal)
	for rows.Next() {
		var assetType string
		var quantity, currentPrice decimal.Decimal
		if err := rows.Scan(&assetType, &quantity, &currentPrice); err != nil {
			return nil, fmt.Errorf("failed to scan asset value: %w", err)
		}

		tag := domain.AssetType(assetType)
		sum, ok := sums[tag]
		if !ok {
			sum = decimal.Zero
		}
		sums[tag] = sum.Add(quantity.Mul(currentPrice))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset values: %w", err)
	}

	return sums, nil
}
