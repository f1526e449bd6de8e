// Package repotest holds behaviour checks shared by every domain.AssetRepository implementation.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/portfolio-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty repository for one subtest
type Factory func(t *testing.T) domain.AssetRepository

// NewAsset builds an unsaved asset with the given natural key
func NewAsset(ownerID uuid.UUID, assetType domain.AssetType, symbol string, date time.Time, qty, buy, cur string) *domain.Asset {
	return domain.NewAsset(ownerID, domain.AssetFields{
		Type:          assetType,
		Symbol:        symbol,
		Name:          symbol + " holding",
		Quantity:      decimal.RequireFromString(qty),
		PurchasePrice: decimal.RequireFromString(buy),
		CurrentPrice:  decimal.RequireFromString(cur),
		PurchaseDate:  date,
	})
}

// Run exercises the full AssetRepository contract
func Run(t *testing.T, newRepo Factory) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("CreateAssignsIdentity", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		owner := uuid.New()

		created, err := repo.Create(ctx, NewAsset(owner, domain.AssetTypeStock, "AAPL", day, "10", "100", "150"))
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.False(t, created.UpdatedAt.IsZero())

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, owner, found.OwnerID)
		assert.Equal(t, "AAPL", found.Symbol)
		assert.Equal(t, domain.AssetTypeStock, found.Type)
		assert.True(t, found.Quantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, found.PurchasePrice.Equal(decimal.NewFromInt(100)))
		assert.True(t, found.CurrentPrice.Equal(decimal.NewFromInt(150)))
		assert.True(t, found.PurchaseDate.Equal(day))
	})

	t.Run("FindByIDMissing", func(t *testing.T) {
		_, err := newRepo(t).FindByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("DecimalPrecisionSurvives", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		created, err := repo.Create(ctx, NewAsset(uuid.New(), domain.AssetTypeCrypto, "BTC", day, "0.12345678", "43210.99", "65000.01"))
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "0.12345678", found.Quantity.StringFixed(8))
		assert.Equal(t, "43210.99", found.PurchasePrice.StringFixed(2))
		assert.Equal(t, "65000.01", found.CurrentPrice.StringFixed(2))
	})

	t.Run("UniqueNaturalKey", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		owner := uuid.New()

		_, err := repo.Create(ctx, NewAsset(owner, domain.AssetTypeStock, "AAPL", day, "1", "1", "1"))
		require.NoError(t, err)

		_, err = repo.Create(ctx, NewAsset(owner, domain.AssetTypeStock, "AAPL", day, "2", "2", "2"))
		assert.ErrorIs(t, err, domain.ErrDuplicateAsset)
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = repo.Create(ctx, NewAsset(owner, domain.AssetTypeStock, "AAPL", day.AddDate(0, 0, 1), "1", "1", "1"))
		assert.NoError(t, err, "same symbol, other date")

		_, err = repo.Create(ctx, NewAsset(owner, domain.AssetTypeStock, "MSFT", day, "1", "1", "1"))
		assert.NoError(t, err, "other symbol, same date")

		_, err = repo.Create(ctx, NewAsset(uuid.New(), domain.AssetTypeStock, "AAPL", day, "1", "1", "1"))
		assert.NoError(t, err, "other owner")
	})

	t.Run("FindAllByOwnerNewestFirst", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		owner := uuid.New()
		other := uuid.New()

		for i, symbol := range []string{"A", "B", "C"} {
			_, err := repo.Create(ctx, NewAsset(owner, domain.AssetTypeStock, symbol, day.AddDate(0, 0, i), "1", "1", "1"))
			require.NoError(t, err)
		}
		_, err := repo.Create(ctx, NewAsset(other, domain.AssetTypeStock, "Z", day, "1", "1", "1"))
		require.NoError(t, err)

		assets, err := repo.FindAllByOwner(ctx, owner)
		require.NoError(t, err)
		require.Len(t, assets, 3)
		assert.Equal(t, "C", assets[0].Symbol)
		assert.Equal(t, "B", assets[1].Symbol)
		assert.Equal(t, "A", assets[2].Symbol)

		none, err := repo.FindAllByOwner(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("UpdatePartial", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		created, err := repo.Create(ctx, NewAsset(uuid.New(), domain.AssetTypeStock, "AAPL", day, "10", "100", "150"))
		require.NoError(t, err)

		price := decimal.RequireFromString("175.25")
		updated, err := repo.Update(ctx, created.ID, domain.AssetPatch{CurrentPrice: &price})
		require.NoError(t, err)
		assert.True(t, updated.CurrentPrice.Equal(price))
		assert.True(t, updated.Quantity.Equal(decimal.NewFromInt(10)), "untouched field kept")
		assert.Equal(t, created.ID, updated.ID)
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, found.CurrentPrice.Equal(price))
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		price := decimal.NewFromInt(1)
		_, err := newRepo(t).Update(context.Background(), uuid.New(), domain.AssetPatch{CurrentPrice: &price})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("UpdateIntoNaturalKeyClash", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		owner := uuid.New()

		_, err := repo.Create(ctx, NewAsset(owner, domain.AssetTypeStock, "AAPL", day, "1", "1", "1"))
		require.NoError(t, err)
		second, err := repo.Create(ctx, NewAsset(owner, domain.AssetTypeStock, "MSFT", day, "1", "1", "1"))
		require.NoError(t, err)

		symbol := "AAPL"
		_, err = repo.Update(ctx, second.ID, domain.AssetPatch{Symbol: &symbol})
		assert.ErrorIs(t, err, domain.ErrDuplicateAsset)
	})

	t.Run("Delete", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		created, err := repo.Create(ctx, NewAsset(uuid.New(), domain.AssetTypeBond, "UST10", day, "5", "98.5", "99"))
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = repo.FindByID(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		deleted, err = repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("SumByTypeUsesCurrentValue", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		owner := uuid.New()

		_, err := repo.Create(ctx, NewAsset(owner, domain.AssetTypeStock, "AAPL", day, "10", "100", "150"))
		require.NoError(t, err)
		_, err = repo.Create(ctx, NewAsset(owner, domain.AssetTypeStock, "MSFT", day, "2", "300", "400"))
		require.NoError(t, err)
		_, err = repo.Create(ctx, NewAsset(owner, domain.AssetTypeCrypto, "ETH", day, "0.5", "2000", "3000"))
		require.NoError(t, err)
		_, err = repo.Create(ctx, NewAsset(uuid.New(), domain.AssetTypeBond, "UST10", day, "1", "1", "1"))
		require.NoError(t, err)

		sums, err := repo.SumByType(ctx, owner)
		require.NoError(t, err)
		require.Len(t, sums, 2)
		assert.Equal(t, "2300.00", sums[domain.AssetTypeStock].StringFixed(2))
		assert.Equal(t, "1500.00", sums[domain.AssetTypeCrypto].StringFixed(2))
	})
}
