package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/portfolio-backend/internal/adapter/repository/repotest"
	"github.com/simaogato/portfolio-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetRepository_Contract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) domain.AssetRepository {
		return NewAssetRepository()
	})
}

func TestAssetRepository_SameTimestampKeepsCreationOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewAssetRepository()
	frozen := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	repo.Now = func() time.Time { return frozen }

	owner := uuid.New()
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, symbol := range []string{"FIRST", "SECOND"} {
		_, err := repo.Create(ctx, repotest.NewAsset(owner, domain.AssetTypeStock, symbol, day, "1", "1", "1"))
		require.NoError(t, err)
	}

	assets, err := repo.FindAllByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "SECOND", assets[0].Symbol)
	assert.Equal(t, "FIRST", assets[1].Symbol)
}

func TestAssetRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewAssetRepository()

	created, err := repo.Create(ctx, repotest.NewAsset(uuid.New(), domain.AssetTypeStock, "AAPL", time.Now(), "1", "1", "1"))
	require.NoError(t, err)

	created.Symbol = "MUTATED"

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", found.Symbol)
}

func TestAssetRepository_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewAssetRepository()
	owner := uuid.New()
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, repotest.NewAsset(owner, domain.AssetTypeStock, "AAPL", day, "1", "1", "1"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrDuplicateAsset)
	}
	assert.Equal(t, 1, succeeded)
}
