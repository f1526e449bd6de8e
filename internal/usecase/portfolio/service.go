package portfolio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"github.com/simaogato/portfolio-backend/internal/domain"
	"github.com/simaogato/portfolio-backend/internal/usecase/allocator"
	"github.com/simaogato/portfolio-backend/internal/usecase/calculator"
	"github.com/simaogato/portfolio-backend/internal/usecase/factory"
)

// PortfolioService handles asset ownership and portfolio-level metrics.
// Every operation is scoped to one owner; assets of other owners are reported as
// domain.ErrNotFound. Field constraints are enforced by the request boundary and
// re-validated here before anything is written. Read paths trust storage: assets
// loaded from the repository are not validated again before calculation.
type PortfolioService struct {
	AssetRepo  domain.AssetRepository
	Registry   *factory.Registry
	Calculator calculator.Calculator

	// Now is the evaluation clock used for purchase date checks
	Now func() time.Time
}

// NewPortfolioService creates a new PortfolioService instance
// A nil calculator defaults to SimpleROI.
func NewPortfolioService(assetRepo domain.AssetRepository, registry *factory.Registry, calc calculator.Calculator) *PortfolioService {
	if calc == nil {
		calc = calculator.SimpleROI{}
	}
	return &PortfolioService{
		AssetRepo:  assetRepo,
		Registry:   registry,
		Calculator: calc,
		Now:        time.Now,
	}
}

// WithCalculator returns a copy of the service ranking with another calculator
func (s *PortfolioService) WithCalculator(calc calculator.Calculator) *PortfolioService {
	clone := *s
	if calc != nil {
		clone.Calculator = calc
	}
	return &clone
}

// ListAssets returns all assets of an owner, most recently created first
func (s *PortfolioService) ListAssets(ctx context.Context, ownerID uuid.UUID) ([]*domain.Asset, error) {
	assets, err := s.AssetRepo.FindAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

// ListAssetsBySymbol returns every lot of one symbol held by an owner
func (s *PortfolioService) ListAssetsBySymbol(ctx context.Context, ownerID uuid.UUID, symbol string) ([]*domain.Asset, error) {
	assets, err := s.ListAssets(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	symbol = strings.TrimSpace(symbol)
	lots := make([]*domain.Asset, 0)
	for _, asset := range assets {
		if asset.Symbol == symbol {
			lots = append(lots, asset)
		}
	}
	return lots, nil
}

// GetAsset returns one asset of an owner
// Returns domain.ErrNotFound if the asset does not exist or belongs to someone else
func (s *PortfolioService) GetAsset(ctx context.Context, ownerID, assetID uuid.UUID) (*domain.Asset, error) {
	asset, err := s.AssetRepo.FindByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	if asset.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}

	return asset, nil
}

// CreateAsset builds an asset through the factory and stores it
// Logic:
//   - Construct with the creator registered for fields.Type (ErrInvalidType otherwise)
//   - Validate field constraints and reject future purchase dates
//   - Persist (ErrDuplicateAsset if the owner already holds that symbol on that date)
func (s *PortfolioService) CreateAsset(ctx context.Context, ownerID uuid.UUID, fields domain.AssetFields) (*domain.Asset, error) {
	asset, err := s.Registry.Create(fields.Type, ownerID, fields)
	if err != nil {
		return nil, err
	}

	if err := s.validate(asset); err != nil {
		return nil, err
	}

	created, err := s.AssetRepo.Create(ctx, asset)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAsset) {
			return nil, domain.ErrDuplicateAsset
		}
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	return created, nil
}

// UpdateAsset applies a partial update to an owner's asset
// Ownership is verified through GetAsset before anything is written.
func (s *PortfolioService) UpdateAsset(ctx context.Context, ownerID, assetID uuid.UUID, patch domain.AssetPatch) (*domain.Asset, error) {
	current, err := s.GetAsset(ctx, ownerID, assetID)
	if err != nil {
		return nil, err
	}

	if patch.Type != nil && !s.Registry.Has(*patch.Type) {
		return nil, fmt.Errorf("%w: %q is not registered", domain.ErrInvalidType, *patch.Type)
	}

	if patch.IsEmpty() {
		return current, nil
	}

	next := patch.ApplyTo(*current)
	if err := s.validate(&next); err != nil {
		return nil, err
	}

	updated, err := s.AssetRepo.Update(ctx, assetID, patch)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// deleted concurrently
			return nil, domain.ErrNotFound
		case errors.Is(err, domain.ErrDuplicateAsset):
			return nil, domain.ErrDuplicateAsset
		}
		return nil, fmt.Errorf("failed to update asset: %w", err)
	}

	return updated, nil
}

// DeleteAsset removes an owner's asset
// Ownership is verified through GetAsset first.
func (s *PortfolioService) DeleteAsset(ctx context.Context, ownerID, assetID uuid.UUID) (bool, error) {
	if _, err := s.GetAsset(ctx, ownerID, assetID); err != nil {
		return false, err
	}

	deleted, err := s.AssetRepo.Delete(ctx, assetID)
	if err != nil {
		return false, fmt.Errorf("failed to delete asset: %w", err)
	}

	return deleted, nil
}

// GetPortfolioSummary values an owner's portfolio
// Logic:
//   - Totals are exact decimal sums of current and purchase values
//   - Overall performance = total gain / total purchase value * 100 (0 when nothing was invested)
//   - Assets are grouped by type label with count, summed current value and a snapshot per asset
func (s *PortfolioService) GetPortfolioSummary(ctx context.Context, ownerID uuid.UUID) (*domain.PortfolioSummary, error) {
	assets, err := s.ListAssets(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	totalCurrent := decimal.Zero
	totalPurchase := decimal.Zero
	byType := make(map[string]*domain.TypeGroup)

	for _, asset := range assets {
		currentValue := asset.CurrentValue()
		totalCurrent = totalCurrent.Add(currentValue)
		totalPurchase = totalPurchase.Add(asset.PurchaseValue())

		label := s.Registry.Label(asset.Type)
		group, ok := byType[label]
		if !ok {
			group = &domain.TypeGroup{Value: decimal.Zero, Assets: make([]domain.AssetSnapshot, 0)}
			byType[label] = group
		}
		group.Count++
		group.Value = group.Value.Add(currentValue)
		group.Assets = append(group.Assets, domain.AssetSnapshot{
			ID:           asset.ID,
			Symbol:       asset.Symbol,
			Name:         asset.Name,
			Quantity:     asset.Quantity,
			CurrentPrice: asset.CurrentPrice,
			CurrentValue: currentValue,
		})
	}

	totalGainLoss := totalCurrent.Sub(totalPurchase)

	return &domain.PortfolioSummary{
		TotalCurrentValue:            totalCurrent,
		TotalPurchaseValue:           totalPurchase,
		TotalGainLoss:                totalGainLoss,
		OverallPerformancePercentage: domain.RoundPercent(domain.Percentage(totalGainLoss, totalPurchase)),
		AssetCount:                   len(assets),
		ByType:                       byType,
	}, nil
}

// GetPortfolioPerformance ranks an owner's assets with the service calculator
// Logic:
//   - Empty portfolio: zero counts, no best/worst performer
//   - Sort by performance, best first; ties keep the repository order (stable sort)
//   - Average = arithmetic mean of all performances, rounded to 2 decimals
//   - Best = first entry, worst = last entry (the same entry for a single asset)
func (s *PortfolioService) GetPortfolioPerformance(ctx context.Context, ownerID uuid.UUID) (*domain.PortfolioPerformance, error) {
	assets, err := s.ListAssets(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if len(assets) == 0 {
		return &domain.PortfolioPerformance{
			TotalAssets:        0,
			AveragePerformance: 0.0,
			BestPerformer:      nil,
			WorstPerformer:     nil,
			Assets:             []domain.PerformanceEntry{},
		}, nil
	}

	entries := make([]domain.PerformanceEntry, 0, len(assets))
	for _, asset := range assets {
		performance, err := s.Calculator.Calculate(asset)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate %s performance: %w", s.Calculator.Name(), err)
		}
		entries = append(entries, domain.PerformanceEntry{
			Symbol:      asset.Symbol,
			Name:        asset.Name,
			Performance: performance,
			GainLoss:    asset.GainLoss(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Performance > entries[j].Performance
	})

	values := make(stats.Float64Data, len(entries))
	for i, entry := range entries {
		values[i] = entry.Performance
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return nil, fmt.Errorf("failed to average performances: %w", err)
	}
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return nil, fmt.Errorf("%w: average %s performance is not a finite number", domain.ErrValidation, s.Calculator.Name())
	}

	best := entries[0]
	worst := entries[len(entries)-1]

	return &domain.PortfolioPerformance{
		TotalAssets:        len(entries),
		AveragePerformance: domain.RoundPercent(mean),
		BestPerformer:      &best,
		WorstPerformer:     &worst,
		Assets:             entries,
	}, nil
}

// GetAllocation splits an owner's current value by asset type
// An empty portfolio yields a zero total and no slices.
func (s *PortfolioService) GetAllocation(ctx context.Context, ownerID uuid.UUID) (*domain.PortfolioAllocation, error) {
	values, err := s.AssetRepo.SumByType(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum assets by type: %w", err)
	}

	total := decimal.Zero
	for _, value := range values {
		total = total.Add(value)
	}

	if len(values) == 0 || total.IsZero() {
		return &domain.PortfolioAllocation{
			TotalValue: total,
			Slices:     []domain.AllocationSlice{},
		}, nil
	}

	slices, err := allocator.CalculateWeights(values, s.Registry.Label)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate allocation: %w", err)
	}

	return &domain.PortfolioAllocation{
		TotalValue: total,
		Slices:     slices,
	}, nil
}

func (s *PortfolioService) validate(asset *domain.Asset) error {
	if err := asset.Validate(); err != nil {
		return err
	}
	return asset.CheckPurchaseDate(s.now())
}

func (s *PortfolioService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
