package allocator

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/simaogato/portfolio-backend/internal/domain"
)

const weightPlaces = 2

var hundred = decimal.NewFromInt(100)

// CalculateWeights splits a portfolio's current value per asset type into percentage weights
// Logic:
//  1. Sort slices by value (largest first, ties by type tag)
//  2. Weight = value / total * 100, rounded to 2 decimals
//  3. Assign the rounding residue to the largest slice
//
// Safety: Ensures the weights sum to exactly 100 (no hundredth lost)
func CalculateWeights(values map[domain.AssetType]decimal.Decimal, label func(domain.AssetType) string) ([]domain.AllocationSlice, error) {
	if len(values) == 0 {
		return nil, errors.New("values cannot be empty")
	}

	total := decimal.Zero
	for _, value := range values {
		if value.LessThan(decimal.Zero) {
			return nil, errors.New("type value cannot be negative")
		}
		total = total.Add(value)
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("total value must be positive")
	}

	slices := make([]domain.AllocationSlice, 0, len(values))
	for assetType, value := range values {
		slices = append(slices, domain.AllocationSlice{
			Type:  assetType,
			Label: label(assetType),
			Value: value,
		})
	}

	sort.Slice(slices, func(i, j int) bool {
		if !slices[i].Value.Equal(slices[j].Value) {
			return slices[i].Value.GreaterThan(slices[j].Value)
		}
		return slices[i].Type < slices[j].Type
	})

	allocated := decimal.Zero
	for i := range slices {
		slices[i].Weight = slices[i].Value.Div(total).Mul(hundred).Round(weightPlaces)
		allocated = allocated.Add(slices[i].Weight)
	}

	// Largest slice absorbs the rounding residue
	slices[0].Weight = slices[0].Weight.Add(hundred.Sub(allocated))

	totalWeight := decimal.Zero
	for _, s := range slices {
		totalWeight = totalWeight.Add(s.Weight)
	}
	if !totalWeight.Equal(hundred) {
		return nil, errors.New("total weight does not equal 100")
	}

	return slices, nil
}
