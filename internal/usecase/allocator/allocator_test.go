package allocator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/simaogato/portfolio-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagLabel(t domain.AssetType) string { return string(t) }

func sumWeights(slices []domain.AllocationSlice) decimal.Decimal {
	total := decimal.Zero
	for _, s := range slices {
		total = total.Add(s.Weight)
	}
	return total
}

func TestCalculateWeights_SimpleSplit(t *testing.T) {
	values := map[domain.AssetType]decimal.Decimal{
		domain.AssetTypeStock:  decimal.NewFromInt(2600),
		domain.AssetTypeCrypto: decimal.NewFromInt(25000),
		domain.AssetTypeBond:   decimal.NewFromInt(510),
	}

	slices, err := CalculateWeights(values, tagLabel)
	require.NoError(t, err)
	require.Len(t, slices, 3)

	// Largest first
	assert.Equal(t, domain.AssetTypeCrypto, slices[0].Type)
	assert.Equal(t, domain.AssetTypeStock, slices[1].Type)
	assert.Equal(t, domain.AssetTypeBond, slices[2].Type)

	assert.True(t, sumWeights(slices).Equal(decimal.NewFromInt(100)))
}

func TestCalculateWeights_ResidueGoesToLargestSlice(t *testing.T) {
	// Three equal thirds round to 33.33 each, leaving 0.01
	values := map[domain.AssetType]decimal.Decimal{
		domain.AssetTypeStock:  decimal.NewFromInt(100),
		domain.AssetTypeBond:   decimal.NewFromInt(100),
		domain.AssetTypeCrypto: decimal.NewFromInt(100),
	}

	slices, err := CalculateWeights(values, tagLabel)
	require.NoError(t, err)

	// Ties are ordered by tag, so BOND is "largest"
	assert.Equal(t, domain.AssetTypeBond, slices[0].Type)
	assert.Equal(t, "33.34", slices[0].Weight.StringFixed(2))
	assert.Equal(t, "33.33", slices[1].Weight.StringFixed(2))
	assert.Equal(t, "33.33", slices[2].Weight.StringFixed(2))
	assert.True(t, sumWeights(slices).Equal(decimal.NewFromInt(100)))
}

func TestCalculateWeights_SingleType(t *testing.T) {
	values := map[domain.AssetType]decimal.Decimal{
		domain.AssetTypeStock: decimal.RequireFromString("1234.56"),
	}

	slices, err := CalculateWeights(values, func(domain.AssetType) string { return "Stock" })
	require.NoError(t, err)
	require.Len(t, slices, 1)
	assert.Equal(t, "Stock", slices[0].Label)
	assert.True(t, slices[0].Weight.Equal(decimal.NewFromInt(100)))
}

func TestCalculateWeights_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values map[domain.AssetType]decimal.Decimal
		errMsg string
	}{
		{
			name:   "Empty values",
			values: map[domain.AssetType]decimal.Decimal{},
			errMsg: "values cannot be empty",
		},
		{
			name: "Zero total",
			values: map[domain.AssetType]decimal.Decimal{
				domain.AssetTypeStock: decimal.Zero,
			},
			errMsg: "total value must be positive",
		},
		{
			name: "Negative value",
			values: map[domain.AssetType]decimal.Decimal{
				domain.AssetTypeStock: decimal.NewFromInt(10),
				domain.AssetTypeBond:  decimal.NewFromInt(-1),
			},
			errMsg: "type value cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateWeights(tt.values, tagLabel)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
