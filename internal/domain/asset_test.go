package domain

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAsset() Asset {
	return Asset{
		ID:            uuid.New(),
		OwnerID:       uuid.New(),
		Type:          AssetTypeStock,
		Symbol:        "AAPL",
		Name:          "Apple",
		Quantity:      decimal.NewFromInt(10),
		PurchasePrice: decimal.NewFromInt(100),
		CurrentPrice:  decimal.NewFromInt(150),
		PurchaseDate:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestAsset_DerivedValues(t *testing.T) {
	asset := validAsset()

	assert.True(t, asset.CurrentValue().Equal(decimal.NewFromInt(1500)))
	assert.True(t, asset.PurchaseValue().Equal(decimal.NewFromInt(1000)))
	assert.True(t, asset.GainLoss().Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 50.0, asset.PerformancePercentage())
}

func TestAsset_PerformancePercentage_Loss(t *testing.T) {
	asset := validAsset()
	asset.CurrentPrice = decimal.NewFromInt(80)

	assert.True(t, asset.GainLoss().Equal(decimal.NewFromInt(-200)))
	assert.Equal(t, -20.0, asset.PerformancePercentage())
}

func TestAsset_PerformancePercentage_ZeroPurchaseValue(t *testing.T) {
	asset := validAsset()
	asset.Quantity = decimal.Zero
	asset.PurchasePrice = decimal.Zero

	assert.Equal(t, 0.0, asset.PerformancePercentage())
}

func TestAsset_PerformancePercentage_MatchesGainOverPurchase(t *testing.T) {
	asset := validAsset()
	asset.Quantity = decimal.RequireFromString("0.5")
	asset.PurchasePrice = decimal.RequireFromString("40000")
	asset.CurrentPrice = decimal.RequireFromString("50000")

	want := asset.GainLoss().Div(asset.PurchaseValue()).Mul(decimal.NewFromInt(100)).InexactFloat64()
	assert.Equal(t, want, asset.PerformancePercentage())
	assert.Equal(t, 25.0, asset.PerformancePercentage())
}

func TestAsset_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *Asset)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "Valid asset should pass",
			mutate:  func(a *Asset) {},
			wantErr: false,
		},
		{
			name:    "Fractional crypto quantity with 8 places should pass",
			mutate:  func(a *Asset) { a.Quantity = decimal.RequireFromString("0.12345678") },
			wantErr: false,
		},
		{
			name:    "Missing type should fail",
			mutate:  func(a *Asset) { a.Type = "" },
			wantErr: true,
			errMsg:  "asset type is required",
		},
		{
			name:    "Missing symbol should fail",
			mutate:  func(a *Asset) { a.Symbol = "" },
			wantErr: true,
			errMsg:  "symbol is required",
		},
		{
			name:    "Long symbol should fail",
			mutate:  func(a *Asset) { a.Symbol = "ABCDEFGHIJK" },
			wantErr: true,
			errMsg:  "symbol must be at most 10 characters",
		},
		{
			name:    "Missing name should fail",
			mutate:  func(a *Asset) { a.Name = "" },
			wantErr: true,
			errMsg:  "name is required",
		},
		{
			name:    "Zero quantity should fail",
			mutate:  func(a *Asset) { a.Quantity = decimal.Zero },
			wantErr: true,
			errMsg:  "quantity must be positive",
		},
		{
			name:    "Negative purchase price should fail",
			mutate:  func(a *Asset) { a.PurchasePrice = decimal.NewFromInt(-1) },
			wantErr: true,
			errMsg:  "purchase price must be positive",
		},
		{
			name:    "Zero current price should fail",
			mutate:  func(a *Asset) { a.CurrentPrice = decimal.Zero },
			wantErr: true,
			errMsg:  "current price must be positive",
		},
		{
			name:    "Quantity with 9 places should fail",
			mutate:  func(a *Asset) { a.Quantity = decimal.RequireFromString("0.123456789") },
			wantErr: true,
			errMsg:  "quantity must have at most 8 decimal places",
		},
		{
			name:    "Price with 3 places should fail",
			mutate:  func(a *Asset) { a.CurrentPrice = decimal.RequireFromString("1.005") },
			wantErr: true,
			errMsg:  "current price must have at most 2 decimal places",
		},
		{
			name:    "Largest 18-digit purchase price should pass",
			mutate:  func(a *Asset) { a.PurchasePrice = decimal.RequireFromString("9999999999999999.99") },
			wantErr: false,
		},
		{
			name:    "Purchase price above 18 digits should fail",
			mutate:  func(a *Asset) { a.PurchasePrice = decimal.RequireFromString("10000000000000000.00") },
			wantErr: true,
			errMsg:  "purchase price must have at most 18 digits",
		},
		{
			name:    "Current price above 18 digits should fail",
			mutate:  func(a *Asset) { a.CurrentPrice = decimal.RequireFromString("12345678901234567") },
			wantErr: true,
			errMsg:  "current price must have at most 18 digits",
		},
		{
			name:    "Quantity with 11 integer digits should fail",
			mutate:  func(a *Asset) { a.Quantity = decimal.RequireFromString("12345678901") },
			wantErr: true,
			errMsg:  "quantity must have at most 18 digits",
		},
		{
			name:    "Quantity with 10 integer and 8 fractional digits should pass",
			mutate:  func(a *Asset) { a.Quantity = decimal.RequireFromString("1234567890.12345678") },
			wantErr: false,
		},
		{
			name:    "Missing purchase date should fail",
			mutate:  func(a *Asset) { a.PurchaseDate = time.Time{} },
			wantErr: true,
			errMsg:  "purchase date is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asset := validAsset()
			tt.mutate(&asset)

			err := asset.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAsset_CheckPurchaseDate(t *testing.T) {
	asset := validAsset()
	sameDayLater := time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC)

	assert.NoError(t, asset.CheckPurchaseDate(sameDayLater))
	assert.NoError(t, asset.CheckPurchaseDate(sameDayLater.AddDate(1, 0, 0)))

	err := asset.CheckPurchaseDate(time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrFuturePurchaseDate)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAssetPatch_ApplyTo(t *testing.T) {
	asset := validAsset()
	price := decimal.NewFromInt(200)
	name := "  Apple Inc.  "
	date := time.Date(2024, 2, 1, 15, 30, 0, 0, time.UTC)

	patched := AssetPatch{CurrentPrice: &price, Name: &name, PurchaseDate: &date}.ApplyTo(asset)

	assert.True(t, patched.CurrentPrice.Equal(price))
	assert.Equal(t, "Apple Inc.", patched.Name)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), patched.PurchaseDate)
	assert.Equal(t, "AAPL", patched.Symbol)
	// original is untouched
	assert.True(t, asset.CurrentPrice.Equal(decimal.NewFromInt(150)))
	assert.False(t, AssetPatch{CurrentPrice: &price}.IsEmpty())
	assert.True(t, AssetPatch{}.IsEmpty())
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2023, 1, 15, 18, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 15, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 365, DaysBetween(from, to))
	assert.Equal(t, -365, DaysBetween(to, from))
	assert.Equal(t, 0, DaysBetween(from, from.Add(3*time.Hour)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("15/01/2024")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRoundPercent(t *testing.T) {
	assert.Equal(t, 33.33, RoundPercent(100.0/3.0))
	assert.Equal(t, -12.35, RoundPercent(-12.346))
	assert.Equal(t, 10.0, RoundPercent(10))
	assert.Equal(t, 2.68, RoundPercent(2.675))
}

func TestRoundPercent_NonFinitePassesThrough(t *testing.T) {
	assert.True(t, math.IsInf(RoundPercent(math.Inf(1)), 1))
	assert.True(t, math.IsInf(RoundPercent(math.Inf(-1)), -1))
	assert.True(t, math.IsNaN(RoundPercent(math.NaN())))
}
