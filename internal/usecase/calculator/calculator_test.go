package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/portfolio-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAsset(quantity, purchasePrice, currentPrice string, purchaseDate time.Time) *domain.Asset {
	return &domain.Asset{
		Type:          domain.AssetTypeStock,
		Symbol:        "AAPL",
		Name:          "Apple",
		Quantity:      decimal.RequireFromString(quantity),
		PurchasePrice: decimal.RequireFromString(purchasePrice),
		CurrentPrice:  decimal.RequireFromString(currentPrice),
		PurchaseDate:  purchaseDate,
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var jan15 = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func TestSimpleROI(t *testing.T) {
	tests := []struct {
		name  string
		asset *domain.Asset
		want  float64
	}{
		{"Positive ROI", newAsset("10", "100", "150", jan15), 50.0},
		{"Negative ROI", newAsset("10", "100", "80", jan15), -20.0},
		{"Flat ROI", newAsset("3", "42.50", "42.50", jan15), 0.0},
		{"Zero purchase value", newAsset("0", "0", "150", jan15), 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SimpleROI{}.Calculate(tt.asset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSimpleROI_AgreesWithAssetProperty(t *testing.T) {
	assets := []*domain.Asset{
		newAsset("10", "100", "150", jan15),
		newAsset("0.5", "40000", "50000", jan15),
		newAsset("7", "13.37", "11.01", jan15),
		newAsset("0.00000001", "0.01", "99.99", jan15),
	}

	for _, asset := range assets {
		got, err := SimpleROI{}.Calculate(asset)
		require.NoError(t, err)
		assert.Equal(t, asset.PerformancePercentage(), got)
	}
}

func TestAbsoluteGain(t *testing.T) {
	gain, err := AbsoluteGain{}.Calculate(newAsset("10", "100", "150", jan15))
	require.NoError(t, err)
	assert.Equal(t, 500.0, gain)

	loss, err := AbsoluteGain{}.Calculate(newAsset("10", "100", "80", jan15))
	require.NoError(t, err)
	assert.Equal(t, -200.0, loss)
}

func TestAnnualizedReturn_OneYear(t *testing.T) {
	// 365 days after purchase the annualized return equals the simple ROI
	calc := NewAnnualizedReturn(fixedClock(jan15.AddDate(0, 0, 365)))

	got, err := calc.Calculate(newAsset("10", "100", "150", jan15))
	require.NoError(t, err)
	assert.InDelta(t, 50.0, got, 1e-9)
}

func TestAnnualizedReturn_TwoYears(t *testing.T) {
	calc := NewAnnualizedReturn(fixedClock(jan15.AddDate(0, 0, 730)))

	got, err := calc.Calculate(newAsset("1", "100", "121", jan15))
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got, 1e-9)
}

func TestAnnualizedReturn_HalfYear(t *testing.T) {
	now := jan15.AddDate(0, 0, 73) // 0.2 years
	calc := NewAnnualizedReturn(fixedClock(now))

	got, err := calc.Calculate(newAsset("1", "100", "110", jan15))
	require.NoError(t, err)
	want := (math.Pow(1.1, 1/0.2) - 1) * 100
	assert.InDelta(t, want, got, 1e-9)
}

func TestAnnualizedReturn_SameDay(t *testing.T) {
	calc := NewAnnualizedReturn(fixedClock(jan15.Add(20 * time.Hour)))

	got, err := calc.Calculate(newAsset("10", "100", "150", jan15))
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestAnnualizedReturn_ZeroPurchaseValue(t *testing.T) {
	calc := NewAnnualizedReturn(fixedClock(jan15.AddDate(1, 0, 0)))

	got, err := calc.Calculate(newAsset("0", "0", "150", jan15))
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestAnnualizedReturn_FuturePurchaseDate(t *testing.T) {
	calc := NewAnnualizedReturn(fixedClock(jan15.AddDate(0, 0, -1)))

	_, err := calc.Calculate(newAsset("10", "100", "150", jan15))
	assert.ErrorIs(t, err, domain.ErrFuturePurchaseDate)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestByName(t *testing.T) {
	tests := []struct {
		name     string
		wantName string
		wantErr  bool
	}{
		{"", NameSimpleROI, false},
		{"roi", NameSimpleROI, false},
		{"gain", NameAbsoluteGain, false},
		{"annualized", NameAnnualizedReturn, false},
		{"ROI", "", true},
		{"sharpe", "", true},
	}

	for _, tt := range tests {
		t.Run("metric="+tt.name, func(t *testing.T) {
			calc, err := ByName(tt.name, nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, calc.Name())
		})
	}
}
