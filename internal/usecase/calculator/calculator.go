package calculator

import (
	"fmt"
	"math"
	"time"

	"github.com/simaogato/portfolio-backend/internal/domain"
)

// Names accepted by ByName
const (
	NameSimpleROI        = "roi"
	NameAbsoluteGain     = "gain"
	NameAnnualizedReturn = "annualized"
)

const daysPerYear = 365.0

// Calculator computes one performance metric for one asset.
// Implementations are pure: the result depends only on the asset's fields
// (and, for time-based metrics, on the injected clock).
type Calculator interface {
	Name() string
	Calculate(asset *domain.Asset) (float64, error)
}

// SimpleROI returns ((current value - purchase value) / purchase value) * 100.
// A zero purchase value yields 0.
type SimpleROI struct{}

func (SimpleROI) Name() string { return NameSimpleROI }

func (SimpleROI) Calculate(asset *domain.Asset) (float64, error) {
	return domain.Percentage(asset.GainLoss(), asset.PurchaseValue()), nil
}

// AbsoluteGain returns current value - purchase value
type AbsoluteGain struct{}

func (AbsoluteGain) Name() string { return NameAbsoluteGain }

func (AbsoluteGain) Calculate(asset *domain.Asset) (float64, error) {
	return asset.GainLoss().InexactFloat64(), nil
}

// AnnualizedReturn compounds the simple ROI over the holding period:
// ((1 + roi) ^ (365 / days) - 1) * 100, with days counted up to the evaluation date.
type AnnualizedReturn struct {
	now func() time.Time
}

// NewAnnualizedReturn creates an AnnualizedReturn evaluated at now().
// A nil clock uses time.Now.
func NewAnnualizedReturn(now func() time.Time) *AnnualizedReturn {
	if now == nil {
		now = time.Now
	}
	return &AnnualizedReturn{now: now}
}

func (c *AnnualizedReturn) Name() string { return NameAnnualizedReturn }

// Calculate returns 0 when the purchase value is zero or the asset was bought on the
// evaluation date. A purchase date after the evaluation date is rejected with
// domain.ErrFuturePurchaseDate.
func (c *AnnualizedReturn) Calculate(asset *domain.Asset) (float64, error) {
	purchaseValue := asset.PurchaseValue()
	if purchaseValue.IsZero() {
		return 0.0, nil
	}

	days := domain.DaysBetween(asset.PurchaseDate, c.now())
	if days < 0 {
		return 0.0, fmt.Errorf("annualized return for %s: %w", asset.Symbol, domain.ErrFuturePurchaseDate)
	}
	if days == 0 {
		return 0.0, nil
	}

	roi := asset.GainLoss().Div(purchaseValue).InexactFloat64()
	years := float64(days) / daysPerYear

	annualized := (math.Pow(1+roi, 1/years) - 1) * 100
	if math.IsNaN(annualized) || math.IsInf(annualized, 0) {
		return 0.0, fmt.Errorf("%w: annualized return for %s is not a finite number", domain.ErrValidation, asset.Symbol)
	}

	return annualized, nil
}

// ByName resolves a calculator from its name. An empty name selects SimpleROI.
func ByName(name string, now func() time.Time) (Calculator, error) {
	switch name {
	case "", NameSimpleROI:
		return SimpleROI{}, nil
	case NameAbsoluteGain:
		return AbsoluteGain{}, nil
	case NameAnnualizedReturn:
		return NewAnnualizedReturn(now), nil
	default:
		return nil, fmt.Errorf("%w: unknown performance metric %q", domain.ErrValidation, name)
	}
}
