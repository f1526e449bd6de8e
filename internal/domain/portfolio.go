package domain

import (
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PortfolioSummary is the computed valuation of an owner's portfolio. It is never persisted.
type PortfolioSummary struct {
	TotalCurrentValue            decimal.Decimal
	TotalPurchaseValue           decimal.Decimal
	TotalGainLoss                decimal.Decimal
	OverallPerformancePercentage float64 // rounded to 2 decimals
	AssetCount                   int
	ByType                       map[string]*TypeGroup // keyed by type label
}

// TypeGroup aggregates the assets sharing one type label
type TypeGroup struct {
	Count  int
	Value  decimal.Decimal
	Assets []AssetSnapshot
}

// AssetSnapshot is the drill-down view of one asset inside a TypeGroup
type AssetSnapshot struct {
	ID           uuid.UUID
	Symbol       string
	Name         string
	Quantity     decimal.Decimal
	CurrentPrice decimal.Decimal
	CurrentValue decimal.Decimal
}

// PerformanceEntry is the per-asset result of a ranking
type PerformanceEntry struct {
	Symbol      string
	Name        string
	Performance float64
	GainLoss    decimal.Decimal
}

// PortfolioPerformance ranks an owner's assets by performance, best first
type PortfolioPerformance struct {
	TotalAssets        int
	AveragePerformance float64 // rounded to 2 decimals
	BestPerformer      *PerformanceEntry
	WorstPerformer     *PerformanceEntry
	Assets             []PerformanceEntry
}

// AllocationSlice is the share of one asset type in the portfolio's current value
type AllocationSlice struct {
	Type   AssetType
	Label  string
	Value  decimal.Decimal
	Weight decimal.Decimal // percent, 2 decimals
}

// PortfolioAllocation splits the portfolio's current value by asset type
type PortfolioAllocation struct {
	TotalValue decimal.Decimal
	Slices     []AllocationSlice
}

// RoundPercent rounds a percentage to 2 decimals (half away from zero)
// NaN and infinities are returned unchanged.
func RoundPercent(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
