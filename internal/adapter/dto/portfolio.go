package dto

import (
	"github.com/simaogato/portfolio-backend/internal/domain"
)

// SummaryResponse is the presentation of a PortfolioSummary
type SummaryResponse struct {
	TotalCurrentValue            float64                      `json:"total_current_value"`
	TotalPurchaseValue           float64                      `json:"total_purchase_value"`
	TotalGainLoss                float64                      `json:"total_gain_loss"`
	OverallPerformancePercentage float64                      `json:"overall_performance_percentage"`
	AssetCount                   int                          `json:"asset_count"`
	ByType                       map[string]TypeGroupResponse `json:"by_type"`
}

type TypeGroupResponse struct {
	Count  int                     `json:"count"`
	Value  float64                 `json:"value"`
	Assets []AssetSnapshotResponse `json:"assets"`
}

type AssetSnapshotResponse struct {
	ID           string  `json:"id"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Quantity     string  `json:"quantity"`
	CurrentPrice string  `json:"current_price"`
	CurrentValue float64 `json:"current_value"`
}

// NewSummaryResponse presents a summary
func NewSummaryResponse(s *domain.PortfolioSummary) SummaryResponse {
	byType := make(map[string]TypeGroupResponse, len(s.ByType))
	for label, group := range s.ByType {
		snapshots := make([]AssetSnapshotResponse, 0, len(group.Assets))
		for _, a := range group.Assets {
			snapshots = append(snapshots, AssetSnapshotResponse{
				ID:           a.ID.String(),
				Symbol:       a.Symbol,
				Name:         a.Name,
				Quantity:     a.Quantity.StringFixed(domain.QuantityPlaces),
				CurrentPrice: a.CurrentPrice.StringFixed(domain.PricePlaces),
				CurrentValue: Money(a.CurrentValue),
			})
		}
		byType[label] = TypeGroupResponse{
			Count:  group.Count,
			Value:  Money(group.Value),
			Assets: snapshots,
		}
	}

	return SummaryResponse{
		TotalCurrentValue:            Money(s.TotalCurrentValue),
		TotalPurchaseValue:           Money(s.TotalPurchaseValue),
		TotalGainLoss:                Money(s.TotalGainLoss),
		OverallPerformancePercentage: s.OverallPerformancePercentage,
		AssetCount:                   s.AssetCount,
		ByType:                       byType,
	}
}

// PerformanceResponse is the presentation of a PortfolioPerformance.
// BestPerformer and WorstPerformer encode as null for an empty portfolio.
type PerformanceResponse struct {
	Metric             string                     `json:"metric"`
	TotalAssets        int                        `json:"total_assets"`
	AveragePerformance float64                    `json:"average_performance"`
	BestPerformer      *PerformanceEntryResponse  `json:"best_performer"`
	WorstPerformer     *PerformanceEntryResponse  `json:"worst_performer"`
	Assets             []PerformanceEntryResponse `json:"assets"`
}

type PerformanceEntryResponse struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Performance float64 `json:"performance"`
	GainLoss    float64 `json:"gain_loss"`
}

func newPerformanceEntry(e *domain.PerformanceEntry) *PerformanceEntryResponse {
	if e == nil {
		return nil
	}
	return &PerformanceEntryResponse{
		Symbol:      e.Symbol,
		Name:        e.Name,
		Performance: domain.RoundPercent(e.Performance),
		GainLoss:    Money(e.GainLoss),
	}
}

// NewPerformanceResponse presents a ranking computed with the named metric
func NewPerformanceResponse(metric string, p *domain.PortfolioPerformance) PerformanceResponse {
	entries := make([]PerformanceEntryResponse, 0, len(p.Assets))
	for i := range p.Assets {
		entries = append(entries, *newPerformanceEntry(&p.Assets[i]))
	}

	return PerformanceResponse{
		Metric:             metric,
		TotalAssets:        p.TotalAssets,
		AveragePerformance: p.AveragePerformance,
		BestPerformer:      newPerformanceEntry(p.BestPerformer),
		WorstPerformer:     newPerformanceEntry(p.WorstPerformer),
		Assets:             entries,
	}
}

// AllocationResponse is the presentation of a PortfolioAllocation
type AllocationResponse struct {
	TotalValue float64                   `json:"total_value"`
	Slices     []AllocationSliceResponse `json:"slices"`
}

type AllocationSliceResponse struct {
	AssetType string  `json:"asset_type"`
	Label     string  `json:"label"`
	Value     float64 `json:"value"`
	Weight    float64 `json:"weight"`
}

// NewAllocationResponse presents an allocation
func NewAllocationResponse(a *domain.PortfolioAllocation) AllocationResponse {
	slices := make([]AllocationSliceResponse, 0, len(a.Slices))
	for _, s := range a.Slices {
		slices = append(slices, AllocationSliceResponse{
			AssetType: string(s.Type),
			Label:     s.Label,
			Value:     Money(s.Value),
			Weight:    s.Weight.InexactFloat64(),
		})
	}
	return AllocationResponse{
		TotalValue: Money(a.TotalValue),
		Slices:     slices,
	}
}

// AssetTypeResponse describes one registered asset type
type AssetTypeResponse struct {
	AssetType string `json:"asset_type"`
	Label     string `json:"label"`
}
