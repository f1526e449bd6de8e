// Package dto holds the JSON shapes shared by the REST and gRPC transports.
// Stored decimals (quantity, prices) are rendered as fixed-point strings; computed
// values are rendered as numbers rounded to 2 decimals.
package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/portfolio-backend/internal/domain"
)

// AssetRequest is the body of a create or update request.
// Decimal fields accept JSON numbers or strings.
type AssetRequest struct {
	AssetType     *string          `json:"asset_type"`
	Symbol        *string          `json:"symbol"`
	Name          *string          `json:"name"`
	Quantity      *decimal.Decimal `json:"quantity"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	CurrentPrice  *decimal.Decimal `json:"current_price"`
	PurchaseDate  *string          `json:"purchase_date"`
}

// DecodeAssetRequest reads one AssetRequest, rejecting unknown fields
func DecodeAssetRequest(r io.Reader) (*AssetRequest, error) {
	var req AssetRequest
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: malformed request body: %v", domain.ErrValidation, err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("%w: request body must hold a single object", domain.ErrValidation)
	}
	return &req, nil
}

// DecodeAssetRequestBytes is DecodeAssetRequest over a byte slice
func DecodeAssetRequestBytes(body []byte) (*AssetRequest, error) {
	return DecodeAssetRequest(bytes.NewReader(body))
}

// Fields converts a create (or full update) request; every field is required
func (r *AssetRequest) Fields() (domain.AssetFields, error) {
	missing := make([]string, 0)
	if r.AssetType == nil {
		missing = append(missing, "asset_type")
	}
	if r.Symbol == nil {
		missing = append(missing, "symbol")
	}
	if r.Name == nil {
		missing = append(missing, "name")
	}
	if r.Quantity == nil {
		missing = append(missing, "quantity")
	}
	if r.PurchasePrice == nil {
		missing = append(missing, "purchase_price")
	}
	if r.CurrentPrice == nil {
		missing = append(missing, "current_price")
	}
	if r.PurchaseDate == nil {
		missing = append(missing, "purchase_date")
	}
	if len(missing) > 0 {
		return domain.AssetFields{}, fmt.Errorf("%w: missing required fields: %s", domain.ErrValidation, strings.Join(missing, ", "))
	}

	date, err := domain.ParseDate(*r.PurchaseDate)
	if err != nil {
		return domain.AssetFields{}, err
	}

	return domain.AssetFields{
		Type:          domain.AssetType(strings.TrimSpace(*r.AssetType)),
		Symbol:        *r.Symbol,
		Name:          *r.Name,
		Quantity:      *r.Quantity,
		PurchasePrice: *r.PurchasePrice,
		CurrentPrice:  *r.CurrentPrice,
		PurchaseDate:  date,
	}, nil
}

// Patch converts a partial update request; absent fields are left untouched
func (r *AssetRequest) Patch() (domain.AssetPatch, error) {
	patch := domain.AssetPatch{
		Symbol:        r.Symbol,
		Name:          r.Name,
		Quantity:      r.Quantity,
		PurchasePrice: r.PurchasePrice,
		CurrentPrice:  r.CurrentPrice,
	}

	if r.AssetType != nil {
		assetType := domain.AssetType(strings.TrimSpace(*r.AssetType))
		patch.Type = &assetType
	}

	if r.PurchaseDate != nil {
		date, err := domain.ParseDate(*r.PurchaseDate)
		if err != nil {
			return domain.AssetPatch{}, err
		}
		patch.PurchaseDate = &date
	}

	return patch, nil
}

// AsPatch turns a full set of fields into a patch touching all of them
func AsPatch(fields domain.AssetFields) domain.AssetPatch {
	return domain.AssetPatch{
		Type:          &fields.Type,
		Symbol:        &fields.Symbol,
		Name:          &fields.Name,
		Quantity:      &fields.Quantity,
		PurchasePrice: &fields.PurchasePrice,
		CurrentPrice:  &fields.CurrentPrice,
		PurchaseDate:  &fields.PurchaseDate,
	}
}

// AssetResponse is the presentation of one asset
type AssetResponse struct {
	ID                    string  `json:"id"`
	AssetType             string  `json:"asset_type"`
	Symbol                string  `json:"symbol"`
	Name                  string  `json:"name"`
	Quantity              string  `json:"quantity"`
	PurchasePrice         string  `json:"purchase_price"`
	CurrentPrice          string  `json:"current_price"`
	PurchaseDate          string  `json:"purchase_date"`
	CurrentValue          float64 `json:"current_value"`
	PurchaseValue         float64 `json:"purchase_value"`
	GainLoss              float64 `json:"gain_loss"`
	PerformancePercentage float64 `json:"performance_percentage"`
	CreatedAt             string  `json:"created_at"`
	UpdatedAt             string  `json:"updated_at"`
}

// NewAssetResponse presents an asset
func NewAssetResponse(a *domain.Asset) AssetResponse {
	return AssetResponse{
		ID:                    a.ID.String(),
		AssetType:             string(a.Type),
		Symbol:                a.Symbol,
		Name:                  a.Name,
		Quantity:              a.Quantity.StringFixed(domain.QuantityPlaces),
		PurchasePrice:         a.PurchasePrice.StringFixed(domain.PricePlaces),
		CurrentPrice:          a.CurrentPrice.StringFixed(domain.PricePlaces),
		PurchaseDate:          a.PurchaseDate.Format(domain.DateLayout),
		CurrentValue:          Money(a.CurrentValue()),
		PurchaseValue:         Money(a.PurchaseValue()),
		GainLoss:              Money(a.GainLoss()),
		PerformancePercentage: domain.RoundPercent(a.PerformancePercentage()),
		CreatedAt:             a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:             a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// NewAssetListResponse presents a list of assets
func NewAssetListResponse(assets []*domain.Asset) []AssetResponse {
	list := make([]AssetResponse, 0, len(assets))
	for _, a := range assets {
		list = append(list, NewAssetResponse(a))
	}
	return list
}

// Money rounds an exact amount to cents for presentation
func Money(d decimal.Decimal) float64 {
	return d.Round(domain.PricePlaces).InexactFloat64()
}
