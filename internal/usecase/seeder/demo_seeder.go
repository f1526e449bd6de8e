package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/portfolio-backend/internal/domain"
)

// DemoOwnerID owns the demo portfolio
var DemoOwnerID = uuid.MustParse("00000000-0000-0000-0000-00000000d3e0")

// AssetCreator creates validated assets for an owner
type AssetCreator interface {
	CreateAsset(ctx context.Context, ownerID uuid.UUID, fields domain.AssetFields) (*domain.Asset, error)
}

// DemoAsset defines an asset of the demo portfolio
type DemoAsset struct {
	Type          domain.AssetType
	Symbol        string
	Name          string
	Quantity      string
	PurchasePrice string
	CurrentPrice  string
	PurchaseDate  string
}

// DemoAssets is the demo portfolio
var DemoAssets = []DemoAsset{
	{Type: domain.AssetTypeStock, Symbol: "AAPL", Name: "Apple Inc.", Quantity: "10", PurchasePrice: "150.00", CurrentPrice: "180.00", PurchaseDate: "2023-01-15"},
	{Type: domain.AssetTypeStock, Symbol: "MSFT", Name: "Microsoft Corp.", Quantity: "5", PurchasePrice: "300.00", CurrentPrice: "280.00", PurchaseDate: "2023-03-10"},
	{Type: domain.AssetTypeBond, Symbol: "UST10Y", Name: "US Treasury 10Y", Quantity: "20", PurchasePrice: "98.50", CurrentPrice: "99.10", PurchaseDate: "2023-06-01"},
	{Type: domain.AssetTypeCrypto, Symbol: "BTC", Name: "Bitcoin", Quantity: "0.25", PurchasePrice: "30000.00", CurrentPrice: "45000.00", PurchaseDate: "2023-09-20"},
}

// DemoSeeder handles seeding of the demo portfolio
type DemoSeeder struct {
	creator AssetCreator
}

// NewDemoSeeder creates a new DemoSeeder instance
func NewDemoSeeder(creator AssetCreator) *DemoSeeder {
	return &DemoSeeder{
		creator: creator,
	}
}

// Seed ensures every demo asset exists for DemoOwnerID.
// Assets already present are skipped. Returns the number of assets created.
func (s *DemoSeeder) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, demo := range DemoAssets {
		fields, err := demo.Fields()
		if err != nil {
			return created, err
		}

		if _, err := s.creator.CreateAsset(ctx, DemoOwnerID, fields); err != nil {
			if errors.Is(err, domain.ErrDuplicateAsset) {
				continue
			}
			return created, fmt.Errorf("failed to seed %s: %w", demo.Symbol, err)
		}
		created++
	}

	return created, nil
}

// Fields parses the demo asset into creation fields
func (d DemoAsset) Fields() (domain.AssetFields, error) {
	quantity, err := decimal.NewFromString(d.Quantity)
	if err != nil {
		return domain.AssetFields{}, fmt.Errorf("invalid quantity for %s: %w", d.Symbol, err)
	}
	purchasePrice, err := decimal.NewFromString(d.PurchasePrice)
	if err != nil {
		return domain.AssetFields{}, fmt.Errorf("invalid purchase price for %s: %w", d.Symbol, err)
	}
	currentPrice, err := decimal.NewFromString(d.CurrentPrice)
	if err != nil {
		return domain.AssetFields{}, fmt.Errorf("invalid current price for %s: %w", d.Symbol, err)
	}
	purchaseDate, err := domain.ParseDate(d.PurchaseDate)
	if err != nil {
		return domain.AssetFields{}, fmt.Errorf("invalid purchase date for %s: %w", d.Symbol, err)
	}

	return domain.AssetFields{
		Type:          d.Type,
		Symbol:        d.Symbol,
		Name:          d.Name,
		Quantity:      quantity,
		PurchasePrice: purchasePrice,
		CurrentPrice:  currentPrice,
		PurchaseDate:  purchaseDate,
	}, nil
}
