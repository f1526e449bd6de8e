package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetType is the type tag of an asset (STOCK, BOND, CRYPTO, ...)
// The set is open: new tags are added by registering them with the asset factory.
type AssetType string

const (
	AssetTypeStock  AssetType = "STOCK"
	AssetTypeBond   AssetType = "BOND"
	AssetTypeCrypto AssetType = "CRYPTO"
)

// Column limits of the assets table
const (
	MaxSymbolLength = 10
	MaxNameLength   = 100
	MaxTypeLength   = 10

	QuantityPlaces = 8
	PricePlaces    = 2

	// MaxDigits bounds the total digits of quantity and prices
	MaxDigits = 18
)

// DateLayout is the wire and storage format of a purchase date
const DateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// Asset represents one lot of a security held by an owner
// A lot is identified by (OwnerID, Symbol, PurchaseDate).
type Asset struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Type          AssetType
	Symbol        string
	Name          string
	Quantity      decimal.Decimal // up to 8 fractional digits
	PurchasePrice decimal.Decimal // up to 2 fractional digits
	CurrentPrice  decimal.Decimal // up to 2 fractional digits
	PurchaseDate  time.Time       // calendar date, UTC midnight
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AssetFields carries the caller-supplied fields of a new asset
type AssetFields struct {
	Type          AssetType
	Symbol        string
	Name          string
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	CurrentPrice  decimal.Decimal
	PurchaseDate  time.Time
}

// AssetPatch is a partial update. Nil fields are left untouched.
type AssetPatch struct {
	Type          *AssetType
	Symbol        *string
	Name          *string
	Quantity      *decimal.Decimal
	PurchasePrice *decimal.Decimal
	CurrentPrice  *decimal.Decimal
	PurchaseDate  *time.Time
}

// IsEmpty reports whether the patch changes nothing
func (p AssetPatch) IsEmpty() bool {
	return p.Type == nil && p.Symbol == nil && p.Name == nil && p.Quantity == nil &&
		p.PurchasePrice == nil && p.CurrentPrice == nil && p.PurchaseDate == nil
}

// ApplyTo returns a copy of the asset with the patch applied
func (p AssetPatch) ApplyTo(a Asset) Asset {
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Symbol != nil {
		a.Symbol = strings.TrimSpace(*p.Symbol)
	}
	if p.Name != nil {
		a.Name = strings.TrimSpace(*p.Name)
	}
	if p.Quantity != nil {
		a.Quantity = *p.Quantity
	}
	if p.PurchasePrice != nil {
		a.PurchasePrice = *p.PurchasePrice
	}
	if p.CurrentPrice != nil {
		a.CurrentPrice = *p.CurrentPrice
	}
	if p.PurchaseDate != nil {
		a.PurchaseDate = NormalizeDate(*p.PurchaseDate)
	}
	return a
}

// NewAsset builds an unsaved asset owned by ownerID from the given fields
func NewAsset(ownerID uuid.UUID, fields AssetFields) *Asset {
	return &Asset{
		OwnerID:       ownerID,
		Type:          fields.Type,
		Symbol:        strings.TrimSpace(fields.Symbol),
		Name:          strings.TrimSpace(fields.Name),
		Quantity:      fields.Quantity,
		PurchasePrice: fields.PurchasePrice,
		CurrentPrice:  fields.CurrentPrice,
		PurchaseDate:  NormalizeDate(fields.PurchaseDate),
	}
}

// CurrentValue is quantity × current price
func (a *Asset) CurrentValue() decimal.Decimal {
	return a.Quantity.Mul(a.CurrentPrice)
}

// PurchaseValue is quantity × purchase price
func (a *Asset) PurchaseValue() decimal.Decimal {
	return a.Quantity.Mul(a.PurchasePrice)
}

// GainLoss is current value − purchase value
func (a *Asset) GainLoss() decimal.Decimal {
	return a.CurrentValue().Sub(a.PurchaseValue())
}

// PerformancePercentage returns the gain/loss relative to the purchase value, in percent.
// A zero purchase value yields 0.
func (a *Asset) PerformancePercentage() float64 {
	return Percentage(a.GainLoss(), a.PurchaseValue())
}

// Percentage returns part / whole × 100, or 0 when whole is zero
func Percentage(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0.0
	}
	return part.Div(whole).Mul(hundred).InexactFloat64()
}

// Validate ensures the asset adheres to domain rules
// Returns an error wrapping ErrValidation if validation fails
func (a *Asset) Validate() error {
	if a.Type == "" {
		return validationError("asset type is required")
	}
	if len(a.Type) > MaxTypeLength {
		return validationError("asset type must be at most %d characters", MaxTypeLength)
	}
	if a.Symbol == "" {
		return validationError("symbol is required")
	}
	if utf8.RuneCountInString(a.Symbol) > MaxSymbolLength {
		return validationError("symbol must be at most %d characters", MaxSymbolLength)
	}
	if a.Name == "" {
		return validationError("name is required")
	}
	if utf8.RuneCountInString(a.Name) > MaxNameLength {
		return validationError("name must be at most %d characters", MaxNameLength)
	}

	if a.Quantity.LessThanOrEqual(decimal.Zero) {
		return validationError("quantity must be positive")
	}
	if a.PurchasePrice.LessThanOrEqual(decimal.Zero) {
		return validationError("purchase price must be positive")
	}
	if a.CurrentPrice.LessThanOrEqual(decimal.Zero) {
		return validationError("current price must be positive")
	}

	if exceedsPlaces(a.Quantity, QuantityPlaces) {
		return validationError("quantity must have at most %d decimal places", QuantityPlaces)
	}
	if exceedsPlaces(a.PurchasePrice, PricePlaces) {
		return validationError("purchase price must have at most %d decimal places", PricePlaces)
	}
	if exceedsPlaces(a.CurrentPrice, PricePlaces) {
		return validationError("current price must have at most %d decimal places", PricePlaces)
	}

	if exceedsDigits(a.Quantity, QuantityPlaces) {
		return validationError("quantity must have at most %d digits", MaxDigits)
	}
	if exceedsDigits(a.PurchasePrice, PricePlaces) {
		return validationError("purchase price must have at most %d digits", MaxDigits)
	}
	if exceedsDigits(a.CurrentPrice, PricePlaces) {
		return validationError("current price must have at most %d digits", MaxDigits)
	}

	if a.PurchaseDate.IsZero() {
		return validationError("purchase date is required")
	}

	return nil
}

// CheckPurchaseDate rejects purchase dates after the calendar day of asOf
func (a *Asset) CheckPurchaseDate(asOf time.Time) error {
	if NormalizeDate(a.PurchaseDate).After(NormalizeDate(asOf)) {
		return ErrFuturePurchaseDate
	}
	return nil
}

// NormalizeDate drops the time of day, keeping the calendar date of t as UTC midnight
func NormalizeDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from -> to (negative when to is earlier)
func DaysBetween(from, to time.Time) int {
	return int(NormalizeDate(to).Sub(NormalizeDate(from)).Hours() / 24)
}

// ParseDate parses a YYYY-MM-DD purchase date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, validationError("purchase date must be formatted as YYYY-MM-DD")
	}
	return t, nil
}

func exceedsPlaces(d decimal.Decimal, places int32) bool {
	return !d.Equal(d.Truncate(places))
}

// exceedsDigits reports whether d needs more than MaxDigits digits with places fractional digits
func exceedsDigits(d decimal.Decimal, places int32) bool {
	return d.Abs().GreaterThanOrEqual(decimal.New(1, MaxDigits-places))
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
