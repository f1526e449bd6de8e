package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an asset does not exist or belongs to another owner.
	// Both cases are reported identically.
	ErrNotFound = errors.New("asset not found")

	// ErrValidation is returned when a field constraint is violated
	ErrValidation = errors.New("invalid asset")

	// ErrInvalidType is returned when an asset type tag was never registered
	ErrInvalidType = errors.New("invalid asset type")

	// ErrDuplicateAsset is returned when (owner, symbol, purchase date) already exists
	ErrDuplicateAsset = fmt.Errorf("%w: an asset with this symbol and purchase date already exists", ErrValidation)

	// ErrFuturePurchaseDate is returned when a purchase date lies after the evaluation date
	ErrFuturePurchaseDate = fmt.Errorf("%w: purchase date is in the future", ErrValidation)
)
