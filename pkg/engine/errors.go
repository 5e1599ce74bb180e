package engine

import "errors"

// Validation errors. These are the only errors Add and Cancel return; they
// are raised before any book state is touched.
var (
	ErrEmptyUser    = errors.New("user must not be empty")
	ErrEmptySymbol  = errors.New("symbol must not be empty")
	ErrInvalidSide  = errors.New("side must be buy or sell")
	ErrInvalidPrice = errors.New("price must be positive")
	ErrInvalidQty   = errors.New("quantity must be positive")
)
