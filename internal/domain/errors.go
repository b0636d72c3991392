package domain

import "errors"

// ErrInvalidInput marks physically meaningless parameters or bounds
// (negative mass, zero area, inverted speed bounds, ...).
// Callers test with errors.Is; wrapping adds the offending detail.
var ErrInvalidInput = errors.New("invalid input")
