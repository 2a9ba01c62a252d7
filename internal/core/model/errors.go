package model

import "errors"

// ErrInvalidValue marks a malformed enum-like value (faction, standing,
// disposition, history type) at any boundary. Callers reject these rather
// than coercing to a default.
var ErrInvalidValue = errors.New("invalid value")
