package record

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrInvalidKind     = errors.New("invalid kind")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
)
