package domain

import "errors"

var (
	ErrNetwork           = errors.New("backend request failed")
	ErrNotFound          = errors.New("not found")
	ErrAccountNotFound   = errors.New("account not found")
	ErrNoAccountSelected = errors.New("no account selected")
	ErrInvalidCurrency   = errors.New("invalid currency")
)
