package model

import "errors"

var (
	// ErrDataUnavailable means a fetch failed or returned nothing.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrInsufficientHistory means the series is shorter than an indicator window.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrInvalidSymbol means the symbol has no mapping and no market returned data for it.
	ErrInvalidSymbol = errors.New("invalid symbol")
)
