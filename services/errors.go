package services

import "errors"

// Sentinel errors surfaced by the quote and order services. Controllers map
// these to stable error codes; storage error text never reaches callers on
// these paths.
var (
	// ErrMaterialNotFound indicates an unknown material id
	ErrMaterialNotFound = errors.New("material not found")

	// ErrPrintConfigNotFound indicates an unknown print configuration id
	ErrPrintConfigNotFound = errors.New("print configuration not found")

	// ErrQuoteNotFound indicates an unknown quote id
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrQuoteExpired indicates the quote's validity window has passed
	ErrQuoteExpired = errors.New("quote has expired")

	// ErrQuoteAlreadyUsed indicates the quote was already converted into an
	// order. A quote may become exactly one order.
	ErrQuoteAlreadyUsed = errors.New("quote has already been used for an order")

	// ErrQuoteUnauthorized indicates the quote is claimed by a different user
	ErrQuoteUnauthorized = errors.New("unauthorized to accept this quote")

	// ErrOrderNotFound indicates an unknown order id, or an order belonging
	// to a different user
	ErrOrderNotFound = errors.New("order not found")
)
