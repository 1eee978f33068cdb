package order

import "storefront-be/internal/apperr"

// Client-facing failure messages are part of the API contract; keep the
// wording in one place.

func errProductNotFound() error {
	return apperr.NotFound("Product not found")
}

func errSizeNotFound(size string) error {
	return apperr.Validation("Size %s not found", size)
}

func errInsufficientStock(size string, available int) error {
	return apperr.Validation("Insufficient stock for size %s. Available: %d", size, available)
}
