package domain

import (
	"errors"
	"fmt"
)

// Domain errors as sentinel values
var (
	// Product errors
	ErrEmptyProductID       = errors.New("product id cannot be empty")
	ErrInvalidPrice         = errors.New("product price must be positive")
	ErrInvalidOriginalPrice = errors.New("product original price must not be below price")
	ErrInvalidRating        = errors.New("product rating must be between 0 and 5")
	ErrInvalidReviews       = errors.New("product review count cannot be negative")

	// Query errors
	ErrUnknownSortMode    = errors.New("unknown sort mode")
	ErrUnknownViewMode    = errors.New("unknown view mode")
	ErrInvalidPage        = errors.New("page must be a positive integer")
	ErrFacetsUnavailable  = errors.New("filter facets are unavailable")
	ErrCatalogUnavailable = errors.New("catalog is unavailable")
	ErrNoQueryToRetry     = errors.New("no failed query to retry")
)

// FetchError reports a failed remote query. Op names the query ("facets"
// or "products").
type FetchError struct {
	Op        string
	RequestID string
	Err       error
}

func (e *FetchError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s query %s failed: %v", e.Op, e.RequestID, e.Err)
	}
	return fmt.Sprintf("%s query failed: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err wraps a *FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
