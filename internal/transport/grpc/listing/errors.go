package listing

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
	"github.com/light-bringer/catalog-listing/internal/app/listing/params"
)

// mapDomainErrorToGRPC converts engine and parameter errors to gRPC status
// codes.
func mapDomainErrorToGRPC(err error) error {
	if err == nil {
		return nil
	}

	var fetchErr *domain.FetchError
	switch {
	case errors.Is(err, params.ErrInvalidParameter):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.As(err, &fetchErr) && errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s query %s timed out", fetchErr.Op, fetchErr.RequestID)

	case errors.As(err, &fetchErr):
		return status.Errorf(codes.Unavailable, "%s query %s failed", fetchErr.Op, fetchErr.RequestID)

	case errors.Is(err, domain.ErrCatalogUnavailable):
		return status.Error(codes.Unavailable, "catalog is unavailable")

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")

	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
