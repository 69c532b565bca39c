package pricing

import (
	"github.com/cockroachdb/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
	"github.com/light-bringer/mealprice-service/internal/pkg/validator"
)

// mapDomainErrorToGRPC converts domain errors to gRPC status codes.
func mapDomainErrorToGRPC(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, validator.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidOrder):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, domain.ErrMissingBasePrice):
		return status.Error(codes.FailedPrecondition, err.Error())

	case errors.Is(err, domain.ErrValidation):
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return status.Error(codes.FailedPrecondition, vErr.Error())
		}
		return status.Error(codes.FailedPrecondition, "invalid pricing data")

	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
