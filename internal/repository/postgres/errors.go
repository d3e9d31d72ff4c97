package postgres

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/consultora/consulting-tracker/pkg/errors"
)

// storageErr classifies a failed storage round trip. A query that hit the
// configured timeout surfaces as temporarily unavailable rather than as an
// internal error.
func storageErr(op string, err error) error {
	wrapped := fmt.Errorf("%s: %w", op, err)
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewAppError(wrapped, http.StatusServiceUnavailable, "Storage is temporarily unavailable", "service_unavailable", nil)
	}
	return apperrors.InternalServer(wrapped)
}
