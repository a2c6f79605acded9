package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kassan/internal/core"
)

// translate maps driver-level failures onto the shared error taxonomy.
// Missing rows become core.ErrNotFound; cancellations and connection-level
// failures become core.ErrStoreUnavailable so callers can distinguish
// retryable infrastructure trouble from domain outcomes.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	case errors.Is(err, core.ErrNotFound):
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w: %v", op, core.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%s: %w: %v", op, core.ErrStoreUnavailable, err)
	}
}
