package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/taskboard_app/internal/apperrors"
)

// withWriteRetry runs fn until it succeeds, fails with a non-conflict error, or the
// attempt budget is spent. Only apperrors.ErrWriteConflict is retried.
func (s *BaseService) withWriteRetry(ctx context.Context, op string, fn func() error) error {
	attempts := s.WriteRetries
	if attempts <= 0 {
		attempts = defaultWriteRetries
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil || !errors.Is(err, apperrors.ErrWriteConflict) {
			return err
		}
		s.LogDebug(ctx, "Write conflict, retrying",
			slog.String("operation", op),
			slog.Int("attempt", attempt))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}

	s.LogError(ctx, err, "Write conflict persisted after retries",
		slog.String("operation", op),
		slog.Int("attempts", attempts))
	return apperrors.NewAppError(500, fmt.Sprintf("failed to %s", op), err)
}
