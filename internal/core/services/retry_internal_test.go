package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/taskboard_app/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestWithWriteRetry(t *testing.T) {
	conflict := apperrors.NewWriteConflictError("serialization failure", errors.New("40001"))

	t.Run("retries conflicts until success", func(t *testing.T) {
		base := newBaseService([]ServiceOption{WithWriteRetries(3)})
		calls := 0
		err := base.withWriteRetry(context.Background(), "op", func() error {
			calls++
			if calls < 3 {
				return conflict
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after the budget", func(t *testing.T) {
		base := newBaseService([]ServiceOption{WithWriteRetries(2)})
		calls := 0
		err := base.withWriteRetry(context.Background(), "op", func() error {
			calls++
			return conflict
		})
		assert.ErrorIs(t, err, apperrors.ErrWriteConflict)
		assert.Equal(t, 2, calls)
		assert.Equal(t, 500, apperrors.HTTPStatus(err))
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		base := newBaseService(nil)
		calls := 0
		err := base.withWriteRetry(context.Background(), "op", func() error {
			calls++
			return apperrors.ErrGroupNotEmpty
		})
		assert.ErrorIs(t, err, apperrors.ErrGroupNotEmpty)
		assert.Equal(t, 1, calls)
	})
}
