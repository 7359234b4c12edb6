package pgsql

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/taskboard_app/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantIs     error
		wantStatus int
	}{
		{
			name:       "serialization failure is a write conflict",
			err:        &pgconn.PgError{Code: pgSerializationFailure},
			wantIs:     apperrors.ErrWriteConflict,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "deadlock is a write conflict",
			err:        fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgDeadlockDetected}),
			wantIs:     apperrors.ErrWriteConflict,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "duplicate group position is a write conflict",
			err:        &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "uq_task_groups_project_position"},
			wantIs:     apperrors.ErrWriteConflict,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "other unique violations are duplicates",
			err:        &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "workspaces_pkey"},
			wantIs:     apperrors.ErrDuplicate,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "foreign key violation is a validation failure",
			err:        &pgconn.PgError{Code: pgForeignKeyViolation},
			wantIs:     apperrors.ErrValidation,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapWriteError(tt.err, "failed to write")
			assert.ErrorIs(t, got, tt.wantIs)
			assert.Equal(t, tt.wantStatus, apperrors.HTTPStatus(got))
		})
	}
}

func TestMapWriteError_UnknownErrorIsInternal(t *testing.T) {
	cause := errors.New("connection reset")
	got := mapWriteError(cause, "failed to write")

	assert.ErrorIs(t, got, cause)
	assert.NotErrorIs(t, got, apperrors.ErrWriteConflict)
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(got))
}
