package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller has no role, or a role that does not allow the operation.
var ErrForbidden = errors.New("forbidden")

// ErrSystemGroupImmutable is returned when renaming or deleting one of the fixed board columns.
var ErrSystemGroupImmutable = errors.New("system task group cannot be renamed or deleted")

// ErrGroupNotEmpty is returned when deleting a custom group that still holds active tasks.
var ErrGroupNotEmpty = errors.New("task group still contains active tasks")

// ErrWriteConflict marks a transient storage conflict (serialization failure, deadlock,
// duplicate ordering value). Services retry these a bounded number of times.
var ErrWriteConflict = errors.New("concurrent write conflict")

// AppError is an error carrying the HTTP status it should surface as.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrDuplicate}
}

func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message, Err: ErrForbidden}
}

func NewWriteConflictError(message string, err error) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: errors.Join(ErrWriteConflict, err)}
}

func NewInternalServerError(message string) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message}
}

// ValidationError reports which field failed and, for batch payloads, which ids were offending.
// It unwraps to ErrValidation.
type ValidationError struct {
	Field  string   `json:"field"`
	Reason string   `json:"reason"`
	IDs    []string `json:"ids,omitempty"`
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrValidation.Error())
	b.WriteString(": ")
	b.WriteString(e.Field)
	if e.Reason != "" {
		b.WriteString(" ")
		b.WriteString(e.Reason)
	}
	if len(e.IDs) > 0 {
		fmt.Fprintf(&b, " (ids: %s)", strings.Join(e.IDs, ", "))
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError. Offending ids are de-duplicated and sorted
// so the error text is stable.
func NewValidationError(field, reason string, ids ...string) *ValidationError {
	var uniq []string
	if len(ids) > 0 {
		seen := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			uniq = append(uniq, id)
		}
		sort.Strings(uniq)
	}
	return &ValidationError{Field: field, Reason: reason, IDs: uniq}
}

// HTTPStatus maps an error from the service layer to a response status.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrSystemGroupImmutable), errors.Is(err, ErrGroupNotEmpty),
		errors.Is(err, ErrDuplicate), errors.Is(err, ErrWriteConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
