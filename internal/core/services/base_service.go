package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/taskboard_app/internal/core/domain"
	portssvc "github.com/SscSPs/taskboard_app/internal/core/ports/services"
	"github.com/SscSPs/taskboard_app/internal/middleware"
)

const defaultWriteRetries = 3

// BaseService provides common functionality for all services
type BaseService struct {
	Publisher    portssvc.EventPublisher
	Clock        func() time.Time
	WriteRetries int
}

// ServiceOption is a functional option applied to the BaseService of any service
type ServiceOption func(*BaseService)

// WithEventPublisher sets the fire-and-forget event publisher
func WithEventPublisher(p portssvc.EventPublisher) ServiceOption {
	return func(s *BaseService) {
		s.Publisher = p
	}
}

// WithClock overrides time.Now, mostly for tests
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.Clock = clock
	}
}

// WithWriteRetries sets how many times a conflicting board write is attempted
func WithWriteRetries(n int) ServiceOption {
	return func(s *BaseService) {
		if n > 0 {
			s.WriteRetries = n
		}
	}
}

func newBaseService(opts []ServiceOption) BaseService {
	base := BaseService{WriteRetries: defaultWriteRetries}
	for _, opt := range opts {
		opt(&base)
	}
	return base
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a rejected request (authorization, validation) without the error noise
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

func (s *BaseService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// publish hands the event to the publisher, if any. Publishing happens after the
// write committed and its outcome never affects the caller.
func (s *BaseService) publish(ctx context.Context, event domain.BoardEvent) {
	if s.Publisher == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now()
	}
	s.Publisher.Publish(ctx, event)
}
