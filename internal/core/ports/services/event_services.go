package services

import (
	"context"

	"github.com/SscSPs/taskboard_app/internal/core/domain"
)

// EventPublisher dispatches informational board events. Publishing is fire-and-forget:
// implementations must not block the caller on delivery and never report failures back.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BoardEvent)
}
