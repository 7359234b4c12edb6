// Package events holds EventPublisher implementations.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/taskboard_app/internal/core/domain"
	portssvc "github.com/SscSPs/taskboard_app/internal/core/ports/services"
	"github.com/SscSPs/taskboard_app/internal/middleware"
	"github.com/SscSPs/taskboard_app/internal/utils"
)

// analyticsClient is the subset of utils.PosthogClientWrapper the publisher needs.
type analyticsClient interface {
	IsInitialized() bool
	Enqueue(distinctId string, event string, properties map[string]any)
}

var _ analyticsClient = (*utils.PosthogClientWrapper)(nil)

// PosthogPublisher forwards board events to PostHog, keyed by the acting user.
// Events are always logged at debug level as well.
type PosthogPublisher struct {
	client analyticsClient
}

// NewPosthogPublisher builds a publisher on top of the shared PostHog client.
// An uninitialized client turns it into a logging-only publisher.
func NewPosthogPublisher(client analyticsClient) *PosthogPublisher {
	return &PosthogPublisher{client: client}
}

var _ portssvc.EventPublisher = (*PosthogPublisher)(nil)

func (p *PosthogPublisher) Publish(ctx context.Context, event domain.BoardEvent) {
	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Debug("Board event",
		slog.String("event", string(event.Type)),
		slog.String("project_id", event.ProjectID),
		slog.String("subject_id", event.SubjectID))

	if p.client == nil || !p.client.IsInitialized() {
		return
	}
	p.client.Enqueue(event.ActorUserID, "board_"+string(event.Type), eventProperties(event))
}

func eventProperties(event domain.BoardEvent) map[string]any {
	props := make(map[string]any, len(event.Properties)+5)
	for k, v := range event.Properties {
		props[k] = v
	}
	props["workspace_id"] = event.WorkspaceID
	props["project_id"] = event.ProjectID
	props["subject_id"] = event.SubjectID
	if !event.OccurredAt.IsZero() {
		props["occurred_at"] = event.OccurredAt.Format(time.RFC3339)
	}
	// PostHog groups analytics by workspace
	props["$groups"] = map[string]any{"workspace": event.WorkspaceID}
	return props
}

// Recorder keeps published events in memory. Tests use it to assert on publishing.
type Recorder struct {
	events []domain.BoardEvent
}

var _ portssvc.EventPublisher = (*Recorder)(nil)

func (r *Recorder) Publish(_ context.Context, event domain.BoardEvent) {
	r.events = append(r.events, event)
}

// Events returns the events published so far.
func (r *Recorder) Events() []domain.BoardEvent {
	return append([]domain.BoardEvent(nil), r.events...)
}

// Types returns the types of the events published so far, in order.
func (r *Recorder) Types() []domain.EventType {
	types := make([]domain.EventType, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}
