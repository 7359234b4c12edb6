package domain

import "time"

// EventType names an informational board event.
type EventType string

const (
	EventTaskAssigned       EventType = "task_assigned"
	EventTaskMoved          EventType = "task_moved"
	EventTaskCompleted      EventType = "task_completed"
	EventTaskReopened       EventType = "task_reopened"
	EventTasksReordered     EventType = "tasks_reordered"
	EventGroupCreated       EventType = "group_created"
	EventGroupRenamed       EventType = "group_renamed"
	EventGroupDeleted       EventType = "group_deleted"
	EventGroupsReordered    EventType = "groups_reordered"
	EventGroupArchived      EventType = "group_archived"
	EventGroupRestored      EventType = "group_restored"
	EventProjectCreated     EventType = "project_created"
	EventSystemGroupsSeeded EventType = "system_groups_seeded"
)

// BoardEvent is published after a successful assignment change or group/status transition.
type BoardEvent struct {
	Type        EventType
	WorkspaceID string
	ProjectID   string
	ActorUserID string
	SubjectID   string // task or group id
	Properties  map[string]any
	OccurredAt  time.Time
}
