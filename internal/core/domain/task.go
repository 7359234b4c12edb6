package domain

import "time"

// TaskPriority orders tasks by urgency.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task belongs to one project and at most one group (nil GroupID = no column yet).
// CompletedAt is set iff the task sits in the "Complete" group or CompletionOverride is set.
type Task struct {
	TaskID             string       `json:"taskID"`
	ProjectID          string       `json:"projectID"`
	GroupID            *string      `json:"groupID,omitempty"`
	Name               string       `json:"name"`
	Description        string       `json:"description"`
	AssignedToUserID   *string      `json:"assignedToUserID,omitempty"`
	CreatedByUserID    string       `json:"createdByUserID"`
	OrderColumn        int          `json:"orderColumn"`
	CompletedAt        *time.Time   `json:"completedAt,omitempty"`
	CompletionOverride bool         `json:"completionOverride"`
	HiddenFromClients  bool         `json:"hiddenFromClients"`
	Priority           TaskPriority `json:"priority"`
	DueOn              *time.Time   `json:"dueOn,omitempty"`
	State              ArchiveState `json:"-"`
	AuditFields
}

// IsUnassigned reports whether nobody owns the task.
func (t Task) IsUnassigned() bool {
	return t.AssignedToUserID == nil || *t.AssignedToUserID == ""
}

// IsAssignedTo reports whether userID owns the task.
func (t Task) IsAssignedTo(userID string) bool {
	return t.AssignedToUserID != nil && *t.AssignedToUserID == userID
}

// ApplyGroupCompletion updates CompletedAt for a task that now sits in group.
// An explicit override (non-nil) replaces the stored one. The override can only force
// completion: a task in the Complete group is completed whatever the override says.
func (t *Task) ApplyGroupCompletion(group TaskGroup, override *bool, now time.Time) {
	if override != nil {
		t.CompletionOverride = *override
	}
	if group.IsCompletionGroup() || t.CompletionOverride {
		if t.CompletedAt == nil {
			t.CompletedAt = &now
		}
		return
	}
	t.CompletedAt = nil
}
