package domain

import "strings"

// GroupType distinguishes the fixed board columns from user-created ones.
type GroupType string

const (
	GroupTypeSystem GroupType = "system"
	GroupTypeCustom GroupType = "custom"
)

// Names of the three system groups every project has.
const (
	GroupNameToDo       = "To Do"
	GroupNameInProgress = "In Progress"
	GroupNameComplete   = "Complete"
)

// SystemGroupNames lists the system groups in their initial board order.
var SystemGroupNames = []string{GroupNameToDo, GroupNameInProgress, GroupNameComplete}

// TaskGroup is a board column. Position is 1-based and strictly ordered within a project;
// gaps may appear after deletes until the next reorder.
type TaskGroup struct {
	GroupID   string       `json:"groupID"`
	ProjectID string       `json:"projectID"`
	Name      string       `json:"name"`
	Type      GroupType    `json:"type"`
	Position  int          `json:"position"`
	State     ArchiveState `json:"-"`
	AuditFields
}

func (g TaskGroup) IsSystem() bool { return g.Type == GroupTypeSystem }

// IsCompletionGroup reports whether moving a task here completes it.
func (g TaskGroup) IsCompletionGroup() bool {
	return IsCompletionGroupName(g.Name)
}

// IsCompletionGroupName matches "Complete" case-insensitively.
func IsCompletionGroupName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), GroupNameComplete)
}
