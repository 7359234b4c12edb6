package dto

import (
	"time"

	"github.com/SscSPs/taskboard_app/internal/core/domain"
	portssvc "github.com/SscSPs/taskboard_app/internal/core/ports/services"
)

// CreateTaskRequest defines data for creating a task.
type CreateTaskRequest struct {
	Name              string  `json:"name" binding:"required,max=255"`
	Description       string  `json:"description"`
	GroupID           *string `json:"groupID"`
	AssignedToUserID  *string `json:"assignedToUserID"`
	Priority          string  `json:"priority" binding:"omitempty,priority"`
	DueOn             *string `json:"dueOn" binding:"omitempty,datetime=2006-01-02"`
	HiddenFromClients bool    `json:"hiddenFromClients"`
}

func (r CreateTaskRequest) ToInput() (portssvc.CreateTaskInput, error) {
	due, err := ParseDate(r.DueOn)
	if err != nil {
		return portssvc.CreateTaskInput{}, err
	}
	return portssvc.CreateTaskInput{
		Name:              r.Name,
		Description:       r.Description,
		GroupID:           r.GroupID,
		AssignedToUserID:  r.AssignedToUserID,
		Priority:          domain.TaskPriority(r.Priority),
		DueOn:             due,
		HiddenFromClients: r.HiddenFromClients,
	}, nil
}

// UpdateTaskRequest patches a task. Omitted fields are left unchanged.
type UpdateTaskRequest struct {
	Name              *string `json:"name" binding:"omitempty,max=255"`
	Description       *string `json:"description"`
	DueOn             *string `json:"dueOn" binding:"omitempty,datetime=2006-01-02"`
	ClearDueOn        bool    `json:"clearDueOn"`
	Priority          *string `json:"priority" binding:"omitempty,priority"`
	AssignedToUserID  *string `json:"assignedToUserID"`
	Unassign          bool    `json:"unassign"`
	HiddenFromClients *bool   `json:"hiddenFromClients"`
}

func (r UpdateTaskRequest) ToPatch() (portssvc.TaskPatch, error) {
	due, err := ParseDate(r.DueOn)
	if err != nil {
		return portssvc.TaskPatch{}, err
	}
	patch := portssvc.TaskPatch{
		Name:              r.Name,
		Description:       r.Description,
		DueOn:             due,
		ClearDueOn:        r.ClearDueOn,
		AssignedToUserID:  r.AssignedToUserID,
		Unassign:          r.Unassign,
		HiddenFromClients: r.HiddenFromClients,
	}
	if r.Priority != nil {
		p := domain.TaskPriority(*r.Priority)
		patch.Priority = &p
	}
	return patch, nil
}

// MoveTaskRequest moves a task to the end of another column.
type MoveTaskRequest struct {
	GroupID            string `json:"groupID" binding:"required"`
	CompletionOverride *bool  `json:"completionOverride"`
}

// ReorderTasksRequest lists task ids in their new board order.
type ReorderTasksRequest struct {
	TaskIDs []string `json:"taskIDs" binding:"required,min=1,dive,required"`
}

// TaskResponse defines data returned for a task.
type TaskResponse struct {
	TaskID             string              `json:"taskID"`
	ProjectID          string              `json:"projectID"`
	GroupID            *string             `json:"groupID,omitempty"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	AssignedToUserID   *string             `json:"assignedToUserID,omitempty"`
	CreatedByUserID    string              `json:"createdByUserID"`
	OrderColumn        int                 `json:"orderColumn"`
	CompletedAt        *time.Time          `json:"completedAt,omitempty"`
	CompletionOverride bool                `json:"completionOverride"`
	HiddenFromClients  bool                `json:"hiddenFromClients"`
	Priority           domain.TaskPriority `json:"priority"`
	DueOn              *string             `json:"dueOn,omitempty"`
	Archived           bool                `json:"archived"`
	CreatedAt          time.Time           `json:"createdAt"`
	LastUpdatedAt      time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy      string              `json:"lastUpdatedBy"`
}

func ToTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		TaskID:             t.TaskID,
		ProjectID:          t.ProjectID,
		GroupID:            t.GroupID,
		Name:               t.Name,
		Description:        t.Description,
		AssignedToUserID:   t.AssignedToUserID,
		CreatedByUserID:    t.CreatedByUserID,
		OrderColumn:        t.OrderColumn,
		CompletedAt:        t.CompletedAt,
		CompletionOverride: t.CompletionOverride,
		HiddenFromClients:  t.HiddenFromClients,
		Priority:           t.Priority,
		DueOn:              FormatDate(t.DueOn),
		Archived:           t.State.IsArchived(),
		CreatedAt:          t.CreatedAt,
		LastUpdatedAt:      t.LastUpdatedAt,
		LastUpdatedBy:      t.LastUpdatedBy,
	}
}

// ListTasksResponse wraps a list of tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

func ToListTasksResponse(ts []domain.Task) ListTasksResponse {
	list := make([]TaskResponse, len(ts))
	for i := range ts {
		list[i] = ToTaskResponse(&ts[i])
	}
	return ListTasksResponse{Tasks: list}
}
