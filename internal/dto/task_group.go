package dto

import (
	"time"

	"github.com/SscSPs/taskboard_app/internal/core/domain"
)

// CreateTaskGroupRequest defines data for creating a custom board column.
type CreateTaskGroupRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// RenameTaskGroupRequest defines data for renaming a custom board column.
type RenameTaskGroupRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// ReorderTaskGroupsRequest maps every group id of the project to its new position.
type ReorderTaskGroupsRequest struct {
	Positions map[string]int `json:"positions" binding:"required"`
}

// TaskGroupResponse defines data returned for a board column.
type TaskGroupResponse struct {
	GroupID       string           `json:"groupID"`
	ProjectID     string           `json:"projectID"`
	Name          string           `json:"name"`
	Type          domain.GroupType `json:"type"`
	Position      int              `json:"position"`
	Archived      bool             `json:"archived"`
	CreatedAt     time.Time        `json:"createdAt"`
	LastUpdatedAt time.Time        `json:"lastUpdatedAt"`
}

func ToTaskGroupResponse(g *domain.TaskGroup) TaskGroupResponse {
	return TaskGroupResponse{
		GroupID:       g.GroupID,
		ProjectID:     g.ProjectID,
		Name:          g.Name,
		Type:          g.Type,
		Position:      g.Position,
		Archived:      g.State.IsArchived(),
		CreatedAt:     g.CreatedAt,
		LastUpdatedAt: g.LastUpdatedAt,
	}
}

func ToTaskGroupResponses(gs []domain.TaskGroup) []TaskGroupResponse {
	list := make([]TaskGroupResponse, len(gs))
	for i := range gs {
		list[i] = ToTaskGroupResponse(&gs[i])
	}
	return list
}

// ListTaskGroupsResponse wraps a list of board columns.
type ListTaskGroupsResponse struct {
	Groups []TaskGroupResponse `json:"groups"`
}

func ToListTaskGroupsResponse(gs []domain.TaskGroup) ListTaskGroupsResponse {
	return ListTaskGroupsResponse{Groups: ToTaskGroupResponses(gs)}
}
