package dto

import (
	"time"

	"github.com/SscSPs/taskboard_app/internal/core/domain"
	portssvc "github.com/SscSPs/taskboard_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// CreateProjectRequest defines data for creating a new project.
type CreateProjectRequest struct {
	Name        string           `json:"name" binding:"required,max=255"`
	Description string           `json:"description"`
	DueDate     *string          `json:"dueDate" binding:"omitempty,datetime=2006-01-02" example:"2026-12-31"`
	Budget      *decimal.Decimal `json:"budget" swaggertype:"string" example:"1500.00"`
}

// ToInput converts the request into the service input.
func (r CreateProjectRequest) ToInput() (portssvc.CreateProjectInput, error) {
	due, err := ParseDate(r.DueDate)
	if err != nil {
		return portssvc.CreateProjectInput{}, err
	}
	return portssvc.CreateProjectInput{
		Name:        r.Name,
		Description: r.Description,
		DueDate:     due,
		Budget:      r.Budget,
	}, nil
}

// UpdateProjectRequest patches a project. Omitted fields are left unchanged.
type UpdateProjectRequest struct {
	Name         *string          `json:"name" binding:"omitempty,max=255"`
	Description  *string          `json:"description"`
	DueDate      *string          `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	ClearDueDate bool             `json:"clearDueDate"`
	Budget       *decimal.Decimal `json:"budget" swaggertype:"string"`
}

func (r UpdateProjectRequest) ToInput() (portssvc.UpdateProjectInput, error) {
	due, err := ParseDate(r.DueDate)
	if err != nil {
		return portssvc.UpdateProjectInput{}, err
	}
	return portssvc.UpdateProjectInput{
		Name:        r.Name,
		Description: r.Description,
		DueDate:     due,
		ClearDue:    r.ClearDueDate,
		Budget:      r.Budget,
	}, nil
}

// ProjectResponse defines data returned for a project.
type ProjectResponse struct {
	ProjectID     string              `json:"projectID"`
	WorkspaceID   string              `json:"workspaceID"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	DueDate       *string             `json:"dueDate,omitempty"`
	Budget        *decimal.Decimal    `json:"budget,omitempty" swaggertype:"string"`
	Archived      bool                `json:"archived"`
	Groups        []TaskGroupResponse `json:"groups,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	CreatedBy     string              `json:"createdBy"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy string              `json:"lastUpdatedBy"`
}

// ToProjectResponse converts domain.Project to DTO.
func ToProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ProjectID:     p.ProjectID,
		WorkspaceID:   p.WorkspaceID,
		Name:          p.Name,
		Description:   p.Description,
		DueDate:       FormatDate(p.DueDate),
		Budget:        p.Budget,
		Archived:      p.State.IsArchived(),
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
}

// ListProjectsResponse wraps a list of projects.
type ListProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

func ToListProjectsResponse(ps []domain.Project) ListProjectsResponse {
	list := make([]ProjectResponse, len(ps))
	for i := range ps {
		list[i] = ToProjectResponse(&ps[i])
	}
	return ListProjectsResponse{Projects: list}
}
