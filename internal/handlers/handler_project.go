package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/taskboard_app/internal/core/ports/services"
	"github.com/SscSPs/taskboard_app/internal/dto"
	"github.com/SscSPs/taskboard_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// projectHandler handles HTTP requests related to projects and their teams.
type projectHandler struct {
	projectService portssvc.ProjectSvcFacade
}

func newProjectHandler(ps portssvc.ProjectSvcFacade) *projectHandler {
	return &projectHandler{
		projectService: ps,
	}
}

// registerProjectRoutes registers project routes under the workspace scoped group.
func registerProjectRoutes(scoped *gin.RouterGroup, projectService portssvc.ProjectSvcFacade) {
	h := newProjectHandler(projectService)

	projects := scoped.Group("/projects")
	{
		projects.POST("", h.createProject)
		projects.GET("", h.listProjects)
		projects.GET("/:project_id", h.getProject)
		projects.PATCH("/:project_id", h.updateProject)
		projects.DELETE("/:project_id", h.archiveProject)
		projects.POST("/:project_id/restore", h.restoreProject)

		projects.GET("/:project_id/members", h.listMembers)
		projects.POST("/:project_id/members", h.addMember)
		projects.DELETE("/:project_id/members/:user_id", h.removeMember)
	}
}

// createProject godoc
// @Summary Create a project
// @Description Creates a project with its "To Do", "In Progress" and "Complete" groups. The creator joins the team.
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   workspace_id path string true "Workspace ID"
// @Param   project body dto.CreateProjectRequest true "Project details"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Caller is a client or not a member"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/projects [post]
func (h *projectHandler) createProject(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.CreateProjectRequest
	if !bindJSON(c, &req, "CreateProject") {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	project, groups, err := h.projectService.CreateProject(c.Request.Context(), rc, in)
	if err != nil {
		respondError(c, err, "create project")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Project created successfully", slog.String("project_id", project.ProjectID))
	resp := dto.ToProjectResponse(project)
	resp.Groups = dto.ToTaskGroupResponses(groups)
	c.JSON(http.StatusCreated, resp)
}

// listProjects godoc
// @Summary List visible projects
// @Description Admins and clients see every active project; members only those whose team they are on.
// @Tags projects
// @Produce  json
// @Param   workspace_id path string true "Workspace ID"
// @Success 200 {object} dto.ListProjectsResponse
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/projects [get]
func (h *projectHandler) listProjects(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	projects, err := h.projectService.ListProjects(c.Request.Context(), rc)
	if err != nil {
		respondError(c, err, "list projects")
		return
	}
	c.JSON(http.StatusOK, dto.ToListProjectsResponse(projects))
}

// getProject godoc
// @Summary Get a project
// @Tags projects
// @Produce  json
// @Param   workspace_id path string true "Workspace ID"
// @Param   project_id path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 404 {object} ErrorResponse "Project not found or not visible"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/projects/{project_id} [get]
func (h *projectHandler) getProject(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	project, err := h.projectService.GetProject(c.Request.Context(), rc, c.Param("project_id"))
	if err != nil {
		respondError(c, err, "get project")
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// updateProject godoc
// @Summary Update a project
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   workspace_id path string true "Workspace ID"
// @Param   project_id path string true "Project ID"
// @Param   project body dto.UpdateProjectRequest true "Fields to change"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Caller is not a project admin"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/projects/{project_id} [patch]
func (h *projectHandler) updateProject(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.UpdateProjectRequest
	if !bindJSON(c, &req, "UpdateProject") {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), rc, c.Param("project_id"), in)
	if err != nil {
		respondError(c, err, "update project")
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// archiveProject godoc
// @Summary Archive a project
// @Tags projects
// @Param   workspace_id path string true "Workspace ID"
// @Param   project_id path string true "Project ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse "Caller is not a workspace admin"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/projects/{project_id} [delete]
func (h *projectHandler) archiveProject(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	if err := h.projectService.ArchiveProject(c.Request.Context(), rc, c.Param("project_id")); err != nil {
		respondError(c, err, "archive project")
		return
	}
	c.Status(http.StatusNoContent)
}

// restoreProject godoc
// @Summary Restore an archived project
// @Tags projects
// @Param   workspace_id path string true "Workspace ID"
// @Param   project_id path string true "Project ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse "Caller is not a workspace admin"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/projects/{project_id}/restore [post]
func (h *projectHandler) restoreProject(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	if err := h.projectService.RestoreProject(c.Request.Context(), rc, c.Param("project_id")); err != nil {
		respondError(c, err, "restore project")
		return
	}
	c.Status(http.StatusNoContent)
}

// listMembers godoc
// @Summary List the project team
// @Tags projects
// @Produce  json
// @Param   workspace_id path string true "Workspace ID"
// @Param   project_id path string true "Project ID"
// @Success 200 {object} dto.ListMembersResponse
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/projects/{project_id}/members [get]
func (h *projectHandler) listMembers(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	members, err := h.projectService.ListProjectMembers(c.Request.Context(), rc, c.Param("project_id"))
	if err != nil {
		respondError(c, err, "list project members")
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectMembersResponse(members))
}

// addMember godoc
// @Summary Add a workspace member to the project team
// @Tags projects
// @Accept  json
// @Param   workspace_id path string true "Workspace ID"
// @Param   project_id path string true "Project ID"
// @Param   member body dto.AddMemberRequest true "User ID and project role"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "User is not a workspace member"
// @Failure 403 {object} ErrorResponse "Caller is not a project admin"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/projects/{project_id}/members [post]
func (h *projectHandler) addMember(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.AddMemberRequest
	if !bindJSON(c, &req, "AddProjectMember") {
		return
	}
	if err := h.projectService.AddProjectMember(c.Request.Context(), rc, c.Param("project_id"), req.UserID, req.Role); err != nil {
		respondError(c, err, "add project member")
		return
	}
	c.Status(http.StatusNoContent)
}

// removeMember godoc
// @Summary Remove a user from the project team
// @Tags projects
// @Param   workspace_id path string true "Workspace ID"
// @Param   project_id path string true "Project ID"
// @Param   user_id path string true "User ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/projects/{project_id}/members/{user_id} [delete]
func (h *projectHandler) removeMember(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	if err := h.projectService.RemoveProjectMember(c.Request.Context(), rc, c.Param("project_id"), c.Param("user_id")); err != nil {
		respondError(c, err, "remove project member")
		return
	}
	c.Status(http.StatusNoContent)
}
