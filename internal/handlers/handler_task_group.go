package handlers

import (
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/taskboard_app/internal/core/ports/services"
	"github.com/SscSPs/taskboard_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// taskGroupHandler handles HTTP requests related to board columns.
type taskGroupHandler struct {
	groupService portssvc.TaskGroupSvc
}

func newTaskGroupHandler(gs portssvc.TaskGroupSvc) *taskGroupHandler {
	return &taskGroupHandler{
		groupService: gs,
	}
}

// registerTaskGroupRoutes registers board column routes under the workspace scoped group.
func registerTaskGroupRoutes(scoped *gin.RouterGroup, groupService portssvc.TaskGroupSvc) {
	h := newTaskGroupHandler(groupService)

	byProject := scoped.Group("/projects/:project_id/groups")
	{
		byProject.GET("", h.listGroups)
		byProject.POST("", h.createGroup)
		byProject.POST("/initialize", h.initializeGroups)
		byProject.PUT("/order", h.reorderGroups)
	}

	groups := scoped.Group("/groups")
	{
		groups.PATCH("/:group_id", h.renameGroup)
		groups.DELETE("/:group_id", h.deleteGroup)
		groups.POST("/:group_id/archive", h.archiveGroup)
		groups.POST("/:group_id/restore", h.restoreGroup)
	}
}

// listGroups godoc
// @Summary List the board columns of a project
// @Tags groups
// @Produce  json
// @Param   workspace_id path string true "Workspace ID"
// @Param   project_id path string true "Project ID"
// @Param   includeArchived query bool false "Include archived groups"
// @Success 200 {object} dto.ListTaskGroupsResponse
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/projects/{project_id}/groups [get]
func (h *taskGroupHandler) listGroups(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	includeArchived, err := strconv.ParseBool(c.DefaultQuery("includeArchived", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "includeArchived must be a boolean"})
		return
	}
	groups, err := h.groupService.ListGroups(c.Request.Context(), rc, c.Param("project_id"), includeArchived)
	if err != nil {
		respondError(c, err, "list task groups")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTaskGroupsResponse(groups))
}

// createGroup godoc
// @Summary Create a custom board column
// @Description The new group is inserted immediately before "Complete".
// @Tags groups
// @Accept  json
// @Produce  json
// @Param   workspace_id path string true "Workspace ID"
// @Param   project_id path string true "Project ID"
// @Param   group body dto.CreateTaskGroupRequest true "Group name"
// @Success 201 {object} dto.TaskGroupResponse
// @Failure 400 {object} ErrorResponse "Invalid name"
// @Failure 403 {object} ErrorResponse "Caller cannot manage the board"
// @Failure 409 {object} ErrorResponse "Concurrent board change"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/projects/{project_id}/groups [post]
func (h *taskGroupHandler) createGroup(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.CreateTaskGroupRequest
	if !bindJSON(c, &req, "CreateTaskGroup") {
		return
	}
	group, err := h.groupService.CreateCustomGroup(c.Request.Context(), rc, c.Param("project_id"), req.Name)
	if err != nil {
		respondError(c, err, "create task group")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTaskGroupResponse(group))
}

// initializeGroups godoc
// @Summary Ensure the system columns exist
// @Description Idempotent. Missing system groups are seeded and duplicates removed; custom groups and tasks are kept.
// @Tags groups
// @Produce  json
// @Param   workspace_id path string true "Workspace ID"
// @Param   project_id path string true "Project ID"
// @Success 200 {object} dto.ListTaskGroupsResponse
// @Failure 403 {object} ErrorResponse "Caller is not an admin"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/projects/{project_id}/groups/initialize [post]
func (h *taskGroupHandler) initializeGroups(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	groups, err := h.groupService.InitializeSystemGroups(c.Request.Context(), rc, c.Param("project_id"))
	if err != nil {
		respondError(c, err, "initialize task groups")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTaskGroupsResponse(groups))
}

// reorderGroups godoc
// @Summary Reorder the board columns
// @Description Positions must cover every group of the project exactly once as 1..N.
// @Tags groups
// @Accept  json
// @Produce  json
// @Param   workspace_id path string true "Workspace ID"
// @Param   project_id path string true "Project ID"
// @Param   order body dto.ReorderTaskGroupsRequest true "Group id to position"
// @Success 200 {object} dto.ListTaskGroupsResponse
// @Failure 400 {object} ErrorResponse "Positions are not a permutation of 1..N; ids lists the offenders"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/projects/{project_id}/groups/order [put]
func (h *taskGroupHandler) reorderGroups(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.ReorderTaskGroupsRequest
	if !bindJSON(c, &req, "ReorderTaskGroups") {
		return
	}
	groups, err := h.groupService.ReorderGroups(c.Request.Context(), rc, c.Param("project_id"), req.Positions)
	if err != nil {
		respondError(c, err, "reorder task groups")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTaskGroupsResponse(groups))
}

// renameGroup godoc
// @Summary Rename a custom board column
// @Tags groups
// @Accept  json
// @Produce  json
// @Param   workspace_id path string true "Workspace ID"
// @Param   group_id path string true "Group ID"
// @Param   group body dto.RenameTaskGroupRequest true "New name"
// @Success 200 {object} dto.TaskGroupResponse
// @Failure 409 {object} ErrorResponse "System groups cannot be renamed"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/groups/{group_id} [patch]
func (h *taskGroupHandler) renameGroup(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.RenameTaskGroupRequest
	if !bindJSON(c, &req, "RenameTaskGroup") {
		return
	}
	group, err := h.groupService.RenameGroup(c.Request.Context(), rc, c.Param("group_id"), req.Name)
	if err != nil {
		respondError(c, err, "rename task group")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskGroupResponse(group))
}

// deleteGroup godoc
// @Summary Delete an empty custom board column
// @Tags groups
// @Param   workspace_id path string true "Workspace ID"
// @Param   group_id path string true "Group ID"
// @Success 204 "No Content"
// @Failure 409 {object} ErrorResponse "System group, or group still holds active tasks"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/groups/{group_id} [delete]
func (h *taskGroupHandler) deleteGroup(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	if err := h.groupService.DeleteGroup(c.Request.Context(), rc, c.Param("group_id")); err != nil {
		respondError(c, err, "delete task group")
		return
	}
	c.Status(http.StatusNoContent)
}

// archiveGroup godoc
// @Summary Archive a board column
// @Tags groups
// @Produce  json
// @Param   workspace_id path string true "Workspace ID"
// @Param   group_id path string true "Group ID"
// @Success 200 {object} dto.TaskGroupResponse
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/groups/{group_id}/archive [post]
func (h *taskGroupHandler) archiveGroup(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	group, err := h.groupService.ArchiveGroup(c.Request.Context(), rc, c.Param("group_id"))
	if err != nil {
		respondError(c, err, "archive task group")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskGroupResponse(group))
}

// restoreGroup godoc
// @Summary Restore an archived board column
// @Tags groups
// @Produce  json
// @Param   workspace_id path string true "Workspace ID"
// @Param   group_id path string true "Group ID"
// @Success 200 {object} dto.TaskGroupResponse
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/groups/{group_id}/restore [post]
func (h *taskGroupHandler) restoreGroup(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	group, err := h.groupService.RestoreGroup(c.Request.Context(), rc, c.Param("group_id"))
	if err != nil {
		respondError(c, err, "restore task group")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskGroupResponse(group))
}
