package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/taskboard_app/internal/core/ports/services"
	"github.com/SscSPs/taskboard_app/internal/dto"
	"github.com/SscSPs/taskboard_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// workspaceHandler handles HTTP requests related to workspaces.
type workspaceHandler struct {
	workspaceService portssvc.WorkspaceSvcFacade
}

func newWorkspaceHandler(ws portssvc.WorkspaceSvcFacade) *workspaceHandler {
	return &workspaceHandler{
		workspaceService: ws,
	}
}

// registerWorkspaceRoutes registers routes related to workspaces and their members.
// scoped is the /workspaces/:workspace_id group.
func registerWorkspaceRoutes(rg *gin.RouterGroup, scoped *gin.RouterGroup, workspaceService portssvc.WorkspaceSvcFacade) {
	h := newWorkspaceHandler(workspaceService)

	workspacesTopLevel := rg.Group("/workspaces")
	{
		workspacesTopLevel.POST("", h.createWorkspace)
		workspacesTopLevel.GET("", h.listUserWorkspaces) // List workspaces the calling user belongs to
	}

	scoped.GET("", h.getWorkspace)
	members := scoped.Group("/members")
	{
		members.GET("", h.listMembers)
		members.POST("", h.addMember)
		members.DELETE("/:user_id", h.removeMember)
	}
}

// createWorkspace godoc
// @Summary Create a new workspace
// @Description Creates a new workspace and assigns the creator as admin.
// @Tags workspaces
// @Accept  json
// @Produce  json
// @Param   workspace body dto.CreateWorkspaceRequest true "Workspace details"
// @Success 201 {object} dto.WorkspaceResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to create workspace"
// @Security BearerAuth
// @Router /workspaces [post]
func (h *workspaceHandler) createWorkspace(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateWorkspaceRequest
	if !bindJSON(c, &req, "CreateWorkspace") {
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	newWorkspace, err := h.workspaceService.CreateWorkspace(c.Request.Context(), req.Name, req.Description, creatorUserID)
	if err != nil {
		respondError(c, err, "create workspace")
		return
	}

	logger.Info("Workspace created successfully", slog.String("workspace_id", newWorkspace.WorkspaceID))
	c.JSON(http.StatusCreated, dto.ToWorkspaceResponse(newWorkspace))
}

// listUserWorkspaces godoc
// @Summary List workspaces for current user
// @Description Retrieves a list of workspaces the authenticated user belongs to.
// @Tags workspaces
// @Produce  json
// @Success 200 {object} dto.ListWorkspacesResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list workspaces"
// @Security BearerAuth
// @Router /workspaces [get]
func (h *workspaceHandler) listUserWorkspaces(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	workspaces, err := h.workspaceService.ListUserWorkspaces(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "list workspaces")
		return
	}

	logger.Info("Workspaces listed successfully", slog.Int("count", len(workspaces)))
	c.JSON(http.StatusOK, dto.ToListWorkspacesResponse(workspaces))
}

// getWorkspace godoc
// @Summary Get a workspace
// @Tags workspaces
// @Produce  json
// @Param   workspace_id path string true "Workspace ID"
// @Success 200 {object} dto.WorkspaceResponse
// @Failure 403 {object} ErrorResponse "Caller is not a member"
// @Failure 404 {object} ErrorResponse "Workspace not found"
// @Security BearerAuth
// @Router /workspaces/{workspace_id} [get]
func (h *workspaceHandler) getWorkspace(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	workspace, err := h.workspaceService.FindWorkspaceByID(c.Request.Context(), rc)
	if err != nil {
		respondError(c, err, "get workspace")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkspaceResponse(workspace))
}

// listMembers godoc
// @Summary List workspace members
// @Tags workspaces
// @Produce  json
// @Param   workspace_id path string true "Workspace ID"
// @Success 200 {object} dto.ListMembersResponse
// @Failure 403 {object} ErrorResponse "Caller is not a member"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/members [get]
func (h *workspaceHandler) listMembers(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	members, err := h.workspaceService.ListWorkspaceMembers(c.Request.Context(), rc)
	if err != nil {
		respondError(c, err, "list workspace members")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkspaceMembersResponse(members))
}

// addMember godoc
// @Summary Add a user to a workspace
// @Description Adds a user to the workspace with a given role, or changes their role (requires admin).
// @Tags workspaces
// @Accept  json
// @Param   workspace_id path string true "Workspace ID"
// @Param   member body dto.AddMemberRequest true "User ID and Role"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Caller is not admin"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/members [post]
func (h *workspaceHandler) addMember(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.AddMemberRequest
	if !bindJSON(c, &req, "AddWorkspaceMember") {
		return
	}

	if err := h.workspaceService.AddUserToWorkspace(c.Request.Context(), rc, req.UserID, req.Role); err != nil {
		respondError(c, err, "add user to workspace")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("User added to workspace successfully",
		slog.String("target_user_id", req.UserID), slog.String("role", string(req.Role)))
	c.Status(http.StatusNoContent)
}

// removeMember godoc
// @Summary Remove a user from a workspace
// @Tags workspaces
// @Param   workspace_id path string true "Workspace ID"
// @Param   user_id path string true "User ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Last admin cannot leave"
// @Failure 403 {object} ErrorResponse "Caller is not admin"
// @Failure 404 {object} ErrorResponse "User is not a member"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/members/{user_id} [delete]
func (h *workspaceHandler) removeMember(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	if err := h.workspaceService.RemoveUserFromWorkspace(c.Request.Context(), rc, c.Param("user_id")); err != nil {
		respondError(c, err, "remove user from workspace")
		return
	}
	c.Status(http.StatusNoContent)
}
