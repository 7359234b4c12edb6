package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/taskboard_app/internal/core/ports/services"
	"github.com/SscSPs/taskboard_app/internal/dto"
	"github.com/SscSPs/taskboard_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// taskHandler handles HTTP requests related to tasks.
type taskHandler struct {
	taskService portssvc.TaskSvc
}

func newTaskHandler(ts portssvc.TaskSvc) *taskHandler {
	return &taskHandler{
		taskService: ts,
	}
}

// registerTaskRoutes registers task routes under the workspace scoped group.
func registerTaskRoutes(scoped *gin.RouterGroup, taskService portssvc.TaskSvc) {
	h := newTaskHandler(taskService)

	byProject := scoped.Group("/projects/:project_id/tasks")
	{
		byProject.GET("", h.listTasks)
		byProject.POST("", h.createTask)
		byProject.PUT("/order", h.reorderTasks)
	}

	tasks := scoped.Group("/tasks")
	{
		tasks.GET("/:task_id", h.getTask)
		tasks.PATCH("/:task_id", h.updateTask)
		tasks.DELETE("/:task_id", h.archiveTask)
		tasks.POST("/:task_id/restore", h.restoreTask)
		tasks.POST("/:task_id/move", h.moveTask)
	}
}

// listTasks godoc
// @Summary List visible tasks of a project
// @Description Ordered by column position, then by order within the column.
// @Tags tasks
// @Produce  json
// @Param   workspace_id path string true "Workspace ID"
// @Param   project_id path string true "Project ID"
// @Param   groupID query string false "Only tasks of this group"
// @Success 200 {object} dto.ListTasksResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/projects/{project_id}/tasks [get]
func (h *taskHandler) listTasks(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	var groupID *string
	if g := c.Query("groupID"); g != "" {
		groupID = &g
	}
	tasks, err := h.taskService.ListTasks(c.Request.Context(), rc, c.Param("project_id"), groupID)
	if err != nil {
		respondError(c, err, "list tasks")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTasksResponse(tasks))
}

// createTask godoc
// @Summary Create a task
// @Description A task created in a group is placed at the end of it.
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   workspace_id path string true "Workspace ID"
// @Param   project_id path string true "Project ID"
// @Param   task body dto.CreateTaskRequest true "Task details"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Caller cannot create tasks"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/projects/{project_id}/tasks [post]
func (h *taskHandler) createTask(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req, "CreateTask") {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	task, err := h.taskService.CreateTask(c.Request.Context(), rc, c.Param("project_id"), in)
	if err != nil {
		respondError(c, err, "create task")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Task created successfully", slog.String("task_id", task.TaskID))
	c.JSON(http.StatusCreated, dto.ToTaskResponse(task))
}

// reorderTasks godoc
// @Summary Reorder tasks
// @Description Sets each task's order to its index in the list, starting at 1. All or nothing.
// @Tags tasks
// @Accept  json
// @Param   workspace_id path string true "Workspace ID"
// @Param   project_id path string true "Project ID"
// @Param   order body dto.ReorderTasksRequest true "Task ids in their new order"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Unknown or foreign task ids"
// @Failure 403 {object} ErrorResponse "Caller cannot move some of the tasks"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/projects/{project_id}/tasks/order [put]
func (h *taskHandler) reorderTasks(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.ReorderTasksRequest
	if !bindJSON(c, &req, "ReorderTasks") {
		return
	}
	if err := h.taskService.ReorderWithinProject(c.Request.Context(), rc, c.Param("project_id"), req.TaskIDs); err != nil {
		respondError(c, err, "reorder tasks")
		return
	}
	c.Status(http.StatusNoContent)
}

// getTask godoc
// @Summary Get a task
// @Tags tasks
// @Produce  json
// @Param   workspace_id path string true "Workspace ID"
// @Param   task_id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 404 {object} ErrorResponse "Task not found or not visible"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/tasks/{task_id} [get]
func (h *taskHandler) getTask(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	task, err := h.taskService.GetTask(c.Request.Context(), rc, c.Param("task_id"))
	if err != nil {
		respondError(c, err, "get task")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// updateTask godoc
// @Summary Update a task
// @Description Changing the assignee requires admin.
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   workspace_id path string true "Workspace ID"
// @Param   task_id path string true "Task ID"
// @Param   task body dto.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Caller cannot update the task"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/tasks/{task_id} [patch]
func (h *taskHandler) updateTask(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req, "UpdateTask") {
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	task, err := h.taskService.UpdateTask(c.Request.Context(), rc, c.Param("task_id"), patch)
	if err != nil {
		respondError(c, err, "update task")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// moveTask godoc
// @Summary Move a task to another column
// @Description The task goes to the end of the target group. Entering "Complete" completes it, leaving clears completion unless overridden.
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   workspace_id path string true "Workspace ID"
// @Param   task_id path string true "Task ID"
// @Param   move body dto.MoveTaskRequest true "Target group"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} ErrorResponse "Target group is in another project"
// @Failure 404 {object} ErrorResponse "Target group is archived or missing"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/tasks/{task_id}/move [post]
func (h *taskHandler) moveTask(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.MoveTaskRequest
	if !bindJSON(c, &req, "MoveTask") {
		return
	}
	task, err := h.taskService.MoveToGroup(c.Request.Context(), rc, c.Param("task_id"), req.GroupID, req.CompletionOverride)
	if err != nil {
		respondError(c, err, "move task")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// archiveTask godoc
// @Summary Archive a task
// @Tags tasks
// @Param   workspace_id path string true "Workspace ID"
// @Param   task_id path string true "Task ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/tasks/{task_id} [delete]
func (h *taskHandler) archiveTask(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	if err := h.taskService.ArchiveTask(c.Request.Context(), rc, c.Param("task_id")); err != nil {
		respondError(c, err, "archive task")
		return
	}
	c.Status(http.StatusNoContent)
}

// restoreTask godoc
// @Summary Restore an archived task
// @Tags tasks
// @Param   workspace_id path string true "Workspace ID"
// @Param   task_id path string true "Task ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse "Caller is not an admin"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/tasks/{task_id}/restore [post]
func (h *taskHandler) restoreTask(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	if err := h.taskService.RestoreTask(c.Request.Context(), rc, c.Param("task_id")); err != nil {
		respondError(c, err, "restore task")
		return
	}
	c.Status(http.StatusNoContent)
}
