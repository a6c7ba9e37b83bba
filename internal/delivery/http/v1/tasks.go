package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-workspace/internal/models"
	"github.com/adanyl0v/go-workspace/internal/services"
)

type getTaskResponse struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspace_id"`
	ProjectID   string     `json:"project_id"`
	AssigneeID  *string    `json:"assignee_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Position    int        `json:"position"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	return getTaskResponse{
		ID:          task.ID,
		WorkspaceID: task.WorkspaceID,
		ProjectID:   task.ProjectID,
		AssigneeID:  task.AssigneeID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		Position:    task.Position,
		StartDate:   task.StartDate,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

type createTaskRequest struct {
	ProjectID   string     `json:"project_id" binding:"required"`
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssigneeID  *string    `json:"assignee_id"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	workspaceID, _ := getStringFromContext(c, workspaceIDCtxKey)

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		WorkspaceID: workspaceID,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.abortTaskError(c, err, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	workspaceID, _ := getStringFromContext(c, workspaceIDCtxKey)

	tasks, err := h.tasks.GetTasksByWorkspaceID(c, workspaceID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("workspace_id", workspaceID).
			Msg("failed to get tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getTaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newGetTaskResponse(task)
	}
	c.JSON(http.StatusOK, response)
}

type updateTaskRequest struct {
	Title        *string    `json:"title,omitempty" binding:"omitempty,max=255"`
	Description  *string    `json:"description,omitempty"`
	Priority     *string    `json:"priority,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ClearDueDate bool       `json:"clear_due_date"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	workspaceID, _ := getStringFromContext(c, workspaceIDCtxKey)

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params := services.UpdateTaskParams{
		ID:           c.Param("task_id"),
		WorkspaceID:  workspaceID,
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
	}
	if req.Priority != nil {
		priority := models.TaskPriority(*req.Priority)
		params.Priority = &priority
	}

	task, err := h.tasks.UpdateTask(c, params)
	if err != nil {
		h.abortTaskError(c, err, "failed to update task")
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleSetTaskStatus(c *gin.Context) {
	workspaceID, _ := getStringFromContext(c, workspaceIDCtxKey)

	status := c.Query("status")
	if status == "" {
		h.logger.Error().Msg("no status provided")
		abort(c, newBadRequestError("status is required"))
		return
	}

	task, err := h.tasks.UpdateTaskStatus(c, services.UpdateTaskStatusParams{
		ID:          c.Param("task_id"),
		WorkspaceID: workspaceID,
		Status:      models.TaskStatus(status),
	})
	if err != nil {
		h.abortTaskError(c, err, "failed to update task status")
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	workspaceID, _ := getStringFromContext(c, workspaceIDCtxKey)

	err := h.tasks.DeleteTask(c, services.DeleteTaskParams{
		ID:          c.Param("task_id"),
		WorkspaceID: workspaceID,
	})
	if err != nil {
		h.abortTaskError(c, err, "failed to delete task")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) abortTaskError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidTaskPriority):
		abort(c, newBadRequestError(err.Error()))
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrAssigneeNotFound):
		abort(c, newNotFoundError(err.Error()))
	default:
		h.logger.Error().
			Err(err).
			Msg(msg)
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
