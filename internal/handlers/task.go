package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joinboard/join-api/internal/dto"
	apierrors "github.com/joinboard/join-api/internal/errors"
	"github.com/joinboard/join-api/internal/middleware"
	"github.com/joinboard/join-api/internal/models"
	"github.com/joinboard/join-api/internal/services"
	"github.com/joinboard/join-api/internal/session"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the acting user's tasks, optionally filtered by ?q=
// over title and description.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	snap, ok := middleware.GetActiveUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.taskService.ListForUser(c.Request.Context(), snap, c.Query("q"))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskListDTO(tasks)})
}

// Board returns the acting user's tasks grouped by status column.
func (h *TaskHandler) Board(c *gin.Context) {
	snap, ok := middleware.GetActiveUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.taskService.ListForUser(c.Request.Context(), snap, c.Query("q"))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(tasks))
}

// CreateTask creates a task and attaches it to the acting user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	snap, ok := middleware.GetActiveUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string   `json:"title" binding:"required,min=1,max=200"`
		Description string   `json:"description"`
		Date        string   `json:"date"`
		Category    string   `json:"category"`
		Priority    string   `json:"priority"`
		Status      string   `json:"status"`
		Subtasks    []string `json:"subtasks"`
		Assigned    []int    `json:"assigned"`
		AssignSelf  bool     `json:"assignSelf"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), snap, session.ContextPersister{C: c}, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Category:    req.Category,
		Priority:    models.Priority(req.Priority),
		Status:      models.Status(req.Status),
		Subtasks:    req.Subtasks,
		Assigned:    req.Assigned,
		AssignSelf:  req.AssignSelf,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(task))
}

// GetTask returns a single task by id.
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), id)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// UpdateTask rewrites a task record. Absent fields keep their stored
// values.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title       *string          `json:"title"`
		Description *string          `json:"description"`
		Date        *string          `json:"date"`
		Category    *string          `json:"category"`
		Priority    *models.Priority `json:"priority"`
		Status      *models.Status   `json:"status"`
		Subtasks    []models.Subtask `json:"subtasks"`
		Assigned    *[]int           `json:"assigned"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), id, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Category:    req.Category,
		Priority:    req.Priority,
		Status:      req.Status,
		Subtasks:    req.Subtasks,
		Assigned:    req.Assigned,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// MoveTask walks a task one column along the board, clamped at the ends.
func (h *TaskHandler) MoveTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	type MoveRequest struct {
		Direction int `json:"direction" binding:"required,oneof=-1 1"`
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Direction must be -1 or 1")
		return
	}

	task, err := h.taskService.MoveStatus(c.Request.Context(), id, req.Direction)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// ToggleSubtask flips one checklist entry's done flag.
func (h *TaskHandler) ToggleSubtask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	subID, ok := pathID(c, "subId")
	if !ok {
		return
	}

	task, err := h.taskService.ToggleSubtask(c.Request.Context(), id, subID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// DeleteTask removes a task everywhere its id is referenced.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	snap, ok := middleware.GetActiveUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), snap, session.ContextPersister{C: c}, id); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// pathID parses a positive integer path parameter, responding 400 itself
// on failure.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 0 {
		apierrors.InvalidFormat(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrSubtaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidDirection),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority):
		apierrors.BadRequest(c, err.Error())
	default:
		respondStoreError(c, err)
	}
}
