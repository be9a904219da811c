package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/classtrack/classtrack/internal/middleware"
	"github.com/classtrack/classtrack/internal/models"
	"github.com/classtrack/classtrack/internal/repository"
)

// TaskHandler serves the task ledger. Task routes check authentication but
// not classroom membership; any authenticated caller may read or write
// tasks under any code; the frontend is what scopes task views to the
// classrooms a user joined.
type TaskHandler struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func NewTaskHandler(tasks repository.TaskRepository, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

// ListByClassroom handles GET /api/classrooms/:code/tasks.
func (h *TaskHandler) ListByClassroom(c *gin.Context) {
	tasks, err := h.tasks.ListByClassroom(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.logger.Error("failed to list tasks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

type createTaskRequest struct {
	Name         string     `json:"name" binding:"required"`
	Description  string     `json:"description"`
	Subject      string     `json:"subject"`
	DateAssigned *time.Time `json:"dateAssigned"`
	DueDate      *time.Time `json:"dueDate"`
	Completed    bool       `json:"completed"`
}

// Create handles POST /api/classrooms/:code/tasks. The creator is taken
// from the token, never from the body.
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := &models.Task{
		ClassroomCode: c.Param("code"),
		Name:          req.Name,
		Description:   req.Description,
		Subject:       req.Subject,
		DateAssigned:  req.DateAssigned,
		DueDate:       req.DueDate,
		Completed:     req.Completed,
		CreatedBy:     middleware.GetUserID(c),
	}

	created, err := h.tasks.Create(c.Request.Context(), task)
	if err != nil {
		h.logger.Error("failed to create task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	c.JSON(http.StatusOK, created)
}

type updateTaskRequest struct {
	Name         *string    `json:"name"`
	Description  *string    `json:"description"`
	Subject      *string    `json:"subject"`
	DateAssigned *time.Time `json:"dateAssigned"`
	DueDate      *time.Time `json:"dueDate"`
	Completed    *bool      `json:"completed"`
}

// Update handles PUT /api/tasks/:id. Any subset of fields may be patched,
// completion toggles included; there is no ownership check on update.
func (h *TaskHandler) Update(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), taskID, repository.TaskPatch{
		Name:         req.Name,
		Description:  req.Description,
		Subject:      req.Subject,
		DateAssigned: req.DateAssigned,
		DueDate:      req.DueDate,
		Completed:    req.Completed,
	})
	if err != nil {
		h.logger.Error("failed to update task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/:id. Allowed for the task's creator or
// any teacher-role caller.
func (h *TaskHandler) Delete(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	task, err := h.tasks.GetByID(c.Request.Context(), taskID)
	if err != nil {
		h.logger.Error("failed to get task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if task.CreatedBy != middleware.GetUserID(c) && middleware.GetRole(c) != models.RoleTeacher {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to delete this task"})
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), taskID); err != nil {
		h.logger.Error("failed to delete task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
