package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/classtrack/classtrack/internal/models"
	"github.com/classtrack/classtrack/internal/repository"
)

// AdminHandler serves the analytics endpoint. The route is registered
// without auth: the counts are aggregate and carry no user data, and the
// dashboard frontend calls it before login.
type AdminHandler struct {
	users      repository.UserRepository
	classrooms repository.ClassroomRepository
	tasks      repository.TaskRepository
	messages   repository.MessageRepository
	logger     *zap.Logger
}

func NewAdminHandler(
	users repository.UserRepository,
	classrooms repository.ClassroomRepository,
	tasks repository.TaskRepository,
	messages repository.MessageRepository,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		users:      users,
		classrooms: classrooms,
		tasks:      tasks,
		messages:   messages,
		logger:     logger,
	}
}

// Analytics handles GET /api/admin/analytics.
func (h *AdminHandler) Analytics(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := h.users.Count(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	classrooms, err := h.classrooms.Count(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	tasks, err := h.tasks.Count(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	messages, err := h.messages.Count(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AnalyticsCounts{
		Users:      users,
		Classrooms: classrooms,
		Tasks:      tasks,
		Messages:   messages,
	})
}

func (h *AdminHandler) fail(c *gin.Context, err error) {
	h.logger.Error("failed to collect analytics", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to collect analytics"})
}
