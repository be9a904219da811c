package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/classtrack/classtrack/internal/middleware"
	"github.com/classtrack/classtrack/internal/repository"
)

// ClassroomHandler serves classroom creation, membership, and deletion.
type ClassroomHandler struct {
	classrooms repository.ClassroomRepository
	logger     *zap.Logger
}

func NewClassroomHandler(classrooms repository.ClassroomRepository, logger *zap.Logger) *ClassroomHandler {
	return &ClassroomHandler{classrooms: classrooms, logger: logger}
}

type createClassroomRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Create handles POST /api/classrooms. The join password is stored as
// entered and compared verbatim on join; it is a shared room code, not a
// credential.
func (h *ClassroomHandler) Create(c *gin.Context) {
	var req createClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.classrooms.GetByCode(c.Request.Context(), req.Code)
	if err != nil {
		h.logger.Error("failed to check classroom code", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create classroom"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Classroom code already exists"})
		return
	}

	classroom, err := h.classrooms.Create(c.Request.Context(), req.Code, req.Name, req.Password, middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to create classroom", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create classroom"})
		return
	}

	c.JSON(http.StatusOK, classroom)
}

// List handles GET /api/classrooms: everything the caller created or
// joined, as one set.
func (h *ClassroomHandler) List(c *gin.Context) {
	classrooms, err := h.classrooms.ListForUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to list classrooms", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list classrooms"})
		return
	}
	c.JSON(http.StatusOK, classrooms)
}

type joinClassroomRequest struct {
	Code     string `json:"code" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Join handles POST /api/classrooms/join.
func (h *ClassroomHandler) Join(c *gin.Context) {
	var req joinClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	classroom, err := h.classrooms.GetByCode(c.Request.Context(), req.Code)
	if err != nil {
		h.logger.Error("failed to get classroom", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join classroom"})
		return
	}
	if classroom == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Classroom not found"})
		return
	}

	if classroom.Password != req.Password {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect password"})
		return
	}

	userID := middleware.GetUserID(c)
	if containsID(classroom.Members, userID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Already a member of this classroom"})
		return
	}

	if err := h.classrooms.AddMember(c.Request.Context(), classroom.ID, userID); err != nil {
		h.logger.Error("failed to add member", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join classroom"})
		return
	}

	classroom.Members = append(classroom.Members, userID)
	c.JSON(http.StatusOK, classroom)
}

// Leave handles POST /api/classrooms/:code/leave. Creators cannot leave;
// they delete instead.
func (h *ClassroomHandler) Leave(c *gin.Context) {
	classroom, err := h.classrooms.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.logger.Error("failed to get classroom", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to leave classroom"})
		return
	}
	if classroom == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Classroom not found"})
		return
	}

	userID := middleware.GetUserID(c)
	if !containsID(classroom.Members, userID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not a member of this classroom"})
		return
	}
	if classroom.CreatedBy == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Creator cannot leave classroom. Delete it instead."})
		return
	}

	if err := h.classrooms.RemoveMember(c.Request.Context(), classroom.ID, userID); err != nil {
		h.logger.Error("failed to remove member", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to leave classroom"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Successfully left classroom"})
}

// Delete handles DELETE /api/classrooms/:code. Creator-only; cascades to
// the classroom's tasks and messages.
func (h *ClassroomHandler) Delete(c *gin.Context) {
	classroom, err := h.classrooms.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.logger.Error("failed to get classroom", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete classroom"})
		return
	}
	if classroom == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Classroom not found"})
		return
	}

	if classroom.CreatedBy != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator can delete this classroom"})
		return
	}

	if err := h.classrooms.Delete(c.Request.Context(), classroom.ID, classroom.Code); err != nil {
		h.logger.Error("failed to delete classroom", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete classroom"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Classroom deleted successfully"})
}

// GetByCode handles GET /api/classrooms/:code. Registered without auth so
// the join screen can show a classroom's name before the user signs in.
func (h *ClassroomHandler) GetByCode(c *gin.Context) {
	classroom, err := h.classrooms.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.logger.Error("failed to get classroom", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get classroom"})
		return
	}
	if classroom == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Classroom not found"})
		return
	}
	c.JSON(http.StatusOK, classroom)
}

// memberView is the member-list response shape: public profile fields only.
type memberView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar"`
}

// ListMembers handles GET /api/classrooms/:code/members.
func (h *ClassroomHandler) ListMembers(c *gin.Context) {
	classroom, err := h.classrooms.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.logger.Error("failed to get classroom", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list members"})
		return
	}
	if classroom == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Classroom not found"})
		return
	}

	members, err := h.classrooms.ListMembers(c.Request.Context(), classroom.ID)
	if err != nil {
		h.logger.Error("failed to list members", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list members"})
		return
	}

	views := make([]memberView, 0, len(members))
	for _, m := range members {
		views = append(views, memberView{
			ID:       m.ID.String(),
			Name:     m.Name,
			Nickname: m.Nickname,
			Email:    m.Email,
			Role:     m.Role,
			Avatar:   m.Avatar,
		})
	}
	c.JSON(http.StatusOK, views)
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
