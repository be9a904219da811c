package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/classtrack/classtrack/internal/auth"
	"github.com/classtrack/classtrack/internal/avatar"
	"github.com/classtrack/classtrack/internal/middleware"
	"github.com/classtrack/classtrack/internal/models"
	"github.com/classtrack/classtrack/internal/repository"
)

// AuthHandler serves registration, login, and account self-management.
// Register and Login are the only public routes; the rest run behind
// the bearer-token middleware.
type AuthHandler struct {
	users      repository.UserRepository
	jwtSecret  string
	tokenTTL   time.Duration
	adminEmail string
	logger     *zap.Logger
}

func NewAuthHandler(
	users repository.UserRepository,
	jwtSecret string,
	tokenTTL time.Duration,
	adminEmail string,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:      users,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Nickname string `json:"nickname" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=student teacher"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.Error("failed to check existing user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	// The configured admin address is always escalated, whatever role the
	// request asked for.
	if req.Email == h.adminEmail {
		role = models.RoleAdmin
	}

	user, err := h.users.Create(
		c.Request.Context(),
		req.Name,
		req.Nickname,
		req.Email,
		string(hash),
		role,
		avatar.RandomJSON(),
	)
	if err != nil {
		h.logger.Error("failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role, h.jwtSecret, h.tokenTTL)
	if err != nil {
		h.logger.Error("failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.Error("failed to find user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	// One generic error for both unknown email and wrong password, so the
	// response doesn't reveal which emails are registered.
	if user == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role, h.jwtSecret, h.tokenTTL)
	if err != nil {
		h.logger.Error("failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// GetProfile handles GET /api/auth/profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profile"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Nickname string `json:"nickname" binding:"required,min=2"`
	Avatar   string `json:"avatar"`
}

// UpdateProfile handles PUT /api/auth/profile. The avatar is replaced only
// when the request carries one.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), req.Name, req.Nickname, req.Avatar)
	if err != nil {
		h.logger.Error("failed to update profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateEmailRequest struct {
	Email string `json:"email"`
}

// UpdateEmail handles PUT /api/auth/email. Rejects an address already held
// by a different account; re-submitting your own address is a no-op.
func (h *AuthHandler) UpdateEmail(c *gin.Context) {
	var req updateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	userID := middleware.GetUserID(c)

	existing, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.Error("failed to check email", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update email"})
		return
	}
	if existing != nil && existing.ID != userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already in use"})
		return
	}

	user, err := h.users.UpdateEmail(c.Request.Context(), userID, req.Email)
	if err != nil {
		h.logger.Error("failed to update email", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update email"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdatePassword handles PUT /api/auth/password. The only profile mutation
// that re-checks the existing credential.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both current and new password are required"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update password"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update password"})
		return
	}

	if err := h.users.UpdatePassword(c.Request.Context(), user.ID, string(hash)); err != nil {
		h.logger.Error("failed to update password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
