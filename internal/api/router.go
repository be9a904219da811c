package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/classtrack/classtrack/internal/middleware"
	"github.com/classtrack/classtrack/internal/ws"
)

// Deps is everything the router needs wired in from main.
type Deps struct {
	Auth       *AuthHandler
	Classrooms *ClassroomHandler
	Tasks      *TaskHandler
	Messages   *MessageHandler
	Admin      *AdminHandler
	Hub        *ws.Hub

	JWTSecret      string
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter assembles the full HTTP surface. Classroom lookup by code and
// the analytics endpoint stay public, everything else mutating requires a
// bearer token.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	// Public surface.
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/api/auth/register", deps.Auth.Register)
	r.POST("/api/auth/login", deps.Auth.Login)
	r.GET("/api/classrooms/:code", deps.Classrooms.GetByCode)
	r.GET("/api/admin/analytics", deps.Admin.Analytics)
	r.GET("/ws", ws.Handler(deps.Hub, deps.Logger))

	// Token-gated surface.
	authed := r.Group("/api")
	authed.Use(middleware.AuthMiddleware(deps.JWTSecret))

	authed.GET("/auth/profile", deps.Auth.GetProfile)
	authed.PUT("/auth/profile", deps.Auth.UpdateProfile)
	authed.PUT("/auth/email", deps.Auth.UpdateEmail)
	authed.PUT("/auth/password", deps.Auth.UpdatePassword)

	authed.POST("/classrooms", deps.Classrooms.Create)
	authed.GET("/classrooms", deps.Classrooms.List)
	authed.POST("/classrooms/join", deps.Classrooms.Join)
	authed.POST("/classrooms/:code/leave", deps.Classrooms.Leave)
	authed.DELETE("/classrooms/:code", deps.Classrooms.Delete)
	authed.GET("/classrooms/:code/members", deps.Classrooms.ListMembers)

	authed.GET("/classrooms/:code/tasks", deps.Tasks.ListByClassroom)
	authed.POST("/classrooms/:code/tasks", deps.Tasks.Create)
	authed.PUT("/tasks/:id", deps.Tasks.Update)
	authed.DELETE("/tasks/:id", deps.Tasks.Delete)

	authed.GET("/classrooms/:code/messages", deps.Messages.ListByClassroom)

	return r
}
