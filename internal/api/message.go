package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/classtrack/classtrack/internal/repository"
)

// MessageHandler serves the chat log over HTTP. Messages are written over
// the websocket channel; this surface is read-only and exists so clients
// can recover history after a reconnect.
type MessageHandler struct {
	messages repository.MessageRepository
	logger   *zap.Logger
}

func NewMessageHandler(messages repository.MessageRepository, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, logger: logger}
}

// ListByClassroom handles GET /api/classrooms/:code/messages, oldest first.
func (h *MessageHandler) ListByClassroom(c *gin.Context) {
	messages, err := h.messages.ListByClassroom(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.logger.Error("failed to list messages", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, messages)
}
