package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"supportbot/internal/app"
	"supportbot/internal/transport/http/middleware"
	"supportbot/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat handles one chat turn and replies with {"reply": ...}. A completion
// failure is surfaced with the underlying error text; this is an internal
// support tool and the detail helps operators.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "message is required")
		return
	}

	reply, err := h.chatService.SendMessage(c.Request.Context(), middleware.UserID(c), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrMessageEmpty):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrLLMConfig):
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeCompletionFailed, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
