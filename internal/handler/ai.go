package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/ai"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/util"

	"github.com/gin-gonic/gin"
)

// AIHandler serves the spending-chat endpoint.
type AIHandler struct {
	Assistant *ai.Assistant
}

func NewAIHandler(assistant *ai.Assistant) *AIHandler {
	return &AIHandler{Assistant: assistant}
}

type chatReq struct {
	Query string `json:"query"`
}

func (h *AIHandler) Chat(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		util.Error(c, http.StatusBadRequest, "Query is required.")
		return
	}

	answer, err := h.Assistant.Answer(c.Request.Context(), user.ID, req.Query)
	if err != nil {
		log.Printf("ai chat: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to get AI response.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": answer})
}
