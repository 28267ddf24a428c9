package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"calleroo/models"
	"calleroo/services/conversation"
)

// ConversationHandler exposes the slot-filling conversation engine.
type ConversationHandler struct {
	Svc conversation.Service
}

func NewConversationHandler(svc conversation.Service) *ConversationHandler {
	return &ConversationHandler{Svc: svc}
}

// ProcessTurn advances the conversation by one turn.
func (h *ConversationHandler) ProcessTurn(c *gin.Context) {
	var req models.TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid turn request", "details": err.Error()})
		return
	}
	if header := c.GetHeader("Idempotency-Key"); header != "" && req.IdempotencyKey == "" {
		req.IdempotencyKey = header
	}

	resp, err := h.Svc.ProcessTurn(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetState returns the current conversation state.
func (h *ConversationHandler) GetState(c *gin.Context) {
	conversationID := c.Param("conversationId")
	state, err := h.Svc.GetState(c.Request.Context(), conversationID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

// Reset discards a conversation.
func (h *ConversationHandler) Reset(c *gin.Context) {
	conversationID := c.Param("conversationId")
	if err := h.Svc.Reset(c.Request.Context(), conversationID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset conversation"})
		return
	}
	c.Status(http.StatusNoContent)
}
