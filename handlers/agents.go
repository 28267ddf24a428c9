package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"calleroo/services/agent"
)

// AgentsHandler exposes the catalog of call agents the app can offer.
type AgentsHandler struct{}

func NewAgentsHandler() *AgentsHandler {
	return &AgentsHandler{}
}

// List returns every registered agent spec: its slots, input types, and
// confirmation layout. The client renders its agent picker from this.
func (h *AgentsHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"agents": agent.ListSpecs()})
}
