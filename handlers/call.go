package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"calleroo/models"
	"calleroo/services/call"
)

// CallHandler exposes outbound call placement and result polling.
type CallHandler struct {
	Svc call.Service
}

func NewCallHandler(svc call.Service) *CallHandler {
	return &CallHandler{Svc: svc}
}

// BuildBrief renders the call brief for review before dialing.
func (h *CallHandler) BuildBrief(c *gin.Context) {
	var req models.StartCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid brief request", "details": err.Error()})
		return
	}

	brief, err := call.BriefForAgent(req.AgentType, req.Slots)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, brief)
}

// StartCall places the outbound call.
func (h *CallHandler) StartCall(c *gin.Context) {
	var req models.StartCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid call request", "details": err.Error()})
		return
	}

	resp, err := h.Svc.StartCall(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

// Status reports live progress and, once available, the analyzed result.
func (h *CallHandler) Status(c *gin.Context) {
	callID := c.Param("callId")
	resp, err := h.Svc.CallStatus(c.Request.Context(), callID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Result renders the finished call for display: title, summary, bullets,
// next steps, and a cleaned transcript.
func (h *CallHandler) Result(c *gin.Context) {
	callID := c.Param("callId")
	resp, err := h.Svc.FormatCallResult(c.Request.Context(), callID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
