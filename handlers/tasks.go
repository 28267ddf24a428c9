package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"calleroo/models"
	"calleroo/services/tasks"
)

// TaskHandler exposes scheduled-call CRUD.
type TaskHandler struct {
	Svc tasks.TaskService
}

func NewTaskHandler(svc tasks.TaskService) *TaskHandler {
	return &TaskHandler{Svc: svc}
}

// Create schedules a call for later.
func (h *TaskHandler) Create(c *gin.Context) {
	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task request", "details": err.Error()})
		return
	}

	resp, err := h.Svc.CreateTask(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List returns the caller's scheduled tasks.
func (h *TaskHandler) List(c *gin.Context) {
	resp, err := h.Svc.ListTasks(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tasks"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns one scheduled task.
func (h *TaskHandler) Get(c *gin.Context) {
	resp, err := h.Svc.GetTask(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel calls off a still-pending task.
func (h *TaskHandler) Cancel(c *gin.Context) {
	if err := h.Svc.CancelTask(c.Request.Context(), c.Param("taskId")); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
