package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"calleroo/models"
	"calleroo/services/places"
)

// PlacesHandler exposes business search and phone resolution.
type PlacesHandler struct {
	Svc places.Service
}

func NewPlacesHandler(svc places.Service) *PlacesHandler {
	return &PlacesHandler{Svc: svc}
}

// Search finds candidate businesses for a query and area.
func (h *PlacesHandler) Search(c *gin.Context) {
	var req models.PlaceSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search request", "details": err.Error()})
		return
	}

	resp, err := h.Svc.TextSearch(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Place search failed"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Details resolves one place into a callable phone number.
func (h *PlacesHandler) Details(c *gin.Context) {
	placeID := c.Param("placeId")
	if placeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing place id"})
		return
	}

	resp, err := h.Svc.PlaceDetails(c.Request.Context(), placeID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Place lookup failed"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
