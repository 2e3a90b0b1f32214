package handler

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/saferoute-backend-go/internal/models"
	"github.com/jengzang/saferoute-backend-go/internal/service"
	"github.com/jengzang/saferoute-backend-go/pkg/response"
)

// HazardHandler handles HTTP requests for hazard zone management
type HazardHandler struct {
	hazardService *service.HazardService
}

// NewHazardHandler creates a new hazard handler
func NewHazardHandler(hazardService *service.HazardService) *HazardHandler {
	return &HazardHandler{hazardService: hazardService}
}

// ListHazards handles GET /hazards
func (h *HazardHandler) ListHazards(c *gin.Context) {
	zones := h.hazardService.List()
	response.Success(c, gin.H{
		"data":    zones,
		"count":   len(zones),
		"version": h.hazardService.Version(),
	})
}

// AddHazard handles POST /hazards
func (h *HazardHandler) AddHazard(c *gin.Context) {
	var req models.AddHazardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid hazard request: "+err.Error())
		return
	}

	zone, err := h.hazardService.Add(req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			response.BadRequest(c, err.Error())
		} else {
			response.InternalError(c, err.Error())
		}
		return
	}

	log.Printf("Added hazard zone %s: %s (level %d)", zone.ID, zone.Name, zone.Level)
	response.Success(c, zone)
}

// DeleteHazard handles DELETE /hazards/:id
func (h *HazardHandler) DeleteHazard(c *gin.Context) {
	id := c.Param("id")
	if !h.hazardService.Remove(id) {
		response.NotFound(c, "Hazard zone not found")
		return
	}
	response.Success(c, gin.H{"deleted": id})
}
