package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/saferoute-backend-go/internal/models"
	"github.com/jengzang/saferoute-backend-go/internal/service"
	"github.com/jengzang/saferoute-backend-go/pkg/response"
)

// RouteHandler handles HTTP requests for route computation and retrieval
type RouteHandler struct {
	routingService *service.RoutingService
	hazardService  *service.HazardService
	mapService     *service.MapService
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routingService *service.RoutingService, hazardService *service.HazardService, mapService *service.MapService) *RouteHandler {
	return &RouteHandler{
		routingService: routingService,
		hazardService:  hazardService,
		mapService:     mapService,
	}
}

// ComputeRoute handles POST /route
func (h *RouteHandler) ComputeRoute(c *gin.Context) {
	var req models.RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid route request: "+err.Error())
		return
	}

	route, _, err := h.routingService.ComputeRoute(c.Request.Context(), req)
	if err != nil {
		writeRoutingError(c, err)
		return
	}

	response.Success(c, models.RouteResponse{
		RouteID:           route.ID,
		Status:            "success",
		DistanceKm:        route.DistanceM / 1000,
		DurationMin:       route.DurationS / 60,
		Waypoints:         route.Waypoints,
		HazardsConsidered: route.HazardsConsidered,
		HazardsAvoided:    route.HazardsAvoided,
		MapURL:            "/map/" + route.ID,
	})
}

// GetRoute handles GET /route/:id
func (h *RouteHandler) GetRoute(c *gin.Context) {
	route, err := h.routingService.GetRoute(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Route not found")
		return
	}
	response.Success(c, route)
}

// GetRouteStats handles GET /route/:id/stats
func (h *RouteHandler) GetRouteStats(c *gin.Context) {
	route, stats, err := h.routingService.GetRouteStats(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Route not found")
		return
	}
	response.Success(c, models.RouteStatsResponse{
		DistanceM:      route.DistanceM,
		DurationS:      route.DurationS,
		MaxHazardLevel: route.MaxHazardLevel,
		Stats:          stats,
	})
}

// GetRouteMap handles GET /map/:id
func (h *RouteHandler) GetRouteMap(c *gin.Context) {
	route, err := h.routingService.GetRoute(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Route not found")
		return
	}

	html, err := h.mapService.RenderRouteMap(route, h.hazardService.List())
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// writeRoutingError maps the routing error taxonomy to HTTP statuses
func writeRoutingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	case errors.Is(err, models.ErrStartOrEndInHazard):
		response.Unprocessable(c, err.Error())
	case errors.Is(err, models.ErrNoSafeRoute):
		response.NotFound(c, err.Error())
	case errors.Is(err, models.ErrGraphUnavailable):
		response.BadGateway(c, err.Error())
	case errors.Is(err, models.ErrSearchTimeout):
		response.GatewayTimeout(c, err.Error())
	case errors.Is(err, models.ErrNotFound):
		response.NotFound(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}
