package models

import "time"

// Route is a computed path between two points, read-only after creation
type Route struct {
	ID                string       `json:"route_id"`
	Mode              TravelMode   `json:"mode"`
	DangerThreshold   int          `json:"danger_threshold"`
	Start             GeoPoint     `json:"start"`
	End               GeoPoint     `json:"end"`
	Waypoints         []GeoPoint   `json:"waypoints"`
	DistanceM         float64      `json:"distance_m"`
	DurationS         float64      `json:"duration_s"`
	MaxHazardLevel    int          `json:"max_hazard_level"`
	HazardsConsidered []HazardZone `json:"hazards_considered"`
	HazardsAvoided    []string     `json:"hazards_avoided"`
	CreatedAt         time.Time    `json:"created_at"`
}

// RouteStats holds computation statistics for a route
type RouteStats struct {
	TotalEdges            int     `json:"total_edges"`
	DangerousEdgesRemoved int     `json:"dangerous_edges_removed"`
	HazardZonesProcessed  int     `json:"hazard_zones_processed"`
	ComputationTimeSec    float64 `json:"computation_time_sec"`
}

// RouteRequest is the request body for route calculation.
// Start and end carry no presence constraint: (0,0) is a valid coordinate,
// so range checks happen in the service rather than at binding time.
type RouteRequest struct {
	Start           GeoPoint   `json:"start"`
	End             GeoPoint   `json:"end"`
	Mode            TravelMode `json:"mode" binding:"omitempty,oneof=drive walk bike"`
	DangerThreshold int        `json:"danger_threshold" binding:"omitempty,gte=1,lte=10"`
}

// RouteResponse is the response body for a successful route calculation
type RouteResponse struct {
	RouteID           string       `json:"route_id"`
	Status            string       `json:"status"`
	DistanceKm        float64      `json:"distance_km"`
	DurationMin       float64      `json:"duration_estimate_min"`
	Waypoints         []GeoPoint   `json:"waypoints"`
	HazardsConsidered []HazardZone `json:"hazards_considered"`
	HazardsAvoided    []string     `json:"hazards_avoided"`
	MapURL            string       `json:"map_url"`
}

// RouteStatsResponse is the response body for route statistics
type RouteStatsResponse struct {
	DistanceM      float64    `json:"distance_m"`
	DurationS      float64    `json:"duration_s"`
	MaxHazardLevel int        `json:"max_hazard_level"`
	Stats          RouteStats `json:"stats"`
}
