package models

import "time"

// Hazard level bounds and radius limits
const (
	MinHazardLevel   = 1
	MaxHazardLevel   = 10
	MinHazardRadiusM = 1.0
	MaxHazardRadiusM = 1000.0
)

// HazardZone represents a circular area to avoid, with a severity level.
// A zone blocks routing for a request when Level > danger threshold.
type HazardZone struct {
	ID        string    `json:"id"`
	Center    GeoPoint  `json:"center"`
	RadiusM   float64   `json:"radius_m"`
	Level     int       `json:"level"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Blocking reports whether the zone excludes edges for the given threshold
func (z HazardZone) Blocking(threshold int) bool {
	return z.Level > threshold
}

// AddHazardRequest is the request body for creating a hazard zone
type AddHazardRequest struct {
	Lat     float64 `json:"lat" binding:"min=-90,max=90"`
	Lon     float64 `json:"lon" binding:"min=-180,max=180"`
	Level   int     `json:"level" binding:"required,gte=1,lte=10"`
	Name    string  `json:"name"`
	RadiusM float64 `json:"radius_m" binding:"omitempty,gte=1,lte=1000"`
}
