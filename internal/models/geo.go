package models

// GeoPoint represents a geographic coordinate (latitude, longitude)
type GeoPoint struct {
	Lat float64 `json:"lat" form:"lat" binding:"min=-90,max=90"`
	Lon float64 `json:"lon" form:"lon" binding:"min=-180,max=180"`
}

// Valid reports whether the coordinate is within the WGS84 range
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// TravelMode is the road network profile used for routing
type TravelMode string

const (
	ModeDrive TravelMode = "drive"
	ModeWalk  TravelMode = "walk"
	ModeBike  TravelMode = "bike"
)

// Valid reports whether the mode is one of the supported profiles
func (m TravelMode) Valid() bool {
	switch m {
	case ModeDrive, ModeWalk, ModeBike:
		return true
	}
	return false
}

// DefaultSpeedKmh returns the average speed used to estimate travel time
// when the map source carries no speed data for an edge
func (m TravelMode) DefaultSpeedKmh() float64 {
	switch m {
	case ModeWalk:
		return 5.0
	case ModeBike:
		return 15.0
	default:
		return 50.0
	}
}

// MaxSpeedKmh returns an upper bound on edge speed for the mode.
// The A* heuristic divides by this value, so it must never be lower
// than any edge speed the graph builder can assign.
func (m TravelMode) MaxSpeedKmh() float64 {
	switch m {
	case ModeWalk:
		return 7.0
	case ModeBike:
		return 30.0
	default:
		return 130.0
	}
}
