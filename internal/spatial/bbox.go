package spatial

import (
	"fmt"
	"math"
)

// BoundingBox is a latitude/longitude rectangle
type BoundingBox struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// BoundingBoxFromPoints builds the smallest box containing all points
func BoundingBoxFromPoints(lats, lons []float64) BoundingBox {
	box := BoundingBox{
		MinLat: math.Inf(1), MinLon: math.Inf(1),
		MaxLat: math.Inf(-1), MaxLon: math.Inf(-1),
	}
	for i := range lats {
		box.MinLat = math.Min(box.MinLat, lats[i])
		box.MaxLat = math.Max(box.MaxLat, lats[i])
		box.MinLon = math.Min(box.MinLon, lons[i])
		box.MaxLon = math.Max(box.MaxLon, lons[i])
	}
	return box
}

// Expand grows the box by the given margin in meters on every side.
// Longitude expansion accounts for meridian convergence at the box's latitude.
func (b BoundingBox) Expand(marginM float64) BoundingBox {
	latDelta := marginM / 111320.0
	midLat := (b.MinLat + b.MaxLat) / 2
	cosLat := math.Cos(midLat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lonDelta := marginM / (111320.0 * cosLat)

	return BoundingBox{
		MinLat: math.Max(b.MinLat-latDelta, -90),
		MaxLat: math.Min(b.MaxLat+latDelta, 90),
		MinLon: math.Max(b.MinLon-lonDelta, -180),
		MaxLon: math.Min(b.MaxLon+lonDelta, 180),
	}
}

// Contains reports whether the point lies inside the box
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Key returns a stable cache key for the box, quantized to ~100m so that
// nearby requests resolve to the same cached graph
func (b BoundingBox) Key() string {
	const q = 1000.0 // ~0.001 degree grid
	return fmt.Sprintf("%d,%d,%d,%d",
		int64(math.Floor(b.MinLat*q)),
		int64(math.Floor(b.MinLon*q)),
		int64(math.Ceil(b.MaxLat*q)),
		int64(math.Ceil(b.MaxLon*q)),
	)
}
