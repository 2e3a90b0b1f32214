package graph

import (
	"regexp"
	"strconv"

	"github.com/jengzang/saferoute-backend-go/internal/models"
	"github.com/jengzang/saferoute-backend-go/internal/spatial"
)

// Highway classes excluded per mode. Everything else tagged "highway" is routable.
var excludedHighways = map[models.TravelMode]map[string]bool{
	models.ModeDrive: {
		"footway": true, "path": true, "steps": true, "pedestrian": true,
		"cycleway": true, "bridleway": true, "corridor": true,
	},
	models.ModeWalk: {
		"motorway": true, "motorway_link": true, "trunk": true, "trunk_link": true,
	},
	models.ModeBike: {
		"motorway": true, "motorway_link": true, "footway": true, "steps": true,
	},
}

var speedDigits = regexp.MustCompile(`\d+`)

// parseMaxSpeed extracts a km/h value from an OSM maxspeed tag,
// falling back to the mode's default when the tag is absent or malformed
func parseMaxSpeed(tag string, mode models.TravelMode) float64 {
	if tag == "" {
		return mode.DefaultSpeedKmh()
	}
	match := speedDigits.FindString(tag)
	if match == "" {
		return mode.DefaultSpeedKmh()
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil || v <= 0 {
		return mode.DefaultSpeedKmh()
	}
	// Walking and cycling speed is bounded by the traveller, not the road
	if limit := mode.DefaultSpeedKmh(); mode != models.ModeDrive && v > limit {
		return limit
	}
	// No edge may be faster than the bound the search heuristic divides by
	if limit := mode.MaxSpeedKmh(); v > limit {
		return limit
	}
	return v
}

// isOneway reports whether a way may only be traversed in node order
func isOneway(tags map[string]string, mode models.TravelMode) bool {
	if mode == models.ModeWalk {
		return false
	}
	switch tags["oneway"] {
	case "yes", "true", "1":
		return true
	}
	return tags["junction"] == "roundabout"
}

// BuildRoadGraph converts raw OSM elements into a directed road graph
// for the given mode. Ways with highway classes unusable by the mode are
// skipped; per-edge speed comes from the maxspeed tag when present.
func BuildRoadGraph(key string, mode models.TravelMode, region spatial.BoundingBox, data *OSMData) *RoadGraph {
	g := NewRoadGraph(key, mode, region)

	coords := make(map[int64]OSMElement)
	for _, el := range data.Elements {
		if el.Type == "node" {
			coords[el.ID] = el
		}
	}

	excluded := excludedHighways[mode]
	used := make(map[int64]bool)

	for _, el := range data.Elements {
		if el.Type != "way" || len(el.Nodes) < 2 {
			continue
		}
		highway := el.Tags["highway"]
		if highway == "" || excluded[highway] {
			continue
		}

		speed := parseMaxSpeed(el.Tags["maxspeed"], mode)
		oneway := isOneway(el.Tags, mode)
		name := el.Tags["name"]

		for i := 0; i < len(el.Nodes)-1; i++ {
			from, okF := coords[el.Nodes[i]]
			to, okT := coords[el.Nodes[i+1]]
			if !okF || !okT {
				continue
			}

			length := spatial.HaversineDistance(from.Lat, from.Lon, to.Lat, to.Lon)
			if length <= 0 {
				continue
			}

			for _, id := range []int64{from.ID, to.ID} {
				if !used[id] {
					n := coords[id]
					g.AddNode(Node{ID: NodeID(id), Lat: n.Lat, Lon: n.Lon})
					used[id] = true
				}
			}

			g.AddEdge(Edge{
				From: NodeID(from.ID), To: NodeID(to.ID),
				LengthM: length, SpeedKmh: speed, Name: name,
			})
			if !oneway {
				g.AddEdge(Edge{
					From: NodeID(to.ID), To: NodeID(from.ID),
					LengthM: length, SpeedKmh: speed, Name: name,
				})
			}
		}
	}

	return g
}
