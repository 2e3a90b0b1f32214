package graph

import (
	"fmt"

	"github.com/jengzang/saferoute-backend-go/internal/models"
	"github.com/jengzang/saferoute-backend-go/internal/spatial"
)

// Chiang Mai test grid: rows every 0.0010 deg of latitude (~111m),
// columns every 0.0010 deg of longitude (~105m)
var (
	gridLats = []float64{18.7860, 18.7870, 18.7880, 18.7890, 18.7900, 18.7910, 18.7920}
	gridLons = []float64{
		98.9890, 98.9900, 98.9910, 98.9920, 98.9930, 98.9940, 98.9950,
		98.9960, 98.9970, 98.9980, 98.9990, 99.0000, 99.0010, 99.0020,
	}
)

func gridNodeID(row, col int) int64 {
	return int64(row*100 + col + 1)
}

// gridOSM builds Overpass-shaped data for the test grid: one residential
// way per row and per column, all two-way
func gridOSM() *OSMData {
	data := &OSMData{}
	for r, lat := range gridLats {
		for c, lon := range gridLons {
			data.Elements = append(data.Elements, OSMElement{
				Type: "node", ID: gridNodeID(r, c), Lat: lat, Lon: lon,
			})
		}
	}

	wayID := int64(9000)
	tags := map[string]string{"highway": "residential"}
	for r := range gridLats {
		var nodes []int64
		for c := range gridLons {
			nodes = append(nodes, gridNodeID(r, c))
		}
		wayID++
		data.Elements = append(data.Elements, OSMElement{
			Type: "way", ID: wayID, Nodes: nodes,
			Tags: tags, // shared map is fine, builder only reads it
		})
	}
	for c := range gridLons {
		var nodes []int64
		for r := range gridLats {
			nodes = append(nodes, gridNodeID(r, c))
		}
		wayID++
		data.Elements = append(data.Elements, OSMElement{
			Type: "way", ID: wayID, Nodes: nodes, Tags: tags,
		})
	}

	return data
}

func gridRegion() spatial.BoundingBox {
	return spatial.BoundingBoxFromPoints(
		[]float64{gridLats[0], gridLats[len(gridLats)-1]},
		[]float64{gridLons[0], gridLons[len(gridLons)-1]},
	).Expand(300)
}

// gridGraph builds a drive graph over the full test grid
func gridGraph() *RoadGraph {
	region := gridRegion()
	return BuildRoadGraph(GraphKey(region, models.ModeDrive), models.ModeDrive, region, gridOSM())
}

func testHazard(id string, lat, lon, radius float64, level int) models.HazardZone {
	return models.HazardZone{
		ID:      id,
		Center:  models.GeoPoint{Lat: lat, Lon: lon},
		RadiusM: radius,
		Level:   level,
		Name:    fmt.Sprintf("zone %s", id),
	}
}
