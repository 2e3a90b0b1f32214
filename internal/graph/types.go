package graph

import (
	"math"
	"time"

	"github.com/jengzang/saferoute-backend-go/internal/models"
	"github.com/jengzang/saferoute-backend-go/internal/spatial"
)

// NodeID identifies a graph node (OSM node id for OSM-backed graphs)
type NodeID int64

// Node represents an intersection or shape point in the road network
type Node struct {
	ID  NodeID
	Lat float64
	Lon float64
}

// Edge represents a directed road segment between two nodes
type Edge struct {
	From     NodeID
	To       NodeID
	LengthM  float64
	SpeedKmh float64 // effective traversal speed for the graph's mode
	Name     string
}

// TravelTimeS returns the edge traversal time in seconds
func (e Edge) TravelTimeS() float64 {
	if e.SpeedKmh <= 0 {
		return math.Inf(1)
	}
	return e.LengthM / (e.SpeedKmh / 3.6)
}

// RoadGraph is a directed road network for one (region, mode) pair.
// Read-only after construction; shared across requests.
type RoadGraph struct {
	Key     string
	Mode    models.TravelMode
	Region  spatial.BoundingBox
	Nodes   map[NodeID]Node
	Adj     map[NodeID][]Edge
	BuiltAt time.Time

	edgeCount int
}

// NewRoadGraph creates an empty graph for the given region and mode
func NewRoadGraph(key string, mode models.TravelMode, region spatial.BoundingBox) *RoadGraph {
	return &RoadGraph{
		Key:     key,
		Mode:    mode,
		Region:  region,
		Nodes:   make(map[NodeID]Node),
		Adj:     make(map[NodeID][]Edge),
		BuiltAt: time.Now(),
	}
}

// AddNode inserts a node, replacing any previous node with the same id
func (g *RoadGraph) AddNode(n Node) {
	g.Nodes[n.ID] = n
}

// AddEdge inserts a directed edge. Both endpoints must already exist.
func (g *RoadGraph) AddEdge(e Edge) {
	g.Adj[e.From] = append(g.Adj[e.From], e)
	g.edgeCount++
}

// EdgeCount returns the number of directed edges in the graph
func (g *RoadGraph) EdgeCount() int {
	return g.edgeCount
}

// NearestNode returns the node geometrically closest to the given point.
// Returns false when the graph has no nodes.
func (g *RoadGraph) NearestNode(lat, lon float64) (Node, bool) {
	var best Node
	bestDist := math.Inf(1)
	found := false
	for _, n := range g.Nodes {
		d := spatial.HaversineDistance(lat, lon, n.Lat, n.Lon)
		if d < bestDist {
			bestDist = d
			best = n
			found = true
		}
	}
	return best, found
}
