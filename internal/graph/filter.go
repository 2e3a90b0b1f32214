package graph

import (
	"github.com/jengzang/saferoute-backend-go/internal/models"
	"github.com/jengzang/saferoute-backend-go/internal/spatial"
)

// SafeEdge is an edge that survived hazard filtering, annotated with the
// highest non-blocking hazard level found near it
type SafeEdge struct {
	Edge
	IncidentLevel int
}

// FilterStats summarizes one filtering pass
type FilterStats struct {
	TotalEdges       int `json:"total_edges"`
	EdgesRemoved     int `json:"edges_removed"`
	HazardsProcessed int `json:"hazards_processed"`
}

// SafeSubgraph is a view of a road graph with every edge intersecting a
// blocking hazard removed. Derived and disposable; keyed by
// (graph key, threshold, hazard-set version) in the result cache.
type SafeSubgraph struct {
	Base       *RoadGraph
	Threshold  int
	Adj        map[NodeID][]SafeEdge
	Considered []models.HazardZone
	Blocking   []models.HazardZone
	Stats      FilterStats
}

// Filter derives the subgraph of edges safe to traverse under the given
// danger threshold. An edge is removed when its segment comes within a
// blocking hazard's radius; surviving edges record the highest sub-threshold
// hazard level within bufferM of the hazard radius, used by the search
// tie-break to minimize residual exposure.
func Filter(g *RoadGraph, hazards []models.HazardZone, threshold int, bufferM float64) *SafeSubgraph {
	sub := &SafeSubgraph{
		Base:      g,
		Threshold: threshold,
		Adj:       make(map[NodeID][]SafeEdge, len(g.Adj)),
	}

	// Only hazards whose circle can reach the region matter
	reach := g.Region.Expand(models.MaxHazardRadiusM + bufferM)
	for _, h := range hazards {
		if reach.Contains(h.Center.Lat, h.Center.Lon) {
			sub.Considered = append(sub.Considered, h)
			if h.Blocking(threshold) {
				sub.Blocking = append(sub.Blocking, h)
			}
		}
	}
	sub.Stats.HazardsProcessed = len(sub.Considered)

	for from, edges := range g.Adj {
		for _, e := range edges {
			sub.Stats.TotalEdges++

			a, b := g.Nodes[e.From], g.Nodes[e.To]
			removed := false
			incident := 0

			for _, h := range sub.Considered {
				d := spatial.DistanceToSegment(h.Center.Lat, h.Center.Lon,
					a.Lat, a.Lon, b.Lat, b.Lon)
				if h.Blocking(threshold) {
					if d <= h.RadiusM {
						removed = true
						break
					}
				} else if d <= h.RadiusM+bufferM && h.Level > incident {
					incident = h.Level
				}
			}

			if removed {
				sub.Stats.EdgesRemoved++
				continue
			}
			sub.Adj[from] = append(sub.Adj[from], SafeEdge{Edge: e, IncidentLevel: incident})
		}
	}

	return sub
}

// PointBlocked returns the blocking hazard containing the point, if any
func (s *SafeSubgraph) PointBlocked(lat, lon float64) (models.HazardZone, bool) {
	for _, h := range s.Blocking {
		if spatial.HaversineDistance(lat, lon, h.Center.Lat, h.Center.Lon) <= h.RadiusM {
			return h, true
		}
	}
	return models.HazardZone{}, false
}
