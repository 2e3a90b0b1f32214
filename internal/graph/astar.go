package graph

import (
	"container/heap"
	"context"
	"fmt"
	"math"

	"github.com/jengzang/saferoute-backend-go/internal/models"
	"github.com/jengzang/saferoute-backend-go/internal/spatial"
)

// costTolerance is the float comparison slack when deciding whether two
// path costs tie; ties are broken by residual hazard exposure
const costTolerance = 1e-9

// ctxCheckInterval is how many open-set pops happen between context checks
const ctxCheckInterval = 1024

// SearchResult is the outcome of a successful path search
type SearchResult struct {
	Path           []Node
	DistanceM      float64
	DurationS      float64
	MaxHazardLevel int
}

// Search runs an A* search over the safe subgraph between two points.
// Cost is travel time in seconds; the heuristic is great-circle distance
// divided by the mode's maximum speed, which never overestimates the true
// remaining cost. Equal-cost paths prefer the one with lower accumulated
// exposure to sub-threshold hazards.
func Search(ctx context.Context, sub *SafeSubgraph, start, end models.GeoPoint) (*SearchResult, error) {
	startNode, ok := sub.Base.NearestNode(start.Lat, start.Lon)
	if !ok {
		return nil, fmt.Errorf("%w: no roads near start", models.ErrNoSafeRoute)
	}
	endNode, ok := sub.Base.NearestNode(end.Lat, end.Lon)
	if !ok {
		return nil, fmt.Errorf("%w: no roads near end", models.ErrNoSafeRoute)
	}

	// The blocking test applies to the snap points, not the raw endpoints:
	// a request from the fringe of a circle may still snap to a safe road,
	// but a snap point inside the circle is refused rather than routed through
	if h, ok := sub.PointBlocked(startNode.Lat, startNode.Lon); ok {
		return nil, fmt.Errorf("%w: nearest road to start inside %q (level %d)", models.ErrStartOrEndInHazard, h.Name, h.Level)
	}
	if h, ok := sub.PointBlocked(endNode.Lat, endNode.Lon); ok {
		return nil, fmt.Errorf("%w: nearest road to end inside %q (level %d)", models.ErrStartOrEndInHazard, h.Name, h.Level)
	}

	if startNode.ID == endNode.ID {
		return &SearchResult{Path: []Node{startNode}}, nil
	}

	maxSpeedMS := sub.Base.Mode.MaxSpeedKmh() / 3.6
	heuristic := func(n Node) float64 {
		return spatial.HaversineDistance(n.Lat, n.Lon, endNode.Lat, endNode.Lon) / maxSpeedMS
	}

	gScore := map[NodeID]float64{startNode.ID: 0}
	exposure := map[NodeID]float64{startNode.ID: 0}
	cameFrom := make(map[NodeID]SafeEdge)
	closed := make(map[NodeID]bool)

	pq := &searchQueue{}
	heap.Init(pq)
	heap.Push(pq, &searchItem{node: startNode.ID, priority: heuristic(startNode)})

	pops := 0
	for pq.Len() > 0 {
		if pops%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %v", models.ErrSearchTimeout, err)
			}
		}
		pops++

		current := heap.Pop(pq).(*searchItem).node
		if current == endNode.ID {
			return buildResult(sub, cameFrom, startNode.ID, endNode.ID), nil
		}
		if closed[current] {
			continue
		}
		closed[current] = true

		for _, e := range sub.Adj[current] {
			if closed[e.To] {
				continue
			}
			tentative := gScore[current] + e.TravelTimeS()
			tentativeExp := exposure[current] + float64(e.IncidentLevel)*e.LengthM

			old, seen := gScore[e.To]
			better := !seen || tentative < old-costTolerance
			tied := seen && math.Abs(tentative-old) <= costTolerance && tentativeExp < exposure[e.To]
			if !better && !tied {
				continue
			}

			gScore[e.To] = tentative
			exposure[e.To] = tentativeExp
			cameFrom[e.To] = e

			n := sub.Base.Nodes[e.To]
			heap.Push(pq, &searchItem{
				node:     e.To,
				priority: tentative + heuristic(n),
				exposure: tentativeExp,
			})
		}
	}

	return nil, fmt.Errorf("%w: no path between start and end avoids blocking hazards", models.ErrNoSafeRoute)
}

func buildResult(sub *SafeSubgraph, cameFrom map[NodeID]SafeEdge, startID, endID NodeID) *SearchResult {
	var edges []SafeEdge
	for cur := endID; cur != startID; {
		e := cameFrom[cur]
		edges = append(edges, e)
		cur = e.From
	}

	res := &SearchResult{Path: []Node{sub.Base.Nodes[startID]}}
	for i := len(edges) - 1; i >= 0; i-- {
		e := edges[i]
		res.Path = append(res.Path, sub.Base.Nodes[e.To])
		res.DistanceM += e.LengthM
		res.DurationS += e.TravelTimeS()
		if e.IncidentLevel > res.MaxHazardLevel {
			res.MaxHazardLevel = e.IncidentLevel
		}
	}
	return res
}

type searchItem struct {
	node     NodeID
	priority float64
	exposure float64
	index    int
}

type searchQueue []*searchItem

func (q searchQueue) Len() int { return len(q) }

func (q searchQueue) Less(i, j int) bool {
	if math.Abs(q[i].priority-q[j].priority) <= costTolerance {
		return q[i].exposure < q[j].exposure
	}
	return q[i].priority < q[j].priority
}

func (q searchQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *searchQueue) Push(x interface{}) {
	item := x.(*searchItem)
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *searchQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}
