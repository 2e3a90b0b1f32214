package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/saferoute-backend-go/internal/models"
	"github.com/jengzang/saferoute-backend-go/internal/spatial"
)

func TestFilterRemovesBlockingEdges(t *testing.T) {
	g := gridGraph()
	hazard := testHazard("h1", 18.7870, 98.9905, 150, 5)

	sub := Filter(g, []models.HazardZone{hazard}, 3, 0)

	assert.Equal(t, g.EdgeCount(), sub.Stats.TotalEdges)
	assert.Greater(t, sub.Stats.EdgesRemoved, 0)
	assert.Equal(t, 1, sub.Stats.HazardsProcessed)
	require.Len(t, sub.Blocking, 1)
	require.Len(t, sub.Considered, 1)

	// Every surviving edge keeps its distance from the blocking circle
	for _, edges := range sub.Adj {
		for _, e := range edges {
			a, b := g.Nodes[e.From], g.Nodes[e.To]
			d := spatial.DistanceToSegment(hazard.Center.Lat, hazard.Center.Lon,
				a.Lat, a.Lon, b.Lat, b.Lon)
			assert.Greater(t, d, hazard.RadiusM)
		}
	}
}

func TestFilterKeepsSubThresholdHazards(t *testing.T) {
	g := gridGraph()
	hazard := testHazard("h1", 18.7870, 98.9905, 150, 5)

	// Threshold 6: level 5 is not blocking, nothing removed
	sub := Filter(g, []models.HazardZone{hazard}, 6, 0)

	assert.Zero(t, sub.Stats.EdgesRemoved)
	assert.Empty(t, sub.Blocking)
	require.Len(t, sub.Considered, 1)

	// Edges inside the circle carry the hazard level for the tie-break
	maxIncident := 0
	for _, edges := range sub.Adj {
		for _, e := range edges {
			if e.IncidentLevel > maxIncident {
				maxIncident = e.IncidentLevel
			}
		}
	}
	assert.Equal(t, 5, maxIncident)
}

func TestFilterBoundaryThreshold(t *testing.T) {
	g := gridGraph()
	hazard := testHazard("h1", 18.7870, 98.9905, 150, 5)

	// A hazard blocks only when level is strictly greater than the threshold
	sub := Filter(g, []models.HazardZone{hazard}, 5, 0)
	assert.Zero(t, sub.Stats.EdgesRemoved)

	sub = Filter(g, []models.HazardZone{hazard}, 4, 0)
	assert.Greater(t, sub.Stats.EdgesRemoved, 0)
}

func TestFilterIgnoresDistantHazards(t *testing.T) {
	g := gridGraph()
	far := testHazard("far", 19.5, 98.9905, 150, 9)

	sub := Filter(g, []models.HazardZone{far}, 3, 0)

	assert.Empty(t, sub.Considered)
	assert.Zero(t, sub.Stats.HazardsProcessed)
	assert.Zero(t, sub.Stats.EdgesRemoved)
}

func TestFilterExposureBuffer(t *testing.T) {
	g := gridGraph()
	// Small circle between grid lines: no edge intersects the radius itself
	hazard := testHazard("h1", 18.7875, 98.9945, 10, 2)

	sub := Filter(g, []models.HazardZone{hazard}, 3, 0)
	for _, edges := range sub.Adj {
		for _, e := range edges {
			assert.Zero(t, e.IncidentLevel)
		}
	}

	// A generous buffer marks nearby edges as exposed
	sub = Filter(g, []models.HazardZone{hazard}, 3, 60)
	exposed := 0
	for _, edges := range sub.Adj {
		for _, e := range edges {
			if e.IncidentLevel == 2 {
				exposed++
			}
		}
	}
	assert.Greater(t, exposed, 0)
}

func TestPointBlocked(t *testing.T) {
	g := gridGraph()
	hazard := testHazard("h1", 18.7870, 98.9905, 150, 5)
	sub := Filter(g, []models.HazardZone{hazard}, 3, 0)

	h, blocked := sub.PointBlocked(18.7870, 98.9907)
	assert.True(t, blocked)
	assert.Equal(t, "h1", h.ID)

	_, blocked = sub.PointBlocked(18.7920, 99.0020)
	assert.False(t, blocked)

	// Same point is not blocked when the hazard is below threshold
	sub = Filter(g, []models.HazardZone{hazard}, 6, 0)
	_, blocked = sub.PointBlocked(18.7870, 98.9907)
	assert.False(t, blocked)
}
