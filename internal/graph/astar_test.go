package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/saferoute-backend-go/internal/models"
	"github.com/jengzang/saferoute-backend-go/internal/spatial"
)

var (
	scenarioStart = models.GeoPoint{Lat: 18.7876, Lon: 98.9917}
	scenarioEnd   = models.GeoPoint{Lat: 18.7913, Lon: 99.0014}
)

func TestSearchFindsPath(t *testing.T) {
	g := gridGraph()
	sub := Filter(g, nil, 3, 0)

	res, err := Search(context.Background(), sub, scenarioStart, scenarioEnd)
	require.NoError(t, err)

	assert.Greater(t, len(res.Path), 2)
	assert.Greater(t, res.DistanceM, 0.0)
	assert.Greater(t, res.DurationS, 0.0)
	assert.Zero(t, res.MaxHazardLevel)

	// Path is edge-connected from the start snap to the end snap
	assert.Equal(t, NodeID(gridNodeID(2, 3)), res.Path[0].ID)
	assert.Equal(t, NodeID(gridNodeID(5, 12)), res.Path[len(res.Path)-1].ID)
}

func TestSearchAvoidsBlockingHazard(t *testing.T) {
	g := gridGraph()
	hazard := testHazard("h1", 18.7870, 98.9905, 150, 5)
	sub := Filter(g, []models.HazardZone{hazard}, 3, 0)

	res, err := Search(context.Background(), sub, scenarioStart, scenarioEnd)
	require.NoError(t, err)

	// Safety invariant: no path segment comes within the exclusion circle
	for i := 0; i < len(res.Path)-1; i++ {
		a, b := res.Path[i], res.Path[i+1]
		d := spatial.DistanceToSegment(hazard.Center.Lat, hazard.Center.Lon,
			a.Lat, a.Lon, b.Lat, b.Lon)
		assert.Greater(t, d, hazard.RadiusM,
			"segment %d-%d intersects the exclusion circle", i, i+1)
	}
}

func TestSearchMonotoneInThreshold(t *testing.T) {
	g := gridGraph()
	hazard := testHazard("h1", 18.7870, 98.9905, 150, 5)

	strict := Filter(g, []models.HazardZone{hazard}, 3, 0)
	lenient := Filter(g, []models.HazardZone{hazard}, 6, 0)

	resStrict, err := Search(context.Background(), strict, scenarioStart, scenarioEnd)
	require.NoError(t, err)
	resLenient, err := Search(context.Background(), lenient, scenarioStart, scenarioEnd)
	require.NoError(t, err)

	// Raising the threshold only grows the search space
	assert.GreaterOrEqual(t, resStrict.DurationS, resLenient.DurationS)
}

func TestSearchNoSafeRoute(t *testing.T) {
	// A single east-west street severed in the middle by a blocking hazard
	region := spatial.BoundingBox{MinLat: 18.78, MinLon: 98.98, MaxLat: 18.80, MaxLon: 99.01}
	g := NewRoadGraph("line", models.ModeDrive, region)
	lons := []float64{98.9900, 98.9910, 98.9920, 98.9930, 98.9940}
	for i, lon := range lons {
		g.AddNode(Node{ID: NodeID(i + 1), Lat: 18.7900, Lon: lon})
	}
	for i := 1; i < len(lons); i++ {
		length := spatial.HaversineDistance(18.79, lons[i-1], 18.79, lons[i])
		g.AddEdge(Edge{From: NodeID(i), To: NodeID(i + 1), LengthM: length, SpeedKmh: 50})
		g.AddEdge(Edge{From: NodeID(i + 1), To: NodeID(i), LengthM: length, SpeedKmh: 50})
	}

	hazard := testHazard("wall", 18.7900, 98.9920, 60, 8)
	sub := Filter(g, []models.HazardZone{hazard}, 3, 0)

	_, err := Search(context.Background(), sub,
		models.GeoPoint{Lat: 18.7900, Lon: 98.9900},
		models.GeoPoint{Lat: 18.7900, Lon: 98.9940})
	assert.ErrorIs(t, err, models.ErrNoSafeRoute)
}

func TestSearchEndpointInsideBlockingHazard(t *testing.T) {
	g := gridGraph()
	hazard := testHazard("h1", 18.7870, 98.9905, 150, 5)
	sub := Filter(g, []models.HazardZone{hazard}, 3, 0)

	// End point deep inside the circle snaps to a node inside it
	inside := models.GeoPoint{Lat: 18.7870, Lon: 98.9907}
	_, err := Search(context.Background(), sub, scenarioStart, inside)
	assert.ErrorIs(t, err, models.ErrStartOrEndInHazard)

	_, err = Search(context.Background(), sub, inside, scenarioEnd)
	assert.ErrorIs(t, err, models.ErrStartOrEndInHazard)
}

func TestSearchFringeEndpointStillRoutes(t *testing.T) {
	g := gridGraph()
	hazard := testHazard("h1", 18.7870, 98.9905, 150, 5)
	sub := Filter(g, []models.HazardZone{hazard}, 3, 0)

	// The raw start lies just inside the circle (~143m from center) but its
	// nearest road node is outside; routing proceeds from there
	_, blocked := sub.PointBlocked(scenarioStart.Lat, scenarioStart.Lon)
	require.True(t, blocked)

	res, err := Search(context.Background(), sub, scenarioStart, scenarioEnd)
	require.NoError(t, err)
	assert.Greater(t, res.DistanceM, 0.0)
}

func TestSearchSameSnapNode(t *testing.T) {
	g := gridGraph()
	sub := Filter(g, nil, 3, 0)

	a := models.GeoPoint{Lat: 18.7881, Lon: 98.9921}
	b := models.GeoPoint{Lat: 18.7879, Lon: 98.9919}

	res, err := Search(context.Background(), sub, a, b)
	require.NoError(t, err)
	assert.Len(t, res.Path, 1)
	assert.Zero(t, res.DistanceM)
	assert.Zero(t, res.DurationS)
}

func TestSearchCancelledContext(t *testing.T) {
	g := gridGraph()
	sub := Filter(g, nil, 3, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Search(ctx, sub, scenarioStart, scenarioEnd)
	assert.ErrorIs(t, err, models.ErrSearchTimeout)
}

func TestSearchOptimalWithHighMaxspeedTags(t *testing.T) {
	// Two roads between the same endpoints, both tagged faster than the
	// drive maximum: a direct one and a slightly longer corridor. With tag
	// speeds capped at the mode bound, travel time is proportional to
	// length and the direct road is the unique optimum.
	data := &OSMData{Elements: []OSMElement{
		{Type: "node", ID: 1, Lat: 18.7900, Lon: 98.9900},
		{Type: "node", ID: 2, Lat: 18.7905, Lon: 98.9920},
		{Type: "node", ID: 3, Lat: 18.7900, Lon: 98.9940},
		{Type: "way", ID: 100, Nodes: []int64{1, 3},
			Tags: map[string]string{"highway": "primary", "maxspeed": "180"}},
		{Type: "way", ID: 101, Nodes: []int64{1, 2, 3},
			Tags: map[string]string{"highway": "motorway", "maxspeed": "200"}},
	}}
	region := spatial.BoundingBox{MinLat: 18.78, MinLon: 98.98, MaxLat: 18.80, MaxLon: 99.00}
	g := BuildRoadGraph("tworoads", models.ModeDrive, region, data)

	maxKmh := models.ModeDrive.MaxSpeedKmh()
	for _, edges := range g.Adj {
		for _, e := range edges {
			assert.LessOrEqual(t, e.SpeedKmh, maxKmh)
		}
	}

	sub := Filter(g, nil, 3, 0)
	res, err := Search(context.Background(), sub,
		models.GeoPoint{Lat: 18.7900, Lon: 98.9900},
		models.GeoPoint{Lat: 18.7900, Lon: 98.9940})
	require.NoError(t, err)

	require.Len(t, res.Path, 2, "expected the direct road, not the corridor")
	directLen := spatial.HaversineDistance(18.7900, 98.9900, 18.7900, 98.9940)
	assert.InDelta(t, directLen/(maxKmh/3.6), res.DurationS, 0.1)
}

func TestSearchTieBreakPrefersLowerExposure(t *testing.T) {
	// Tiny square with two equal-cost paths; a level-2 hazard sits on the
	// corner of one of them
	region := spatial.BoundingBox{MinLat: -0.01, MinLon: -0.01, MaxLat: 0.01, MaxLon: 0.01}
	g := NewRoadGraph("square", models.ModeDrive, region)
	nodes := []Node{
		{ID: 1, Lat: 0, Lon: 0},           // start
		{ID: 2, Lat: 0, Lon: 0.0001},      // exposed corner
		{ID: 3, Lat: 0.0001, Lon: 0},      // clean corner
		{ID: 4, Lat: 0.0001, Lon: 0.0001}, // goal
	}
	for _, n := range nodes {
		g.AddNode(n)
	}
	addBoth := func(a, b NodeID) {
		na, nb := g.Nodes[a], g.Nodes[b]
		length := spatial.HaversineDistance(na.Lat, na.Lon, nb.Lat, nb.Lon)
		g.AddEdge(Edge{From: a, To: b, LengthM: length, SpeedKmh: 50})
		g.AddEdge(Edge{From: b, To: a, LengthM: length, SpeedKmh: 50})
	}
	addBoth(1, 2)
	addBoth(2, 4)
	addBoth(1, 3)
	addBoth(3, 4)

	hazard := testHazard("near", 0, 0.0001, 3, 2)
	sub := Filter(g, []models.HazardZone{hazard}, 5, 0)

	res, err := Search(context.Background(), sub,
		models.GeoPoint{Lat: 0, Lon: 0}, models.GeoPoint{Lat: 0.0001, Lon: 0.0001})
	require.NoError(t, err)

	require.Len(t, res.Path, 3)
	assert.Equal(t, NodeID(3), res.Path[1].ID, "expected the path avoiding residual exposure")
	assert.Zero(t, res.MaxHazardLevel)
}
