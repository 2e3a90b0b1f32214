package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/saferoute-backend-go/internal/models"
)

func testRoute(id string) *models.Route {
	return &models.Route{
		ID:        id,
		Mode:      models.ModeDrive,
		DistanceM: 1200,
		DurationS: 86.4,
		CreatedAt: time.Now(),
	}
}

func TestRegistryStoreAndGet(t *testing.T) {
	r := NewRouteRegistry(time.Minute)

	stats := models.RouteStats{TotalEdges: 10, DangerousEdgesRemoved: 2}
	id := r.Store(testRoute("r1"), stats)
	assert.Equal(t, "r1", id)

	route, gotStats, ok := r.Get("r1")
	require.True(t, ok)
	assert.Equal(t, 1200.0, route.DistanceM)
	assert.Equal(t, 2, gotStats.DangerousEdgesRemoved)
	assert.Equal(t, 1, r.Count())
}

func TestRegistryUnknownID(t *testing.T) {
	r := NewRouteRegistry(time.Minute)
	_, _, ok := r.Get("missing")
	assert.False(t, ok)
}

func TestRegistryExpiry(t *testing.T) {
	r := NewRouteRegistry(20 * time.Millisecond)
	r.Store(testRoute("r1"), models.RouteStats{})

	_, _, ok := r.Get("r1")
	assert.True(t, ok)

	time.Sleep(40 * time.Millisecond)

	_, _, ok = r.Get("r1")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Count())
}
