package graph

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jengzang/saferoute-backend-go/internal/models"
	"github.com/jengzang/saferoute-backend-go/internal/spatial"
)

// Provider builds and caches road graphs per (region, mode) pair.
// Concurrent requests for the same uncached key share one acquisition;
// the mutex only guards the cache map, never the fetch itself.
type Provider struct {
	source  MapSource
	ttl     time.Duration
	marginM float64

	mu     sync.RWMutex
	cache  map[string]*cachedGraph
	flight singleflight.Group
}

type cachedGraph struct {
	graph     *RoadGraph
	expiresAt time.Time
}

// NewProvider creates a graph provider over the given map source.
// marginM is the detour margin added around the request endpoints.
func NewProvider(source MapSource, ttl time.Duration, marginM float64) *Provider {
	return &Provider{
		source:  source,
		ttl:     ttl,
		marginM: marginM,
		cache:   make(map[string]*cachedGraph),
	}
}

// Region returns the covering bounding box for a start/end pair,
// expanded by the configured margin so hazards near either endpoint
// can be routed around
func (p *Provider) Region(start, end models.GeoPoint) spatial.BoundingBox {
	box := spatial.BoundingBoxFromPoints(
		[]float64{start.Lat, end.Lat},
		[]float64{start.Lon, end.Lon},
	)
	return box.Expand(p.marginM)
}

// GraphKey returns the cache key for a region and mode
func GraphKey(region spatial.BoundingBox, mode models.TravelMode) string {
	return region.Key() + "|" + string(mode)
}

// GetGraph returns the cached graph for the region and mode, building it
// from the map source on a miss. Fails with models.ErrGraphUnavailable when
// the source cannot be reached or the region contains no routable roads.
func (p *Provider) GetGraph(ctx context.Context, region spatial.BoundingBox, mode models.TravelMode) (*RoadGraph, error) {
	key := GraphKey(region, mode)

	if g := p.lookup(key); g != nil {
		return g, nil
	}

	ch := p.flight.DoChan(key, func() (interface{}, error) {
		if g := p.lookup(key); g != nil {
			return g, nil
		}
		// The build is shared by every waiter on the key, so it must not
		// die with the first caller's deadline; the source's own timeout
		// still bounds the fetch
		return p.build(context.WithoutCancel(ctx), key, region, mode)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*RoadGraph), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", models.ErrGraphUnavailable, ctx.Err())
	}
}

func (p *Provider) lookup(key string) *RoadGraph {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if c, ok := p.cache[key]; ok && time.Now().Before(c.expiresAt) {
		return c.graph
	}
	return nil
}

func (p *Provider) build(ctx context.Context, key string, region spatial.BoundingBox, mode models.TravelMode) (*RoadGraph, error) {
	start := time.Now()

	data, err := p.source.FetchRegion(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrGraphUnavailable, err)
	}

	g := BuildRoadGraph(key, mode, region, data)
	if len(g.Nodes) == 0 || g.EdgeCount() == 0 {
		return nil, fmt.Errorf("%w: region contains no routable roads", models.ErrGraphUnavailable)
	}

	p.mu.Lock()
	p.cache[key] = &cachedGraph{graph: g, expiresAt: time.Now().Add(p.ttl)}
	p.mu.Unlock()

	log.Printf("Built road graph %s: %d nodes, %d edges in %v",
		key, len(g.Nodes), g.EdgeCount(), time.Since(start))

	return g, nil
}

// CachedGraphCount returns the number of live cached graphs
func (p *Provider) CachedGraphCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := 0
	now := time.Now()
	for _, c := range p.cache {
		if now.Before(c.expiresAt) {
			n++
		}
	}
	return n
}
