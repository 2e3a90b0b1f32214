package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/saferoute-backend-go/internal/cache"
	"github.com/jengzang/saferoute-backend-go/internal/config"
	"github.com/jengzang/saferoute-backend-go/internal/graph"
	"github.com/jengzang/saferoute-backend-go/internal/models"
	"github.com/jengzang/saferoute-backend-go/internal/repository"
)

// computedRoute pairs a route with its computation stats in the result cache
type computedRoute struct {
	route *models.Route
	stats models.RouteStats
}

// RoutingService orchestrates hazard-aware route computation:
// graph acquisition, hazard filtering, search, caching and registration
type RoutingService struct {
	provider *graph.Provider
	store    repository.HazardStore
	registry *cache.RouteRegistry

	subgraphs *cache.Cache[*graph.SafeSubgraph]
	results   *cache.Cache[computedRoute]

	defaultThreshold int
	pathBufferM      float64
	searchTimeout    time.Duration
}

// NewRoutingService creates the routing orchestrator
func NewRoutingService(provider *graph.Provider, store repository.HazardStore, cfg *config.Config) *RoutingService {
	return &RoutingService{
		provider:         provider,
		store:            store,
		registry:         cache.NewRouteRegistry(cfg.RouteTTL),
		subgraphs:        cache.New[*graph.SafeSubgraph](cfg.ResultCacheTTL),
		results:          cache.New[computedRoute](cfg.ResultCacheTTL),
		defaultThreshold: cfg.DefaultThreshold,
		pathBufferM:      cfg.PathBufferM,
		searchTimeout:    cfg.SearchTimeout,
	}
}

// ComputeRoute calculates a safe route for the request, reusing cached
// results when the hazard set has not changed since they were computed
func (s *RoutingService) ComputeRoute(ctx context.Context, req models.RouteRequest) (*models.Route, models.RouteStats, error) {
	if err := s.normalize(&req); err != nil {
		return nil, models.RouteStats{}, err
	}

	// Coincident endpoints short-circuit before any graph work
	if req.Start == req.End {
		route := s.zeroRoute(req)
		s.registry.Store(route, models.RouteStats{})
		return route, models.RouteStats{}, nil
	}

	hazards, version := s.snapshot()
	region := s.provider.Region(req.Start, req.End)
	graphKey := graph.GraphKey(region, req.Mode)

	subKey := fmt.Sprintf("%s|t%d|v%d", graphKey, req.DangerThreshold, version)
	routeKey := fmt.Sprintf("%.6f,%.6f|%.6f,%.6f|%s|t%d|v%d",
		req.Start.Lat, req.Start.Lon, req.End.Lat, req.End.Lon,
		req.Mode, req.DangerThreshold, version)

	result, err := s.results.GetOrCompute(ctx, routeKey, func(ctx context.Context) (computedRoute, error) {
		started := time.Now()

		sub, err := s.subgraphs.GetOrCompute(ctx, subKey, func(ctx context.Context) (*graph.SafeSubgraph, error) {
			g, err := s.provider.GetGraph(ctx, region, req.Mode)
			if err != nil {
				return nil, err
			}
			return graph.Filter(g, hazards, req.DangerThreshold, s.pathBufferM), nil
		})
		if err != nil {
			return computedRoute{}, err
		}

		searchCtx, cancel := context.WithTimeout(ctx, s.searchTimeout)
		defer cancel()

		found, err := graph.Search(searchCtx, sub, req.Start, req.End)
		if err != nil {
			return computedRoute{}, err
		}

		route := s.assemble(req, sub, found)
		stats := models.RouteStats{
			TotalEdges:            sub.Stats.TotalEdges,
			DangerousEdgesRemoved: sub.Stats.EdgesRemoved,
			HazardZonesProcessed:  sub.Stats.HazardsProcessed,
			ComputationTimeSec:    time.Since(started).Seconds(),
		}
		s.registry.Store(route, stats)

		log.Printf("Route %s computed: %.2fkm, %d hazards considered, %d edges removed",
			route.ID, route.DistanceM/1000, len(route.HazardsConsidered), stats.DangerousEdgesRemoved)

		return computedRoute{route: route, stats: stats}, nil
	})
	if err != nil {
		return nil, models.RouteStats{}, err
	}

	return result.route, result.stats, nil
}

// GetRoute returns a stored route by id
func (s *RoutingService) GetRoute(id string) (*models.Route, error) {
	route, _, ok := s.registry.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: route %s", models.ErrNotFound, id)
	}
	return route, nil
}

// GetRouteStats returns stored statistics for a route by id
func (s *RoutingService) GetRouteStats(id string) (*models.Route, models.RouteStats, error) {
	route, stats, ok := s.registry.Get(id)
	if !ok {
		return nil, models.RouteStats{}, fmt.Errorf("%w: route %s", models.ErrNotFound, id)
	}
	return route, stats, nil
}

// CacheCounters reports live cache sizes for the health endpoint
func (s *RoutingService) CacheCounters() map[string]int {
	return map[string]int{
		"cached_graphs":    s.provider.CachedGraphCount(),
		"cached_subgraphs": s.subgraphs.Len(),
		"cached_results":   s.results.Len(),
		"stored_routes":    s.registry.Count(),
	}
}

func (s *RoutingService) normalize(req *models.RouteRequest) error {
	if !req.Start.Valid() || !req.End.Valid() {
		return fmt.Errorf("%w: coordinates out of range", models.ErrInvalidInput)
	}
	if req.Mode == "" {
		req.Mode = models.ModeDrive
	}
	if !req.Mode.Valid() {
		return fmt.Errorf("%w: unknown travel mode %q", models.ErrInvalidInput, req.Mode)
	}
	if req.DangerThreshold == 0 {
		req.DangerThreshold = s.defaultThreshold
	}
	if req.DangerThreshold < models.MinHazardLevel || req.DangerThreshold > models.MaxHazardLevel {
		return fmt.Errorf("%w: danger threshold must be in [%d,%d]", models.ErrInvalidInput,
			models.MinHazardLevel, models.MaxHazardLevel)
	}
	return nil
}

// snapshot reads the hazard list together with a version that is consistent
// with it. List and Version are separate calls, so re-read until the version
// is stable across the list read.
func (s *RoutingService) snapshot() ([]models.HazardZone, uint64) {
	for {
		before := s.store.Version()
		hazards := s.store.List()
		if s.store.Version() == before {
			return hazards, before
		}
	}
}

func (s *RoutingService) zeroRoute(req models.RouteRequest) *models.Route {
	return &models.Route{
		ID:              uuid.NewString(),
		Mode:            req.Mode,
		DangerThreshold: req.DangerThreshold,
		Start:           req.Start,
		End:             req.End,
		Waypoints:       []models.GeoPoint{req.Start},
		CreatedAt:       time.Now(),
	}
}

func (s *RoutingService) assemble(req models.RouteRequest, sub *graph.SafeSubgraph, found *graph.SearchResult) *models.Route {
	waypoints := make([]models.GeoPoint, 0, len(found.Path))
	for _, n := range found.Path {
		waypoints = append(waypoints, models.GeoPoint{Lat: n.Lat, Lon: n.Lon})
	}

	var avoided []string
	for _, h := range sub.Blocking {
		name := h.Name
		if name == "" {
			name = h.ID
		}
		avoided = append(avoided, name)
	}

	considered := make([]models.HazardZone, len(sub.Considered))
	copy(considered, sub.Considered)

	return &models.Route{
		ID:                uuid.NewString(),
		Mode:              req.Mode,
		DangerThreshold:   req.DangerThreshold,
		Start:             req.Start,
		End:               req.End,
		Waypoints:         waypoints,
		DistanceM:         found.DistanceM,
		DurationS:         found.DurationS,
		MaxHazardLevel:    found.MaxHazardLevel,
		HazardsConsidered: considered,
		HazardsAvoided:    avoided,
		CreatedAt:         time.Now(),
	}
}
