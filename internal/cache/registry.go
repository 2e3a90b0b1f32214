package cache

import (
	"sync"
	"time"

	"github.com/jengzang/saferoute-backend-go/internal/models"
)

// RouteRegistry holds computed routes by id so clients can fetch statistics
// or a rendered map after the initial computation. Entries expire after a
// TTL; a background sweep releases memory. Not durable across restarts.
type RouteRegistry struct {
	ttl time.Duration

	mu     sync.RWMutex
	routes map[string]storedRoute
}

type storedRoute struct {
	route     *models.Route
	stats     models.RouteStats
	expiresAt time.Time
}

// NewRouteRegistry creates a registry whose routes expire after ttl
func NewRouteRegistry(ttl time.Duration) *RouteRegistry {
	r := &RouteRegistry{
		ttl:    ttl,
		routes: make(map[string]storedRoute),
	}
	go r.sweep()
	return r
}

func (r *RouteRegistry) sweep() {
	interval := r.ttl
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		r.mu.Lock()
		now := time.Now()
		for id, s := range r.routes {
			if !now.Before(s.expiresAt) {
				delete(r.routes, id)
			}
		}
		r.mu.Unlock()
	}
}

// Store retains a route and its computation stats, returning the route id
func (r *RouteRegistry) Store(route *models.Route, stats models.RouteStats) string {
	r.mu.Lock()
	r.routes[route.ID] = storedRoute{
		route:     route,
		stats:     stats,
		expiresAt: time.Now().Add(r.ttl),
	}
	r.mu.Unlock()
	return route.ID
}

// Get returns the stored route and its stats, or false when the id is
// unknown or the entry has expired
func (r *RouteRegistry) Get(id string) (*models.Route, models.RouteStats, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.routes[id]
	if !ok || !time.Now().Before(s.expiresAt) {
		return nil, models.RouteStats{}, false
	}
	return s.route, s.stats, true
}

// Count returns the number of unexpired stored routes
func (r *RouteRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	now := time.Now()
	for _, s := range r.routes {
		if now.Before(s.expiresAt) {
			n++
		}
	}
	return n
}
