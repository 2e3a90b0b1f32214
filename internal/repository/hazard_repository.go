package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/saferoute-backend-go/internal/models"
)

// HazardStore is the registry of hazard zones. Add and Remove are the only
// mutators; each bumps the hazard-set version atomically with the mutation,
// so any reader observing a version observes a consistent hazard set.
// The version is the cache-invalidation key for hazard-dependent results.
type HazardStore interface {
	// Add inserts a zone, assigning an id when absent. A zone with an
	// existing id replaces the previous one.
	Add(zone models.HazardZone) (models.HazardZone, error)
	// Remove deletes a zone by id. Removing an unknown id is a no-op
	// and returns false.
	Remove(id string) bool
	// List returns a snapshot of all zones in creation order.
	List() []models.HazardZone
	// Version returns the current hazard-set version.
	Version() uint64
	// Count returns the number of stored zones.
	Count() int
}

// MemoryHazardStore is the default in-memory HazardStore
type MemoryHazardStore struct {
	mu      sync.RWMutex
	zones   []models.HazardZone
	version uint64
}

// NewMemoryHazardStore creates an empty in-memory hazard store
func NewMemoryHazardStore() *MemoryHazardStore {
	return &MemoryHazardStore{}
}

// Add inserts or replaces a hazard zone and bumps the version
func (s *MemoryHazardStore) Add(zone models.HazardZone) (models.HazardZone, error) {
	if err := validateZone(zone); err != nil {
		return models.HazardZone{}, err
	}
	if zone.ID == "" {
		zone.ID = uuid.NewString()
	}
	zone.CreatedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.zones {
		if s.zones[i].ID == zone.ID {
			s.zones = append(s.zones[:i], s.zones[i+1:]...)
			break
		}
	}
	s.zones = append(s.zones, zone)
	s.version++

	return zone, nil
}

// Remove deletes a zone by id, bumping the version only when found
func (s *MemoryHazardStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.zones {
		if s.zones[i].ID == id {
			s.zones = append(s.zones[:i], s.zones[i+1:]...)
			s.version++
			return true
		}
	}
	return false
}

// List returns a copy of all zones in creation order
func (s *MemoryHazardStore) List() []models.HazardZone {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.HazardZone, len(s.zones))
	copy(out, s.zones)
	return out
}

// Version returns the current hazard-set version
func (s *MemoryHazardStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Count returns the number of stored zones
func (s *MemoryHazardStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.zones)
}

func validateZone(zone models.HazardZone) error {
	if !zone.Center.Valid() {
		return fmt.Errorf("%w: coordinates out of range", models.ErrInvalidInput)
	}
	if zone.Level < models.MinHazardLevel || zone.Level > models.MaxHazardLevel {
		return fmt.Errorf("%w: level must be in [%d,%d]", models.ErrInvalidInput,
			models.MinHazardLevel, models.MaxHazardLevel)
	}
	if zone.RadiusM <= 0 || zone.RadiusM > models.MaxHazardRadiusM {
		return fmt.Errorf("%w: radius must be in (0,%g] meters", models.ErrInvalidInput,
			models.MaxHazardRadiusM)
	}
	return nil
}

// DefaultHazards returns the demo hazard zones loaded at startup when
// seeding is enabled
func DefaultHazards() []models.HazardZone {
	return []models.HazardZone{
		{
			ID:      "hazard-1",
			Center:  models.GeoPoint{Lat: 18.787, Lon: 98.9905},
			Level:   5,
			Name:    "Red Danger Zone",
			RadiusM: 150,
		},
		{
			ID:      "hazard-2",
			Center:  models.GeoPoint{Lat: 18.789594622931315, Lon: 98.9953468265745},
			Level:   5,
			Name:    "Dark Red Zone",
			RadiusM: 120,
		},
		{
			ID:      "hazard-3",
			Center:  models.GeoPoint{Lat: 18.7925, Lon: 99.0},
			Level:   3,
			Name:    "Orange Zone",
			RadiusM: 100,
		},
	}
}

// Seed loads the given zones into the store, keeping their ids
func Seed(store HazardStore, zones []models.HazardZone) error {
	for _, z := range zones {
		if _, err := store.Add(z); err != nil {
			return fmt.Errorf("failed to seed hazard %s: %w", z.ID, err)
		}
	}
	return nil
}
