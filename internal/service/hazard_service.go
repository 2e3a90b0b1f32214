package service

import (
	"github.com/jengzang/saferoute-backend-go/internal/models"
	"github.com/jengzang/saferoute-backend-go/internal/repository"
)

// DefaultHazardRadiusM is used when a request omits the radius
const DefaultHazardRadiusM = 50.0

// HazardService handles business logic for hazard zones
type HazardService struct {
	store repository.HazardStore
}

// NewHazardService creates a new hazard service
func NewHazardService(store repository.HazardStore) *HazardService {
	return &HazardService{store: store}
}

// List returns a snapshot of all hazard zones
func (s *HazardService) List() []models.HazardZone {
	return s.store.List()
}

// Add creates a hazard zone from a request, applying the default radius
func (s *HazardService) Add(req models.AddHazardRequest) (models.HazardZone, error) {
	radius := req.RadiusM
	if radius == 0 {
		radius = DefaultHazardRadiusM
	}
	name := req.Name
	if name == "" {
		name = "Hazard Zone"
	}

	return s.store.Add(models.HazardZone{
		Center:  models.GeoPoint{Lat: req.Lat, Lon: req.Lon},
		RadiusM: radius,
		Level:   req.Level,
		Name:    name,
	})
}

// Remove deletes a hazard zone by id; false when the id is unknown
func (s *HazardService) Remove(id string) bool {
	return s.store.Remove(id)
}

// Count returns the number of stored zones
func (s *HazardService) Count() int {
	return s.store.Count()
}

// Version returns the current hazard-set version
func (s *HazardService) Version() uint64 {
	return s.store.Version()
}
