package repository

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/saferoute-backend-go/internal/database"
	"github.com/jengzang/saferoute-backend-go/internal/models"
)

// SQLiteHazardStore is a durable HazardStore backed by sqlite. The version
// counter is persisted in the meta table and bumped in the same transaction
// as each mutation, so the registry survives restarts without losing the
// cache-invalidation guarantee.
type SQLiteHazardStore struct {
	db *sql.DB
	mu sync.Mutex // serializes mutators; readers go straight to sqlite
}

// NewSQLiteHazardStore creates a hazard store over an opened database
func NewSQLiteHazardStore(db *sql.DB) *SQLiteHazardStore {
	return &SQLiteHazardStore{db: db}
}

// Add inserts or replaces a hazard zone and bumps the version
func (s *SQLiteHazardStore) Add(zone models.HazardZone) (models.HazardZone, error) {
	if err := validateZone(zone); err != nil {
		return models.HazardZone{}, err
	}
	if zone.ID == "" {
		zone.ID = uuid.NewString()
	}
	zone.CreatedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	err := database.Transaction(s.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM hazard_zones WHERE id = ?", zone.ID); err != nil {
			return err
		}
		if _, err := tx.Exec("UPDATE meta SET value = value + 1 WHERE key = 'hazard_seq'"); err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO hazard_zones (id, lat, lon, radius_m, level, name, created_at, seq)
			VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT value FROM meta WHERE key = 'hazard_seq'))`,
			zone.ID, zone.Center.Lat, zone.Center.Lon, zone.RadiusM,
			zone.Level, zone.Name, zone.CreatedAt,
		); err != nil {
			return err
		}
		_, err := tx.Exec("UPDATE meta SET value = value + 1 WHERE key = 'hazard_version'")
		return err
	})
	if err != nil {
		return models.HazardZone{}, err
	}

	return zone, nil
}

// Remove deletes a zone by id, bumping the version only when found
func (s *SQLiteHazardStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	err := database.Transaction(s.db, func(tx *sql.Tx) error {
		res, err := tx.Exec("DELETE FROM hazard_zones WHERE id = ?", id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		removed = true
		_, err = tx.Exec("UPDATE meta SET value = value + 1 WHERE key = 'hazard_version'")
		return err
	})
	if err != nil {
		log.Printf("Failed to remove hazard %s: %v", id, err)
		return false
	}

	return removed
}

// List returns all zones in creation order
func (s *SQLiteHazardStore) List() []models.HazardZone {
	rows, err := s.db.Query(`
		SELECT id, lat, lon, radius_m, level, name, created_at
		FROM hazard_zones ORDER BY seq`)
	if err != nil {
		log.Printf("Failed to list hazards: %v", err)
		return nil
	}
	defer rows.Close()

	var zones []models.HazardZone
	for rows.Next() {
		var z models.HazardZone
		if err := rows.Scan(&z.ID, &z.Center.Lat, &z.Center.Lon,
			&z.RadiusM, &z.Level, &z.Name, &z.CreatedAt); err != nil {
			log.Printf("Failed to scan hazard: %v", err)
			return nil
		}
		zones = append(zones, z)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Failed to read hazards: %v", err)
		return nil
	}

	return zones
}

// Version returns the current hazard-set version
func (s *SQLiteHazardStore) Version() uint64 {
	var v uint64
	if err := s.db.QueryRow(
		"SELECT value FROM meta WHERE key = 'hazard_version'").Scan(&v); err != nil {
		log.Printf("Failed to read hazard version: %v", err)
	}
	return v
}

// Count returns the number of stored zones
func (s *SQLiteHazardStore) Count() int {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM hazard_zones").Scan(&n); err != nil {
		log.Printf("Failed to count hazards: %v", err)
	}
	return n
}
