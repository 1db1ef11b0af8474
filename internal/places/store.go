// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package places

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/relabs-tech/ar_navigator/internal/geodesy"
)

// ErrNotFound is returned when no place matches.
var ErrNotFound = errors.New("place not found")

// metresPerDegree is a lower bound on the length of one degree of latitude.
// It only narrows Nearby queries before the exact distance check, so the
// box must never be smaller than the radius.
const metresPerDegree = 110000.0

type placeRecord struct {
	ID        string  `gorm:"primaryKey;size:36"`
	Name      string  `gorm:"size:255;index"`
	Phone     string  `gorm:"size:64"`
	Website   string  `gorm:"size:255"`
	Type      string  `gorm:"size:64"`
	Latitude  float64 `gorm:"index"`
	Longitude float64 `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (placeRecord) TableName() string { return "places" }

func recordOf(p Place) placeRecord {
	return placeRecord{
		ID:        p.ID,
		Name:      p.Name,
		Phone:     p.Phone,
		Website:   p.Website,
		Type:      p.Type,
		Latitude:  p.Location.Latitude,
		Longitude: p.Location.Longitude,
	}
}

func (r placeRecord) place() Place {
	return Place{
		ID:       r.ID,
		Name:     r.Name,
		Phone:    r.Phone,
		Website:  r.Website,
		Type:     r.Type,
		Location: geodesy.Point(r.Latitude, r.Longitude),
	}
}

// Store is the POI catalog in SQLite.
type Store struct {
	db *gorm.DB
}

// OpenStore opens (and migrates) the catalog at path. An empty path keeps
// the catalog in memory.
func OpenStore(path string) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open places db %q: %w", path, err)
	}
	if err := db.AutoMigrate(&placeRecord{}); err != nil {
		return nil, fmt.Errorf("migrate places db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Add inserts or replaces a place. A place without an ID gets a new one.
func (s *Store) Add(ctx context.Context, p Place) (Place, error) {
	if err := p.Location.Validate(); err != nil {
		return Place{}, fmt.Errorf("add place %q: %w", p.Name, err)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	rec := recordOf(p)
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return Place{}, fmt.Errorf("add place %q: %w", p.Name, err)
	}
	return rec.place(), nil
}

// Get returns the place with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Place, error) {
	var rec placeRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Place{}, fmt.Errorf("get place %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return Place{}, fmt.Errorf("get place %q: %w", id, err)
	}
	return rec.place(), nil
}

// FindByName returns the first place with exactly this name.
func (s *Store) FindByName(ctx context.Context, name string) (Place, error) {
	var rec placeRecord
	err := s.db.WithContext(ctx).Where("name = ?", name).Order("created_at").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Place{}, fmt.Errorf("find place %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Place{}, fmt.Errorf("find place %q: %w", name, err)
	}
	return rec.place(), nil
}

// Delete removes a place.
func (s *Store) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&placeRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete place %q: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete place %q: %w", id, ErrNotFound)
	}
	return nil
}

// List returns every place ordered by name.
func (s *Store) List(ctx context.Context) ([]Place, error) {
	var recs []placeRecord
	if err := s.db.WithContext(ctx).Order("name").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	return places(recs), nil
}

// Nearby returns the places within radius metres of origin.
func (s *Store) Nearby(ctx context.Context, origin geodesy.GeographicPoint, radius float64) ([]Place, error) {
	dLat := radius / metresPerDegree
	dLng := 180.0
	if c := math.Cos(geodesy.Deg2Rad(origin.Latitude)); c > 1e-6 {
		dLng = math.Min(180, radius/(metresPerDegree*c))
	}

	var recs []placeRecord
	err := s.db.WithContext(ctx).
		Where("latitude BETWEEN ? AND ?", origin.Latitude-dLat, origin.Latitude+dLat).
		Where("longitude BETWEEN ? AND ?", origin.Longitude-dLng, origin.Longitude+dLng).
		Order("name").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("nearby places: %w", err)
	}

	out := make([]Place, 0, len(recs))
	for _, p := range places(recs) {
		if metres(origin, p.Location) <= radius {
			out = append(out, p)
		}
	}
	return out, nil
}

func places(recs []placeRecord) []Place {
	out := make([]Place, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.place())
	}
	return out
}
