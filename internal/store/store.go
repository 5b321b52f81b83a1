// Package store persists properties, rooms, readings and share links.
// The scoring core never touches it directly; reports are computed over
// reading sets fetched here.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/cleardwell/assess-cli/internal/config"
	"github.com/cleardwell/assess-cli/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = eris.New("store: not found")

// ReadingFilter specifies criteria for listing readings.
type ReadingFilter struct {
	PropertyID string `json:"property_id,omitempty"`
	MetricKey  string `json:"metric_key,omitempty"`
	RoomID     string `json:"room_id,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// Store defines the persistence interface for the assessment tool.
type Store interface {
	// Properties and rooms
	CreateProperty(ctx context.Context, address, region string) (*model.Property, error)
	GetProperty(ctx context.Context, id string) (*model.Property, error)
	ListProperties(ctx context.Context) ([]model.Property, error)
	CreateRoom(ctx context.Context, propertyID, name string) (*model.Room, error)
	ListRooms(ctx context.Context, propertyID string) ([]model.Room, error)

	// Readings (immutable once recorded)
	InsertReading(ctx context.Context, r model.Reading) (*model.Reading, error)
	InsertReadings(ctx context.Context, readings []model.Reading) (int, error)
	ListReadings(ctx context.Context, filter ReadingFilter) ([]model.Reading, error)

	// Share links
	CreateShareLink(ctx context.Context, propertyID string, ttl time.Duration) (*model.ShareLink, error)
	ResolveShareLink(ctx context.Context, token string) (*model.ShareLink, error)
	DeleteExpiredShareLinks(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, &cfg.Pool)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
