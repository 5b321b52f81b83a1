package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/cleardwell/assess-cli/internal/config"
	"github.com/cleardwell/assess-cli/internal/db"
	"github.com/cleardwell/assess-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *config.PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for bulk import paths.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS properties (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	address    TEXT NOT NULL,
	region     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS rooms (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	property_id TEXT NOT NULL REFERENCES properties(id),
	name        TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS readings (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	property_id TEXT NOT NULL REFERENCES properties(id),
	room_id     TEXT REFERENCES rooms(id),
	metric_key  TEXT NOT NULL,
	value       DOUBLE PRECISION NOT NULL,
	taken_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS share_links (
	token       TEXT PRIMARY KEY,
	property_id TEXT NOT NULL REFERENCES properties(id),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rooms_property_id ON rooms(property_id);
CREATE INDEX IF NOT EXISTS idx_readings_property_id ON readings(property_id);
CREATE INDEX IF NOT EXISTS idx_readings_property_metric ON readings(property_id, metric_key);
CREATE INDEX IF NOT EXISTS idx_share_links_property_id ON share_links(property_id);
CREATE INDEX IF NOT EXISTS idx_share_links_expires_at ON share_links(expires_at);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateProperty(ctx context.Context, address, region string) (*model.Property, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO properties (id, address, region, created_at) VALUES ($1, $2, $3, $4)`,
		id, address, region, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert property")
	}

	return &model.Property{ID: id, Address: address, Region: region, CreatedAt: now}, nil
}

func (s *PostgresStore) GetProperty(ctx context.Context, id string) (*model.Property, error) {
	var p model.Property
	err := s.pool.QueryRow(ctx,
		`SELECT id, address, region, created_at FROM properties WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Address, &p.Region, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "property %s", id)
		}
		return nil, eris.Wrapf(err, "postgres: get property %s", id)
	}
	return &p, nil
}

func (s *PostgresStore) ListProperties(ctx context.Context) ([]model.Property, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, address, region, created_at FROM properties ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list properties")
	}
	defer rows.Close()

	var props []model.Property
	for rows.Next() {
		var p model.Property
		if err := rows.Scan(&p.ID, &p.Address, &p.Region, &p.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan property")
		}
		props = append(props, p)
	}
	return props, eris.Wrap(rows.Err(), "postgres: list properties iterate")
}

func (s *PostgresStore) CreateRoom(ctx context.Context, propertyID, name string) (*model.Room, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO rooms (id, property_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		id, propertyID, name, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert room for property %s", propertyID)
	}

	return &model.Room{ID: id, PropertyID: propertyID, Name: name, CreatedAt: now}, nil
}

func (s *PostgresStore) ListRooms(ctx context.Context, propertyID string) ([]model.Room, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, property_id, name, created_at FROM rooms WHERE property_id = $1 ORDER BY name`,
		propertyID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list rooms")
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		var r model.Room
		if err := rows.Scan(&r.ID, &r.PropertyID, &r.Name, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan room")
		}
		rooms = append(rooms, r)
	}
	return rooms, eris.Wrap(rows.Err(), "postgres: list rooms iterate")
}

func (s *PostgresStore) InsertReading(ctx context.Context, r model.Reading) (*model.Reading, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.TakenAt.IsZero() {
		r.TakenAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO readings (id, property_id, room_id, metric_key, value, taken_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.PropertyID, r.RoomID, r.MetricKey, r.Value, r.TakenAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert reading for property %s", r.PropertyID)
	}
	return &r, nil
}

// InsertReadings bulk-inserts via the COPY protocol.
func (s *PostgresStore) InsertReadings(ctx context.Context, readings []model.Reading) (int, error) {
	if len(readings) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(readings))
	now := time.Now().UTC()
	for _, r := range readings {
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		if r.TakenAt.IsZero() {
			r.TakenAt = now
		}
		rows = append(rows, []any{r.ID, r.PropertyID, r.RoomID, r.MetricKey, r.Value, r.TakenAt})
	}

	n, err := db.CopyFrom(ctx, s.pool, "readings",
		[]string{"id", "property_id", "room_id", "metric_key", "value", "taken_at"}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: bulk insert readings")
	}
	return int(n), nil
}

func (s *PostgresStore) ListReadings(ctx context.Context, filter ReadingFilter) ([]model.Reading, error) {
	query := `SELECT id, property_id, room_id, metric_key, value, taken_at FROM readings WHERE true`
	args := []any{}
	argIdx := 1

	if filter.PropertyID != "" {
		query += fmt.Sprintf(` AND property_id = $%d`, argIdx)
		args = append(args, filter.PropertyID)
		argIdx++
	}
	if filter.MetricKey != "" {
		query += fmt.Sprintf(` AND metric_key = $%d`, argIdx)
		args = append(args, filter.MetricKey)
		argIdx++
	}
	if filter.RoomID != "" {
		query += fmt.Sprintf(` AND room_id = $%d`, argIdx)
		args = append(args, filter.RoomID)
		argIdx++
	}
	query += ` ORDER BY taken_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, argIdx)
		args = append(args, filter.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list readings")
	}
	defer rows.Close()

	var readings []model.Reading
	for rows.Next() {
		var r model.Reading
		if err := rows.Scan(&r.ID, &r.PropertyID, &r.RoomID, &r.MetricKey, &r.Value, &r.TakenAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan reading")
		}
		readings = append(readings, r)
	}
	return readings, eris.Wrap(rows.Err(), "postgres: list readings iterate")
}

func (s *PostgresStore) CreateShareLink(ctx context.Context, propertyID string, ttl time.Duration) (*model.ShareLink, error) {
	token := uuid.New().String()
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	_, err := s.pool.Exec(ctx,
		`INSERT INTO share_links (token, property_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`,
		token, propertyID, now, expiresAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert share link for property %s", propertyID)
	}

	return &model.ShareLink{Token: token, PropertyID: propertyID, CreatedAt: now, ExpiresAt: expiresAt}, nil
}

func (s *PostgresStore) ResolveShareLink(ctx context.Context, token string) (*model.ShareLink, error) {
	var l model.ShareLink
	err := s.pool.QueryRow(ctx,
		`SELECT token, property_id, created_at, expires_at FROM share_links
		 WHERE token = $1 AND expires_at > now()`,
		token,
	).Scan(&l.Token, &l.PropertyID, &l.CreatedAt, &l.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrap(ErrNotFound, "share link")
		}
		return nil, eris.Wrap(err, "postgres: resolve share link")
	}
	return &l, nil
}

func (s *PostgresStore) DeleteExpiredShareLinks(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM share_links WHERE expires_at <= now()`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired share links")
	}
	return int(tag.RowsAffected()), nil
}
