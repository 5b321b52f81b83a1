package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/cleardwell/assess-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS properties (
	id         TEXT PRIMARY KEY,
	address    TEXT NOT NULL,
	region     TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS rooms (
	id          TEXT PRIMARY KEY,
	property_id TEXT NOT NULL REFERENCES properties(id),
	name        TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS readings (
	id          TEXT PRIMARY KEY,
	property_id TEXT NOT NULL REFERENCES properties(id),
	room_id     TEXT REFERENCES rooms(id),
	metric_key  TEXT NOT NULL,
	value       REAL NOT NULL,
	taken_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS share_links (
	token       TEXT PRIMARY KEY,
	property_id TEXT NOT NULL REFERENCES properties(id),
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rooms_property_id ON rooms(property_id);
CREATE INDEX IF NOT EXISTS idx_readings_property_id ON readings(property_id);
CREATE INDEX IF NOT EXISTS idx_readings_property_metric ON readings(property_id, metric_key);
CREATE INDEX IF NOT EXISTS idx_share_links_property_id ON share_links(property_id);
CREATE INDEX IF NOT EXISTS idx_share_links_expires_at ON share_links(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateProperty(ctx context.Context, address, region string) (*model.Property, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO properties (id, address, region, created_at) VALUES (?, ?, ?, ?)`,
		id, address, region, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert property")
	}

	return &model.Property{ID: id, Address: address, Region: region, CreatedAt: now}, nil
}

func (s *SQLiteStore) GetProperty(ctx context.Context, id string) (*model.Property, error) {
	var p model.Property
	err := s.db.QueryRowContext(ctx,
		`SELECT id, address, region, created_at FROM properties WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Address, &p.Region, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "property %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get property %s", id)
	}
	return &p, nil
}

func (s *SQLiteStore) ListProperties(ctx context.Context) ([]model.Property, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, address, region, created_at FROM properties ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list properties")
	}
	defer rows.Close()

	var props []model.Property
	for rows.Next() {
		var p model.Property
		if err := rows.Scan(&p.ID, &p.Address, &p.Region, &p.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan property")
		}
		props = append(props, p)
	}
	return props, eris.Wrap(rows.Err(), "sqlite: list properties iterate")
}

func (s *SQLiteStore) CreateRoom(ctx context.Context, propertyID, name string) (*model.Room, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rooms (id, property_id, name, created_at) VALUES (?, ?, ?, ?)`,
		id, propertyID, name, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert room for property %s", propertyID)
	}

	return &model.Room{ID: id, PropertyID: propertyID, Name: name, CreatedAt: now}, nil
}

func (s *SQLiteStore) ListRooms(ctx context.Context, propertyID string) ([]model.Room, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, property_id, name, created_at FROM rooms WHERE property_id = ? ORDER BY name`,
		propertyID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list rooms")
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		var r model.Room
		if err := rows.Scan(&r.ID, &r.PropertyID, &r.Name, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan room")
		}
		rooms = append(rooms, r)
	}
	return rooms, eris.Wrap(rows.Err(), "sqlite: list rooms iterate")
}

func (s *SQLiteStore) InsertReading(ctx context.Context, r model.Reading) (*model.Reading, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.TakenAt.IsZero() {
		r.TakenAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO readings (id, property_id, room_id, metric_key, value, taken_at) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.PropertyID, r.RoomID, r.MetricKey, r.Value, r.TakenAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert reading for property %s", r.PropertyID)
	}
	return &r, nil
}

func (s *SQLiteStore) InsertReadings(ctx context.Context, readings []model.Reading) (int, error) {
	if len(readings) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO readings (id, property_id, room_id, metric_key, value, taken_at) VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	for _, r := range readings {
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		if r.TakenAt.IsZero() {
			r.TakenAt = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.PropertyID, r.RoomID, r.MetricKey, r.Value, r.TakenAt); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert reading %s", r.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit readings")
	}
	return len(readings), nil
}

func (s *SQLiteStore) ListReadings(ctx context.Context, filter ReadingFilter) ([]model.Reading, error) {
	query := `SELECT id, property_id, room_id, metric_key, value, taken_at FROM readings WHERE 1=1`
	var args []any

	if filter.PropertyID != "" {
		query += ` AND property_id = ?`
		args = append(args, filter.PropertyID)
	}
	if filter.MetricKey != "" {
		query += ` AND metric_key = ?`
		args = append(args, filter.MetricKey)
	}
	if filter.RoomID != "" {
		query += ` AND room_id = ?`
		args = append(args, filter.RoomID)
	}
	query += ` ORDER BY taken_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list readings")
	}
	defer rows.Close()

	var readings []model.Reading
	for rows.Next() {
		var r model.Reading
		if err := rows.Scan(&r.ID, &r.PropertyID, &r.RoomID, &r.MetricKey, &r.Value, &r.TakenAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan reading")
		}
		readings = append(readings, r)
	}
	return readings, eris.Wrap(rows.Err(), "sqlite: list readings iterate")
}

func (s *SQLiteStore) CreateShareLink(ctx context.Context, propertyID string, ttl time.Duration) (*model.ShareLink, error) {
	token := uuid.New().String()
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO share_links (token, property_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		token, propertyID, now, expiresAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert share link for property %s", propertyID)
	}

	return &model.ShareLink{Token: token, PropertyID: propertyID, CreatedAt: now, ExpiresAt: expiresAt}, nil
}

func (s *SQLiteStore) ResolveShareLink(ctx context.Context, token string) (*model.ShareLink, error) {
	var l model.ShareLink
	err := s.db.QueryRowContext(ctx,
		`SELECT token, property_id, created_at, expires_at FROM share_links WHERE token = ?`,
		token,
	).Scan(&l.Token, &l.PropertyID, &l.CreatedAt, &l.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrap(ErrNotFound, "share link")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: resolve share link")
	}
	if l.Expired(time.Now().UTC()) {
		return nil, eris.Wrap(ErrNotFound, "share link expired")
	}
	return &l, nil
}

func (s *SQLiteStore) DeleteExpiredShareLinks(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM share_links WHERE expires_at <= ?`,
		time.Now().UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired share links")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}
