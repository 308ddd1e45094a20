package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/chriskacerguis/hamqrzdb/internal/domain"
)

// SQLite is the durable Store backing. The field-preservation rule runs
// inside the database via ON CONFLICT ... CASE WHEN, so a crash between
// batches leaves a consistent table. Upserts accumulate in a transaction
// that Flush commits; reads route through the open transaction so batching
// never changes visibility.
type SQLite struct {
	db *sql.DB

	mu sync.Mutex
	tx *sql.Tx
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS callsigns (
	callsign TEXT PRIMARY KEY,
	license_status TEXT,
	radio_service_code TEXT,
	grant_date TEXT,
	expired_date TEXT,
	cancellation_date TEXT,
	operator_class TEXT,
	group_code TEXT,
	region_code TEXT,
	entity_name TEXT,
	first_name TEXT,
	mi TEXT,
	last_name TEXT,
	suffix TEXT,
	street_address TEXT,
	city TEXT,
	state TEXT,
	zip_code TEXT,
	latitude REAL,
	longitude REAL,
	grid_square TEXT,
	last_updated TEXT
);
CREATE INDEX IF NOT EXISTS idx_status ON callsigns(license_status);
`

const sqliteUpsert = `
INSERT INTO callsigns (
	callsign, license_status, radio_service_code, grant_date, expired_date,
	cancellation_date, operator_class, group_code, region_code,
	entity_name, first_name, mi, last_name, suffix,
	street_address, city, state, zip_code,
	latitude, longitude, grid_square, last_updated
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(callsign) DO UPDATE SET
	license_status = CASE WHEN excluded.license_status != '' THEN excluded.license_status ELSE callsigns.license_status END,
	radio_service_code = CASE WHEN excluded.radio_service_code != '' THEN excluded.radio_service_code ELSE callsigns.radio_service_code END,
	grant_date = CASE WHEN excluded.grant_date != '' THEN excluded.grant_date ELSE callsigns.grant_date END,
	expired_date = CASE WHEN excluded.expired_date != '' THEN excluded.expired_date ELSE callsigns.expired_date END,
	cancellation_date = CASE WHEN excluded.cancellation_date != '' THEN excluded.cancellation_date ELSE callsigns.cancellation_date END,
	operator_class = CASE WHEN excluded.operator_class != '' THEN excluded.operator_class ELSE callsigns.operator_class END,
	group_code = CASE WHEN excluded.group_code != '' THEN excluded.group_code ELSE callsigns.group_code END,
	region_code = CASE WHEN excluded.region_code != '' THEN excluded.region_code ELSE callsigns.region_code END,
	entity_name = CASE WHEN excluded.entity_name != '' THEN excluded.entity_name ELSE callsigns.entity_name END,
	first_name = CASE WHEN excluded.first_name != '' THEN excluded.first_name ELSE callsigns.first_name END,
	mi = CASE WHEN excluded.mi != '' THEN excluded.mi ELSE callsigns.mi END,
	last_name = CASE WHEN excluded.last_name != '' THEN excluded.last_name ELSE callsigns.last_name END,
	suffix = CASE WHEN excluded.suffix != '' THEN excluded.suffix ELSE callsigns.suffix END,
	street_address = CASE WHEN excluded.street_address != '' THEN excluded.street_address ELSE callsigns.street_address END,
	city = CASE WHEN excluded.city != '' THEN excluded.city ELSE callsigns.city END,
	state = CASE WHEN excluded.state != '' THEN excluded.state ELSE callsigns.state END,
	zip_code = CASE WHEN excluded.zip_code != '' THEN excluded.zip_code ELSE callsigns.zip_code END,
	latitude = CASE WHEN excluded.latitude IS NOT NULL THEN excluded.latitude ELSE callsigns.latitude END,
	longitude = CASE WHEN excluded.longitude IS NOT NULL THEN excluded.longitude ELSE callsigns.longitude END,
	grid_square = CASE WHEN excluded.grid_square != '' THEN excluded.grid_square ELSE callsigns.grid_square END,
	last_updated = excluded.last_updated
`

const sqliteColumns = `
	callsign, license_status, radio_service_code, grant_date, expired_date,
	cancellation_date, operator_class, group_code, region_code,
	entity_name, first_name, mi, last_name, suffix,
	street_address, city, state, zip_code,
	latitude, longitude, grid_square, last_updated
`

// NewSQLite opens (creating if needed) a sqlite-backed store at path. WAL
// mode keeps readers unblocked during ingest.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps the pending ingest transaction and all reads
	// on the same session.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLite) q() querier {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *SQLite) Upsert(ctx context.Context, u domain.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin upsert batch: %w", err)
		}
		s.tx = tx
	}

	_, err := s.tx.ExecContext(ctx, sqliteUpsert,
		u.Callsign, u.LicenseStatus, u.RadioServiceCode, u.GrantDate, u.ExpiredDate,
		u.CancellationDate, u.OperatorClass, u.GroupCode, u.RegionCode,
		u.EntityName, u.FirstName, u.MI, u.LastName, u.Suffix,
		u.StreetAddress, u.City, u.State, u.ZipCode,
		u.Latitude, u.Longitude, u.GridSquare,
		domain.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", u.Callsign, err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, callsign string) (domain.Entity, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.q().QueryRowContext(ctx,
		"SELECT "+sqliteColumns+" FROM callsigns WHERE callsign = ?", callsign)
	e, err := scanEntity(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Entity{}, false, nil
	}
	if err != nil {
		return domain.Entity{}, false, fmt.Errorf("get %s: %w", callsign, err)
	}
	return e, true, nil
}

func (s *SQLite) ForEach(ctx context.Context, fn func(domain.Entity) error) error {
	s.mu.Lock()
	rows, err := s.q().QueryContext(ctx,
		"SELECT "+sqliteColumns+" FROM callsigns ORDER BY callsign")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("scan callsigns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEntity(rows.Scan)
		if err != nil {
			return fmt.Errorf("scan callsign row: %w", err)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *SQLite) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	if err := s.q().QueryRowContext(ctx, "SELECT COUNT(*) FROM callsigns").Scan(&n); err != nil {
		return 0, fmt.Errorf("count callsigns: %w", err)
	}
	return n, nil
}

// Flush commits the pending upsert batch, if any.
func (s *SQLite) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		return fmt.Errorf("commit upsert batch: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	s.mu.Lock()
	if s.tx != nil {
		if err := s.tx.Commit(); err != nil {
			s.mu.Unlock()
			s.db.Close()
			return fmt.Errorf("commit pending batch on close: %w", err)
		}
		s.tx = nil
	}
	s.mu.Unlock()
	return s.db.Close()
}

func scanEntity(scan func(...any) error) (domain.Entity, error) {
	var e domain.Entity
	var lat, lon sql.NullFloat64
	var updated sql.NullString

	err := scan(
		&e.Callsign, &e.LicenseStatus, &e.RadioServiceCode, &e.GrantDate, &e.ExpiredDate,
		&e.CancellationDate, &e.OperatorClass, &e.GroupCode, &e.RegionCode,
		&e.EntityName, &e.FirstName, &e.MI, &e.LastName, &e.Suffix,
		&e.StreetAddress, &e.City, &e.State, &e.ZipCode,
		&lat, &lon, &e.GridSquare, &updated,
	)
	if err != nil {
		return domain.Entity{}, err
	}

	if lat.Valid && lon.Valid {
		e.Latitude = &lat.Float64
		e.Longitude = &lon.Float64
	}
	if updated.Valid {
		if t, err := time.Parse(time.RFC3339Nano, updated.String); err == nil {
			e.LastUpdated = t
		}
	}
	return e, nil
}
