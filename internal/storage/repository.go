// Package storage persists consolidated year records in SQLite. Records are
// stored as one JSON document per workbook and year, replaced on
// re-extraction.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"despesas/internal/core"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when no record exists for a workbook and year.
var ErrNotFound = errors.New("year record not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateSchema(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// migrateSchema applies the embedded migrations over a connection of its
// own, so the repository connection never carries migrate state.
func migrateSchema(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("sqlite migrate driver: %w", err)
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("embedded migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveYearRecord upserts one consolidated year record.
func (r *SQLiteRepository) SaveYearRecord(ctx context.Context, workbook string, rec *core.YearRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal year record: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO year_records (workbook, year, data, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		workbook, rec.Year, string(data))
	if err != nil {
		return fmt.Errorf("save year record: %w", err)
	}

	slog.InfoContext(ctx, "Year record saved",
		"workbook", workbook,
		"year", rec.Year,
		"sections", len(rec.Sections))
	return nil
}

// GetYearRecord loads one year record for a workbook.
func (r *SQLiteRepository) GetYearRecord(ctx context.Context, workbook string, year int) (*core.YearRecord, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `
		SELECT data FROM year_records WHERE workbook = ? AND year = ?`,
		workbook, year).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workbook %q year %d: %w", workbook, year, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get year record: %w", err)
	}

	var rec core.YearRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal year record: %w", err)
	}
	return &rec, nil
}

// ListYearRecords loads every year record for a workbook, oldest first.
func (r *SQLiteRepository) ListYearRecords(ctx context.Context, workbook string) ([]*core.YearRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT data FROM year_records WHERE workbook = ? ORDER BY year`,
		workbook)
	if err != nil {
		return nil, fmt.Errorf("list year records: %w", err)
	}
	defer rows.Close()

	var recs []*core.YearRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan year record: %w", err)
		}
		var rec core.YearRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal year record: %w", err)
		}
		recs = append(recs, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate year records: %w", err)
	}
	return recs, nil
}

// Years returns the stored fiscal years for a workbook in ascending order.
func (r *SQLiteRepository) Years(ctx context.Context, workbook string) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT year FROM year_records WHERE workbook = ?`, workbook)
	if err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scan year: %w", err)
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate years: %w", err)
	}
	sort.Ints(years)
	return years, nil
}
