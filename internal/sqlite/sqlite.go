// Package sqlite exports a petrol book and its derived table to a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/gigurra/petrol-book/internal"
)

// Store is an export database.
type Store struct {
	db *sql.DB
}

// New opens or creates the database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Export opens dbPath, replaces its content with doc and table and closes it.
func Export(ctx context.Context, dbPath string, doc *internal.Document, table internal.Table, now time.Time) error {
	store, err := New(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Replace(ctx, doc, table, now)
}

// Replace writes the vehicle, the raw records and the display rows in one
// transaction, replacing any previous export.
func (s *Store) Replace(ctx context.Context, doc *internal.Document, table internal.Table, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM vehicle", "DELETE FROM records", "DELETE FROM display_rows"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear previous export: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO vehicle (id, manufacturer, model, costs_unit, distance_unit, liquid_unit, reference_distance, exported_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?)`,
		doc.Meta.Manufacturer, doc.Meta.Model,
		table.Units.Costs, table.Units.Distance, table.Units.Liquid,
		table.ReferenceDistance, now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert vehicle: %w", err)
	}

	for i, rec := range doc.FuelingOperations {
		var costsUnit, distanceUnit, liquidUnit any
		if rec.Units != nil {
			costsUnit, distanceUnit, liquidUnit = rec.Units.Costs, rec.Units.Distance, rec.Units.Liquid
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO records (position, date, time, petrol_station, petrol_type, costs, liquid, distance, mileage, costs_unit, distance_unit, liquid_unit)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, rec.Date, rec.Time, rec.PetrolStation, rec.PetrolType,
			nullable(rec.Costs), nullable(rec.Liquid), nullable(rec.Distance), nullable(rec.Mileage),
			costsUnit, distanceUnit, liquidUnit,
		)
		if err != nil {
			return fmt.Errorf("failed to insert record %d: %w", i+1, err)
		}
	}

	for i, row := range table.Rows {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO display_rows (position, date, time, petrol_station, petrol_type, costs, liquid, distance, mileage,
			 cost_per_liquid, liquid_per_reference_distance, cost_per_reference_distance, partial)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, row.Date, row.Time, row.PetrolStation, row.PetrolType, row.Costs, row.Liquid, row.Distance, row.Mileage,
			row.CostPerLiquid, row.LiquidPerReferenceDistance, row.CostPerReferenceDistance, row.Partial,
		)
		if err != nil {
			return fmt.Errorf("failed to insert display row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit export: %w", err)
	}

	slog.Debug("Exported petrol book to SQLite", "records", len(doc.FuelingOperations), "rows", len(table.Rows))
	return nil
}

// DisplayRows reads the exported display rows in display order.
func (s *Store) DisplayRows(ctx context.Context) ([]internal.DisplayRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, time, petrol_station, petrol_type, costs, liquid, distance, mileage,
		 cost_per_liquid, liquid_per_reference_distance, cost_per_reference_distance, partial
		 FROM display_rows ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list display rows: %w", err)
	}
	defer rows.Close()

	var result []internal.DisplayRow
	for rows.Next() {
		var r internal.DisplayRow
		if err := rows.Scan(&r.Date, &r.Time, &r.PetrolStation, &r.PetrolType, &r.Costs, &r.Liquid, &r.Distance, &r.Mileage,
			&r.CostPerLiquid, &r.LiquidPerReferenceDistance, &r.CostPerReferenceDistance, &r.Partial); err != nil {
			return nil, fmt.Errorf("failed to scan display row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// RawRecord is a stored record with its numeric values as text
type RawRecord struct {
	Date          string
	Time          string
	PetrolStation string
	Costs         sql.NullString
	Liquid        sql.NullString
	Distance      sql.NullString
	Mileage       sql.NullString
}

// Records reads the exported raw records in document order.
func (s *Store) Records(ctx context.Context) ([]RawRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, time, petrol_station, costs, liquid, distance, mileage FROM records ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var result []RawRecord
	for rows.Next() {
		var r RawRecord
		if err := rows.Scan(&r.Date, &r.Time, &r.PetrolStation, &r.Costs, &r.Liquid, &r.Distance, &r.Mileage); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func nullable(f internal.Field) any {
	if f.IsEmpty() {
		return nil
	}
	return f.Text()
}
