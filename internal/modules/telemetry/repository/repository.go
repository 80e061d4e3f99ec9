// Package repository archives normalized readings in SQLite. The live
// upstream store only retains its most recent entries, so every delivered
// snapshot is upserted here and history survives the retention window.
package repository

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"sensorboard/internal/modules/telemetry/types"
)

//go:embed sql/insert-reading.sql
var insertReadingSQL string

//go:embed sql/get-readings.sql
var getReadingsSQL string

//go:embed sql/get-latest-readings.sql
var getLatestReadingsSQL string

//go:embed sql/count-readings.sql
var countReadingsSQL string

type ReadingRepository interface {
	UpsertReadings(readings []types.Reading) error
	GetReadings(from, to time.Time, limit, offset int) ([]types.Reading, error)
	GetLatest(limit int) ([]types.Reading, error)
	CountReadings(from, to time.Time) (int, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ReadingRepository {
	return &repositoryImpl{db: db}
}

// UpsertReadings writes a snapshot's readings in one transaction. Replaying
// an id updates the row, so re-delivered snapshots are harmless.
func (r *repositoryImpl) UpsertReadings(readings []types.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			slog.Error("rollback upsert", "error", err)
		}
	}()

	stmt, err := tx.Prepare(insertReadingSQL)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			slog.Error("close upsert stmt", "error", err)
		}
	}()

	for _, reading := range readings {
		if _, err := stmt.Exec(
			reading.ID,
			reading.Timestamp,
			nullableFloat(reading.Temperature),
			nullableFloat(reading.Humidity),
			nullableFloat(reading.UV),
		); err != nil {
			return fmt.Errorf("upsert reading %q: %w", reading.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

func (r *repositoryImpl) GetReadings(from, to time.Time, limit, offset int) ([]types.Reading, error) {
	rows, err := r.db.Query(getReadingsSQL, from.UnixMilli(), to.UnixMilli(), limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close readings rows", "error", err)
		}
	}()
	return scanReadings(rows)
}

func (r *repositoryImpl) GetLatest(limit int) ([]types.Reading, error) {
	rows, err := r.db.Query(getLatestReadingsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close latest rows", "error", err)
		}
	}()
	return scanReadings(rows)
}

func (r *repositoryImpl) CountReadings(from, to time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(countReadingsSQL, from.UnixMilli(), to.UnixMilli()).Scan(&n)
	return n, err
}

func scanReadings(rows *sql.Rows) ([]types.Reading, error) {
	var out []types.Reading
	for rows.Next() {
		var rec types.Reading
		var temp, humid, uv sql.NullFloat64
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &temp, &humid, &uv); err != nil {
			return nil, err
		}
		rec.Temperature = fromNullable(temp)
		rec.Humidity = fromNullable(humid)
		rec.UV = fromNullable(uv)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromNullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
