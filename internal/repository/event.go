package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"vex-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// TrackedEvent is the persisted snapshot of a watched event.
type TrackedEvent struct {
	ID              int               `json:"id"`
	SKU             string            `json:"sku"`
	Name            string            `json:"name"`
	Start           time.Time         `json:"start"`
	End             time.Time         `json:"end"`
	SeasonName      string            `json:"season_name"`
	ProgramCode     string            `json:"program_code"`
	Venue           string            `json:"venue"`
	City            string            `json:"city"`
	Region          string            `json:"region"`
	Country         string            `json:"country"`
	Level           string            `json:"level"`
	Ongoing         bool              `json:"ongoing"`
	AwardsFinalized bool              `json:"awards_finalized"`
	Divisions       []domain.Division `json:"divisions"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

var ErrNoRows = sql.ErrNoRows

type EventRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewEventRepository(sqlDB *sql.DB, logger zerolog.Logger) *EventRepository {
	return &EventRepository{db: sqlDB, logger: logger}
}

func (r *EventRepository) Upsert(ctx context.Context, rec domain.Event) error {
	divisions, err := json.Marshal(rec.Divisions)
	if err != nil {
		return fmt.Errorf("failed to marshal divisions: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO events (
			id, sku, name, start_at, end_at, season_name, program_code,
			venue, city, region, country, level, ongoing, awards_finalized,
			divisions_json, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			sku = excluded.sku,
			name = excluded.name,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			season_name = excluded.season_name,
			program_code = excluded.program_code,
			venue = excluded.venue,
			city = excluded.city,
			region = excluded.region,
			country = excluded.country,
			level = excluded.level,
			ongoing = excluded.ongoing,
			awards_finalized = excluded.awards_finalized,
			divisions_json = excluded.divisions_json,
			updated_at = excluded.updated_at`,
		rec.ID, rec.SKU, rec.Name, rec.Start, rec.End, rec.Season.Name, rec.Program.Code,
		rec.Location.Venue, rec.Location.City, rec.Location.Region, rec.Location.Country,
		rec.Level, rec.Ongoing, rec.AwardsFinalized, string(divisions), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert event %s: %w", rec.SKU, err)
	}
	return nil
}

func (r *EventRepository) GetBySKU(ctx context.Context, sku string) (*TrackedEvent, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, sku, name, start_at, end_at, season_name, program_code,
		       venue, city, region, country, level, ongoing, awards_finalized,
		       divisions_json, created_at, updated_at
		FROM events WHERE sku = ?`, sku)
	return scanEvent(row)
}

func (r *EventRepository) List(ctx context.Context) ([]TrackedEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sku, name, start_at, end_at, season_name, program_code,
		       venue, city, region, country, level, ongoing, awards_finalized,
		       divisions_json, created_at, updated_at
		FROM events ORDER BY start_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []TrackedEvent{}
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *evt)
	}
	return events, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*TrackedEvent, error) {
	var evt TrackedEvent
	var divisionsJSON string
	err := row.Scan(
		&evt.ID, &evt.SKU, &evt.Name, &evt.Start, &evt.End, &evt.SeasonName,
		&evt.ProgramCode, &evt.Venue, &evt.City, &evt.Region, &evt.Country,
		&evt.Level, &evt.Ongoing, &evt.AwardsFinalized, &divisionsJSON,
		&evt.CreatedAt, &evt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	if err := json.Unmarshal([]byte(divisionsJSON), &evt.Divisions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal divisions: %w", err)
	}
	return &evt, nil
}
