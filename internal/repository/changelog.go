package repository

import (
	"context"
	"database/sql"
	"fmt"
	"vex-tracker/internal/constants"
	"vex-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type ChangeLogRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewChangeLogRepository(sqlDB *sql.DB, logger zerolog.Logger) *ChangeLogRepository {
	return &ChangeLogRepository{db: sqlDB, logger: logger}
}

func (r *ChangeLogRepository) Append(ctx context.Context, rec domain.ChangeRecord) error {
	id := rec.ID
	if id == "" {
		var err error
		id, err = gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO change_log (id, event_sku, resource, change_type, record_id, detail, observed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, rec.EventSKU, rec.Resource, rec.ChangeType, rec.RecordID, rec.Detail, rec.ObservedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append change log entry: %w", err)
	}
	return nil
}

func (r *ChangeLogRepository) ListBySKU(ctx context.Context, sku string, limit int) ([]domain.ChangeRecord, error) {
	if limit <= 0 {
		limit = constants.ChangeLogDefaultLimit
	}
	if limit > constants.ChangeLogMaxLimit {
		limit = constants.ChangeLogMaxLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_sku, resource, change_type, record_id, detail, observed_at
		FROM change_log WHERE event_sku = ?
		ORDER BY observed_at DESC LIMIT ?`, sku, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.ChangeRecord{}
	for rows.Next() {
		var rec domain.ChangeRecord
		err := rows.Scan(&rec.ID, &rec.EventSKU, &rec.Resource, &rec.ChangeType,
			&rec.RecordID, &rec.Detail, &rec.ObservedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan change log entry: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
