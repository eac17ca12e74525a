package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"vex-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type TeamRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewTeamRepository(sqlDB *sql.DB, logger zerolog.Logger) *TeamRepository {
	return &TeamRepository{db: sqlDB, logger: logger}
}

func (r *TeamRepository) Upsert(ctx context.Context, eventID int, team domain.Team) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO event_teams (
			event_id, team_id, number, team_name, robot_name, organization,
			city, country, grade, registered, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (event_id, team_id) DO UPDATE SET
			number = excluded.number,
			team_name = excluded.team_name,
			robot_name = excluded.robot_name,
			organization = excluded.organization,
			city = excluded.city,
			country = excluded.country,
			grade = excluded.grade,
			registered = excluded.registered,
			updated_at = excluded.updated_at`,
		eventID, team.ID, team.Number, team.TeamName, team.RobotName, team.Organization,
		team.Location.City, team.Location.Country, team.Grade, team.Registered, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert team %s for event %d: %w", team.Number, eventID, err)
	}
	return nil
}

func (r *TeamRepository) UpsertBatch(ctx context.Context, eventID int, teams []domain.Team) error {
	if len(teams) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, team := range teams {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO event_teams (
				event_id, team_id, number, team_name, robot_name, organization,
				city, country, grade, registered, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (event_id, team_id) DO UPDATE SET
				number = excluded.number,
				team_name = excluded.team_name,
				robot_name = excluded.robot_name,
				organization = excluded.organization,
				city = excluded.city,
				country = excluded.country,
				grade = excluded.grade,
				registered = excluded.registered,
				updated_at = excluded.updated_at`,
			eventID, team.ID, team.Number, team.TeamName, team.RobotName, team.Organization,
			team.Location.City, team.Location.Country, team.Grade, team.Registered, now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert team %s: %w", team.Number, err)
		}
	}

	return tx.Commit()
}

func (r *TeamRepository) Delete(ctx context.Context, eventID, teamID int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM event_teams WHERE event_id = ? AND team_id = ?`, eventID, teamID)
	if err != nil {
		return fmt.Errorf("failed to delete team %d for event %d: %w", teamID, eventID, err)
	}
	return nil
}

// EventTeam is the persisted per-event registration snapshot of a team.
type EventTeam struct {
	EventID      int       `json:"event_id"`
	TeamID       int       `json:"team_id"`
	Number       string    `json:"number"`
	TeamName     string    `json:"team_name"`
	RobotName    string    `json:"robot_name"`
	Organization string    `json:"organization"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	Grade        string    `json:"grade"`
	Registered   bool      `json:"registered"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (r *TeamRepository) ListByEvent(ctx context.Context, eventID int) ([]EventTeam, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT event_id, team_id, number, team_name, robot_name, organization,
		       city, country, grade, registered, created_at, updated_at
		FROM event_teams WHERE event_id = ? ORDER BY number`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []EventTeam{}
	for rows.Next() {
		var t EventTeam
		err := rows.Scan(
			&t.EventID, &t.TeamID, &t.Number, &t.TeamName, &t.RobotName,
			&t.Organization, &t.City, &t.Country, &t.Grade, &t.Registered,
			&t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}
