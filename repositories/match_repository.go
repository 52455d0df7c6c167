package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/courtside/league-system/models"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrMatchInvalid  = errors.New("match fails a schedule constraint")
)

// MatchFilter narrows List. Nil fields mean no filter.
type MatchFilter struct {
	Week     *int
	Division *models.Division
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	List(ctx context.Context, exec SQLExecutor, filter MatchFilter) ([]models.Match, error)
	DeleteByTeamName(ctx context.Context, exec SQLExecutor, team string) (int64, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (week, division, time_slot, court, team_a, team_b)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := executor.QueryRowContext(ctx, query,
		match.Week, match.Division, match.TimeSlot, match.Court, match.TeamA, match.TeamB,
	).Scan(&match.ID, &match.CreatedAt)
	return handleMatchError(err)
}

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := rowScanner.Scan(
		&m.ID, &m.Week, &m.Division, &m.TimeSlot, &m.Court, &m.TeamA, &m.TeamB, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, week, division, time_slot, court, team_a, team_b, created_at
		FROM matches
		WHERE id = $1`
	return r.scanMatch(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches
		SET week = $1, division = $2, time_slot = $3, court = $4, team_a = $5, team_b = $6
		WHERE id = $7`
	result, err := executor.ExecContext(ctx, query,
		match.Week, match.Division, match.TimeSlot, match.Court, match.TeamA, match.TeamB,
		match.ID,
	)
	if err != nil {
		return handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) List(ctx context.Context, exec SQLExecutor, filter MatchFilter) ([]models.Match, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, week, division, time_slot, court, team_a, team_b, created_at
		FROM matches
		WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Week != nil {
		query += fmt.Sprintf(" AND week = $%d", argID)
		args = append(args, *filter.Week)
		argID++
	}
	if filter.Division != nil {
		query += fmt.Sprintf(" AND division = $%d", argID)
		args = append(args, *filter.Division)
		argID++
	}

	// Slot strings do not sort chronologically, so play order is applied by
	// the service; this order just keeps scans deterministic.
	query += " ORDER BY week ASC, court ASC, id ASC"

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		m, errScan := r.scanMatch(rows)
		if errScan != nil {
			return nil, errScan
		}
		matches = append(matches, *m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

// DeleteByTeamName removes every match the team plays in, either side,
// matched with the usual trim/fold rules. Scores go with them via cascade.
func (r *postgresMatchRepository) DeleteByTeamName(ctx context.Context, exec SQLExecutor, team string) (int64, error) {
	executor := r.getExecutor(exec)
	query := `
		DELETE FROM matches
		WHERE lower(btrim(team_a)) = lower(btrim($1))
		   OR lower(btrim(team_b)) = lower(btrim($1))`
	result, err := executor.ExecContext(ctx, query, team)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23514" { // check_violation
			switch pqErr.Constraint {
			case "matches_week_check", "matches_division_check", "matches_court_check":
				return ErrMatchInvalid
			}
		}
	}
	return err
}
