package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/courtside/league-system/models"
)

var ErrBaselineDuplicate = errors.New("baseline already has a row for that team")

type BaselineRepository interface {
	List(ctx context.Context, exec SQLExecutor) ([]models.BaselineRow, error)
	// Replace swaps the whole snapshot. Callers pass a transaction so a
	// failed insert cannot leave the table half-written.
	Replace(ctx context.Context, exec SQLExecutor, rows []models.BaselineRow) error
}

type postgresBaselineRepository struct {
	db *sql.DB
}

func NewPostgresBaselineRepository(db *sql.DB) BaselineRepository {
	return &postgresBaselineRepository{db: db}
}

func (r *postgresBaselineRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresBaselineRepository) List(ctx context.Context, exec SQLExecutor) ([]models.BaselineRow, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, division, team, games_played, wins, losses, points_for, points_against
		FROM standings_baseline
		ORDER BY division ASC, lower(team) ASC`
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.BaselineRow, 0)
	for rows.Next() {
		var b models.BaselineRow
		if err := rows.Scan(&b.ID, &b.Division, &b.Team, &b.GamesPlayed, &b.Wins, &b.Losses, &b.PointsFor, &b.PointsAgainst); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresBaselineRepository) Replace(ctx context.Context, exec SQLExecutor, rows []models.BaselineRow) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM standings_baseline`); err != nil {
		return fmt.Errorf("failed to clear baseline: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO standings_baseline
		    (division, team, games_played, wins, losses, points_for, points_against)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range rows {
		row := &rows[i]
		err := executor.QueryRowContext(ctx, query+` RETURNING id`,
			row.Division, row.Team, row.GamesPlayed, row.Wins, row.Losses,
			row.PointsFor, row.PointsAgainst,
		).Scan(&row.ID)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" &&
				pqErr.Constraint == "standings_baseline_division_team_key" {
				return fmt.Errorf("%w: %s (%s)", ErrBaselineDuplicate, row.Team, row.Division)
			}
			return fmt.Errorf("failed to insert baseline row for %s: %w", row.Team, err)
		}
	}
	return nil
}
