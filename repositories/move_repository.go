package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/courtside/league-system/models"
)

var (
	ErrDivisionMoveNotFound = errors.New("division move not found")
	ErrDivisionMoveInvalid  = errors.New("division move fails a constraint")
)

type DivisionMoveRepository interface {
	Create(ctx context.Context, exec SQLExecutor, move *models.DivisionMove) error
	List(ctx context.Context, exec SQLExecutor) ([]models.DivisionMove, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	DeleteByTeamName(ctx context.Context, exec SQLExecutor, team string) (int64, error)
}

type postgresDivisionMoveRepository struct {
	db *sql.DB
}

func NewPostgresDivisionMoveRepository(db *sql.DB) DivisionMoveRepository {
	return &postgresDivisionMoveRepository{db: db}
}

func (r *postgresDivisionMoveRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresDivisionMoveRepository) Create(ctx context.Context, exec SQLExecutor, move *models.DivisionMove) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO division_moves (team, from_division, to_division, effective_week)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := executor.QueryRowContext(ctx, query,
		move.Team, move.FromDivision, move.ToDivision, move.EffectiveWeek,
	).Scan(&move.ID, &move.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			return ErrDivisionMoveInvalid
		}
		return err
	}
	return nil
}

// List returns moves in application order: ascending effective week, then
// record order, so the last row for a team wins ties.
func (r *postgresDivisionMoveRepository) List(ctx context.Context, exec SQLExecutor) ([]models.DivisionMove, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, team, from_division, to_division, effective_week, created_at
		FROM division_moves
		ORDER BY effective_week ASC, created_at ASC, id ASC`
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	moves := make([]models.DivisionMove, 0)
	for rows.Next() {
		var m models.DivisionMove
		if err := rows.Scan(&m.ID, &m.Team, &m.FromDivision, &m.ToDivision, &m.EffectiveWeek, &m.CreatedAt); err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return moves, nil
}

func (r *postgresDivisionMoveRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM division_moves WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrDivisionMoveNotFound)
}

func (r *postgresDivisionMoveRepository) DeleteByTeamName(ctx context.Context, exec SQLExecutor, team string) (int64, error) {
	executor := r.getExecutor(exec)
	query := `DELETE FROM division_moves WHERE lower(btrim(team)) = lower(btrim($1))`
	result, err := executor.ExecContext(ctx, query, team)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
