package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/courtside/league-system/models"
)

var (
	ErrScoreNotFound     = errors.New("match score not found")
	ErrScoreMatchInvalid = errors.New("score references an unknown match")
)

type ScoreRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, score *models.MatchScore) error
	GetByMatchID(ctx context.Context, exec SQLExecutor, matchID int) (*models.MatchScore, error)
	ListByMatchIDs(ctx context.Context, exec SQLExecutor, matchIDs []int) (map[int]models.MatchScore, error)
}

type postgresScoreRepository struct {
	db *sql.DB
}

func NewPostgresScoreRepository(db *sql.DB) ScoreRepository {
	return &postgresScoreRepository{db: db}
}

func (r *postgresScoreRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// Upsert writes the whole row; one row per match. Merge semantics live in
// the service, which reads the current row first inside the same
// transaction.
func (r *postgresScoreRepository) Upsert(ctx context.Context, exec SQLExecutor, score *models.MatchScore) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_scores (match_id, team_a, team_b, verified, verified_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (match_id) DO UPDATE
		SET team_a = EXCLUDED.team_a,
		    team_b = EXCLUDED.team_b,
		    verified = EXCLUDED.verified,
		    verified_by = EXCLUDED.verified_by,
		    updated_at = now()
		RETURNING updated_at`
	err := executor.QueryRowContext(ctx, query,
		score.MatchID, score.TeamA, score.TeamB, score.Verified, score.VerifiedBy,
	).Scan(&score.UpdatedAt)
	return handleScoreError(err)
}

func (r *postgresScoreRepository) scanScore(rowScanner interface{ Scan(...interface{}) error }) (*models.MatchScore, error) {
	var s models.MatchScore
	err := rowScanner.Scan(&s.MatchID, &s.TeamA, &s.TeamB, &s.Verified, &s.VerifiedBy, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScoreNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresScoreRepository) GetByMatchID(ctx context.Context, exec SQLExecutor, matchID int) (*models.MatchScore, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT match_id, team_a, team_b, verified, verified_by, updated_at
		FROM match_scores
		WHERE match_id = $1`
	return r.scanScore(executor.QueryRowContext(ctx, query, matchID))
}

func (r *postgresScoreRepository) ListByMatchIDs(ctx context.Context, exec SQLExecutor, matchIDs []int) (map[int]models.MatchScore, error) {
	out := make(map[int]models.MatchScore, len(matchIDs))
	if len(matchIDs) == 0 {
		return out, nil
	}
	executor := r.getExecutor(exec)
	query := `
		SELECT match_id, team_a, team_b, verified, verified_by, updated_at
		FROM match_scores
		WHERE match_id = ANY($1)`
	rows, err := executor.QueryContext(ctx, query, pq.Array(matchIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		s, errScan := r.scanScore(rows)
		if errScan != nil {
			return nil, errScan
		}
		out[s.MatchID] = *s
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func handleScoreError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" && pqErr.Constraint == "match_scores_match_id_fkey" {
			return ErrScoreMatchInvalid
		}
	}
	return err
}
