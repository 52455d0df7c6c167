package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/courtside/league-system/models"
)

var ErrSettingsNotFound = errors.New("league settings row missing")

// SettingsRepository reads and writes the single league_settings row.
type SettingsRepository interface {
	Get(ctx context.Context, exec SQLExecutor) (*models.LeagueSettings, error)
	SetCurrentWeek(ctx context.Context, exec SQLExecutor, week int) (*models.LeagueSettings, error)
}

type postgresSettingsRepository struct {
	db *sql.DB
}

func NewPostgresSettingsRepository(db *sql.DB) SettingsRepository {
	return &postgresSettingsRepository{db: db}
}

func (r *postgresSettingsRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresSettingsRepository) Get(ctx context.Context, exec SQLExecutor) (*models.LeagueSettings, error) {
	executor := r.getExecutor(exec)
	query := `SELECT current_week, updated_at FROM league_settings WHERE id = 1`
	var s models.LeagueSettings
	err := executor.QueryRowContext(ctx, query).Scan(&s.CurrentWeek, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresSettingsRepository) SetCurrentWeek(ctx context.Context, exec SQLExecutor, week int) (*models.LeagueSettings, error) {
	executor := r.getExecutor(exec)
	// Upsert keeps a wiped table self-healing.
	query := `
		INSERT INTO league_settings (id, current_week, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE
		SET current_week = EXCLUDED.current_week,
		    updated_at = now()
		RETURNING current_week, updated_at`
	var s models.LeagueSettings
	if err := executor.QueryRowContext(ctx, query, week).Scan(&s.CurrentWeek, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
