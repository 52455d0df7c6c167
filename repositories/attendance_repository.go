package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/courtside/league-system/models"
)

var ErrAttendanceNotFound = errors.New("attendance record not found")

type AttendanceRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, a *models.Attendance) error
	ListByWeek(ctx context.Context, exec SQLExecutor, week int) ([]models.Attendance, error)
	List(ctx context.Context, exec SQLExecutor) ([]models.Attendance, error)
	Delete(ctx context.Context, exec SQLExecutor, week int, team string) error
	DeleteByTeamName(ctx context.Context, exec SQLExecutor, team string) (int64, error)
}

type postgresAttendanceRepository struct {
	db *sql.DB
}

func NewPostgresAttendanceRepository(db *sql.DB) AttendanceRepository {
	return &postgresAttendanceRepository{db: db}
}

func (r *postgresAttendanceRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresAttendanceRepository) Upsert(ctx context.Context, exec SQLExecutor, a *models.Attendance) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO attendance (week, team, absent, noted_by, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (week, team) DO UPDATE
		SET absent = EXCLUDED.absent,
		    noted_by = EXCLUDED.noted_by,
		    updated_at = now()
		RETURNING updated_at`
	return executor.QueryRowContext(ctx, query, a.Week, a.Team, a.Absent, a.NotedBy).
		Scan(&a.UpdatedAt)
}

func (r *postgresAttendanceRepository) listQuery(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]models.Attendance, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Attendance, 0)
	for rows.Next() {
		var a models.Attendance
		if err := rows.Scan(&a.Week, &a.Team, &a.Absent, &a.NotedBy, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresAttendanceRepository) ListByWeek(ctx context.Context, exec SQLExecutor, week int) ([]models.Attendance, error) {
	query := `
		SELECT week, team, absent, noted_by, updated_at
		FROM attendance
		WHERE week = $1
		ORDER BY lower(team) ASC`
	return r.listQuery(ctx, r.getExecutor(exec), query, week)
}

func (r *postgresAttendanceRepository) List(ctx context.Context, exec SQLExecutor) ([]models.Attendance, error) {
	query := `
		SELECT week, team, absent, noted_by, updated_at
		FROM attendance
		ORDER BY week ASC, lower(team) ASC`
	return r.listQuery(ctx, r.getExecutor(exec), query)
}

func (r *postgresAttendanceRepository) Delete(ctx context.Context, exec SQLExecutor, week int, team string) error {
	executor := r.getExecutor(exec)
	query := `
		DELETE FROM attendance
		WHERE week = $1 AND lower(btrim(team)) = lower(btrim($2))`
	result, err := executor.ExecContext(ctx, query, week, team)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAttendanceNotFound)
}

func (r *postgresAttendanceRepository) DeleteByTeamName(ctx context.Context, exec SQLExecutor, team string) (int64, error) {
	executor := r.getExecutor(exec)
	query := `DELETE FROM attendance WHERE lower(btrim(team)) = lower(btrim($1))`
	result, err := executor.ExecContext(ctx, query, team)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
