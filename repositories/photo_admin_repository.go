package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/courtside/league-system/models"
)

var (
	ErrPhotoAdminNotFound = errors.New("photo admin not found")
	ErrPhotoAdminExists   = errors.New("player is already a photo admin")
)

type PhotoAdminRepository interface {
	Add(ctx context.Context, exec SQLExecutor, admin *models.PhotoAdmin) error
	Remove(ctx context.Context, exec SQLExecutor, id int) error
	List(ctx context.Context, exec SQLExecutor) ([]models.PhotoAdmin, error)
	IsPhotoAdmin(ctx context.Context, exec SQLExecutor, playerName string) (bool, error)
}

type postgresPhotoAdminRepository struct {
	db *sql.DB
}

func NewPostgresPhotoAdminRepository(db *sql.DB) PhotoAdminRepository {
	return &postgresPhotoAdminRepository{db: db}
}

func (r *postgresPhotoAdminRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPhotoAdminRepository) Add(ctx context.Context, exec SQLExecutor, admin *models.PhotoAdmin) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO photo_admins (player_name, added_by)
		VALUES ($1, $2)
		RETURNING id, created_at`
	err := executor.QueryRowContext(ctx, query, admin.PlayerName, admin.AddedBy).
		Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" &&
			pqErr.Constraint == "photo_admins_player_name_key" {
			return ErrPhotoAdminExists
		}
		return err
	}
	return nil
}

func (r *postgresPhotoAdminRepository) Remove(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM photo_admins WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPhotoAdminNotFound)
}

func (r *postgresPhotoAdminRepository) List(ctx context.Context, exec SQLExecutor) ([]models.PhotoAdmin, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, player_name, added_by, created_at FROM photo_admins ORDER BY lower(player_name) ASC`
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.PhotoAdmin, 0)
	for rows.Next() {
		var a models.PhotoAdmin
		if err := rows.Scan(&a.ID, &a.PlayerName, &a.AddedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresPhotoAdminRepository) IsPhotoAdmin(ctx context.Context, exec SQLExecutor, playerName string) (bool, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT EXISTS (
			SELECT 1 FROM photo_admins
			WHERE lower(btrim(player_name)) = lower(btrim($1))
		)`
	var exists bool
	if err := executor.QueryRowContext(ctx, query, playerName).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
