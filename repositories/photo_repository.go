package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/courtside/league-system/models"
)

var (
	ErrPhotoNotFound     = errors.New("photo not found")
	ErrPhotoDuplicateKey = errors.New("photo object key already recorded")
)

type PhotoRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.PhotoUpload) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.PhotoUpload, error)
	ListByFolder(ctx context.Context, exec SQLExecutor, folder string) ([]models.PhotoUpload, error)
	ListFolders(ctx context.Context, exec SQLExecutor) ([]string, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresPhotoRepository struct {
	db *sql.DB
}

func NewPostgresPhotoRepository(db *sql.DB) PhotoRepository {
	return &postgresPhotoRepository{db: db}
}

func (r *postgresPhotoRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPhotoRepository) Create(ctx context.Context, exec SQLExecutor, p *models.PhotoUpload) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO photos (object_key, folder, uploaded_by, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, posted_at`
	err := executor.QueryRowContext(ctx, query,
		p.ObjectKey, p.Folder, p.UploadedBy, p.ContentType, p.SizeBytes,
	).Scan(&p.ID, &p.PostedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" &&
			pqErr.Constraint == "photos_object_key_key" {
			return ErrPhotoDuplicateKey
		}
		return err
	}
	return nil
}

func (r *postgresPhotoRepository) scanPhoto(rowScanner interface{ Scan(...interface{}) error }) (*models.PhotoUpload, error) {
	var p models.PhotoUpload
	err := rowScanner.Scan(&p.ID, &p.ObjectKey, &p.Folder, &p.UploadedBy, &p.ContentType, &p.SizeBytes, &p.PostedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresPhotoRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.PhotoUpload, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, object_key, folder, uploaded_by, content_type, size_bytes, posted_at
		FROM photos
		WHERE id = $1`
	return r.scanPhoto(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresPhotoRepository) ListByFolder(ctx context.Context, exec SQLExecutor, folder string) ([]models.PhotoUpload, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, object_key, folder, uploaded_by, content_type, size_bytes, posted_at
		FROM photos
		WHERE folder = $1
		ORDER BY posted_at DESC, id DESC`
	rows, err := executor.QueryContext(ctx, query, folder)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.PhotoUpload, 0)
	for rows.Next() {
		p, errScan := r.scanPhoto(rows)
		if errScan != nil {
			return nil, errScan
		}
		out = append(out, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresPhotoRepository) ListFolders(ctx context.Context, exec SQLExecutor) ([]string, error) {
	executor := r.getExecutor(exec)
	query := `SELECT DISTINCT folder FROM photos ORDER BY folder ASC`
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var folder string
		if err := rows.Scan(&folder); err != nil {
			return nil, err
		}
		out = append(out, folder)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresPhotoRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPhotoNotFound)
}
