package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/league-system/models"
)

var ErrSponsorNotFound = errors.New("sponsor not found")

type SponsorRepository interface {
	Create(ctx context.Context, exec SQLExecutor, s *models.Sponsor) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Sponsor, error)
	List(ctx context.Context, exec SQLExecutor) ([]models.Sponsor, error)
	Update(ctx context.Context, exec SQLExecutor, s *models.Sponsor) error
	UpdateLogoKey(ctx context.Context, exec SQLExecutor, id int, logoKey *string) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresSponsorRepository struct {
	db *sql.DB
}

func NewPostgresSponsorRepository(db *sql.DB) SponsorRepository {
	return &postgresSponsorRepository{db: db}
}

func (r *postgresSponsorRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresSponsorRepository) Create(ctx context.Context, exec SQLExecutor, s *models.Sponsor) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO sponsors (name, tagline, website_url, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	return executor.QueryRowContext(ctx, query, s.Name, s.Tagline, s.WebsiteURL, s.SortOrder).
		Scan(&s.ID)
}

func (r *postgresSponsorRepository) scanSponsor(rowScanner interface{ Scan(...interface{}) error }) (*models.Sponsor, error) {
	var s models.Sponsor
	err := rowScanner.Scan(&s.ID, &s.Name, &s.Tagline, &s.WebsiteURL, &s.SortOrder, &s.LogoKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSponsorNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresSponsorRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Sponsor, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, name, tagline, website_url, sort_order, logo_key FROM sponsors WHERE id = $1`
	return r.scanSponsor(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresSponsorRepository) List(ctx context.Context, exec SQLExecutor) ([]models.Sponsor, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, name, tagline, website_url, sort_order, logo_key
		FROM sponsors
		ORDER BY sort_order ASC, lower(name) ASC`
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Sponsor, 0)
	for rows.Next() {
		s, errScan := r.scanSponsor(rows)
		if errScan != nil {
			return nil, errScan
		}
		out = append(out, *s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresSponsorRepository) Update(ctx context.Context, exec SQLExecutor, s *models.Sponsor) error {
	executor := r.getExecutor(exec)
	// logo_key is owned by UpdateLogoKey.
	query := `
		UPDATE sponsors
		SET name = $1, tagline = $2, website_url = $3, sort_order = $4
		WHERE id = $5`
	result, err := executor.ExecContext(ctx, query, s.Name, s.Tagline, s.WebsiteURL, s.SortOrder, s.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSponsorNotFound)
}

func (r *postgresSponsorRepository) UpdateLogoKey(ctx context.Context, exec SQLExecutor, id int, logoKey *string) error {
	executor := r.getExecutor(exec)
	query := `UPDATE sponsors SET logo_key = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update sponsor logo key: %w", err)
	}
	return checkAffectedRows(result, ErrSponsorNotFound)
}

func (r *postgresSponsorRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM sponsors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSponsorNotFound)
}
