package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/courtside/league-system/models"
)

var (
	ErrAnnouncementNotFound      = errors.New("announcement not found")
	ErrAnnouncementReplyNotFound = errors.New("announcement reply not found")
	ErrReplyAnnouncementInvalid  = errors.New("reply references an unknown announcement")
)

type AnnouncementRepository interface {
	Create(ctx context.Context, exec SQLExecutor, a *models.Announcement) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Announcement, error)
	List(ctx context.Context, exec SQLExecutor, limit int) ([]models.Announcement, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error

	CreateReply(ctx context.Context, exec SQLExecutor, reply *models.AnnouncementReply) error
	ListReplies(ctx context.Context, exec SQLExecutor, announcementIDs []int) (map[int][]models.AnnouncementReply, error)
	DeleteReply(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresAnnouncementRepository struct {
	db *sql.DB
}

func NewPostgresAnnouncementRepository(db *sql.DB) AnnouncementRepository {
	return &postgresAnnouncementRepository{db: db}
}

func (r *postgresAnnouncementRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresAnnouncementRepository) Create(ctx context.Context, exec SQLExecutor, a *models.Announcement) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO announcements (body, author)
		VALUES ($1, $2)
		RETURNING id, posted_at`
	return executor.QueryRowContext(ctx, query, a.Body, a.Author).Scan(&a.ID, &a.PostedAt)
}

func (r *postgresAnnouncementRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Announcement, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, body, author, posted_at FROM announcements WHERE id = $1`
	var a models.Announcement
	err := executor.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Body, &a.Author, &a.PostedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns announcements newest first. limit <= 0 means no limit.
func (r *postgresAnnouncementRepository) List(ctx context.Context, exec SQLExecutor, limit int) ([]models.Announcement, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, body, author, posted_at FROM announcements ORDER BY posted_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Announcement, 0)
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.Body, &a.Author, &a.PostedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresAnnouncementRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAnnouncementNotFound)
}

func (r *postgresAnnouncementRepository) CreateReply(ctx context.Context, exec SQLExecutor, reply *models.AnnouncementReply) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO announcement_replies (announcement_id, body, author)
		VALUES ($1, $2, $3)
		RETURNING id, posted_at`
	err := executor.QueryRowContext(ctx, query, reply.AnnouncementID, reply.Body, reply.Author).
		Scan(&reply.ID, &reply.PostedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" &&
			pqErr.Constraint == "announcement_replies_announcement_id_fkey" {
			return ErrReplyAnnouncementInvalid
		}
		return err
	}
	return nil
}

// ListReplies loads replies for a page of announcements in one query,
// oldest first within each thread.
func (r *postgresAnnouncementRepository) ListReplies(ctx context.Context, exec SQLExecutor, announcementIDs []int) (map[int][]models.AnnouncementReply, error) {
	out := make(map[int][]models.AnnouncementReply, len(announcementIDs))
	if len(announcementIDs) == 0 {
		return out, nil
	}
	executor := r.getExecutor(exec)
	query := `
		SELECT id, announcement_id, body, author, posted_at
		FROM announcement_replies
		WHERE announcement_id = ANY($1)
		ORDER BY posted_at ASC, id ASC`
	rows, err := executor.QueryContext(ctx, query, pq.Array(announcementIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var reply models.AnnouncementReply
		if err := rows.Scan(&reply.ID, &reply.AnnouncementID, &reply.Body, &reply.Author, &reply.PostedAt); err != nil {
			return nil, err
		}
		out[reply.AnnouncementID] = append(out[reply.AnnouncementID], reply)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresAnnouncementRepository) DeleteReply(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM announcement_replies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAnnouncementReplyNotFound)
}
