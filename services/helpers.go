package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/courtside/league-system/models"
	"github.com/courtside/league-system/storage"
)

// runInTx wraps fn in a transaction with rollback on error or panic.
func runInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func populateSponsorLogoURL(sponsor *models.Sponsor, store storage.FileStore) {
	if sponsor != nil && sponsor.LogoKey != nil && *sponsor.LogoKey != "" && store != nil {
		if url := store.GetPublicURL(*sponsor.LogoKey); url != "" {
			sponsor.LogoURL = &url
		}
	}
}

func populatePhotoURL(photo *models.PhotoUpload, store storage.FileStore) {
	if photo != nil && photo.ObjectKey != "" && store != nil {
		photo.URL = store.GetPublicURL(photo.ObjectKey)
	}
}

// extensionFromContentType maps an image MIME type to a file extension for
// generated object keys.
func extensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	}
	parts := strings.Split(contentType, "/")
	if len(parts) == 2 && parts[0] == "image" && parts[1] != "" {
		return "." + strings.Split(parts[1], "+")[0], nil
	}
	return "", fmt.Errorf("could not determine file extension from content type: %q", contentType)
}
