package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/itbasis/go-clock"

	"github.com/courtside/league-system/models"
	"github.com/courtside/league-system/repositories"
	"github.com/courtside/league-system/storage"
)

var ErrBadFolderName = errors.New("folder name must use letters, numbers, dashes")

// photoPrefix roots every wall object; Orphans scans under it.
const photoPrefix = "photos/"

type PhotoService interface {
	// Upload stores the image under photos/<folder>/ and records it. Any
	// identified session may post to the wall.
	Upload(ctx context.Context, session models.Session, folder, contentType string, size int64, body io.Reader) (*models.PhotoUpload, error)
	Folders(ctx context.Context) ([]string, error)
	ListFolder(ctx context.Context, folder string) ([]models.PhotoUpload, error)
	// Delete removes the record and the object. Allowed for admins, photo
	// admins, and the original uploader.
	Delete(ctx context.Context, session models.Session, id int) error
	// Orphans lists stored objects no record points at. Admin only.
	Orphans(ctx context.Context, session models.Session) ([]storage.ObjectInfo, error)
}

type photoService struct {
	photoRepo      repositories.PhotoRepository
	photoAdminRepo repositories.PhotoAdminRepository
	store          storage.FileStore
	clock          clock.Clock
	logger         *slog.Logger
}

func NewPhotoService(
	photoRepo repositories.PhotoRepository,
	photoAdminRepo repositories.PhotoAdminRepository,
	store storage.FileStore,
	clk clock.Clock,
	logger *slog.Logger,
) PhotoService {
	return &photoService{
		photoRepo:      photoRepo,
		photoAdminRepo: photoAdminRepo,
		store:          store,
		clock:          clk,
		logger:         logger,
	}
}

func (s *photoService) Upload(ctx context.Context, session models.Session, folder, contentType string, size int64, body io.Reader) (*models.PhotoUpload, error) {
	if !session.Identified() {
		return nil, ErrIdentityRequired
	}

	folder, err := sanitizeFolder(folder)
	if err != nil {
		return nil, err
	}
	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	stamp := s.clock.Now().UTC().Format("20060102-150405")
	key := fmt.Sprintf("%s%s/%s-%s%s", photoPrefix, folder, stamp, generateRandomToken(4), ext)

	if _, err := s.store.Upload(ctx, key, contentType, body); err != nil {
		return nil, err
	}

	photo := &models.PhotoUpload{
		ObjectKey:   key,
		Folder:      folder,
		UploadedBy:  session.Name,
		ContentType: contentType,
		SizeBytes:   size,
	}
	if err := s.photoRepo.Create(ctx, nil, photo); err != nil {
		// Roll the object back so the bucket does not accumulate strays.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove object after record insert failed",
				slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, err
	}

	populatePhotoURL(photo, s.store)
	s.logger.Info("photo uploaded",
		slog.String("folder", folder),
		slog.String("by", session.Name),
		slog.Int64("bytes", size))
	return photo, nil
}

func (s *photoService) Folders(ctx context.Context) ([]string, error) {
	return s.photoRepo.ListFolders(ctx, nil)
}

func (s *photoService) ListFolder(ctx context.Context, folder string) ([]models.PhotoUpload, error) {
	folder, err := sanitizeFolder(folder)
	if err != nil {
		return nil, err
	}
	photos, err := s.photoRepo.ListByFolder(ctx, nil, folder)
	if err != nil {
		return nil, err
	}
	for i := range photos {
		populatePhotoURL(&photos[i], s.store)
	}
	return photos, nil
}

func (s *photoService) Delete(ctx context.Context, session models.Session, id int) error {
	photo, err := s.photoRepo.GetByID(ctx, nil, id)
	if err != nil {
		return err
	}

	allowed := session.IsAdmin() ||
		(session.Identified() && strings.EqualFold(strings.TrimSpace(photo.UploadedBy), session.Name))
	if !allowed && session.Identified() {
		allowed, err = s.photoAdminRepo.IsPhotoAdmin(ctx, nil, session.Name)
		if err != nil {
			return err
		}
	}
	if !allowed {
		return fmt.Errorf("%w: only the uploader, a photo admin, or an admin can remove a photo", ErrForbiddenOperation)
	}

	// Object first; if the record delete then fails the object is already
	// gone and the error surfaces so the row can be retried.
	if err := s.store.Delete(ctx, photo.ObjectKey); err != nil {
		return err
	}
	if err := s.photoRepo.Delete(ctx, nil, id); err != nil {
		s.logger.Warn("photo object deleted but record removal failed",
			slog.String("key", photo.ObjectKey), slog.Any("error", err))
		return err
	}
	return nil
}

func (s *photoService) Orphans(ctx context.Context, session models.Session) ([]storage.ObjectInfo, error) {
	if !session.IsAdmin() {
		return nil, ErrForbiddenOperation
	}

	objects, err := s.store.List(ctx, photoPrefix)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool)
	folders, err := s.photoRepo.ListFolders(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, folder := range folders {
		photos, err := s.photoRepo.ListByFolder(ctx, nil, folder)
		if err != nil {
			return nil, err
		}
		for _, p := range photos {
			known[p.ObjectKey] = true
		}
	}

	orphans := make([]storage.ObjectInfo, 0)
	for _, obj := range objects {
		if !known[obj.Key] {
			orphans = append(orphans, obj)
		}
	}
	return orphans, nil
}

// sanitizeFolder slugs a user-entered folder name into a safe key segment.
func sanitizeFolder(folder string) (string, error) {
	folder = strings.ToLower(strings.TrimSpace(folder))
	if folder == "" {
		return "", fmt.Errorf("%w: folder name is required", ErrValidationFailed)
	}
	var b strings.Builder
	lastDash := false
	for _, r := range folder {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			lastDash = false
		case r == ' ', r == '-':
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		default:
			return "", fmt.Errorf("%w: %q", ErrBadFolderName, folder)
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "", fmt.Errorf("%w: %q", ErrBadFolderName, folder)
	}
	return out, nil
}
