package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/courtside/league-system/models"
	"github.com/courtside/league-system/repositories"
	"github.com/courtside/league-system/storage"
)

type SponsorInput struct {
	Name       string `json:"name"`
	Tagline    string `json:"tagline"`
	WebsiteURL string `json:"website_url"`
	SortOrder  int    `json:"sort_order"`
}

type SponsorService interface {
	Create(ctx context.Context, input SponsorInput) (*models.Sponsor, error)
	List(ctx context.Context) ([]models.Sponsor, error)
	Update(ctx context.Context, id int, input SponsorInput) (*models.Sponsor, error)
	Delete(ctx context.Context, id int) error
	// UploadLogo stores the image and points the sponsor at it, removing
	// any previous logo object.
	UploadLogo(ctx context.Context, id int, contentType string, body io.Reader) (*models.Sponsor, error)
}

type sponsorService struct {
	sponsorRepo repositories.SponsorRepository
	store       storage.FileStore
	logger      *slog.Logger
}

func NewSponsorService(sponsorRepo repositories.SponsorRepository, store storage.FileStore, logger *slog.Logger) SponsorService {
	return &sponsorService{sponsorRepo: sponsorRepo, store: store, logger: logger}
}

func validateSponsorInput(input *SponsorInput) error {
	input.Name = models.NormalizeTeamName(input.Name)
	if input.Name == "" {
		return fmt.Errorf("%w: sponsor name is required", ErrValidationFailed)
	}
	return nil
}

func (s *sponsorService) Create(ctx context.Context, input SponsorInput) (*models.Sponsor, error) {
	if err := validateSponsorInput(&input); err != nil {
		return nil, err
	}
	sponsor := &models.Sponsor{
		Name:       input.Name,
		Tagline:    input.Tagline,
		WebsiteURL: input.WebsiteURL,
		SortOrder:  input.SortOrder,
	}
	if err := s.sponsorRepo.Create(ctx, nil, sponsor); err != nil {
		return nil, err
	}
	return sponsor, nil
}

func (s *sponsorService) List(ctx context.Context) ([]models.Sponsor, error) {
	sponsors, err := s.sponsorRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	for i := range sponsors {
		populateSponsorLogoURL(&sponsors[i], s.store)
	}
	return sponsors, nil
}

func (s *sponsorService) Update(ctx context.Context, id int, input SponsorInput) (*models.Sponsor, error) {
	if err := validateSponsorInput(&input); err != nil {
		return nil, err
	}
	sponsor := &models.Sponsor{
		ID:         id,
		Name:       input.Name,
		Tagline:    input.Tagline,
		WebsiteURL: input.WebsiteURL,
		SortOrder:  input.SortOrder,
	}
	if err := s.sponsorRepo.Update(ctx, nil, sponsor); err != nil {
		return nil, err
	}
	updated, err := s.sponsorRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	populateSponsorLogoURL(updated, s.store)
	return updated, nil
}

func (s *sponsorService) Delete(ctx context.Context, id int) error {
	sponsor, err := s.sponsorRepo.GetByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if err := s.sponsorRepo.Delete(ctx, nil, id); err != nil {
		return err
	}
	if key := derefString(sponsor.LogoKey); key != "" {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to delete sponsor logo object",
				slog.String("key", key), slog.Any("error", err))
		}
	}
	return nil
}

func (s *sponsorService) UploadLogo(ctx context.Context, id int, contentType string, body io.Reader) (*models.Sponsor, error) {
	sponsor, err := s.sponsorRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	// Each upload gets a new key so replacements never reuse a cached URL.
	key := fmt.Sprintf("sponsors/%d/logo-%s%s", id, generateRandomToken(4), ext)
	if _, err := s.store.Upload(ctx, key, contentType, body); err != nil {
		return nil, err
	}
	if err := s.sponsorRepo.UpdateLogoKey(ctx, nil, id, &key); err != nil {
		return nil, err
	}

	if old := derefString(sponsor.LogoKey); old != "" && old != key {
		if err := s.store.Delete(ctx, old); err != nil {
			s.logger.Warn("failed to delete replaced sponsor logo",
				slog.String("key", old), slog.Any("error", err))
		}
	}

	sponsor.LogoKey = &key
	populateSponsorLogoURL(sponsor, s.store)
	return sponsor, nil
}
