package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/courtside/league-system/live"
	"github.com/courtside/league-system/models"
	"github.com/courtside/league-system/repositories"
)

const maxAnnouncementLength = 4000

// defaultAnnouncementPage bounds the board; old threads are still reachable
// with an explicit limit.
const defaultAnnouncementPage = 50

type AnnouncementService interface {
	Post(ctx context.Context, session models.Session, body string) (*models.Announcement, error)
	Reply(ctx context.Context, session models.Session, announcementID int, body string) (*models.AnnouncementReply, error)
	// List returns announcements newest first with replies attached,
	// oldest first within each thread. limit <= 0 uses the default page.
	List(ctx context.Context, limit int) ([]models.Announcement, error)
	// Delete removes an announcement and its replies. Admin only.
	Delete(ctx context.Context, session models.Session, id int) error
	DeleteReply(ctx context.Context, session models.Session, replyID int) error
}

type announcementService struct {
	announcementRepo repositories.AnnouncementRepository
	events           EventPublisher
	logger           *slog.Logger
}

func NewAnnouncementService(
	announcementRepo repositories.AnnouncementRepository,
	events EventPublisher,
	logger *slog.Logger,
) AnnouncementService {
	return &announcementService{
		announcementRepo: announcementRepo,
		events:           events,
		logger:           logger,
	}
}

func validateBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", fmt.Errorf("%w: body is required", ErrValidationFailed)
	}
	if len(body) > maxAnnouncementLength {
		return "", fmt.Errorf("%w: body exceeds %d characters", ErrValidationFailed, maxAnnouncementLength)
	}
	return body, nil
}

func (s *announcementService) Post(ctx context.Context, session models.Session, body string) (*models.Announcement, error) {
	if !session.Identified() {
		return nil, ErrIdentityRequired
	}
	if !session.IsAdmin() {
		return nil, fmt.Errorf("%w: only the league office posts announcements", ErrForbiddenOperation)
	}
	body, err := validateBody(body)
	if err != nil {
		return nil, err
	}

	announcement := &models.Announcement{Body: body, Author: session.Name}
	if err := s.announcementRepo.Create(ctx, nil, announcement); err != nil {
		return nil, err
	}
	announcement.Replies = []models.AnnouncementReply{}

	s.events.Publish(live.Event{
		Type:    live.EventAnnouncementPosted,
		Channel: live.ChannelAnnouncements,
		Payload: announcement,
	})
	return announcement, nil
}

func (s *announcementService) Reply(ctx context.Context, session models.Session, announcementID int, body string) (*models.AnnouncementReply, error) {
	if !session.Identified() {
		return nil, ErrIdentityRequired
	}
	body, err := validateBody(body)
	if err != nil {
		return nil, err
	}
	if _, err := s.announcementRepo.GetByID(ctx, nil, announcementID); err != nil {
		return nil, err
	}

	reply := &models.AnnouncementReply{
		AnnouncementID: announcementID,
		Body:           body,
		Author:         session.Name,
	}
	if err := s.announcementRepo.CreateReply(ctx, nil, reply); err != nil {
		return nil, err
	}

	s.events.Publish(live.Event{
		Type:    live.EventAnnouncementPosted,
		Channel: live.ChannelAnnouncements,
		Payload: reply,
	})
	return reply, nil
}

func (s *announcementService) List(ctx context.Context, limit int) ([]models.Announcement, error) {
	if limit <= 0 {
		limit = defaultAnnouncementPage
	}
	announcements, err := s.announcementRepo.List(ctx, nil, limit)
	if err != nil {
		return nil, err
	}
	if len(announcements) == 0 {
		return announcements, nil
	}

	ids := make([]int, len(announcements))
	for i, a := range announcements {
		ids[i] = a.ID
	}
	replies, err := s.announcementRepo.ListReplies(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load replies: %w", err)
	}
	for i := range announcements {
		thread := replies[announcements[i].ID]
		if thread == nil {
			thread = []models.AnnouncementReply{}
		}
		announcements[i].Replies = thread
	}
	return announcements, nil
}

func (s *announcementService) Delete(ctx context.Context, session models.Session, id int) error {
	if !session.IsAdmin() {
		return ErrForbiddenOperation
	}
	if err := s.announcementRepo.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.logger.Info("announcement removed", slog.Int("id", id), slog.String("by", session.Name))
	return nil
}

func (s *announcementService) DeleteReply(ctx context.Context, session models.Session, replyID int) error {
	if !session.IsAdmin() {
		return ErrForbiddenOperation
	}
	if err := s.announcementRepo.DeleteReply(ctx, nil, replyID); err != nil {
		return err
	}
	s.logger.Info("announcement reply removed", slog.Int("id", replyID), slog.String("by", session.Name))
	return nil
}
