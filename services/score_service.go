package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/courtside/league-system/live"
	"github.com/courtside/league-system/models"
	"github.com/courtside/league-system/repositories"
)

var (
	ErrScoreOutOfRange = errors.New("game scores must be between 0 and 11")
	ErrEmptyScorecard  = errors.New("cannot verify a scorecard with no completed games")
)

type ScoreSaveInput struct {
	TeamA    models.ScoreFields `json:"team_a"`
	TeamB    models.ScoreFields `json:"team_b"`
	Verified bool               `json:"verified"`
}

type ScoreService interface {
	// Get returns the score row for a match, or a blank unverified card
	// when nothing has been entered yet.
	Get(ctx context.Context, matchID int) (*models.MatchScore, error)
	// Save upserts the card. Any identified session can save a draft;
	// verifying, or touching an already-verified card, takes one of the
	// match's own teams or an admin.
	Save(ctx context.Context, session models.Session, matchID int, input ScoreSaveInput) (*models.MatchScore, error)
}

type scoreService struct {
	matchRepo repositories.MatchRepository
	scoreRepo repositories.ScoreRepository
	events    EventPublisher
	logger    *slog.Logger
}

func NewScoreService(
	matchRepo repositories.MatchRepository,
	scoreRepo repositories.ScoreRepository,
	events EventPublisher,
	logger *slog.Logger,
) ScoreService {
	return &scoreService{
		matchRepo: matchRepo,
		scoreRepo: scoreRepo,
		events:    events,
		logger:    logger,
	}
}

func (s *scoreService) Get(ctx context.Context, matchID int) (*models.MatchScore, error) {
	if _, err := s.matchRepo.GetByID(ctx, nil, matchID); err != nil {
		return nil, err
	}
	score, err := s.scoreRepo.GetByMatchID(ctx, nil, matchID)
	if errors.Is(err, repositories.ErrScoreNotFound) {
		return &models.MatchScore{MatchID: matchID}, nil
	}
	if err != nil {
		return nil, err
	}
	return score, nil
}

func (s *scoreService) Save(ctx context.Context, session models.Session, matchID int, input ScoreSaveInput) (*models.MatchScore, error) {
	if !session.Identified() {
		return nil, ErrIdentityRequired
	}

	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}
	if err := validateScoreFields(input.TeamA); err != nil {
		return nil, err
	}
	if err := validateScoreFields(input.TeamB); err != nil {
		return nil, err
	}

	existing, err := s.scoreRepo.GetByMatchID(ctx, nil, matchID)
	if err != nil && !errors.Is(err, repositories.ErrScoreNotFound) {
		return nil, err
	}

	canVerify := session.IsAdmin() || match.HasTeam(session.Team)
	if existing != nil && existing.Verified && !canVerify {
		return nil, fmt.Errorf("%w: verified scores can only be changed by the teams that played or an admin", ErrForbiddenOperation)
	}

	score := &models.MatchScore{
		MatchID: matchID,
		TeamA:   input.TeamA,
		TeamB:   input.TeamB,
	}

	if input.Verified {
		if !canVerify {
			return nil, fmt.Errorf("%w: only %s, %s, or an admin can verify this match", ErrForbiddenOperation, match.TeamA, match.TeamB)
		}
		if score.EnteredGames() == 0 {
			return nil, ErrEmptyScorecard
		}
		score.Verified = true
		score.VerifiedBy = session.Name
	}

	if err := s.scoreRepo.Upsert(ctx, nil, score); err != nil {
		return nil, err
	}

	if score.Verified {
		s.logger.Info("score verified",
			slog.Int("match_id", matchID),
			slog.String("by", session.Name),
			slog.Int("games", score.EnteredGames()))
		s.publishVerified(match, score)
	}
	return score, nil
}

func validateScoreFields(fields models.ScoreFields) error {
	for i := 0; i < models.GamesPerMatch; i++ {
		g := fields.Game(i)
		if !g.Entered() {
			continue
		}
		if g.Points() < 0 || g.Points() > models.MaxGamePoints {
			return fmt.Errorf("%w: game %d has %d", ErrScoreOutOfRange, i+1, g.Points())
		}
	}
	return nil
}

func (s *scoreService) publishVerified(match *models.Match, score *models.MatchScore) {
	payload := map[string]interface{}{
		"match_id": match.ID,
		"week":     match.Week,
		"division": match.Division,
		"team_a":   match.TeamA,
		"team_b":   match.TeamB,
	}
	s.events.Publish(live.Event{
		Type:    live.EventScoreVerified,
		Channel: live.ChannelScoreboard,
		Payload: payload,
	})
	// A verified result always shifts the tables.
	s.events.Publish(live.Event{
		Type:    live.EventStandingsUpdated,
		Channel: live.ChannelScoreboard,
	})
}
