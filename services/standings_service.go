package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/courtside/league-system/models"
	"github.com/courtside/league-system/repositories"
	"github.com/courtside/league-system/standings"
)

type StandingsService interface {
	// Table computes the current standings from live data.
	Table(ctx context.Context) (*standings.Table, error)
}

type standingsService struct {
	matchRepo    repositories.MatchRepository
	scoreRepo    repositories.ScoreRepository
	teamRepo     repositories.TeamRepository
	moveRepo     repositories.DivisionMoveRepository
	baselineRepo repositories.BaselineRepository
	logger       *slog.Logger
}

func NewStandingsService(
	matchRepo repositories.MatchRepository,
	scoreRepo repositories.ScoreRepository,
	teamRepo repositories.TeamRepository,
	moveRepo repositories.DivisionMoveRepository,
	baselineRepo repositories.BaselineRepository,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		matchRepo:    matchRepo,
		scoreRepo:    scoreRepo,
		teamRepo:     teamRepo,
		moveRepo:     moveRepo,
		baselineRepo: baselineRepo,
		logger:       logger,
	}
}

func (s *standingsService) Table(ctx context.Context) (*standings.Table, error) {
	var (
		matches  []models.Match
		roster   []models.Team
		moves    []models.DivisionMove
		baseline []models.BaselineRow
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if matches, err = s.matchRepo.List(gCtx, nil, repositories.MatchFilter{}); err != nil {
			return fmt.Errorf("failed to load schedule: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if roster, err = s.teamRepo.List(gCtx, nil, nil); err != nil {
			return fmt.Errorf("failed to load roster: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if moves, err = s.moveRepo.List(gCtx, nil); err != nil {
			return fmt.Errorf("failed to load division moves: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if baseline, err = s.baselineRepo.List(gCtx, nil); err != nil {
			return fmt.Errorf("failed to load baseline: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]int, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	scores, err := s.scoreRepo.ListByMatchIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}

	table := standings.Compute(standings.Input{
		Matches:    matches,
		Scores:     scores,
		Baseline:   baseline,
		Moves:      moves,
		KnownTeams: standings.KnownTeams(roster, matches),
	})

	s.logger.Debug("standings computed",
		slog.Int("start_week", table.StartWeek),
		slog.Int("as_of_week", table.AsOfWeek),
		slog.Int("matches", len(matches)))
	return &table, nil
}
