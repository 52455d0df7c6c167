package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/courtside/league-system/models"
	"github.com/courtside/league-system/repositories"
)

type TeamInput struct {
	Division models.Division `json:"division"`
	Name     string          `json:"name"`
}

// TeamDeleteSummary reports what a cascade removal took with it.
type TeamDeleteSummary struct {
	Team              string `json:"team"`
	MatchesRemoved    int64  `json:"matches_removed"`
	MovesRemoved      int64  `json:"moves_removed"`
	AttendanceRemoved int64  `json:"attendance_removed"`
}

type TeamService interface {
	Create(ctx context.Context, input TeamInput) (*models.Team, error)
	Get(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context, division *models.Division) ([]models.Team, error)
	Update(ctx context.Context, id int, input TeamInput) (*models.Team, error)
	// Delete removes the roster row and, in the same transaction, every
	// match the team plays in (scores go via cascade), its division moves,
	// and its attendance marks. The baseline snapshot is history and stays.
	Delete(ctx context.Context, id int) (*TeamDeleteSummary, error)
}

type teamService struct {
	db             *sql.DB
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	moveRepo       repositories.DivisionMoveRepository
	attendanceRepo repositories.AttendanceRepository
	logger         *slog.Logger
}

func NewTeamService(
	db *sql.DB,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	moveRepo repositories.DivisionMoveRepository,
	attendanceRepo repositories.AttendanceRepository,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		db:             db,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		moveRepo:       moveRepo,
		attendanceRepo: attendanceRepo,
		logger:         logger,
	}
}

func validateTeamInput(input *TeamInput) error {
	input.Name = models.NormalizeTeamName(input.Name)
	if input.Name == "" {
		return fmt.Errorf("%w: team name is required", ErrValidationFailed)
	}
	if !input.Division.Valid() {
		return fmt.Errorf("%w: unknown division %q", ErrValidationFailed, input.Division)
	}
	return nil
}

func (s *teamService) Create(ctx context.Context, input TeamInput) (*models.Team, error) {
	if err := validateTeamInput(&input); err != nil {
		return nil, err
	}
	team := &models.Team{Division: input.Division, Name: input.Name}
	if err := s.teamRepo.Create(ctx, nil, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *teamService) Get(ctx context.Context, id int) (*models.Team, error) {
	return s.teamRepo.GetByID(ctx, nil, id)
}

func (s *teamService) List(ctx context.Context, division *models.Division) ([]models.Team, error) {
	return s.teamRepo.List(ctx, nil, division)
}

func (s *teamService) Update(ctx context.Context, id int, input TeamInput) (*models.Team, error) {
	if err := validateTeamInput(&input); err != nil {
		return nil, err
	}
	team := &models.Team{ID: id, Division: input.Division, Name: input.Name}
	if err := s.teamRepo.Update(ctx, nil, team); err != nil {
		return nil, err
	}
	return s.teamRepo.GetByID(ctx, nil, id)
}

func (s *teamService) Delete(ctx context.Context, id int) (*TeamDeleteSummary, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	summary := &TeamDeleteSummary{Team: team.Name}
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if summary.MatchesRemoved, err = s.matchRepo.DeleteByTeamName(ctx, tx, team.Name); err != nil {
			return fmt.Errorf("failed to delete matches for team %q: %w", team.Name, err)
		}
		if summary.MovesRemoved, err = s.moveRepo.DeleteByTeamName(ctx, tx, team.Name); err != nil {
			return fmt.Errorf("failed to delete division moves for team %q: %w", team.Name, err)
		}
		if summary.AttendanceRemoved, err = s.attendanceRepo.DeleteByTeamName(ctx, tx, team.Name); err != nil {
			return fmt.Errorf("failed to delete attendance for team %q: %w", team.Name, err)
		}
		return s.teamRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("team removed with its records",
		slog.String("team", team.Name),
		slog.Int64("matches", summary.MatchesRemoved),
		slog.Int64("moves", summary.MovesRemoved),
		slog.Int64("attendance", summary.AttendanceRemoved))
	return summary, nil
}
