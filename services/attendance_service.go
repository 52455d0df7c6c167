package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/courtside/league-system/models"
	"github.com/courtside/league-system/repositories"
)

type AttendanceInput struct {
	Week   int    `json:"week"`
	Team   string `json:"team"`
	Absent bool   `json:"absent"`
}

type AttendanceService interface {
	// Mark sets a team out (or back in) for a week. Absent teams hard-block
	// schedule saves for that week.
	Mark(ctx context.Context, session models.Session, input AttendanceInput) (*models.Attendance, error)
	ListWeek(ctx context.Context, week int) ([]models.Attendance, error)
	List(ctx context.Context) ([]models.Attendance, error)
}

type attendanceService struct {
	attendanceRepo repositories.AttendanceRepository
	logger         *slog.Logger
}

func NewAttendanceService(attendanceRepo repositories.AttendanceRepository, logger *slog.Logger) AttendanceService {
	return &attendanceService{attendanceRepo: attendanceRepo, logger: logger}
}

func (s *attendanceService) Mark(ctx context.Context, session models.Session, input AttendanceInput) (*models.Attendance, error) {
	if !session.Identified() {
		return nil, ErrIdentityRequired
	}
	team := models.NormalizeTeamName(input.Team)
	if team == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrValidationFailed)
	}
	if input.Week < 1 {
		return nil, fmt.Errorf("%w: week must be 1 or later", ErrValidationFailed)
	}
	if !session.IsAdmin() && !models.TeamNamesEqual(session.Team, team) {
		return nil, fmt.Errorf("%w: only %s or an admin can change their attendance", ErrForbiddenOperation, team)
	}

	record := &models.Attendance{
		Week:    input.Week,
		Team:    team,
		Absent:  input.Absent,
		NotedBy: session.Name,
	}
	if err := s.attendanceRepo.Upsert(ctx, nil, record); err != nil {
		return nil, err
	}
	s.logger.Info("attendance updated",
		slog.Int("week", record.Week),
		slog.String("team", record.Team),
		slog.Bool("absent", record.Absent),
		slog.String("by", session.Name))
	return record, nil
}

func (s *attendanceService) ListWeek(ctx context.Context, week int) ([]models.Attendance, error) {
	if week < 1 {
		return nil, fmt.Errorf("%w: week must be 1 or later", ErrValidationFailed)
	}
	return s.attendanceRepo.ListByWeek(ctx, nil, week)
}

func (s *attendanceService) List(ctx context.Context) ([]models.Attendance, error) {
	return s.attendanceRepo.List(ctx, nil)
}
