package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/courtside/league-system/live"
	"github.com/courtside/league-system/models"
	"github.com/courtside/league-system/repositories"
	"github.com/courtside/league-system/scheduling"
)

type DivisionMoveInput struct {
	Team          string          `json:"team"`
	FromDivision  models.Division `json:"from_division"`
	ToDivision    models.Division `json:"to_division"`
	EffectiveWeek int             `json:"effective_week"`
}

type BaselineInput struct {
	Division      models.Division `json:"division"`
	Team          string          `json:"team"`
	GamesPlayed   int             `json:"games_played"`
	Wins          int             `json:"wins"`
	Losses        int             `json:"losses"`
	PointsFor     int             `json:"points_for"`
	PointsAgainst int             `json:"points_against"`
}

// AdminService groups the league-office operations: moving teams between
// divisions, seeding carried-over standings, advancing the published week,
// and managing the photo admin roster.
type AdminService interface {
	AddMove(ctx context.Context, input DivisionMoveInput) (*models.DivisionMove, error)
	ListMoves(ctx context.Context) ([]models.DivisionMove, error)
	DeleteMove(ctx context.Context, id int) error

	// SuggestPairings returns a round-robin rotation over a division's
	// roster as a booking aid. Nothing is persisted.
	SuggestPairings(ctx context.Context, division models.Division, startWeek, weeks int) ([]scheduling.WeekPairings, error)

	ListBaseline(ctx context.Context) ([]models.BaselineRow, error)
	ReplaceBaseline(ctx context.Context, rows []BaselineInput) ([]models.BaselineRow, error)

	Settings(ctx context.Context) (*models.LeagueSettings, error)
	SetCurrentWeek(ctx context.Context, week int) (*models.LeagueSettings, error)

	AddPhotoAdmin(ctx context.Context, session models.Session, playerName string) (*models.PhotoAdmin, error)
	RemovePhotoAdmin(ctx context.Context, id int) error
	ListPhotoAdmins(ctx context.Context) ([]models.PhotoAdmin, error)
}

type adminService struct {
	db           *sql.DB
	moveRepo     repositories.DivisionMoveRepository
	baselineRepo repositories.BaselineRepository
	settingsRepo repositories.SettingsRepository
	photoAdmins  repositories.PhotoAdminRepository
	teamRepo     repositories.TeamRepository
	events       EventPublisher
	logger       *slog.Logger
}

func NewAdminService(
	db *sql.DB,
	moveRepo repositories.DivisionMoveRepository,
	baselineRepo repositories.BaselineRepository,
	settingsRepo repositories.SettingsRepository,
	photoAdmins repositories.PhotoAdminRepository,
	teamRepo repositories.TeamRepository,
	events EventPublisher,
	logger *slog.Logger,
) AdminService {
	return &adminService{
		db:           db,
		moveRepo:     moveRepo,
		baselineRepo: baselineRepo,
		settingsRepo: settingsRepo,
		photoAdmins:  photoAdmins,
		teamRepo:     teamRepo,
		events:       events,
		logger:       logger,
	}
}

func (s *adminService) AddMove(ctx context.Context, input DivisionMoveInput) (*models.DivisionMove, error) {
	input.Team = models.NormalizeTeamName(input.Team)
	if input.Team == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrValidationFailed)
	}
	if !input.FromDivision.Valid() || !input.ToDivision.Valid() {
		return nil, fmt.Errorf("%w: unknown division", ErrValidationFailed)
	}
	if input.FromDivision == input.ToDivision {
		return nil, fmt.Errorf("%w: the team is already in %s", ErrValidationFailed, input.ToDivision)
	}
	if input.EffectiveWeek < 1 {
		return nil, fmt.Errorf("%w: effective week must be at least 1", ErrValidationFailed)
	}

	move := &models.DivisionMove{
		Team:          input.Team,
		FromDivision:  input.FromDivision,
		ToDivision:    input.ToDivision,
		EffectiveWeek: input.EffectiveWeek,
	}
	if err := s.moveRepo.Create(ctx, nil, move); err != nil {
		return nil, err
	}

	s.logger.Info("division move recorded",
		slog.String("team", move.Team),
		slog.String("from", string(move.FromDivision)),
		slog.String("to", string(move.ToDivision)),
		slog.Int("effective_week", move.EffectiveWeek))
	s.publishStandingsChanged()
	return move, nil
}

func (s *adminService) ListMoves(ctx context.Context) ([]models.DivisionMove, error) {
	return s.moveRepo.List(ctx, nil)
}

func (s *adminService) SuggestPairings(ctx context.Context, division models.Division, startWeek, weeks int) ([]scheduling.WeekPairings, error) {
	if !division.Valid() {
		return nil, fmt.Errorf("%w: unknown division", ErrValidationFailed)
	}
	if startWeek < 1 {
		return nil, fmt.Errorf("%w: start week must be at least 1", ErrValidationFailed)
	}
	if weeks < 0 || weeks > 26 {
		return nil, fmt.Errorf("%w: weeks must be between 0 and 26", ErrValidationFailed)
	}

	teams, err := s.teamRepo.List(ctx, nil, &division)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(teams))
	for _, team := range teams {
		names = append(names, team.Name)
	}

	pairings, err := scheduling.RoundRobin(names, startWeek, weeks)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return pairings, nil
}

func (s *adminService) DeleteMove(ctx context.Context, id int) error {
	if err := s.moveRepo.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.publishStandingsChanged()
	return nil
}

func (s *adminService) ListBaseline(ctx context.Context) ([]models.BaselineRow, error) {
	return s.baselineRepo.List(ctx, nil)
}

// ReplaceBaseline swaps the entire carried-over table in one transaction so a
// half-applied import can never show up in standings.
func (s *adminService) ReplaceBaseline(ctx context.Context, inputs []BaselineInput) ([]models.BaselineRow, error) {
	rows := make([]models.BaselineRow, 0, len(inputs))
	seen := make(map[string]bool)
	for i, input := range inputs {
		team := models.NormalizeTeamName(input.Team)
		if team == "" {
			return nil, fmt.Errorf("%w: row %d: team name is required", ErrValidationFailed, i+1)
		}
		if !input.Division.Valid() {
			return nil, fmt.Errorf("%w: row %d: unknown division %q", ErrValidationFailed, i+1, input.Division)
		}
		if input.GamesPlayed < 0 || input.Wins < 0 || input.Losses < 0 ||
			input.PointsFor < 0 || input.PointsAgainst < 0 {
			return nil, fmt.Errorf("%w: row %d: stats cannot be negative", ErrValidationFailed, i+1)
		}
		if input.Wins+input.Losses > input.GamesPlayed {
			return nil, fmt.Errorf("%w: row %d: wins plus losses exceed games played", ErrValidationFailed, i+1)
		}
		fold := string(input.Division) + "\x00" + strings.ToLower(team)
		if seen[fold] {
			return nil, fmt.Errorf("%w: row %d: duplicate entry for %s in %s", ErrValidationFailed, i+1, team, input.Division)
		}
		seen[fold] = true

		rows = append(rows, models.BaselineRow{
			Division:      input.Division,
			Team:          team,
			GamesPlayed:   input.GamesPlayed,
			Wins:          input.Wins,
			Losses:        input.Losses,
			PointsFor:     input.PointsFor,
			PointsAgainst: input.PointsAgainst,
		})
	}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.baselineRepo.Replace(ctx, tx, rows)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("standings baseline replaced", slog.Int("rows", len(rows)))
	s.publishStandingsChanged()
	return s.baselineRepo.List(ctx, nil)
}

func (s *adminService) Settings(ctx context.Context) (*models.LeagueSettings, error) {
	return s.settingsRepo.Get(ctx, nil)
}

func (s *adminService) SetCurrentWeek(ctx context.Context, week int) (*models.LeagueSettings, error) {
	if week < 1 {
		return nil, fmt.Errorf("%w: week must be at least 1", ErrValidationFailed)
	}
	settings, err := s.settingsRepo.SetCurrentWeek(ctx, nil, week)
	if err != nil {
		return nil, err
	}
	s.logger.Info("current week updated", slog.Int("week", week))
	s.events.Publish(live.Event{
		Type:    live.EventScheduleChanged,
		Channel: live.ChannelScoreboard,
		Payload: map[string]interface{}{"current_week": week},
	})
	return settings, nil
}

func (s *adminService) AddPhotoAdmin(ctx context.Context, session models.Session, playerName string) (*models.PhotoAdmin, error) {
	playerName = models.NormalizeTeamName(playerName)
	if playerName == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrValidationFailed)
	}
	admin := &models.PhotoAdmin{
		PlayerName: playerName,
		AddedBy:    session.Name,
	}
	if err := s.photoAdmins.Add(ctx, nil, admin); err != nil {
		return nil, err
	}
	s.logger.Info("photo admin added",
		slog.String("player", playerName), slog.String("by", session.Name))
	return admin, nil
}

func (s *adminService) RemovePhotoAdmin(ctx context.Context, id int) error {
	return s.photoAdmins.Remove(ctx, nil, id)
}

func (s *adminService) ListPhotoAdmins(ctx context.Context) ([]models.PhotoAdmin, error) {
	return s.photoAdmins.List(ctx, nil)
}

func (s *adminService) publishStandingsChanged() {
	s.events.Publish(live.Event{
		Type:    live.EventStandingsUpdated,
		Channel: live.ChannelScoreboard,
		Payload: map[string]interface{}{},
	})
}
