package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/courtside/league-system/live"
	"github.com/courtside/league-system/models"
	"github.com/courtside/league-system/repositories"
	"github.com/courtside/league-system/scheduling"
)

// Hard schedule blocks. None of these can be overridden by the client.
var (
	ErrTeamAbsent       = errors.New("team is marked absent for that week")
	ErrTeamDoubleBooked = errors.New("team is already booked at that time")
	ErrCourtTaken       = errors.New("court is already booked at that time")
	ErrTeamSlotConflict = errors.New("team is already scheduled in that division and slot")
)

// EventPublisher is what services need from the live hub.
type EventPublisher interface {
	Publish(event live.Event)
}

type MatchSaveInput struct {
	Week     int             `json:"week"`
	Division models.Division `json:"division"`
	TimeSlot string          `json:"time_slot"`
	Court    int             `json:"court"`
	TeamA    string          `json:"team_a"`
	TeamB    string          `json:"team_b"`
	// Confirm acknowledges a rematch warning and lets the save proceed.
	Confirm bool `json:"confirm"`
}

type MatchService interface {
	List(ctx context.Context, filter repositories.MatchFilter) ([]models.Match, error)
	Get(ctx context.Context, id int) (*models.Match, error)
	Create(ctx context.Context, input MatchSaveInput) (*models.Match, error)
	Update(ctx context.Context, id int, input MatchSaveInput) (*models.Match, error)
	Delete(ctx context.Context, id int) error
}

type matchService struct {
	matchRepo      repositories.MatchRepository
	scoreRepo      repositories.ScoreRepository
	attendanceRepo repositories.AttendanceRepository
	events         EventPublisher
	maxCourt       int
	logger         *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	scoreRepo repositories.ScoreRepository,
	attendanceRepo repositories.AttendanceRepository,
	events EventPublisher,
	maxCourt int,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:      matchRepo,
		scoreRepo:      scoreRepo,
		attendanceRepo: attendanceRepo,
		events:         events,
		maxCourt:       maxCourt,
		logger:         logger,
	}
}

// List returns matches in play order with their score rows attached.
func (s *matchService) List(ctx context.Context, filter repositories.MatchFilter) ([]models.Match, error) {
	matches, err := s.matchRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, err
	}
	if err := s.attachScores(ctx, matches); err != nil {
		return nil, err
	}
	scheduling.SortMatches(matches)
	return matches, nil
}

func (s *matchService) Get(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	score, err := s.scoreRepo.GetByMatchID(ctx, nil, id)
	if err != nil && !errors.Is(err, repositories.ErrScoreNotFound) {
		return nil, err
	}
	match.Score = score
	return match, nil
}

func (s *matchService) Create(ctx context.Context, input MatchSaveInput) (*models.Match, error) {
	candidate, err := s.checkSave(ctx, 0, input)
	if err != nil {
		return nil, err
	}
	match := &models.Match{
		Week:     candidate.Week,
		Division: candidate.Division,
		TimeSlot: candidate.TimeSlot,
		Court:    candidate.Court,
		TeamA:    candidate.TeamA,
		TeamB:    candidate.TeamB,
	}
	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		return nil, err
	}
	s.publishScheduleChanged(match)
	return match, nil
}

func (s *matchService) Update(ctx context.Context, id int, input MatchSaveInput) (*models.Match, error) {
	if _, err := s.matchRepo.GetByID(ctx, nil, id); err != nil {
		return nil, err
	}
	candidate, err := s.checkSave(ctx, id, input)
	if err != nil {
		return nil, err
	}
	match := &models.Match{
		ID:       id,
		Week:     candidate.Week,
		Division: candidate.Division,
		TimeSlot: candidate.TimeSlot,
		Court:    candidate.Court,
		TeamA:    candidate.TeamA,
		TeamB:    candidate.TeamB,
	}
	if err := s.matchRepo.Update(ctx, nil, match); err != nil {
		return nil, err
	}
	s.publishScheduleChanged(match)
	return s.Get(ctx, id)
}

func (s *matchService) Delete(ctx context.Context, id int) error {
	match, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if err := s.matchRepo.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.publishScheduleChanged(match)
	return nil
}

// checkSave runs the whole save pipeline: field validation, hard blocks,
// conflict scans, then the soft rematch warning.
func (s *matchService) checkSave(ctx context.Context, matchID int, input MatchSaveInput) (scheduling.Candidate, error) {
	candidate := scheduling.Candidate{
		MatchID:  matchID,
		Week:     input.Week,
		Division: input.Division,
		TimeSlot: input.TimeSlot,
		Court:    input.Court,
		TeamA:    models.NormalizeTeamName(input.TeamA),
		TeamB:    models.NormalizeTeamName(input.TeamB),
	}

	if err := s.validateCandidate(candidate); err != nil {
		return candidate, err
	}

	absences, err := s.attendanceRepo.ListByWeek(ctx, nil, candidate.Week)
	if err != nil {
		return candidate, fmt.Errorf("failed to load attendance for week %d: %w", candidate.Week, err)
	}
	if absent := scheduling.AbsentTeams(candidate, absences); len(absent) > 0 {
		return candidate, fmt.Errorf("%w: %s", ErrTeamAbsent, strings.Join(absent, ", "))
	}

	week := candidate.Week
	weekMatches, err := s.matchRepo.List(ctx, nil, repositories.MatchFilter{Week: &week})
	if err != nil {
		return candidate, fmt.Errorf("failed to load week %d schedule: %w", week, err)
	}

	if booked := scheduling.DoubleBooked(candidate, weekMatches); len(booked) > 0 {
		other := booked[0]
		return candidate, fmt.Errorf("%w: %s vs %s already on court %d (%s)",
			ErrTeamDoubleBooked, other.TeamA, other.TeamB, other.Court, other.Division)
	}
	if taken := scheduling.CourtTaken(candidate, weekMatches); taken != nil {
		return candidate, fmt.Errorf("%w: court %d at %s is held by %s vs %s (%s)",
			ErrCourtTaken, candidate.Court, candidate.TimeSlot, taken.TeamA, taken.TeamB, taken.Division)
	}
	if clash := scheduling.TeamSlotClash(candidate, weekMatches); clash != nil {
		return candidate, fmt.Errorf("%w: %s already has %s vs %s",
			ErrTeamSlotConflict, candidate.TimeSlot, clash.TeamA, clash.TeamB)
	}

	season, err := s.matchRepo.List(ctx, nil, repositories.MatchFilter{})
	if err != nil {
		return candidate, fmt.Errorf("failed to load season schedule: %w", err)
	}
	if rematch := scheduling.FindRematch(candidate, season); rematch.Count() > 0 && !input.Confirm {
		return candidate, fmt.Errorf("%w: %s", ErrConfirmationRequired, rematchMessage(rematch))
	}

	return candidate, nil
}

func (s *matchService) validateCandidate(c scheduling.Candidate) error {
	switch {
	case c.Week < 1:
		return fmt.Errorf("%w: week must be 1 or later", ErrValidationFailed)
	case !c.Division.Valid():
		return fmt.Errorf("%w: unknown division %q", ErrValidationFailed, c.Division)
	case !scheduling.ValidTimeSlot(c.TimeSlot):
		return fmt.Errorf("%w: unknown time slot %q", ErrValidationFailed, c.TimeSlot)
	case c.Court < 1 || c.Court > s.maxCourt:
		return fmt.Errorf("%w: court must be between 1 and %d", ErrValidationFailed, s.maxCourt)
	case c.TeamA == "" || c.TeamB == "":
		return fmt.Errorf("%w: both team names are required", ErrValidationFailed)
	case models.TeamNamesEqual(c.TeamA, c.TeamB):
		return fmt.Errorf("%w: a team cannot play itself", ErrValidationFailed)
	}
	return nil
}

func rematchMessage(r scheduling.Rematch) string {
	parts := make([]string, 0, 2)
	if r.SameWeek {
		parts = append(parts, "these teams already meet this week")
	}
	if n := len(r.PriorWeeks); n > 0 {
		weeks := make([]string, n)
		for i, w := range r.PriorWeeks {
			weeks[i] = strconv.Itoa(w)
		}
		noun := "weeks"
		if n == 1 {
			noun = "week"
		}
		parts = append(parts, fmt.Sprintf("they already played in %s %s", noun, strings.Join(weeks, ", ")))
	}
	return strings.Join(parts, "; ") + "; retry with confirm set to book the rematch"
}

func (s *matchService) attachScores(ctx context.Context, matches []models.Match) error {
	if len(matches) == 0 {
		return nil
	}
	ids := make([]int, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	scores, err := s.scoreRepo.ListByMatchIDs(ctx, nil, ids)
	if err != nil {
		return fmt.Errorf("failed to load scores: %w", err)
	}
	for i := range matches {
		if sc, ok := scores[matches[i].ID]; ok {
			scCopy := sc
			matches[i].Score = &scCopy
		}
	}
	return nil
}

func (s *matchService) publishScheduleChanged(match *models.Match) {
	s.events.Publish(live.Event{
		Type:    live.EventScheduleChanged,
		Channel: live.ChannelScoreboard,
		Payload: map[string]interface{}{
			"match_id": match.ID,
			"week":     match.Week,
			"division": match.Division,
		},
	})
}
