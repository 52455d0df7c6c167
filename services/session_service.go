package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/itbasis/go-clock"
	"golang.org/x/crypto/bcrypt"

	"github.com/courtside/league-system/models"
)

// sessionTokenTTL outlives a season; browsers keep the token and the league
// runs on the honor system, so there is nothing to rotate aggressively.
const sessionTokenTTL = 90 * 24 * time.Hour

const maxPlayerNameLength = 80

type IdentityInput struct {
	Name string `json:"name"`
	Team string `json:"team"`
}

type SessionService interface {
	// Start opens an anonymous player session and returns it with its
	// signed token.
	Start(ctx context.Context) (*models.Session, string, error)
	// UpdateIdentity sets the session's player name and team, keeping its
	// id and role, and re-issues the token.
	UpdateIdentity(ctx context.Context, current models.Session, input IdentityInput) (*models.Session, string, error)
	// ElevateAdmin upgrades the session to admin when the passcode checks
	// out against the configured bcrypt hash.
	ElevateAdmin(ctx context.Context, current models.Session, passcode string) (*models.Session, string, error)
	// Parse validates a token string and returns the session it carries.
	Parse(tokenString string) (*models.Session, error)
}

type sessionClaims struct {
	Name string             `json:"name,omitempty"`
	Team string             `json:"team,omitempty"`
	Role models.SessionRole `json:"role"`
	jwt.RegisteredClaims
}

type sessionService struct {
	jwtSecret    []byte
	passcodeHash string
	clock        clock.Clock
	logger       *slog.Logger
}

func NewSessionService(jwtSecret, adminPasscodeHash string, clk clock.Clock, logger *slog.Logger) SessionService {
	return &sessionService{
		jwtSecret:    []byte(jwtSecret),
		passcodeHash: adminPasscodeHash,
		clock:        clk,
		logger:       logger,
	}
}

func (s *sessionService) Start(ctx context.Context) (*models.Session, string, error) {
	session := &models.Session{
		ID:   generateRandomToken(16),
		Role: models.RolePlayer,
	}
	token, err := s.issueToken(session)
	if err != nil {
		return nil, "", err
	}
	return session, token, nil
}

func (s *sessionService) UpdateIdentity(ctx context.Context, current models.Session, input IdentityInput) (*models.Session, string, error) {
	name := models.NormalizeTeamName(input.Name)
	team := models.NormalizeTeamName(input.Team)
	if name == "" {
		return nil, "", fmt.Errorf("%w: player name is required", ErrValidationFailed)
	}
	if len(name) > maxPlayerNameLength || len(team) > maxPlayerNameLength {
		return nil, "", fmt.Errorf("%w: name or team too long", ErrValidationFailed)
	}

	session := current
	session.Name = name
	session.Team = team
	token, err := s.issueToken(&session)
	if err != nil {
		return nil, "", err
	}
	return &session, token, nil
}

func (s *sessionService) ElevateAdmin(ctx context.Context, current models.Session, passcode string) (*models.Session, string, error) {
	if s.passcodeHash == "" {
		s.logger.Warn("admin elevation attempted with no passcode hash configured")
		return nil, "", ErrInvalidPasscode
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passcodeHash), []byte(passcode)); err != nil {
		return nil, "", ErrInvalidPasscode
	}

	session := current
	session.Role = models.RoleAdmin
	token, err := s.issueToken(&session)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("session elevated to admin", slog.String("sid", session.ID))
	return &session, token, nil
}

func (s *sessionService) Parse(tokenString string) (*models.Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	role := claims.Role
	if role != models.RoleAdmin {
		role = models.RolePlayer
	}
	return &models.Session{
		ID:   claims.Subject,
		Name: claims.Name,
		Team: claims.Team,
		Role: role,
	}, nil
}

func (s *sessionService) issueToken(session *models.Session) (string, error) {
	now := s.clock.Now()
	claims := sessionClaims{
		Name: session.Name,
		Team: session.Team,
		Role: session.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func generateRandomToken(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		// crypto/rand failing means the process environment is broken.
		panic(errors.New("failed to read random bytes: " + err.Error()))
	}
	return hex.EncodeToString(bytes)
}
