package auth

import (
	"context"
	"crypto/subtle"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/metro-cabs/service-booking/internal/cache"
	"github.com/metro-cabs/service-booking/internal/domain"
)

// SessionStore persists the admin session record across restarts.
type SessionStore interface {
	SaveSession(ctx context.Context, s cache.Session) error
	DeleteSession(ctx context.Context) error
}

// Service implements the fixed-credential back-office login. Hardening
// beyond a bcrypt compare and a signed token is explicitly out of scope.
type Service struct {
	username     string
	passwordHash string
	jwt          *JWTManager
	sessions     SessionStore
	logger       *zap.Logger
}

// NewService creates the auth service for the single configured operator
// account.
func NewService(username, passwordHash string, jwt *JWTManager, sessions SessionStore, logger *zap.Logger) *Service {
	return &Service{
		username:     username,
		passwordHash: passwordHash,
		jwt:          jwt,
		sessions:     sessions,
		logger:       logger,
	}
}

// Login checks the credential pair, issues a token and persists the
// session record. The record carries no expiry.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password))
	if !usernameOK || passwordErr != nil {
		return "", domain.NewUnauthorizedError("invalid username or password")
	}

	token, err := s.jwt.Generate(username)
	if err != nil {
		return "", domain.NewUnavailableError("failed to issue token", err)
	}

	session := cache.Session{
		Username:   username,
		Token:      token,
		LoggedInAt: time.Now().UTC(),
	}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		// The token is still valid; losing the record only means the
		// session does not survive a cache restart.
		s.logger.Warn("failed to persist admin session", zap.Error(err))
	}

	return token, nil
}

// Logout removes the persisted session record.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.sessions.DeleteSession(ctx); err != nil {
		return domain.NewUnavailableError("failed to delete session", err)
	}
	return nil
}
