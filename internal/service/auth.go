package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/suntrail/agency-server/internal/config"
	apperrors "github.com/suntrail/agency-server/internal/errors"
	"github.com/suntrail/agency-server/internal/model"
	"github.com/suntrail/agency-server/internal/repository"
	"github.com/suntrail/agency-server/internal/util"
)

type AuthService struct {
	adminRepo   repository.AdminRepository
	sessionRepo repository.SessionRepository
	sessionTTL  time.Duration
}

func NewAuthService(
	adminRepo repository.AdminRepository,
	sessionRepo repository.SessionRepository,
) *AuthService {
	return &AuthService{
		adminRepo:   adminRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  config.AdminSessionTTL,
	}
}

// Login verifies the credentials and, on success, issues a new session and
// returns its token. Unknown username and wrong password produce the same
// InvalidCredentials error. If the session insert fails nothing is issued:
// login is all-or-nothing.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	admin, err := s.adminRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", apperrors.Database(err)
	}
	if admin == nil {
		return "", apperrors.InvalidCredentials()
	}

	if !util.CheckPasswordHash(password, admin.PasswordHash) {
		return "", apperrors.InvalidCredentials()
	}

	token, err := util.GenerateToken()
	if err != nil {
		return "", apperrors.Internal("Failed to generate session token").WithCause(err)
	}

	session, err := s.sessionRepo.Create(ctx, model.CreateSessionParams{
		AdminID:      admin.ID,
		SessionToken: token,
		ExpiresAt:    time.Now().Add(s.sessionTTL),
	})
	if err != nil {
		return "", apperrors.Database(err)
	}

	log.Info().
		Str("adminId", admin.ID).
		Time("expiresAt", session.ExpiresAt).
		Msg("admin logged in")

	return token, nil
}

// Logout deletes the session record for the token. A token with no record
// is a no-op success.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessionRepo.DeleteByToken(ctx, token); err != nil {
		return apperrors.Database(err)
	}
	return nil
}

// ValidateSession reports whether the token resolves to an unexpired
// session. Any uncertainty, including a store error, counts as invalid.
func (s *AuthService) ValidateSession(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	session, err := s.sessionRepo.FindValid(ctx, token)
	if err != nil {
		log.Error().Err(err).Msg("session validation: database error")
		return false
	}
	return session != nil
}
