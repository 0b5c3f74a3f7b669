// Package services implements the domain service interfaces on top of the
// repositories and external providers.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/lunaria-app/lunaria/internal/auth"
	"github.com/lunaria-app/lunaria/internal/config"
	"github.com/lunaria-app/lunaria/internal/domain/session"
	"github.com/lunaria-app/lunaria/internal/domain/user"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
	"github.com/lunaria-app/lunaria/internal/pkg/logger"
	"github.com/lunaria-app/lunaria/internal/pkg/metrics"
	"github.com/lunaria-app/lunaria/internal/providers"
)

// UserService implements user.Service
type UserService struct {
	users    user.Repository
	sessions session.Repository
	mailer   providers.Mailer
	cfg      config.AuthConfig
	frontend string
	logger   *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(
	users user.Repository,
	sessions session.Repository,
	mailer providers.Mailer,
	cfg config.AuthConfig,
	frontendURL string,
	log *logger.Logger,
) user.Service {
	return &UserService{
		users:    users,
		sessions: sessions,
		mailer:   mailer,
		cfg:      cfg,
		frontend: frontendURL,
		logger:   log,
	}
}

// Register creates an account and opens a session
func (s *UserService) Register(ctx context.Context, username, email, password, fullName string) (*user.User, string, error) {
	hash, err := auth.HashPassword(password, s.cfg.BCryptCost)
	if err != nil {
		return nil, "", errors.Internal("Failed to hash password", err)
	}

	u := &user.User{
		Username:           username,
		Email:              email,
		PasswordHash:       hash,
		SubscriptionStatus: user.SubscriptionNone,
	}
	if fullName != "" {
		u.FullName = &fullName
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	cookie, err := s.openSession(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":  u.ID,
		"username": u.Username,
	}).Info("User registered")

	return u, cookie, nil
}

// Login verifies credentials and opens a session
func (s *UserService) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			// Burn a hash comparison so an unknown address takes as long
			// as a wrong password.
			auth.BurnCompare(password)
			metrics.RecordLogin("failure")
			return nil, "", errors.Unauthorized("Invalid email or password")
		}
		return nil, "", err
	}

	if !auth.VerifyPassword(u.PasswordHash, password) {
		metrics.RecordLogin("failure")
		return nil, "", errors.Unauthorized("Invalid email or password")
	}

	cookie, err := s.openSession(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}

	metrics.RecordLogin("success")
	s.logger.WithFields(map[string]interface{}{
		"user_id": u.ID,
	}).Info("User logged in")

	return u, cookie, nil
}

// Authenticate resolves a signed cookie value to its user
func (s *UserService) Authenticate(ctx context.Context, cookieValue string) (*user.User, error) {
	token, ok := auth.Verify(cookieValue, s.cfg.SessionSecret)
	if !ok {
		return nil, errors.Unauthorized("Not authenticated")
	}

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("Not authenticated")
		}
		return nil, err
	}

	if sess.Expired(time.Now()) {
		_ = s.sessions.Delete(ctx, sess.ID)
		metrics.SessionClosed()
		return nil, errors.Unauthorized("Not authenticated")
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("Not authenticated")
		}
		return nil, err
	}

	return u, nil
}

// Logout destroys the session behind a signed cookie value
func (s *UserService) Logout(ctx context.Context, cookieValue string) error {
	token, ok := auth.Verify(cookieValue, s.cfg.SessionSecret)
	if !ok {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return err
	}
	metrics.SessionClosed()
	return nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return s.users.GetByID(ctx, id)
}

// ForgotPassword issues a reset token and emails it
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			// Same outcome as success from the caller's point of view.
			return nil
		}
		return err
	}

	token, err := auth.NewToken()
	if err != nil {
		return errors.Internal("Failed to generate reset token", err)
	}

	expiresAt := time.Now().Add(s.cfg.ResetTokenTTL)
	if err := s.users.SetResetToken(ctx, u.ID, token, expiresAt); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontend, token)
	if err := s.mailer.SendPasswordReset(ctx, u.Email, resetURL); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"user_id": u.ID,
		}).ErrorWithErr(err, "Failed to send password reset email")
		// The token is stored; the user can retry and email delivery issues
		// must not leak account existence.
	}

	return nil
}

// ResetPassword spends a reset token and sets the new password
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	hash, err := auth.HashPassword(newPassword, s.cfg.BCryptCost)
	if err != nil {
		return errors.Internal("Failed to hash password", err)
	}

	userID, err := s.users.ConsumeResetToken(ctx, token, hash, time.Now())
	if err != nil {
		if errors.IsNotFound(err) {
			return errors.BadRequest("Invalid or expired reset token")
		}
		return err
	}

	// A password reset implies the old credential may be compromised.
	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"user_id": userID,
		}).ErrorWithErr(err, "Failed to revoke sessions after password reset")
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
	}).Info("Password reset")

	return nil
}

// List retrieves users with pagination
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *UserService) openSession(ctx context.Context, userID int64) (string, error) {
	token, err := auth.NewToken()
	if err != nil {
		return "", errors.Internal("Failed to generate session token", err)
	}

	now := time.Now()
	sess := &session.Session{
		ID:        token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", err
	}

	metrics.SessionOpened()
	return auth.Sign(token, s.cfg.SessionSecret), nil
}
