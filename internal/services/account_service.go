package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"hairline/internal/backend"
	"hairline/internal/models/request_models"
	"hairline/internal/session"
	"hairline/pkg/utils"
)

type AccountServiceInterface interface {
	Login(ctx context.Context, sess *session.Session, request request_models.LoginRequest) (*session.Session, error)
	Register(ctx context.Context, sess *session.Session, request request_models.SignUpRequest) (*session.Session, error)
	Logout(ctx context.Context, sess *session.Session) error
}

type AccountService struct {
	backend  AccountBackend
	sessions session.Store
	logger   *zap.Logger
}

func NewAccountService(b AccountBackend, sessions session.Store, logger *zap.Logger) AccountServiceInterface {
	return &AccountService{
		backend:  b,
		sessions: sessions,
		logger:   logger,
	}
}

func (a *AccountService) Login(ctx context.Context, sess *session.Session, request request_models.LoginRequest) (*session.Session, error) {
	startTime := time.Now()

	auth, err := a.backend.Login(ctx, backend.LoginRequest{Email: request.Email, Password: request.Password})
	if err != nil {
		return nil, err
	}
	a.logger.Debug("backend login", zap.Duration("took", time.Since(startTime)))

	return a.establish(ctx, sess, auth)
}

func (a *AccountService) Register(ctx context.Context, sess *session.Session, request request_models.SignUpRequest) (*session.Session, error) {
	auth, err := a.backend.Register(ctx, backend.RegisterRequest{
		Name:     request.Name,
		Email:    request.Email,
		Phone:    request.Phone,
		Password: request.Password,
	})
	if err != nil {
		return nil, err
	}
	return a.establish(ctx, sess, auth)
}

// establish stores the backend tokens on the existing browser session, so
// flows started anonymously carry on after login.
func (a *AccountService) establish(ctx context.Context, sess *session.Session, auth *backend.AuthResponse) (*session.Session, error) {
	sess.AccessToken = auth.Access
	sess.RefreshToken = auth.Refresh
	profile := auth.User
	sess.Profile = &profile

	exp, err := utils.TokenExpiry(auth.Access)
	if err != nil {
		a.logger.Debug("access token has no readable expiry", zap.Error(err))
		exp = time.Time{}
	}
	sess.ExpiresAt = exp

	if err := a.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	a.logger.Info("session authenticated", zap.String("session_id", sess.ID), zap.Int64("user_id", profile.ID))
	return sess, nil
}

func (a *AccountService) Logout(ctx context.Context, sess *session.Session) error {
	sess.ClearTokens()
	return a.sessions.Clear(ctx, sess.ID)
}
