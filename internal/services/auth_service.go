package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/infra"
)

type AuthService struct {
	client infra.AuthClientInterface
	logger *zap.Logger
}

func NewAuthService(client infra.AuthClientInterface, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{client: client, logger: logger}
}

// Login authenticates against the backend. A credential rejection comes
// back as ErrInvalidCredentials; anything else (timeout, 5xx) is a
// RemoteSyncError so the caller can word the two failures differently.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.client.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.logger.Info("login rejected", zap.String("email", email))
			return nil, err
		}
		s.logger.Warn("login backend unavailable", zap.Error(err))
		return nil, &domain.RemoteSyncError{Op: "login", Cause: err}
	}

	s.logger.Info("login succeeded",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))
	return user, nil
}
