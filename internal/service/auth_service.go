package service

import (
	"context"
	"fmt"

	"github.com/redact/redact-backend/internal/common"
	"github.com/redact/redact-backend/internal/domain"
	"github.com/redact/redact-backend/pkg/jwt"
	"github.com/redact/redact-backend/pkg/logger"
)

// AuthService handles the Discord OAuth callback and session issuance
type AuthService struct {
	gateway    Gateway
	jwtManager *jwt.Manager
}

// NewAuthService creates an AuthService
func NewAuthService(gateway Gateway, jwtManager *jwt.Manager) *AuthService {
	return &AuthService{gateway: gateway, jwtManager: jwtManager}
}

// Callback exchanges the authorization code, fetches the user profile, and
// signs a session token embedding the user's ID and Discord access token
func (s *AuthService) Callback(ctx context.Context, code string) (*domain.AuthCallbackResponse, error) {
	if code == "" {
		return nil, common.ErrMissingAuthCode
	}

	tokens, err := s.gateway.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	user, err := s.gateway.User(ctx, tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("get user info failed: %w", err)
	}

	sessionToken, err := s.jwtManager.GenerateSessionToken(user.ID, tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("generate session token failed: %w", err)
	}

	logger.GetLogger().Info().
		Str("user_id", user.ID).
		Msg("user authenticated via discord oauth")

	return &domain.AuthCallbackResponse{
		AccessToken: sessionToken,
		User:        *user,
	}, nil
}
