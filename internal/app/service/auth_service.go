package service

import (
	"context"
	"vjbot/internal/common"
	"vjbot/internal/common/security"
	"vjbot/internal/platform/config"
)

// AuthService issues JWTs to the chat-gateway process. The gateway is the
// only client of the protected API; end users never authenticate here.
type AuthService struct{}

func NewAuthService() *AuthService {
	return &AuthService{}
}

type TokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

func (s *AuthService) Token(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	if req.ClientID == "" || req.ClientSecret == "" {
		return nil, common.ErrBadRequest
	}
	cfg := config.AppConfig
	if req.ClientID != cfg.GatewayClientID || cfg.GatewaySecretHash == "" ||
		!security.CheckSecretHash(req.ClientSecret, cfg.GatewaySecretHash) {
		return nil, common.ErrUnauthorized
	}

	token, err := security.GenerateToken(req.ClientID, security.RoleGateway)
	if err != nil {
		return nil, common.Errorf("failed to generate token: %w", err)
	}
	return &TokenResponse{Token: token}, nil
}
