package services

import (
	"context"
	"time"

	"github.com/SscSPs/baki_khata/internal/core/domain"
	portssvc "github.com/SscSPs/baki_khata/internal/core/ports/services"
	"github.com/SscSPs/baki_khata/internal/platform/config"
	"github.com/SscSPs/baki_khata/internal/utils"
)

// tokenService issues the JWT access tokens checked by the auth middleware.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)

	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, err
	}
	return accessToken, expiryTime, nil
}
