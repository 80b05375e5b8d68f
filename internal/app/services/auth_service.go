package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cloudevolvers/catalog/internal/pkg/apperrors"
	"github.com/cloudevolvers/catalog/internal/pkg/auth"
)

// AuthService exchanges the admin key for a signed bearer token
type AuthService interface {
	IssueAdminToken(ctx context.Context, key string) (auth.Token, error)
}

type authServiceImpl struct {
	keyHash    string
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService. An empty keyHash disables token issuing.
func NewAuthService(keyHash string, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		keyHash:    keyHash,
		jwtService: jwtService,
		logger:     logger,
	}
}

func (s *authServiceImpl) IssueAdminToken(_ context.Context, key string) (auth.Token, error) {
	if s.keyHash == "" {
		return auth.Token{}, apperrors.NewForbiddenError("admin access is not configured")
	}
	if !auth.CheckPassword(s.keyHash, key) {
		s.logger.Warn().Msg("Rejected admin token request with invalid key")
		return auth.Token{}, fmt.Errorf("%w: admin key mismatch", apperrors.ErrInvalidCredentials)
	}

	token, err := s.jwtService.IssueAdminToken()
	if err != nil {
		return auth.Token{}, err
	}
	s.logger.Info().Time("expiresAt", token.ExpiresAt).Msg("Admin token issued")
	return token, nil
}
