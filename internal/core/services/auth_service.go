package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/core/domain"
	portsrepo "github.com/ledgerline/ledgerline/internal/core/ports/repositories"
	"github.com/ledgerline/ledgerline/internal/dto"
	"github.com/ledgerline/ledgerline/internal/middleware"
	"github.com/ledgerline/ledgerline/internal/platform/config"
	"github.com/ledgerline/ledgerline/internal/utils"
)

// AuthService issues and rotates token pairs. Access tokens are short-lived
// JWTs; refresh tokens are opaque random strings stored hashed.
type AuthService struct {
	userRepo   portsrepo.UserRepository
	systemRepo portsrepo.SystemRepository
	cfg        *config.Config
}

func NewAuthService(userRepo portsrepo.UserRepository, systemRepo portsrepo.SystemRepository, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, systemRepo: systemRepo, cfg: cfg}
}

// Login verifies credentials and returns a fresh token pair.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		// Same error as a bad password so callers cannot probe for accounts.
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is disabled", apperrors.ErrUnauthorized)
	}

	hash, err := s.userRepo.GetPasswordHash(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}
	if !utils.CheckPasswordHash(req.Password, hash) {
		logger.Warn("Login failed: bad password", slog.String("user_id", user.ID))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	access, refresh, err := s.issueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.systemRepo.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
		logger.Warn("Failed to record last login", slog.Any("error", err))
	}

	logger.Info("User logged in", slog.String("user_id", user.ID))
	return &dto.LoginResponse{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token and rotates
// the refresh token. The presented token is consumed either way: reuse of a
// spent token fails.
func (s *AuthService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.RefreshResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tokenHash := utils.HashRefreshToken(req.Refresh)
	userID, expiresAt, err := s.userRepo.GetUserIDByRefreshTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.DeleteRefreshToken(ctx, tokenHash); err != nil {
		return nil, err
	}
	if time.Now().After(expiresAt) {
		logger.Warn("Refresh token expired", slog.String("user_id", userID))
		return nil, fmt.Errorf("%w: refresh token expired", apperrors.ErrRefreshTokenExpired)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is disabled", apperrors.ErrUnauthorized)
	}

	access, refresh, err := s.issueTokenPair(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{Access: access, Refresh: refresh}, nil
}

// Logout deletes every refresh token for the user. Outstanding access tokens
// expire on their own.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.userRepo.DeleteRefreshTokensForUser(ctx, userID)
}

// Me returns the authenticated principal.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *AuthService) issueTokenPair(ctx context.Context, userID string) (string, string, error) {
	access, err := utils.GenerateJWT(userID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", "", fmt.Errorf("generating access token: %w", err)
	}
	refresh, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return "", "", fmt.Errorf("generating refresh token: %w", err)
	}
	expiresAt := time.Now().Add(s.cfg.RefreshTokenExpiry)
	if err := s.userRepo.SaveRefreshToken(ctx, userID, utils.HashRefreshToken(refresh), expiresAt); err != nil {
		return "", "", fmt.Errorf("storing refresh token: %w", err)
	}
	return access, refresh, nil
}
