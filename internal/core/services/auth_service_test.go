package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/dto"
	"github.com/ledgerline/ledgerline/internal/utils"
)

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Auth

	tokens, err := svc.Login(f.ctx, dto.LoginRequest{Email: f.admin.Email, Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.Access)
	assert.NotEmpty(t, tokens.Refresh)
	assert.NotEqual(t, tokens.Access, tokens.Refresh)

	claims, err := utils.ParseAndValidateJWT(tokens.Access, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, f.admin.ID, claims.Subject)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Auth

	_, err := svc.Login(f.ctx, dto.LoginRequest{Email: f.admin.Email, Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// Unknown accounts fail identically so the error does not leak existence.
	_, err2 := svc.Login(f.ctx, dto.LoginRequest{Email: "ghost@test.dev", Password: "wrong"})
	assert.ErrorIs(t, err2, apperrors.ErrUnauthorized)
	assert.Equal(t, err.Error(), err2.Error())
}

func TestAuthService_RefreshRotatesAndConsumes(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Auth

	tokens, err := svc.Login(f.ctx, dto.LoginRequest{Email: f.admin.Email, Password: "password123"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(f.ctx, dto.RefreshRequest{Refresh: tokens.Refresh})
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.Access)
	assert.NotEmpty(t, rotated.Refresh)
	assert.NotEqual(t, tokens.Refresh, rotated.Refresh, "refresh tokens rotate on every exchange")

	// The presented token was consumed; replaying it fails.
	_, err = svc.Refresh(f.ctx, dto.RefreshRequest{Refresh: tokens.Refresh})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// The rotated token still works.
	_, err = svc.Refresh(f.ctx, dto.RefreshRequest{Refresh: rotated.Refresh})
	assert.NoError(t, err)
}

func TestAuthService_LogoutRevokesRefreshTokens(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Auth

	tokens, err := svc.Login(f.ctx, dto.LoginRequest{Email: f.admin.Email, Password: "password123"})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(f.ctx, f.admin.ID))

	_, err = svc.Refresh(f.ctx, dto.RefreshRequest{Refresh: tokens.Refresh})
	assert.Error(t, err, "logout must revoke outstanding refresh tokens")
}
