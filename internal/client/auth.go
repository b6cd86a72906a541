package client

import (
	"context"
	"net/http"

	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/dto"
)

// Login authenticates with credentials and installs the returned token pair
// in the session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var tokens dto.LoginResponse
	err := c.call(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/auth/login/",
		body:   dto.LoginRequest{Email: email, Password: password},
	}, &tokens)
	if err != nil {
		return err
	}
	c.session.SetTokens(tokens.Access, tokens.Refresh)
	return nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.call(ctx, requestSpec{method: http.MethodGet, path: "/auth/me/", requiresAuth: true}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout tears the session down locally. The refresh token becomes unusable
// on the next rotation; there is no server-side logout endpoint to call.
func (c *Client) Logout() {
	c.session.Clear()
}
