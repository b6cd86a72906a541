package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/dto"
)

// refreshAccessToken exchanges the refresh token for a new access token.
// Concurrent callers are collapsed into one in-flight exchange: the first
// caller runs it, later callers attach to the same pending call and receive
// its result, and the memo clears once it settles. Without this, N requests
// observing expired tokens at once would burn N refresh tokens, and under
// rotation all but one of those sessions would die.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	v, err, shared := c.refreshFlight.Do("refresh", func() (any, error) {
		return c.doRefresh(ctx)
	})
	if err != nil {
		return "", err
	}
	if shared {
		c.logger.Debug("attached to in-flight token refresh")
	}
	return v.(string), nil
}

// doRefresh performs one refresh exchange. Any failure mode, missing refresh
// token, transport error, non-2xx, malformed body, ends the session: both
// tokens are cleared and the caller must re-authenticate.
func (c *Client) doRefresh(ctx context.Context) (string, error) {
	refresh := c.session.RefreshToken()
	if refresh == "" {
		return "", apperrors.ErrSessionEnded
	}

	resp, err := c.send(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/auth/refresh/",
	}, mustJSON(dto.RefreshRequest{Refresh: refresh}), "")
	if err != nil {
		c.session.Clear()
		return "", fmt.Errorf("%w: refresh call failed: %v", apperrors.ErrSessionEnded, err)
	}
	if !resp.ok() {
		c.session.Clear()
		return "", fmt.Errorf("%w: refresh rejected with status %d", apperrors.ErrSessionEnded, resp.status)
	}

	var payload dto.RefreshResponse
	if err := json.Unmarshal(resp.body, &payload); err != nil || payload.Access == "" {
		c.session.Clear()
		return "", fmt.Errorf("%w: refresh returned no access token", apperrors.ErrSessionEnded)
	}

	// Keep the old refresh token unless the server rotated it.
	newRefresh := payload.Refresh
	if newRefresh == "" {
		newRefresh = refresh
	}
	c.session.SetTokens(payload.Access, newRefresh)
	c.logger.Debug("access token refreshed", slog.Bool("rotated", payload.Refresh != ""))
	return payload.Access, nil
}

func mustJSON(v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
