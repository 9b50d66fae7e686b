package music

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"moviebuff/internal/logging"
	"moviebuff/internal/services"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// AccessToken returns a bearer token, exchanging client credentials only when
// the cached token is missing or within the leeway of its expiry. On exchange
// failure the cache is cleared and the error matches services.ErrAuth.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if token, ok := c.cachedToken(); ok {
		return token, nil
	}
	return c.refreshToken(ctx)
}

func (c *Client) cachedToken() (string, bool) {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.validTokenLocked()
}

func (c *Client) validTokenLocked() (string, bool) {
	if c.token != "" && c.now().Before(c.tokenExpiresAt.Add(-c.tokenLeeway)) {
		return c.token, true
	}
	return "", false
}

func (c *Client) refreshToken(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if token, ok := c.validTokenLocked(); ok {
		return token, nil
	}

	token, expiresAt, err := c.exchange(ctx)
	if err != nil {
		c.token = ""
		c.tokenExpiresAt = time.Time{}
		logging.ErrorWithContext(logging.WithContext(ctx, c.logger), "spotify token exchange failed", "token_exchange_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "verify spotify.client_id and spotify.client_secret"),
		)
		return "", err
	}
	c.token = token
	c.tokenExpiresAt = expiresAt
	c.exchanges++
	c.logger.Debug("spotify token refreshed", logging.String("expires_at", expiresAt.UTC().Format(time.RFC3339)))
	return token, nil
}

// invalidateToken drops a token the API rejected so the next call re-exchanges.
func (c *Client) invalidateToken(rejected string) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	if c.token == rejected {
		c.token = ""
		c.tokenExpiresAt = time.Time{}
	}
}

func (c *Client) exchange(ctx context.Context) (string, time.Time, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.accountsURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return "", time.Time{}, services.Wrap(services.ErrAuth, component, "token exchange", fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", time.Time{}, services.Wrap(services.ErrAuth, component, "token exchange", "", services.NewUpstreamError(serviceName, resp, body))
	}

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", time.Time{}, services.Wrap(services.ErrAuth, component, "token exchange", "decode token response", err)
	}
	if strings.TrimSpace(payload.AccessToken) == "" {
		return "", time.Time{}, services.Wrap(services.ErrAuth, component, "token exchange", "response missing access_token", nil)
	}
	return payload.AccessToken, c.now().Add(time.Duration(payload.ExpiresIn) * time.Second), nil
}
