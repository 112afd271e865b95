// Package auth0 looks up user identities on the Auth0 management API for
// externally authenticated accounts.
package auth0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nexthome/backend/internal/config"
)

type Client struct {
	cfg config.Auth0Config
	// baseURL defaults to https://{domain}; overridable for tests.
	baseURL string
	client  *http.Client
}

func NewClient(cfg config.Auth0Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		cfg:     cfg,
		baseURL: "https://" + cfg.Domain,
		client:  httpClient,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a fake server.
func NewClientWithBaseURL(cfg config.Auth0Config, baseURL string, httpClient *http.Client) *Client {
	c := NewClient(cfg, httpClient)
	c.baseURL = baseURL
	return c
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// AccessToken obtains a management API token via the client-credentials grant.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	payload := map[string]string{
		"client_id":     c.cfg.ClientID,
		"client_secret": c.cfg.ClientSecret,
		"audience":      fmt.Sprintf("https://%s/api/v2/", c.cfg.Domain),
		"grant_type":    "client_credentials",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("auth0 token endpoint returned status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("auth0 token endpoint returned empty token")
	}

	return tr.AccessToken, nil
}

// UserEmailByAuthID resolves the email Auth0 stores for an external auth id.
func (c *Client) UserEmailByAuthID(ctx context.Context, authID string) (string, error) {
	tok, err := c.AccessToken(ctx)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v2/users/"+url.PathEscape(authID), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("auth0 users endpoint returned status %d", resp.StatusCode)
	}

	var out struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}

	return out.Email, nil
}
