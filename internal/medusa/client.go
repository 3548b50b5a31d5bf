// Package medusa implements a minimal REST client for the admin API of the
// host commerce platform. Only the handful of endpoints this admin layer
// needs are covered.
package medusa

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/config"
)

const (
	defaultTimeout = 30 * time.Second

	// maxErrorBodySize limits how much of an error response body is read for diagnostics.
	maxErrorBodySize = 4096
)

// Client talks to the host platform admin API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a Client from the Medusa section of the configuration.
func New(cfg config.Medusa) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrEmptyBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// Test verifies the admin API is reachable and the credentials are accepted.
func (c *Client) Test(ctx context.Context) error {
	if c == nil {
		return ErrClientNotInitialized
	}

	resp, err := c.do(ctx, http.MethodGet, "/admin/users", url.Values{"limit": {"1"}}, nil)
	if err != nil {
		return err
	}

	var users userListResponse
	if err := json.Unmarshal(resp, &users); err != nil {
		return errors.Wrap(err, "decoding user list")
	}

	log.Info().Int("user_count", users.Count).Msg("Medusa admin API connection test successful")

	return nil
}

// UserByEmail looks up an admin user by e-mail address.
// Returns nil without error when no user matches.
func (c *Client) UserByEmail(ctx context.Context, email string) (*User, error) {
	if c == nil {
		return nil, ErrClientNotInitialized
	}

	resp, err := c.do(ctx, http.MethodGet, "/admin/users", url.Values{"email": {email}}, nil)
	if err != nil {
		return nil, err
	}

	var users userListResponse
	if err := json.Unmarshal(resp, &users); err != nil {
		return nil, errors.Wrap(err, "decoding user list")
	}

	if len(users.Users) == 0 {
		return nil, nil
	}

	return &users.Users[0], nil
}

// CreateInvite creates an admin user invite on the host platform.
func (c *Client) CreateInvite(ctx context.Context, email string) (*Invite, error) {
	if c == nil {
		return nil, ErrClientNotInitialized
	}

	body, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return nil, errors.Wrap(err, "encoding invite request")
	}

	resp, err := c.do(ctx, http.MethodPost, "/admin/invites", nil, body)
	if err != nil {
		return nil, err
	}

	var invite inviteResponse
	if err := json.Unmarshal(resp, &invite); err != nil {
		return nil, errors.Wrap(err, "decoding invite")
	}

	return &invite.Invite, nil
}

// AbandonedCarts lists carts that have an e-mail address, were never
// completed and saw no activity for at least idleFor.
func (c *Client) AbandonedCarts(ctx context.Context, idleFor time.Duration, limit int) ([]Cart, error) {
	if c == nil {
		return nil, ErrClientNotInitialized
	}

	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	resp, err := c.do(ctx, http.MethodGet, "/admin/carts", query, nil)
	if err != nil {
		return nil, err
	}

	var carts cartListResponse
	if err := json.Unmarshal(resp, &carts); err != nil {
		return nil, errors.Wrap(err, "decoding cart list")
	}

	cutoff := time.Now().Add(-idleFor)
	abandoned := make([]Cart, 0, len(carts.Carts))

	for _, cart := range carts.Carts {
		if cart.Email == "" || cart.CompletedAt != nil {
			continue
		}

		if cart.UpdatedAt.After(cutoff) {
			continue
		}

		abandoned = append(abandoned, cart)
	}

	return abandoned, nil
}

// do performs one API request and returns the raw response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s request for %s", method, path)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) //nolint:mnd
	if err != nil {
		return nil, errors.Wrapf(err, "reading response of %s %s", method, path)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail := data
		if len(detail) > maxErrorBodySize {
			detail = detail[:maxErrorBodySize]
		}

		return nil, errors.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, string(detail))
	}

	return data, nil
}
