package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/telecast/mediatheque/internal/cache"
	"github.com/telecast/mediatheque/pkg/models"
)

// Authenticate exchanges user credentials for a bearer token. The client
// identifier must be web here, the token endpoint rejects every other
// one with invalid_client.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*cache.Token, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("authenticate: %w", ErrNoToken)
	}

	headers := c.baseHeaders()
	headers.Set("Client", "web")
	requestURL := c.cfg.CatalogBaseURL + tokenPath

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)

	var token cache.Token
	status, err := c.send(ctx, "auth_token", http.MethodPost, requestURL, headers, form, &token)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("authenticate: status %d: %w", status, models.ErrUpstreamUnavailable)
	}
	return &token, nil
}
