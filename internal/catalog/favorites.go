package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/telecast/mediatheque/internal/cache"
)

// Favorites fetches one page of the user's favorites list.
func (c *Client) Favorites(ctx context.Context, token *cache.Token, lang string, page int) (*Page, error) {
	headers, err := c.authHeaders(token)
	if err != nil {
		return nil, err
	}
	requestURL := c.cfg.CatalogBaseURL + fmt.Sprintf(favoritesPath, lang, page, c.cfg.HistoryPage)

	var reply Page
	if err := c.getJSON(ctx, "favorites", requestURL, headers, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// AddFavorite adds a program to the user's favorites and returns the
// HTTP status code.
func (c *Client) AddFavorite(ctx context.Context, token *cache.Token, programID string) (int, error) {
	headers, err := c.authHeaders(token)
	if err != nil {
		return 0, err
	}
	requestURL := c.cfg.CatalogBaseURL + favoriteAddPath

	form := url.Values{}
	form.Set("programId", programID)

	return c.send(ctx, "favorite_add", http.MethodPut, requestURL, headers, form, nil)
}

// RemoveFavorite removes a program from the user's favorites and returns
// the HTTP status code.
func (c *Client) RemoveFavorite(ctx context.Context, token *cache.Token, programID string) (int, error) {
	headers, err := c.authHeaders(token)
	if err != nil {
		return 0, err
	}
	requestURL := c.cfg.CatalogBaseURL + fmt.Sprintf(favoriteRemovePath, programID)

	return c.send(ctx, "favorite_remove", http.MethodDelete, requestURL, headers, nil, nil)
}

// PurgeFavorites flushes the user's favorites and returns the HTTP
// status code.
func (c *Client) PurgeFavorites(ctx context.Context, token *cache.Token) (int, error) {
	headers, err := c.authHeaders(token)
	if err != nil {
		return 0, err
	}
	requestURL := c.cfg.CatalogBaseURL + favoritesPurgePath

	return c.send(ctx, "favorites_purge", http.MethodPatch, requestURL, headers, nil, nil)
}
