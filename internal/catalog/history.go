package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/telecast/mediatheque/internal/cache"
	"github.com/telecast/mediatheque/pkg/models"
)

// PageMeta is the paging envelope of personal-content listings.
type PageMeta struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// Page is one page of a personal-content listing.
type Page struct {
	Data []models.CatalogItem `json:"data"`
	Meta PageMeta             `json:"meta"`
}

// History fetches one page of the user's watch history. Pages are
// numbered from 1.
func (c *Client) History(ctx context.Context, token *cache.Token, lang string, page int) (*Page, error) {
	headers, err := c.authHeaders(token)
	if err != nil {
		return nil, err
	}
	requestURL := c.cfg.CatalogBaseURL + fmt.Sprintf(historyPath, lang, page, c.cfg.HistoryPage)

	var reply Page
	if err := c.getJSON(ctx, "history", requestURL, headers, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// HistoryAll fetches the user's complete watch history across all pages.
// The returned slice is never nil, empty in the worst case; a mid-fetch
// failure returns the pages collected so far together with the error.
func (c *Client) HistoryAll(ctx context.Context, token *cache.Token, lang string) ([]models.CatalogItem, error) {
	all := []models.CatalogItem{}

	for page := 1; ; {
		reply, err := c.History(ctx, token, lang, page)
		if err != nil {
			return all, err
		}
		all = append(all, reply.Data...)

		if reply.Meta.Page >= reply.Meta.Pages {
			return all, nil
		}
		page = reply.Meta.Page + 1
	}
}

// PushProgress records the elapsed playback time of a program in the
// user's profile and returns the HTTP status code.
func (c *Client) PushProgress(ctx context.Context, token *cache.Token, programID string, elapsedSeconds int) (int, error) {
	headers, err := c.authHeaders(token)
	if err != nil {
		return 0, err
	}
	requestURL := c.cfg.CatalogBaseURL + historySyncPath

	form := url.Values{}
	form.Set("programId", programID)
	form.Set("timecode", strconv.Itoa(elapsedSeconds))

	return c.send(ctx, "history_sync", http.MethodPut, requestURL, headers, form, nil)
}

// PurgeHistory flushes the user's watch history and returns the HTTP
// status code.
func (c *Client) PurgeHistory(ctx context.Context, token *cache.Token) (int, error) {
	headers, err := c.authHeaders(token)
	if err != nil {
		return 0, err
	}
	requestURL := c.cfg.CatalogBaseURL + historyPurgePath

	return c.send(ctx, "history_purge", http.MethodPatch, requestURL, headers, nil, nil)
}

// MarkAsWatched records a program as fully viewed by pushing its total
// duration as elapsed time.
func (c *Client) MarkAsWatched(ctx context.Context, token *cache.Token, lang, programID string) (int, error) {
	video, err := c.PlayerConfig(ctx, lang, programID)
	if err != nil {
		return 0, err
	}
	duration := video.DurationSeconds()
	if duration <= 0 {
		return 0, fmt.Errorf("program %s: %w", programID, models.ErrDurationUnavailable)
	}
	return c.PushProgress(ctx, token, programID, duration)
}

// ProgressSink binds a bearer token to the progress-push endpoint so the
// playback loop can push elapsed time without carrying credentials.
type ProgressSink struct {
	client *Client
	token  *cache.Token
}

// NewProgressSink creates a sink pushing through this client with token.
func (c *Client) NewProgressSink(token *cache.Token) *ProgressSink {
	return &ProgressSink{client: c, token: token}
}

// PushProgress pushes elapsed time for programID.
func (s *ProgressSink) PushProgress(ctx context.Context, programID string, elapsedSeconds int) (int, error) {
	return s.client.PushProgress(ctx, s.token, programID, elapsedSeconds)
}
