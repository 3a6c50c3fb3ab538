package hls

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/telecast/mediatheque/pkg/models"
)

// Resolver loads rendition indexes and follows the one extra indirection
// from media playlist to the terminal single-file asset.
type Resolver struct {
	client *http.Client
	filter VariantFilter
}

// NewResolver creates a resolver with the given variant filter. The timeout
// bounds every playlist fetch.
func NewResolver(timeout time.Duration, filter VariantFilter) *Resolver {
	return &Resolver{
		client: &http.Client{Timeout: timeout},
		filter: filter,
	}
}

// LoadRenditionIndex fetches and parses the rendition index at url.
func (r *Resolver) LoadRenditionIndex(ctx context.Context, url string) (*models.RenditionIndex, error) {
	doc, err := r.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return ParseRenditionIndex(doc, url, r.filter)
}

// ResolveAssets resolves every track of a rendition index to its terminal
// single-file URL: media playlist, file list, first file.
func (r *Resolver) ResolveAssets(ctx context.Context, index *models.RenditionIndex) ([]models.ResolvedAsset, error) {
	video, err := r.resolveAsset(ctx, index.VideoPlaylistURL, models.AssetVideo, "")
	if err != nil {
		return nil, err
	}

	assets := []models.ResolvedAsset{video}
	for _, track := range index.AudioTracks {
		audio, err := r.resolveAsset(ctx, track.PlaylistURL, models.AssetAudio, track.LanguageCode)
		if err != nil {
			return nil, err
		}
		assets = append(assets, audio)
	}
	return assets, nil
}

func (r *Resolver) resolveAsset(ctx context.Context, playlistURL string, kind models.AssetKind, lang string) (models.ResolvedAsset, error) {
	doc, err := r.fetch(ctx, playlistURL)
	if err != nil {
		return models.ResolvedAsset{}, err
	}

	files := ParseMediaPlaylist(doc)
	if len(files) == 0 {
		return models.ResolvedAsset{}, fmt.Errorf("media playlist %s lists no files: %w",
			playlistURL, models.ErrStreamNotResolved)
	}

	// A single file per track is expected, possibly referenced repeatedly.
	return models.ResolvedAsset{
		Kind:         kind,
		LanguageCode: lang,
		URL:          JoinURL(playlistURL, files[0]),
	}, nil
}

func (r *Resolver) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch playlist %s: %w", url, models.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("playlist %s returned status %d: %w", url, resp.StatusCode, models.ErrUpstreamUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read playlist body: %w", err)
	}

	return string(body), nil
}
