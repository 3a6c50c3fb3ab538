package catalog

import (
	"context"
	"fmt"

	"github.com/telecast/mediatheque/pkg/models"
)

type streamsReply struct {
	VideoStreams []models.StreamDescriptor `json:"videoStreams"`
}

type videoReply struct {
	Videos []models.CatalogItem `json:"videos"`
}

// Streams fetches the legacy per-variant stream list for a program.
// Returns the raw descriptor list; selection happens downstream.
func (c *Client) Streams(ctx context.Context, kind models.Kind, programID, lang string) ([]models.StreamDescriptor, error) {
	requestURL := c.cfg.LegacyBaseURL + fmt.Sprintf(legacyStreamsPath, programID, kind, lang)

	var reply streamsReply
	if err := c.getJSON(ctx, "legacy_streams", requestURL, c.legacyHeaders(), &reply); err != nil {
		return nil, err
	}
	return reply.VideoStreams, nil
}

// StreamsWithClipFallback fetches the stream list for a program, retrying
// once with the trailer kind when the primary kind yields nothing. Content
// pulled from the platform often keeps its trailer available.
func (c *Client) StreamsWithClipFallback(ctx context.Context, kind models.Kind, programID, lang string) ([]models.StreamDescriptor, error) {
	streams, err := c.Streams(ctx, kind, programID, lang)
	if err == nil && len(streams) > 0 {
		return streams, nil
	}

	if kind == models.KindClip {
		return streams, err
	}

	clipStreams, clipErr := c.Streams(ctx, models.KindClip, programID, lang)
	if clipErr == nil && len(clipStreams) > 0 {
		return clipStreams, nil
	}
	if err != nil {
		return nil, err
	}
	return nil, clipErr
}

// Video fetches the legacy program record for a single program.
func (c *Client) Video(ctx context.Context, programID, lang string) (*models.CatalogItem, error) {
	requestURL := c.cfg.LegacyBaseURL + fmt.Sprintf(legacyVideoPath, programID, lang)

	var reply videoReply
	if err := c.getJSON(ctx, "legacy_video", requestURL, c.legacyHeaders(), &reply); err != nil {
		return nil, err
	}
	if len(reply.Videos) == 0 {
		return nil, fmt.Errorf("video %s: %w", programID, models.ErrNotFound)
	}
	return &reply.Videos[0], nil
}
