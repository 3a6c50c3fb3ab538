package catalog

import (
	"context"
	"fmt"

	"github.com/telecast/mediatheque/pkg/models"
)

// PlayerStream is one rendition-index entry of a player configuration:
// the URL of a playlist-of-playlists plus its language versions.
type PlayerStream struct {
	URL      string          `json:"url"`
	Versions []StreamVersion `json:"versions"`
}

// StreamVersion carries the language tagging of a player stream.
type StreamVersion struct {
	EStat struct {
		ML5 string `json:"ml5"`
	} `json:"eStat"`
}

// LanguageCode returns the language tag of the stream's main version,
// empty when the upstream omitted it.
func (s PlayerStream) LanguageCode() string {
	if len(s.Versions) == 0 {
		return ""
	}
	return s.Versions[0].EStat.ML5
}

// PlayerVideo is the current service's player configuration for one
// program: playback metadata plus the rendition-index streams.
type PlayerVideo struct {
	Attributes struct {
		Metadata struct {
			Title    string          `json:"title"`
			Subtitle string          `json:"subtitle"`
			Duration models.Duration `json:"duration"`
		} `json:"metadata"`
		Streams []PlayerStream `json:"streams"`
	} `json:"attributes"`
}

// DurationSeconds returns the program duration, 0 when absent.
func (v *PlayerVideo) DurationSeconds() int {
	if v == nil {
		return 0
	}
	return v.Attributes.Metadata.Duration.Seconds
}

type playerReply struct {
	Data PlayerVideo `json:"data"`
}

// PlayerConfig fetches the player configuration for a program from the
// current service. programID may also be the live channel identifier.
func (c *Client) PlayerConfig(ctx context.Context, lang, programID string) (*PlayerVideo, error) {
	requestURL := c.cfg.CatalogBaseURL + fmt.Sprintf(playerPath, lang, programID)

	var reply playerReply
	if err := c.getJSON(ctx, "player_config", requestURL, c.baseHeaders(), &reply); err != nil {
		return nil, err
	}
	return &reply.Data, nil
}
