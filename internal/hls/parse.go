// Package hls parses upstream rendition indexes and synthesizes the local
// multi-track manifests handed to the host player.
package hls

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/telecast/mediatheque/pkg/models"
)

// VariantFilter selects which variant stream of a rendition index carries
// the program's video track.
type VariantFilter struct {
	Width     int
	Height    int
	FrameRate float64
}

// ParseRenditionIndex parses a playlist-of-playlists document. The variant
// matching the filter becomes the video playlist; every audio media entry
// becomes one audio track. URIs are resolved against baseURL.
func ParseRenditionIndex(doc, baseURL string, filter VariantFilter) (*models.RenditionIndex, error) {
	index := &models.RenditionIndex{}
	seen := make(map[string]bool)

	var pendingVariant map[string]string
	scanner := bufio.NewScanner(strings.NewReader(doc))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "#EXT-X-MEDIA:"):
			attrs := parseAttributes(strings.TrimPrefix(line, "#EXT-X-MEDIA:"))
			if attrs["TYPE"] != "AUDIO" || attrs["URI"] == "" {
				continue
			}
			lang := attrs["LANGUAGE"]
			if lang == "" || seen[lang] {
				continue
			}
			seen[lang] = true
			index.AudioTracks = append(index.AudioTracks, models.AudioTrack{
				LanguageCode: lang,
				PlaylistURL:  JoinURL(baseURL, attrs["URI"]),
			})

		case strings.HasPrefix(line, "#EXT-X-STREAM-INF:"):
			pendingVariant = parseAttributes(strings.TrimPrefix(line, "#EXT-X-STREAM-INF:"))

		case !strings.HasPrefix(line, "#"):
			// URI line of the preceding variant declaration
			if pendingVariant != nil && variantMatches(pendingVariant, filter) {
				index.VideoPlaylistURL = JoinURL(baseURL, line)
			}
			pendingVariant = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan rendition index: %w", err)
	}

	if index.VideoPlaylistURL == "" {
		return nil, fmt.Errorf("no variant matches %dx%d@%g: %w",
			filter.Width, filter.Height, filter.FrameRate, models.ErrStreamNotResolved)
	}

	return index, nil
}

// ParseMediaPlaylist returns the ordered segment file references of a media
// playlist. Only the first one is used by asset resolution.
func ParseMediaPlaylist(doc string) []string {
	var files []string
	scanner := bufio.NewScanner(strings.NewReader(doc))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		files = append(files, line)
	}
	return files
}

// JoinURL resolves ref against the directory of base. Absolute refs pass
// through unchanged.
func JoinURL(base, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if i := strings.LastIndex(base, "/"); i > len("https:/") {
		base = base[:i]
	}
	return base + "/" + ref
}

func variantMatches(attrs map[string]string, filter VariantFilter) bool {
	res := attrs["RESOLUTION"]
	if res != fmt.Sprintf("%dx%d", filter.Width, filter.Height) {
		return false
	}
	if filter.FrameRate > 0 {
		rate, err := strconv.ParseFloat(attrs["FRAME-RATE"], 64)
		if err != nil || rate != filter.FrameRate {
			return false
		}
	}
	return true
}

// parseAttributes parses an HLS attribute list, honoring quoted values that
// may contain commas.
func parseAttributes(s string) map[string]string {
	attrs := make(map[string]string)
	var key strings.Builder
	var value strings.Builder
	inValue := false
	inQuotes := false

	flush := func() {
		if key.Len() > 0 {
			attrs[key.String()] = value.String()
		}
		key.Reset()
		value.Reset()
		inValue = false
	}

	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == '=' && !inQuotes && !inValue:
			inValue = true
		case r == ',' && !inQuotes:
			flush()
		default:
			if inValue {
				value.WriteRune(r)
			} else {
				key.WriteRune(r)
			}
		}
	}
	flush()

	return attrs
}
