package hls

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telecast/mediatheque/internal/logging"
	"github.com/telecast/mediatheque/pkg/models"
)

func newTestSynthesizer(t *testing.T) (*Synthesizer, string) {
	dir := t.TempDir()
	return NewSynthesizer(dir, logging.Nop()), dir
}

func TestSynthesize(t *testing.T) {
	s, dir := newTestSynthesizer(t)

	audio := []AudioAsset{
		{LanguageCode: "fr", URL: "https://cdn.test/audio_fr.mp4"},
		{LanguageCode: "de", URL: "https://cdn.test/audio_de.mp4"},
	}

	set, err := s.Synthesize("https://cdn.test/video.mp4", audio, 1800, "110342-012-A")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "110342-012-A_main.m3u8"), set.MainManifestPath)
	assert.Equal(t, filepath.Join(dir, "110342-012-A_vid.m3u8"), set.VideoManifestPath)
	assert.Len(t, set.AudioManifestPaths, 2)

	// Top-level manifest layout
	main, err := os.ReadFile(set.MainManifestPath)
	require.NoError(t, err)
	lines := strings.Split(string(main), "\n")

	assert.Equal(t, "#EXTM3U", lines[0])
	assert.Equal(t, "#EXT-X-VERSION:4", lines[1])
	assert.Equal(t, "#EXT-X-PLAYLIST-TYPE:VOD", lines[2])
	assert.Equal(t, "#EXT-X-TARGETDURATION:1800", lines[3])
	assert.Equal(t, "#EXT-X-MEDIA-SEQUENCE:0", lines[4])
	assert.Contains(t, lines[5], "#EXT-X-STREAM-INF:")
	assert.Contains(t, lines[5], `AUDIO="lang"`)
	assert.Equal(t, "110342-012-A_vid.m3u8", lines[6])
	assert.Equal(t, "#EXT-X-ENDLIST", lines[len(lines)-1])

	// Exactly one default audio declaration, and it is the first language
	var mediaLines []string
	for _, l := range lines {
		if strings.HasPrefix(l, "#EXT-X-MEDIA:") {
			mediaLines = append(mediaLines, l)
		}
	}
	require.Len(t, mediaLines, 2)
	assert.Contains(t, mediaLines[0], `LANGUAGE="fr"`)
	assert.Contains(t, mediaLines[0], "DEFAULT=YES")
	assert.Contains(t, mediaLines[1], `LANGUAGE="de"`)
	assert.Contains(t, mediaLines[1], "DEFAULT=NO")

	// Sub-manifest layout
	vid, err := os.ReadFile(set.VideoManifestPath)
	require.NoError(t, err)
	assert.Equal(t, "#EXTM3U\n#EXT-X-TARGETDURATION:1800\n#EXTINF:1800.0,\nhttps://cdn.test/video.mp4\n", string(vid))

	fr, err := os.ReadFile(set.AudioManifestPaths["fr"])
	require.NoError(t, err)
	assert.Contains(t, string(fr), "https://cdn.test/audio_fr.mp4")
}

func TestSynthesize_MissingDuration(t *testing.T) {
	s, dir := newTestSynthesizer(t)

	_, err := s.Synthesize("https://cdn.test/video.mp4",
		[]AudioAsset{{LanguageCode: "fr", URL: "https://cdn.test/a.mp4"}}, 0, "110342-012-A")
	assert.True(t, errors.Is(err, models.ErrDurationUnavailable))

	// No files may be written
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestSynthesize_NoAudioTracks(t *testing.T) {
	s, _ := newTestSynthesizer(t)

	set, err := s.Synthesize("https://cdn.test/video.mp4", nil, 600, "110342-013-A")
	require.NoError(t, err)

	main, err := os.ReadFile(set.MainManifestPath)
	require.NoError(t, err)
	assert.NotContains(t, string(main), "#EXT-X-MEDIA:")
}

func TestSynthesize_WriteFailure(t *testing.T) {
	// Point the synthesizer at a path that cannot be a directory.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	s := NewSynthesizer(filepath.Join(blocker, "sub"), logging.Nop())
	_, err := s.Synthesize("https://cdn.test/video.mp4", nil, 600, "110342-014-A")
	assert.True(t, errors.Is(err, models.ErrStorageWriteFailed))
}
