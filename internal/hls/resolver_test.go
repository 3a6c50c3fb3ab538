package hls

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telecast/mediatheque/pkg/models"
)

func newPlaylistServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/program/master.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `#EXTM3U
#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="a",LANGUAGE="fr",NAME="fr",URI="audio_fr.m3u8"
#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="a",LANGUAGE="de",NAME="de",URI="audio_de.m3u8"
#EXT-X-STREAM-INF:BANDWIDTH=4000000,RESOLUTION=1280x720,FRAME-RATE=25.000,AUDIO="a"
video_720.m3u8
`)
	})
	mux.HandleFunc("/program/video_720.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "#EXTM3U\n#EXTINF:1800.0,\nvideo_720.mp4\n#EXT-X-ENDLIST\n")
	})
	mux.HandleFunc("/program/audio_fr.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "#EXTM3U\n#EXTINF:1800.0,\naudio_fr.mp4\n#EXT-X-ENDLIST\n")
	})
	mux.HandleFunc("/program/audio_de.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "#EXTM3U\n#EXTINF:1800.0,\naudio_de.mp4\n#EXT-X-ENDLIST\n")
	})

	return httptest.NewServer(mux)
}

func TestResolver_LoadAndResolve(t *testing.T) {
	server := newPlaylistServer(t)
	defer server.Close()

	r := NewResolver(5*time.Second, VariantFilter{Width: 1280, Height: 720, FrameRate: 25})
	ctx := context.Background()

	index, err := r.LoadRenditionIndex(ctx, server.URL+"/program/master.m3u8")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/program/video_720.m3u8", index.VideoPlaylistURL)
	require.Len(t, index.AudioTracks, 2)

	assets, err := r.ResolveAssets(ctx, index)
	require.NoError(t, err)
	require.Len(t, assets, 3)

	assert.Equal(t, models.AssetVideo, assets[0].Kind)
	assert.Equal(t, server.URL+"/program/video_720.mp4", assets[0].URL)

	assert.Equal(t, models.AssetAudio, assets[1].Kind)
	assert.Equal(t, "fr", assets[1].LanguageCode)
	assert.Equal(t, server.URL+"/program/audio_fr.mp4", assets[1].URL)

	assert.Equal(t, "de", assets[2].LanguageCode)
}

func TestResolver_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	r := NewResolver(5*time.Second, VariantFilter{Width: 1280, Height: 720})
	_, err := r.LoadRenditionIndex(context.Background(), server.URL+"/master.m3u8")
	assert.True(t, errors.Is(err, models.ErrUpstreamUnavailable))
}

func TestResolver_EmptyMediaPlaylist(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/empty.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "#EXTM3U\n#EXT-X-ENDLIST\n")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	r := NewResolver(5*time.Second, VariantFilter{Width: 1280, Height: 720})
	index := &models.RenditionIndex{VideoPlaylistURL: server.URL + "/empty.m3u8"}

	_, err := r.ResolveAssets(context.Background(), index)
	assert.True(t, errors.Is(err, models.ErrStreamNotResolved))
}
