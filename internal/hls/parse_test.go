package hls

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/telecast/mediatheque/pkg/models"
)

const sampleIndex = `#EXTM3U
#EXT-X-VERSION:6
#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="program_audio",LANGUAGE="fr",NAME="Français",AUTOSELECT=YES,DEFAULT=YES,URI="audio_fr/index.m3u8"
#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="program_audio",LANGUAGE="de",NAME="Deutsch",AUTOSELECT=YES,DEFAULT=NO,URI="audio_de/index.m3u8"
#EXT-X-STREAM-INF:BANDWIDTH=1000000,RESOLUTION=640x360,FRAME-RATE=25.000,CODECS="avc1.4d401f,mp4a.40.2",AUDIO="program_audio"
variant_360/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=4000000,RESOLUTION=1280x720,FRAME-RATE=25.000,CODECS="avc1.4d401f,mp4a.40.2",AUDIO="program_audio"
variant_720/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=8000000,RESOLUTION=1920x1080,FRAME-RATE=50.000,CODECS="avc1.4d401f,mp4a.40.2",AUDIO="program_audio"
variant_1080/index.m3u8
`

var targetFilter = VariantFilter{Width: 1280, Height: 720, FrameRate: 25}

func TestParseRenditionIndex(t *testing.T) {
	index, err := ParseRenditionIndex(sampleIndex, "https://cdn.example.tv/program/master.m3u8", targetFilter)
	assert.NoError(t, err)

	assert.Equal(t, "https://cdn.example.tv/program/variant_720/index.m3u8", index.VideoPlaylistURL)
	assert.Len(t, index.AudioTracks, 2)
	assert.Equal(t, "fr", index.AudioTracks[0].LanguageCode)
	assert.Equal(t, "https://cdn.example.tv/program/audio_fr/index.m3u8", index.AudioTracks[0].PlaylistURL)
	assert.Equal(t, "de", index.AudioTracks[1].LanguageCode)
}

func TestParseRenditionIndex_NoMatchingVariant(t *testing.T) {
	_, err := ParseRenditionIndex(sampleIndex, "https://cdn.example.tv/master.m3u8",
		VariantFilter{Width: 3840, Height: 2160, FrameRate: 60})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrStreamNotResolved))
}

func TestParseRenditionIndex_DuplicateLanguageKeepsFirst(t *testing.T) {
	doc := `#EXTM3U
#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="a",LANGUAGE="fr",NAME="fr",URI="first.m3u8"
#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="a",LANGUAGE="fr",NAME="fr2",URI="second.m3u8"
#EXT-X-STREAM-INF:BANDWIDTH=1,RESOLUTION=1280x720,FRAME-RATE=25.000,AUDIO="a"
video.m3u8
`
	index, err := ParseRenditionIndex(doc, "http://cdn.test/x/master.m3u8", targetFilter)
	assert.NoError(t, err)
	assert.Len(t, index.AudioTracks, 1)
	assert.Equal(t, "http://cdn.test/x/first.m3u8", index.AudioTracks[0].PlaylistURL)
}

func TestParseMediaPlaylist(t *testing.T) {
	doc := `#EXTM3U
#EXT-X-TARGETDURATION:1500
#EXTINF:1500.0,
media_1.mp4
#EXTINF:1500.0,
media_1.mp4
#EXT-X-ENDLIST
`
	files := ParseMediaPlaylist(doc)
	assert.Equal(t, []string{"media_1.mp4", "media_1.mp4"}, files)
}

func TestParseMediaPlaylist_Empty(t *testing.T) {
	assert.Empty(t, ParseMediaPlaylist("#EXTM3U\n#EXT-X-ENDLIST\n"))
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{
			name: "relative ref",
			base: "https://cdn.test/a/b/master.m3u8",
			ref:  "audio/index.m3u8",
			want: "https://cdn.test/a/b/audio/index.m3u8",
		},
		{
			name: "absolute ref passes through",
			base: "https://cdn.test/a/master.m3u8",
			ref:  "https://other.test/file.mp4",
			want: "https://other.test/file.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinURL(tt.base, tt.ref))
		})
	}
}

func TestParseAttributes_QuotedCommas(t *testing.T) {
	attrs := parseAttributes(`TYPE=AUDIO,CODECS="avc1.4d401f,mp4a.40.2",LANGUAGE="fr",URI="a.m3u8"`)
	assert.Equal(t, "AUDIO", attrs["TYPE"])
	assert.Equal(t, "avc1.4d401f,mp4a.40.2", attrs["CODECS"])
	assert.Equal(t, "fr", attrs["LANGUAGE"])
	assert.Equal(t, "a.m3u8", attrs["URI"])
}
