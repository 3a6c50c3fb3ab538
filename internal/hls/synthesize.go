package hls

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/telecast/mediatheque/internal/logging"
	"github.com/telecast/mediatheque/internal/metrics"
	"github.com/telecast/mediatheque/pkg/models"
)

// streamInfLine is the fixed variant-stream declaration of the synthesized
// top-level manifest. The AUDIO group id ties it to every audio track below.
const streamInfLine = `#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=4959904,AVERAGE-BANDWIDTH=2351104,VIDEO-RANGE=SDR,CODECS="avc1.4d401f,mp4a.40.2",RESOLUTION=1280x720,FRAME-RATE=25.000,AUDIO="lang"`

// AudioAsset is one resolved audio track to reference from the manifest
// set. Order matters: the first asset becomes the default track.
type AudioAsset struct {
	LanguageCode string
	URL          string
}

// Synthesizer writes minimal multi-track manifest sets on local storage.
type Synthesizer struct {
	dir string
	log *logging.Logger
}

// NewSynthesizer creates a synthesizer writing under dir.
func NewSynthesizer(dir string, log *logging.Logger) *Synthesizer {
	return &Synthesizer{dir: dir, log: log}
}

// Synthesize writes one sub-manifest per track plus the top-level manifest
// and returns the paths. The top-level file is written last, strictly after
// every sub-manifest succeeded, so a partial set is never referenced.
// The caller must serialize syntheses for the same program id.
func (s *Synthesizer) Synthesize(videoURL string, audio []AudioAsset, durationSeconds int, programID string) (*models.ManifestSet, error) {
	if durationSeconds <= 0 {
		return nil, fmt.Errorf("program %s: %w", programID, models.ErrDurationUnavailable)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		metrics.RecordManifestFailure()
		return nil, fmt.Errorf("failed to create manifest directory: %w", models.ErrStorageWriteFailed)
	}

	set := &models.ManifestSet{
		ProgramID:          programID,
		AudioManifestPaths: make(map[string]string),
	}

	videoName := fmt.Sprintf("%s_vid.m3u8", programID)
	if err := s.writeTrackManifest(videoName, videoURL, durationSeconds); err != nil {
		metrics.RecordManifestFailure()
		return nil, err
	}
	set.VideoManifestPath = filepath.Join(s.dir, videoName)

	for _, track := range audio {
		name := fmt.Sprintf("%s_%s.m3u8", programID, track.LanguageCode)
		if err := s.writeTrackManifest(name, track.URL, durationSeconds); err != nil {
			metrics.RecordManifestFailure()
			return nil, err
		}
		set.AudioManifestPaths[track.LanguageCode] = filepath.Join(s.dir, name)
	}

	mainName := fmt.Sprintf("%s_main.m3u8", programID)
	if err := s.writeMainManifest(mainName, videoName, programID, audio, durationSeconds); err != nil {
		metrics.RecordManifestFailure()
		return nil, err
	}
	set.MainManifestPath = filepath.Join(s.dir, mainName)

	metrics.RecordManifestWritten()
	s.log.WithProgramID(programID).Infof("Synthesized manifest set with %d audio tracks", len(audio))

	return set, nil
}

// writeTrackManifest writes a single-segment media manifest: the whole
// track is one continuous segment backed by one file URL.
func (s *Synthesizer) writeTrackManifest(name, assetURL string, durationSeconds int) error {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	b.WriteString(fmt.Sprintf("#EXT-X-TARGETDURATION:%d\n", durationSeconds))
	b.WriteString(fmt.Sprintf("#EXTINF:%d.0,\n", durationSeconds))
	b.WriteString(assetURL + "\n")

	return s.writeFile(name, b.String())
}

func (s *Synthesizer) writeMainManifest(name, videoName, programID string, audio []AudioAsset, durationSeconds int) error {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	b.WriteString("#EXT-X-VERSION:4\n")
	b.WriteString("#EXT-X-PLAYLIST-TYPE:VOD\n")
	b.WriteString(fmt.Sprintf("#EXT-X-TARGETDURATION:%d\n", durationSeconds))
	b.WriteString("#EXT-X-MEDIA-SEQUENCE:0\n")
	b.WriteString(streamInfLine + "\n")
	b.WriteString(videoName + "\n")

	for i, track := range audio {
		def := "NO"
		if i == 0 {
			def = "YES"
		}
		b.WriteString(fmt.Sprintf(
			"#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID=\"lang\",LANGUAGE=%q,NAME=%q,AUTOSELECT=YES,DEFAULT=%s,URI=%q\n",
			track.LanguageCode, track.LanguageCode, def,
			fmt.Sprintf("%s_%s.m3u8", programID, track.LanguageCode)))
	}

	b.WriteString("#EXT-X-ENDLIST")

	return s.writeFile(name, b.String())
}

func (s *Synthesizer) writeFile(name, content string) error {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		s.log.ErrorWithErr("Failed to write manifest "+name, err)
		return fmt.Errorf("failed to write %s: %w", name, models.ErrStorageWriteFailed)
	}
	return nil
}
