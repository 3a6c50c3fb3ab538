package models

// Quality is an encoding-quality code for a stream variant.
type Quality string

// Known quality codes, in canonical fallback order.
const (
	QualitySQ Quality = "SQ"
	QualityEQ Quality = "EQ"
	QualityHQ Quality = "HQ"
	QualityMQ Quality = "MQ"
)

// CanonicalQualities is the fixed fallback order tried after the requested
// quality. The order matters: it is part of the resolution contract.
var CanonicalQualities = []Quality{QualitySQ, QualityEQ, QualityHQ, QualityMQ}

// StreamDescriptor describes one playable stream variant from the legacy
// upstream shape. Immutable once constructed.
type StreamDescriptor struct {
	URL           string  `json:"url"`
	Quality       Quality `json:"quality"`
	AudioSlot     int     `json:"audioSlot"`
	LanguageLabel string  `json:"audioLabel"`
}

// AudioTrack is one audio rendition entry of a rendition index.
type AudioTrack struct {
	LanguageCode string
	PlaylistURL  string
}

// RenditionIndex is the parsed form of a playlist-of-playlists document:
// one video media playlist plus one audio media playlist per language.
type RenditionIndex struct {
	VideoPlaylistURL string
	AudioTracks      []AudioTrack
}

// AssetKind distinguishes the two track types behind a rendition.
type AssetKind string

const (
	AssetVideo AssetKind = "video"
	AssetAudio AssetKind = "audio"
)

// ResolvedAsset is the terminal, directly fetchable media file behind a
// rendition, obtained by one extra indirection through its media playlist.
type ResolvedAsset struct {
	Kind         AssetKind
	LanguageCode string // audio only
	URL          string
}
