package models

import (
	"bytes"
	"encoding/json"
)

// Kind is a program kind tag. The legacy upstream encodes it as a bare
// string, the current upstream as an object {"code": "..."}; both decode
// into the same value.
type Kind string

// Kinds the engine dispatches on.
const (
	KindShow     Kind = "SHOW"
	KindClip     Kind = "CLIP"
	KindTVSeries Kind = "TV_SERIES"
	KindMagazine Kind = "MAGAZINE"
	KindExternal Kind = "EXTERNAL"
)

// PreferredCollectionKinds are the parent-collection kinds worth assembling
// a sibling playlist from, in preference order.
var PreferredCollectionKinds = []Kind{KindTVSeries, KindMagazine}

// UnmarshalJSON accepts both upstream encodings of a kind.
func (k *Kind) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		var obj struct {
			Code string `json:"code"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*k = Kind(obj.Code)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*k = Kind(s)
	return nil
}

// LastViewed is the watch-progress sub-record attached to history items.
type LastViewed struct {
	Progress float64 `json:"progress"`
	Timecode int     `json:"timecode"`
}

// Duration carries the current upstream's nested duration encoding.
type Duration struct {
	Seconds int `json:"seconds"`
}

// CatalogItem is one program record from either upstream API. Read-only
// input: the playlist assembler may substitute a whole item with its
// history-enriched counterpart, never mutate one in place.
type CatalogItem struct {
	ProgramID       string      `json:"programId"`
	Kind            Kind        `json:"kind"`
	Title           string      `json:"title"`
	Subtitle        string      `json:"subtitle"`
	DurationSeconds int         `json:"durationSeconds"`
	Duration        *Duration   `json:"duration"`
	LastViewed      *LastViewed `json:"lastviewed"`
}

// WatchedThreshold is the progress ratio above which an item counts as
// fully viewed.
const WatchedThreshold = 0.95

// Progress returns the item's watch progress, 0.0 when the item carries no
// history record. Never negative, never NaN.
func (c *CatalogItem) Progress() float64 {
	if c == nil || c.LastViewed == nil {
		return 0.0
	}
	return c.LastViewed.Progress
}

// ResumeTimecode returns the second offset to resume from, 0 when unknown.
func (c *CatalogItem) ResumeTimecode() int {
	if c == nil || c.LastViewed == nil {
		return 0
	}
	return c.LastViewed.Timecode
}

// DurationSecs returns the program duration in seconds from whichever field
// the upstream populated, or 0 when no shape carries one.
func (c *CatalogItem) DurationSecs() int {
	if c == nil {
		return 0
	}
	if c.DurationSeconds > 0 {
		return c.DurationSeconds
	}
	if c.Duration != nil {
		return c.Duration.Seconds
	}
	return 0
}

// IsCollection reports whether the program id denotes a collection rather
// than a single playable program.
func (c *CatalogItem) IsCollection() bool {
	if c == nil {
		return false
	}
	id := c.ProgramID
	return len(id) > 3 && (id[:3] == "RC-" || id[:3] == "PL-")
}

// PlaylistPlan is an ordered play sequence: a rotation of the input
// collection with the starting element first.
type PlaylistPlan struct {
	Items          []CatalogItem `json:"items"`
	StartProgramID string        `json:"startProgramId"`
}
