package models

import "errors"

var (
	// ErrStreamNotResolved indicates no stream descriptor matched the
	// requested constraints at any fallback tier.
	ErrStreamNotResolved = errors.New("stream not resolved")
	// ErrDurationUnavailable indicates upstream metadata carries no usable
	// duration; a zero target duration is rejected by downstream players.
	ErrDurationUnavailable = errors.New("duration unavailable")
	// ErrStorageWriteFailed indicates a manifest file could not be written.
	ErrStorageWriteFailed = errors.New("manifest storage write failed")
	// ErrUpstreamUnavailable indicates a network error, timeout or non-2xx
	// reply from the catalog or history service.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrNotFound indicates the upstream knows nothing about the program.
	ErrNotFound = errors.New("program not found")
)
