// Package selector picks one stream variant among the descriptors a program
// exposes, honoring the caller's quality preference with ordered fallback
// and an exact audio-slot match.
package selector

import (
	"fmt"
	"sort"

	"github.com/telecast/mediatheque/pkg/models"
)

// FallbackOrder returns the quality tiers to try, requested first, then the
// remaining canonical qualities in fixed order.
func FallbackOrder(requested models.Quality) []models.Quality {
	order := make([]models.Quality, 0, len(models.CanonicalQualities)+1)
	order = append(order, requested)
	for _, q := range models.CanonicalQualities {
		if q != requested {
			order = append(order, q)
		}
	}
	return order
}

// Resolve picks the descriptor matching the requested audio slot within the
// first non-empty quality tier of the fallback order. The first non-empty
// tier decides: a slot present only in a lower-priority tier does not count.
func Resolve(streams []models.StreamDescriptor, quality models.Quality, audioSlot int) (models.StreamDescriptor, error) {
	for _, tier := range FallbackOrder(quality) {
		candidates := filterQuality(streams, tier)
		if len(candidates) == 0 {
			continue
		}
		for _, s := range candidates {
			if s.AudioSlot == audioSlot {
				return s, nil
			}
		}
		return models.StreamDescriptor{}, fmt.Errorf(
			"no stream with audio slot %d at quality %s: %w", audioSlot, tier, models.ErrStreamNotResolved)
	}
	return models.StreamDescriptor{}, fmt.Errorf(
		"no stream at any quality tier: %w", models.ErrStreamNotResolved)
}

// FilterTier returns the first non-empty quality tier of the fallback
// order, sorted ascending by audio slot. Used to build a selectable audio
// menu rather than resolve a single play target.
func FilterTier(streams []models.StreamDescriptor, quality models.Quality) ([]models.StreamDescriptor, error) {
	for _, tier := range FallbackOrder(quality) {
		candidates := filterQuality(streams, tier)
		if len(candidates) == 0 {
			continue
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].AudioSlot < candidates[j].AudioSlot
		})
		return candidates, nil
	}
	return nil, fmt.Errorf("no stream at any quality tier: %w", models.ErrStreamNotResolved)
}

func filterQuality(streams []models.StreamDescriptor, quality models.Quality) []models.StreamDescriptor {
	var out []models.StreamDescriptor
	for _, s := range streams {
		if s.Quality == quality {
			out = append(out, s)
		}
	}
	return out
}
