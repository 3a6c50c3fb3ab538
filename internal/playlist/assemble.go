// Package playlist turns a raw content collection and the user's watch
// history into an ordered play sequence around a resume point.
package playlist

import (
	"github.com/telecast/mediatheque/pkg/models"
)

// Assemble merges history into the collection and rotates it so playback
// starts at the requested program, or at the first item not yet fully
// viewed when no start is requested. The result is always a rotation of
// the input: same items, same relative order within each half.
//
// When the requested start id is absent from the collection, no rotation
// happens and the reported start id stays the initially assumed first
// element. Ambiguous upstream behavior kept as is, pending product
// clarification.
func Assemble(collection, history []models.CatalogItem, startProgramID string) models.PlaylistPlan {
	if len(collection) == 0 {
		return models.PlaylistPlan{}
	}

	merged := MergeHistory(collection, history)

	var before, from []models.CatalogItem
	beforeStart := true
	startID := merged[0].ProgramID

	for _, item := range merged {
		// Search for the start boundary until it is found once
		if beforeStart {
			if startProgramID != "" {
				if item.ProgramID == startProgramID {
					beforeStart = false
					startID = startProgramID
				}
			} else if item.Progress() < models.WatchedThreshold {
				beforeStart = false
				startID = item.ProgramID
			}
		}

		if beforeStart {
			before = append(before, item)
		} else {
			from = append(from, item)
		}
	}

	return models.PlaylistPlan{
		Items:          append(from, before...),
		StartProgramID: startID,
	}
}

// MergeHistory substitutes collection items with their history-enriched
// counterpart keyed by program id. The input slices are left untouched;
// a new sequence is returned.
func MergeHistory(collection, history []models.CatalogItem) []models.CatalogItem {
	merged := make([]models.CatalogItem, len(collection))
	copy(merged, collection)

	if len(history) == 0 {
		return merged
	}

	byID := make(map[string]models.CatalogItem, len(history))
	for _, item := range history {
		if item.ProgramID != "" {
			byID[item.ProgramID] = item
		}
	}

	for i, item := range merged {
		if enriched, ok := byID[item.ProgramID]; ok {
			merged[i] = enriched
		}
	}

	return merged
}
