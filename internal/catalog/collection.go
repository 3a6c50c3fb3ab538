package catalog

import (
	"context"
	"fmt"

	"github.com/telecast/mediatheque/internal/cache"
	"github.com/telecast/mediatheque/internal/playlist"
	"github.com/telecast/mediatheque/pkg/models"
)

type collectionReply struct {
	SubCollections []struct {
		Videos []models.CatalogItem `json:"videos"`
	} `json:"subCollections"`
}

type programReply struct {
	Value struct {
		Zones []struct {
			Content struct {
				Data []struct {
					ParentCollections []models.CatalogItem `json:"parentCollections"`
				} `json:"data"`
			} `json:"content"`
		} `json:"zones"`
	} `json:"value"`
}

// Collection fetches a collection and flattens its sub-collections into
// one program list, preserving upstream order.
func (c *Client) Collection(ctx context.Context, collectionID, lang string) ([]models.CatalogItem, error) {
	requestURL := c.cfg.LegacyBaseURL + fmt.Sprintf(legacyCollectionPath, collectionID, lang)

	var reply collectionReply
	if err := c.getJSON(ctx, "legacy_collection", requestURL, c.legacyHeaders(), &reply); err != nil {
		return nil, err
	}

	var items []models.CatalogItem
	for _, sub := range reply.SubCollections {
		items = append(items, sub.Videos...)
	}
	return items, nil
}

// CollectionWithHistory fetches a collection and enriches its items with
// the user's watch history. A failed or empty history fetch degrades to
// the plain collection, it never fails the call.
func (c *Client) CollectionWithHistory(ctx context.Context, token *cache.Token, collectionID, lang string) ([]models.CatalogItem, error) {
	items, err := c.Collection(ctx, collectionID, lang)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	history, err := c.HistoryAll(ctx, token, lang)
	if err != nil {
		c.log.WithError(err).Warn("History unavailable, collection served without progress")
		return items, nil
	}
	return playlist.MergeHistory(items, history), nil
}

// ParentCollections returns the parent collections of a program, empty
// when the program belongs to none.
func (c *Client) ParentCollections(ctx context.Context, lang, programID string) ([]models.CatalogItem, error) {
	requestURL := c.cfg.ProxyBaseURL + fmt.Sprintf(programPath, lang, c.cfg.Client, programID)

	var reply programReply
	if err := c.getJSON(ctx, "program_info", requestURL, c.baseHeaders(), &reply); err != nil {
		return nil, err
	}

	for _, zone := range reply.Value.Zones {
		for _, data := range zone.Content.Data {
			return data.ParentCollections, nil
		}
	}
	return nil, nil
}

// PreferredParent picks the first parent collection whose kind makes a
// sibling playlist worthwhile, nil when none qualifies.
func PreferredParent(parents []models.CatalogItem) *models.CatalogItem {
	for _, kind := range models.PreferredCollectionKinds {
		for i := range parents {
			if parents[i].Kind == kind {
				return &parents[i]
			}
		}
	}
	return nil
}
