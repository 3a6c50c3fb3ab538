package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/telecast/mediatheque/internal/cache"
	"github.com/telecast/mediatheque/internal/catalog"
)

// Cached history pages go stale quickly while the user is watching.
const historyTTL = time.Minute

// username identifies the profile a request acts on.
func (api *API) username(c *gin.Context) string {
	return c.GetHeader("X-User")
}

// userToken returns the cached bearer token of the requesting user.
func (api *API) userToken(c *gin.Context) (*cache.Token, error) {
	user := api.username(c)
	if user == "" || api.cache == nil {
		return nil, catalog.ErrNoToken
	}
	token, err := api.cache.GetToken(c.Request.Context(), user)
	if err != nil || token == nil {
		return nil, catalog.ErrNoToken
	}
	return token, nil
}

// Authenticate a user against the upstream profile service and cache the
// bearer token for subsequent personal-content calls.
func (api *API) login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if api.cache == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Token cache unavailable"})
		return
	}

	token, err := api.catalog.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		api.renderError(c, err)
		return
	}

	if err := api.cache.SetToken(c.Request.Context(), req.Username, token, api.cfg.Redis.TokenTTL); err != nil {
		api.log.WithError(err).Warn("Failed to cache bearer token")
	}

	c.JSON(http.StatusOK, gin.H{"username": req.Username, "token_type": token.TokenType})
}

// List the user's complete watch history, served from cache when fresh.
func (api *API) listHistory(c *gin.Context) {
	token, err := api.userToken(c)
	if err != nil {
		api.renderError(c, err)
		return
	}

	user := api.username(c)
	lang := api.lang(c)
	ctx := c.Request.Context()

	if api.cache != nil {
		if items, err := api.cache.GetHistory(ctx, user, lang); err == nil && items != nil {
			c.JSON(http.StatusOK, gin.H{"history": items, "cached": true})
			return
		}
	}

	items, err := api.catalog.HistoryAll(ctx, token, lang)
	if err != nil {
		api.renderError(c, err)
		return
	}

	if api.cache != nil {
		if err := api.cache.SetHistory(ctx, user, lang, items, historyTTL); err != nil {
			api.log.WithError(err).Warn("Failed to cache history")
		}
	}

	c.JSON(http.StatusOK, gin.H{"history": items})
}

// Flush the user's watch history upstream and locally.
func (api *API) purgeHistory(c *gin.Context) {
	token, err := api.userToken(c)
	if err != nil {
		api.renderError(c, err)
		return
	}

	status, err := api.catalog.PurgeHistory(c.Request.Context(), token)
	if err != nil {
		api.renderError(c, err)
		return
	}

	api.invalidateHistory(c)
	c.JSON(status, gin.H{"status": status})
}

// Mark a program as fully viewed by syncing its total duration.
func (api *API) markAsWatched(c *gin.Context) {
	token, err := api.userToken(c)
	if err != nil {
		api.renderError(c, err)
		return
	}

	programID := c.Param("program_id")
	status, err := api.catalog.MarkAsWatched(c.Request.Context(), token, api.lang(c), programID)
	if err != nil {
		api.renderError(c, err)
		return
	}

	api.invalidateHistory(c)
	c.JSON(status, gin.H{"program_id": programID, "status": status})
}

// List one page of the user's favorites.
func (api *API) listFavorites(c *gin.Context) {
	token, err := api.userToken(c)
	if err != nil {
		api.renderError(c, err)
		return
	}

	page := 1
	if p := c.Query("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			page = n
		}
	}

	reply, err := api.catalog.Favorites(c.Request.Context(), token, api.lang(c), page)
	if err != nil {
		api.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

// Add a program to the user's favorites.
func (api *API) addFavorite(c *gin.Context) {
	token, err := api.userToken(c)
	if err != nil {
		api.renderError(c, err)
		return
	}

	programID := c.Param("program_id")
	status, err := api.catalog.AddFavorite(c.Request.Context(), token, programID)
	if err != nil {
		api.renderError(c, err)
		return
	}
	c.JSON(status, gin.H{"program_id": programID, "status": status})
}

// Remove a program from the user's favorites.
func (api *API) removeFavorite(c *gin.Context) {
	token, err := api.userToken(c)
	if err != nil {
		api.renderError(c, err)
		return
	}

	programID := c.Param("program_id")
	status, err := api.catalog.RemoveFavorite(c.Request.Context(), token, programID)
	if err != nil {
		api.renderError(c, err)
		return
	}
	c.JSON(status, gin.H{"program_id": programID, "status": status})
}

// Flush the user's favorites.
func (api *API) purgeFavorites(c *gin.Context) {
	token, err := api.userToken(c)
	if err != nil {
		api.renderError(c, err)
		return
	}

	status, err := api.catalog.PurgeFavorites(c.Request.Context(), token)
	if err != nil {
		api.renderError(c, err)
		return
	}
	c.JSON(status, gin.H{"status": status})
}

func (api *API) invalidateHistory(c *gin.Context) {
	if api.cache == nil {
		return
	}
	if err := api.cache.InvalidateHistory(c.Request.Context(), api.username(c)); err != nil {
		api.log.WithError(err).Warn("Failed to invalidate cached history")
	}
}
