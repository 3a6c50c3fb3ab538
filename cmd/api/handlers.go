package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/telecast/mediatheque/internal/catalog"
	"github.com/telecast/mediatheque/internal/hls"
	"github.com/telecast/mediatheque/internal/metrics"
	"github.com/telecast/mediatheque/internal/playlist"
	"github.com/telecast/mediatheque/internal/selector"
	"github.com/telecast/mediatheque/internal/syncer"
	"github.com/telecast/mediatheque/internal/tracing"
	"github.com/telecast/mediatheque/pkg/models"
)

func (api *API) lang(c *gin.Context) string {
	if lang := c.Query("lang"); lang != "" {
		return lang
	}
	return api.cfg.Playback.Language
}

func (api *API) quality(c *gin.Context) models.Quality {
	if q := c.Query("quality"); q != "" {
		return models.Quality(q)
	}
	return models.Quality(api.cfg.Playback.Quality)
}

func (api *API) audioSlot(c *gin.Context) int {
	if s := c.Query("audio_slot"); s != "" {
		if slot, err := strconv.Atoi(s); err == nil {
			return slot
		}
	}
	return api.cfg.Playback.AudioSlot
}

// renderError maps the engine error taxonomy to HTTP statuses.
func (api *API) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrNoToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
	case errors.Is(err, models.ErrStreamNotResolved):
		c.JSON(http.StatusNotFound, gin.H{"error": "No stream matches the requested quality and audio slot"})
	case errors.Is(err, models.ErrDurationUnavailable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Program duration unavailable"})
	case errors.Is(err, models.ErrUpstreamUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream service unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// List the stream variants of a program at the preferred quality tier,
// ordered by audio slot. Backs the audio-version menu.
func (api *API) listStreams(c *gin.Context) {
	kind := models.Kind(c.Param("kind"))
	programID := c.Param("program_id")

	streams, err := api.catalog.Streams(c.Request.Context(), kind, programID, api.lang(c))
	if err != nil {
		api.renderError(c, err)
		return
	}

	tier, err := selector.FilterTier(streams, api.quality(c))
	if err != nil {
		api.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"program_id": programID, "streams": tier})
}

// Resolve a program to one playable stream URL without starting a
// playback session.
func (api *API) resolveStream(c *gin.Context) {
	stream, err := api.resolve(c)
	if err != nil {
		api.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, stream)
}

// Resolve a program to one playable stream URL and start a progress-sync
// session for it when the caller is authenticated.
func (api *API) play(c *gin.Context) {
	span, ctx := tracing.StartSpan(c.Request.Context(), "play")
	defer tracing.FinishSpan(span)
	c.Request = c.Request.WithContext(ctx)

	programID := c.Param("program_id")
	tracing.SetTag(span, "program_id", programID)

	stream, err := api.resolve(c)
	if err != nil {
		tracing.LogError(span, err)
		api.renderError(c, err)
		return
	}

	reply := gin.H{
		"program_id": programID,
		"url":        stream.URL,
		"quality":    stream.Quality,
		"audio_slot": stream.AudioSlot,
	}

	// Progress sync needs a bearer token; anonymous playback runs
	// without a session.
	token, err := api.userToken(c)
	if err == nil {
		sink := api.catalog.NewProgressSink(token)
		cfg := api.syncConfig()
		sessionID := api.sessions.Start(func(probe syncer.PlaybackProbe) *syncer.Session {
			return syncer.NewSession(programID, probe, sink, cfg, api.log)
		}, cfg)
		reply["session_id"] = sessionID
	}

	c.JSON(http.StatusOK, reply)
}

func (api *API) resolve(c *gin.Context) (models.StreamDescriptor, error) {
	kind := models.Kind(c.Param("kind"))
	programID := c.Param("program_id")

	streams, err := api.catalog.StreamsWithClipFallback(c.Request.Context(), kind, programID, api.lang(c))
	if err != nil {
		return models.StreamDescriptor{}, err
	}

	stream, err := selector.Resolve(streams, api.quality(c), api.audioSlot(c))
	if err != nil {
		metrics.RecordResolution(string(api.quality(c)), "not_resolved")
		return models.StreamDescriptor{}, err
	}
	metrics.RecordResolution(string(stream.Quality), "resolved")
	return stream, nil
}

// Synthesize a local multi-audio manifest set for a program and return
// the main manifest path for the host player.
func (api *API) playMultiLanguage(c *gin.Context) {
	span, ctx := tracing.StartSpan(c.Request.Context(), "play_multilang")
	defer tracing.FinishSpan(span)

	programID := c.Param("program_id")
	tracing.SetTag(span, "program_id", programID)

	video, err := api.catalog.PlayerConfig(ctx, api.lang(c), programID)
	if err != nil {
		tracing.LogError(span, err)
		api.renderError(c, err)
		return
	}

	videoURL, audio, err := api.resolveRenditions(c, video)
	if err != nil {
		tracing.LogError(span, err)
		api.renderError(c, err)
		return
	}

	set, err := api.synth.Synthesize(videoURL, audio, video.DurationSeconds(), programID)
	if err != nil {
		tracing.LogError(span, err)
		api.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, set)
}

// resolveRenditions walks the player streams, one per language version,
// and resolves each down to its terminal media URL. Version order is
// kept: the first language becomes the default audio track.
func (api *API) resolveRenditions(c *gin.Context, video *catalog.PlayerVideo) (string, []hls.AudioAsset, error) {
	ctx := c.Request.Context()

	var videoURL string
	var audio []hls.AudioAsset
	seen := make(map[string]bool)

	for _, stream := range video.Attributes.Streams {
		index, err := api.resolver.LoadRenditionIndex(ctx, stream.URL)
		if err != nil {
			return "", nil, err
		}
		assets, err := api.resolver.ResolveAssets(ctx, index)
		if err != nil {
			return "", nil, err
		}

		lang := stream.LanguageCode()
		for _, asset := range assets {
			switch asset.Kind {
			case models.AssetVideo:
				if videoURL == "" {
					videoURL = asset.URL
				}
			case models.AssetAudio:
				if lang == "" {
					lang = asset.LanguageCode
				}
				if !seen[lang] {
					seen[lang] = true
					audio = append(audio, hls.AudioAsset{LanguageCode: lang, URL: asset.URL})
				}
			}
		}
	}

	if videoURL == "" {
		return "", nil, models.ErrStreamNotResolved
	}
	return videoURL, audio, nil
}

// Assemble a collection into an ordered playlist around the requested or
// resumed start program.
func (api *API) collectionPlaylist(c *gin.Context) {
	span, ctx := tracing.StartSpan(c.Request.Context(), "collection_playlist")
	defer tracing.FinishSpan(span)

	collectionID := c.Param("collection_id")
	startID := c.Query("start")

	token, _ := api.userToken(c)
	items, err := api.catalog.CollectionWithHistory(ctx, token, collectionID, api.lang(c))
	if err != nil {
		tracing.LogError(span, err)
		api.renderError(c, err)
		return
	}

	plan := playlist.Assemble(items, nil, startID)
	c.JSON(http.StatusOK, plan)
}

// Assemble the playlist of a program's siblings: the episodes of its
// parent series or magazine, rotated to start at the program itself.
func (api *API) siblingPlaylist(c *gin.Context) {
	span, ctx := tracing.StartSpan(c.Request.Context(), "sibling_playlist")
	defer tracing.FinishSpan(span)

	programID := c.Param("program_id")
	lang := api.lang(c)

	parents, err := api.catalog.ParentCollections(ctx, lang, programID)
	if err != nil {
		tracing.LogError(span, err)
		api.renderError(c, err)
		return
	}

	parent := catalog.PreferredParent(parents)
	if parent == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program has no series or magazine parent"})
		return
	}

	token, _ := api.userToken(c)
	items, err := api.catalog.CollectionWithHistory(ctx, token, parent.ProgramID, lang)
	if err != nil {
		tracing.LogError(span, err)
		api.renderError(c, err)
		return
	}

	plan := playlist.Assemble(items, nil, programID)
	c.JSON(http.StatusOK, plan)
}
