package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/telecast/mediatheque/internal/cache"
	"github.com/telecast/mediatheque/internal/catalog"
	"github.com/telecast/mediatheque/internal/config"
	"github.com/telecast/mediatheque/internal/hls"
	"github.com/telecast/mediatheque/internal/logging"
	"github.com/telecast/mediatheque/internal/metrics"
	"github.com/telecast/mediatheque/internal/middleware"
	"github.com/telecast/mediatheque/internal/syncer"
	"github.com/telecast/mediatheque/internal/tracing"
)

// API bundles the engine components behind the host route layer.
type API struct {
	cfg      *config.Config
	log      *logging.Logger
	catalog  *catalog.Client
	resolver *hls.Resolver
	synth    *hls.Synthesizer
	cache    *cache.Cache
	sessions *sessionRegistry
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logging: %v\n", err)
		os.Exit(1)
	}

	if cfg.Tracing.Enabled {
		_, closer, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorURL)
		if err != nil {
			log.Fatalf("Failed to init tracing: %v", err)
		}
		defer closer.Close()
	}

	// The cache speeds up token and history lookups; the engine works
	// without it, so a missing Redis only degrades personal content.
	tokenCache, err := cache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without token cache")
		tokenCache = nil
	} else {
		defer tokenCache.Close()
	}

	if err := os.MkdirAll(cfg.Playback.StorageDir, 0o755); err != nil {
		log.Fatalf("Failed to create manifest storage dir: %v", err)
	}

	filter := hls.VariantFilter{
		Width:     cfg.Playback.TargetWidth,
		Height:    cfg.Playback.TargetHeight,
		FrameRate: cfg.Playback.TargetFrameRate,
	}

	api := &API{
		cfg:      cfg,
		log:      log,
		catalog:  catalog.NewClient(cfg.Upstream, log),
		resolver: hls.NewResolver(cfg.Upstream.Timeout, filter),
		synth:    hls.NewSynthesizer(cfg.Playback.StorageDir, log),
		cache:    tokenCache,
		sessions: newSessionRegistry(log),
	}

	router := setupRouter(api)

	// Scrapers hit a separate listener so operational traffic stays off
	// the playback port.
	var metricsSrv *metrics.Server
	if cfg.Server.MetricsPort > 0 {
		metricsSrv = metrics.NewServer(cfg.Server.MetricsPort)
		go func() {
			if err := metricsSrv.Start(); err != nil {
				log.Errorf("Metrics server failed: %v", err)
			}
		}()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("Starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Open playback sessions get their terminal sync before the process
	// goes away.
	api.sessions.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("Metrics server shutdown failed")
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}

func setupRouter(api *API) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	router.GET("/health", api.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		// Playback
		v1.GET("/streams/:kind/:program_id", api.listStreams)
		v1.GET("/resolve/:kind/:program_id", api.resolveStream)
		v1.POST("/play/:kind/:program_id", api.play)
		v1.POST("/play-multilang/:program_id", api.playMultiLanguage)

		// Playlists
		v1.GET("/collections/:collection_id/playlist", api.collectionPlaylist)
		v1.GET("/programs/:program_id/siblings", api.siblingPlaylist)

		// Playback sessions
		v1.POST("/sessions/:session_id/heartbeat", api.sessionHeartbeat)
		v1.POST("/sessions/:session_id/stop", api.sessionStop)

		// Profile
		v1.POST("/auth/login", api.login)
		v1.GET("/history", api.listHistory)
		v1.DELETE("/history", api.purgeHistory)
		v1.POST("/programs/:program_id/watched", api.markAsWatched)
		v1.GET("/favorites", api.listFavorites)
		v1.PUT("/favorites/:program_id", api.addFavorite)
		v1.DELETE("/favorites/:program_id", api.removeFavorite)
		v1.DELETE("/favorites", api.purgeFavorites)
	}

	return router
}

func (api *API) healthCheck(c *gin.Context) {
	status := gin.H{"status": "healthy"}

	if api.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if err := api.cache.Ping(ctx); err != nil {
			status["cache"] = "unavailable"
		}
	}

	c.JSON(http.StatusOK, status)
}

// syncConfig translates the configured cadence for the synchronizer.
func (api *API) syncConfig() syncer.Config {
	return syncer.Config{
		TickInterval: api.cfg.Sync.TickInterval,
		SyncEvery:    api.cfg.Sync.SyncEvery,
		GracePeriod:  api.cfg.Sync.GracePeriod,
	}
}
