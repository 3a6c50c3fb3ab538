package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Playback PlaybackConfig
	Sync     SyncConfig
	Redis    RedisConfig
	Tracing  TracingConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	MetricsPort     int // 0 disables the standalone metrics listener
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// UpstreamConfig holds catalog and profile service endpoints. Injected into
// the catalog client so multiple upstream environments can be tested in
// isolation.
type UpstreamConfig struct {
	LegacyBaseURL  string
	CatalogBaseURL string
	ProxyBaseURL   string
	AuthBaseURL    string
	AppToken       string // fixed authorization header for anonymous calls
	Client         string // client identifier: tv, web, app
	UserAgent      string
	Timeout        time.Duration
	HistoryPage    int // page size for watch-history fetches
}

// PlaybackConfig holds stream selection and manifest synthesis settings
type PlaybackConfig struct {
	Language        string
	Quality         string
	AudioSlot       int
	MultiLanguage   bool
	StorageDir      string
	TargetWidth     int
	TargetHeight    int
	TargetFrameRate float64
}

// SyncConfig holds progress synchronization cadence settings
type SyncConfig struct {
	TickInterval time.Duration // wall time per tick
	SyncEvery    int           // push progress every Nth tick
	GracePeriod  time.Duration // wait before the first poll
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TokenTTL time.Duration
}

// TracingConfig holds Jaeger tracing configuration
type TracingConfig struct {
	Enabled      bool
	ServiceName  string
	CollectorURL string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.metricsPort", 9090)
	viper.SetDefault("server.readTimeout", "30s")
	viper.SetDefault("server.writeTimeout", "30s")
	viper.SetDefault("server.shutdownTimeout", "10s")

	// Upstream defaults
	viper.SetDefault("upstream.legacyBaseURL", "https://services.example.tv/program/v2")
	viper.SetDefault("upstream.catalogBaseURL", "https://api.example.tv/api")
	viper.SetDefault("upstream.proxyBaseURL", "https://example.tv/api/rproxy")
	viper.SetDefault("upstream.authBaseURL", "https://auth.example.tv/ssologin")
	viper.SetDefault("upstream.appToken", "")
	viper.SetDefault("upstream.client", "tv")
	viper.SetDefault("upstream.userAgent", "mediatheque/1.0")
	viper.SetDefault("upstream.timeout", "10s")
	viper.SetDefault("upstream.historyPage", 50)

	// Playback defaults
	viper.SetDefault("playback.language", "fr")
	viper.SetDefault("playback.quality", "SQ")
	viper.SetDefault("playback.audioSlot", 1)
	viper.SetDefault("playback.multiLanguage", false)
	viper.SetDefault("playback.storageDir", "/var/lib/mediatheque/manifests")
	viper.SetDefault("playback.targetWidth", 1280)
	viper.SetDefault("playback.targetHeight", 720)
	viper.SetDefault("playback.targetFrameRate", 25.0)

	// Sync defaults
	viper.SetDefault("sync.tickInterval", "1s")
	viper.SetDefault("sync.syncEvery", 60)
	viper.SetDefault("sync.gracePeriod", "500ms")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.tokenTTL", "30m")

	// Tracing defaults
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.serviceName", "mediatheque")
	viper.SetDefault("tracing.collectorURL", "http://localhost:14268/api/traces")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
}
