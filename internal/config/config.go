package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sangnt1552314/ytloop/internal/logging"
)

const (
	DefaultYouTubeAPIBaseURL = "https://www.googleapis.com/youtube/v3"
	DefaultListenAddr        = ":8080"
	DefaultResolverURL       = "http://localhost:8080"
	DefaultLogFile           = "storage/logs/ytloop.log"
)

// ServerConfig configures the playlist resolver service.
type ServerConfig struct {
	YouTubeAPIKey     string
	YouTubeAPIBaseURL string
	ListenAddr        string
	// UpstreamTimeout of zero leaves the transport default in place.
	UpstreamTimeout time.Duration
	LogLevel        logging.LogLevel
}

// ClientConfig configures the terminal player. It deliberately has no API
// credential: the player only ever talks to the resolver.
type ClientConfig struct {
	ResolverURL string
	MediaPlayer string
	LogFile     string
	LogLevel    logging.LogLevel
}

// LoadEnvFile loads a .env file into the process environment if one exists.
func LoadEnvFile(filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil {
		logging.Debug("No .env file loaded: %v", err)
	}
}

// LoadServer reads the resolver configuration from the environment. A missing
// API key is not an error here: the resolver reports it per request.
func LoadServer() (ServerConfig, error) {
	cfg := ServerConfig{
		YouTubeAPIKey:     strings.TrimSpace(os.Getenv("YOUTUBE_API_KEY")),
		YouTubeAPIBaseURL: strings.TrimRight(getenv("YOUTUBE_API_BASE_URL", DefaultYouTubeAPIBaseURL), "/"),
		ListenAddr:        getenv("LISTEN_ADDR", DefaultListenAddr),
		LogLevel:          logLevel(),
	}

	if raw := os.Getenv("UPSTREAM_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout < 0 {
			return ServerConfig{}, fmt.Errorf("invalid UPSTREAM_TIMEOUT %q", raw)
		}
		cfg.UpstreamTimeout = timeout
	}

	return cfg, nil
}

// LoadClient reads the terminal player configuration from the environment.
func LoadClient() (ClientConfig, error) {
	cfg := ClientConfig{
		ResolverURL: strings.TrimRight(getenv("RESOLVER_URL", DefaultResolverURL), "/"),
		MediaPlayer: os.Getenv("MEDIA_PLAYER"),
		LogFile:     getenv("LOG_FILE", DefaultLogFile),
		LogLevel:    logLevel(),
	}
	if !strings.HasPrefix(cfg.ResolverURL, "http://") && !strings.HasPrefix(cfg.ResolverURL, "https://") {
		return ClientConfig{}, fmt.Errorf("invalid RESOLVER_URL %q: must be an http(s) URL", cfg.ResolverURL)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

// logLevel honours DEBUG before LOG_LEVEL.
func logLevel() logging.LogLevel {
	switch strings.ToLower(os.Getenv("DEBUG")) {
	case "1", "true", "yes", "on":
		return logging.LevelDebug
	}
	return logging.ParseLevel(os.Getenv("LOG_LEVEL"))
}
