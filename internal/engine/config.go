package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	YouTubeAPIKey         string
	YouTubeAPIKeyFallback string
	VKServiceToken        string // empty = VK comment source disabled
	MaxComments           int    // cap per comment fetch
	MaxContentChars       int    // cap on extracted page text
	FetchTimeout          time.Duration
	YouTubeRPS            float64 // outbound request rate toward youtube.com
	DefaultTopN           int
	SessionTTL            time.Duration
	CacheMaxEntries       int
	CacheCleanupInterval  time.Duration
	HTTPClient            *http.Client
	BrowserClient         *BrowserClient // nil = TLS-fingerprint scraping disabled
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (analysis, sources).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
	initLimiter(c.YouTubeRPS)
}
