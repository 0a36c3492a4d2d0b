// wordlens — word-frequency dashboard backend.
//
// Fetches social-media text (YouTube comments and subtitles, trending
// metadata, VK comments, arbitrary web pages), ranks word frequencies per
// user session, and serves the JSON API the bar-chart dashboard talks to.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/robfig/cron/v3"

	"github.com/wordlens/wordlens/internal/dashserver"
	"github.com/wordlens/wordlens/internal/engine"
	"github.com/wordlens/wordlens/internal/engine/analysis"
)

var (
	version  = "dev"
	httpAddr = env.Str("HTTP_ADDR", ":8892")
)

func main() {
	initEngine()

	slog.Info("starting wordlens",
		slog.String("version", version),
		slog.String("addr", httpAddr),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initHistory(ctx)
	startReportCron(ctx)

	policy, topN := startupDefaults(ctx)
	srv := dashserver.New(httpAddr, policy, topN)
	if err := srv.Start(ctx); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		YouTubeAPIKey:         env.Str("YOUTUBE_API_KEY", ""),
		YouTubeAPIKeyFallback: env.Str("YOUTUBE_API_KEY_FALLBACK", ""),
		VKServiceToken:        env.Str("VK_SERVICE_TOKEN", ""),
		MaxComments:           env.Int("MAX_COMMENTS", 500),
		MaxContentChars:       env.Int("MAX_CONTENT_CHARS", 100000),
		FetchTimeout:          env.Duration("FETCH_TIMEOUT", 30*time.Second),
		YouTubeRPS:            env.Float("YOUTUBE_RPS", 4),
		DefaultTopN:           env.Int("DEFAULT_TOP_N", 20),
		SessionTTL:            env.Duration("SESSION_TTL", 30*time.Minute),
		CacheMaxEntries:       env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval:  env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	bc, err := engine.NewBrowserClient()
	if err != nil {
		slog.Warn("browser client init failed, scrape fallbacks use net/http", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
		slog.Info("browser client initialized")
	}

	engine.Init(c)

	cacheTTL := env.Duration("CACHE_TTL", 30*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}

// initHistory wires the optional Postgres analysis archive.
func initHistory(ctx context.Context) {
	databaseURL := env.Str("DATABASE_URL", "")
	if databaseURL == "" {
		return
	}
	db, err := analysis.ConnectHistoryDB(ctx, databaseURL)
	if err != nil {
		slog.Warn("history DB init failed, archive disabled", slog.Any("error", err))
		return
	}
	analysis.SetHistoryDB(db)
	go func() {
		<-ctx.Done()
		db.Close()
	}()
}

// startReportCron schedules the daily aggregate CSV report.
func startReportCron(ctx context.Context) {
	reportDir := env.Str("REPORT_DIR", "./reports")
	schedule := env.Str("REPORT_SCHEDULE", "0 6 * * *")

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		runCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		if err := analysis.RunDailyReport(runCtx, reportDir); err != nil {
			slog.Error("daily report failed", slog.Any("error", err))
		}
	}); err != nil {
		slog.Error("report schedule invalid", slog.String("schedule", schedule), slog.Any("error", err))
		return
	}
	c.Start()
	go func() {
		<-ctx.Done()
		c.Stop()
	}()
	slog.Info("daily report scheduled", slog.String("schedule", schedule), slog.String("dir", reportDir))
}

// startupDefaults resolves the policy fresh sessions start from: stopword
// presets from the optional YAML file, overridden by whatever filter settings
// and exclusions the user persisted in earlier runs.
func startupDefaults(ctx context.Context) (analysis.Policy, int) {
	presets := analysis.DefaultPresets()
	if path := env.Str("PRESETS_FILE", ""); path != "" {
		loaded, err := analysis.LoadPresets(path)
		if err != nil {
			slog.Warn("presets load failed, using defaults", slog.String("path", path), slog.Any("error", err))
		} else {
			presets = loaded
			slog.Info("presets loaded", slog.String("path", path))
		}
	}

	policy := presets.Policy()
	topN := presets.TopN
	if topN <= 0 {
		topN = engine.Cfg.DefaultTopN
	}

	saved, savedTopN, ok, err := analysis.LoadSettings(ctx)
	if err != nil {
		slog.Warn("settings load failed, using presets", slog.Any("error", err))
		return policy, topN
	}
	if ok {
		// Persisted settings win; preset stopwords still apply underneath.
		for w := range policy.Stopwords {
			saved.Stopwords[w] = struct{}{}
		}
		return saved, savedTopN
	}

	words, err := analysis.LoadStopwords(ctx)
	if err == nil {
		for _, w := range words {
			policy.Stopwords[w] = struct{}{}
		}
	}
	return policy, topN
}
