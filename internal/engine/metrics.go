package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	CommentRequests    atomic.Int64
	TranscriptRequests atomic.Int64
	TrendingRequests   atomic.Int64
	VKRequests         atomic.Int64
	PageRequests       atomic.Int64
	PageErrors         atomic.Int64
	AnalyzeOps         atomic.Int64
	ExportOps          atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"comment_requests":    metrics.CommentRequests.Load(),
		"transcript_requests": metrics.TranscriptRequests.Load(),
		"trending_requests":   metrics.TrendingRequests.Load(),
		"vk_requests":         metrics.VKRequests.Load(),
		"page_requests":       metrics.PageRequests.Load(),
		"page_errors":         metrics.PageErrors.Load(),
		"analyze_ops":         metrics.AnalyzeOps.Load(),
		"export_ops":          metrics.ExportOps.Load(),
		"cache_hits":          hits,
		"cache_misses":        misses,
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"comment_requests", "transcript_requests", "trending_requests",
		"vk_requests", "page_requests", "page_errors",
		"analyze_ops", "export_ops",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sources/ and dashserver.
func IncrCommentRequests()    { metrics.CommentRequests.Add(1) }
func IncrTranscriptRequests() { metrics.TranscriptRequests.Add(1) }
func IncrTrendingRequests()   { metrics.TrendingRequests.Add(1) }
func IncrVKRequests()         { metrics.VKRequests.Add(1) }
func IncrPageRequests()       { metrics.PageRequests.Add(1) }
func IncrPageErrors()         { metrics.PageErrors.Add(1) }
func IncrAnalyzeOps()         { metrics.AnalyzeOps.Add(1) }
func IncrExportOps()          { metrics.ExportOps.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
