package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/wordlens/wordlens/internal/engine"
)

// Trending videos — Data API v3 mostPopular when a key is configured,
// Innertube /browse (FEtrending) otherwise.

const ytDataAPIBase = "https://www.googleapis.com/youtube/v3"

// --- Data API v3 types ---

type ytVideosResp struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// FetchTrending returns the current most-popular videos for a region.
// Uses the Data API when a key is configured; otherwise scrapes the
// Innertube trending feed. Results are cached by region+limit.
func FetchTrending(ctx context.Context, region string, limit int) ([]engine.TrendingVideo, error) {
	engine.IncrTrendingRequests()
	if region == "" {
		region = "US"
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	cacheKey := engine.CacheKey("trending", region, fmt.Sprint(limit))
	if videos, ok := engine.CacheLoadJSON[[]engine.TrendingVideo](ctx, cacheKey); ok {
		return videos, nil
	}

	var videos []engine.TrendingVideo
	var err error
	if engine.Cfg.YouTubeAPIKey != "" {
		videos, err = fetchTrendingDataAPI(ctx, region, limit)
		if err != nil {
			slog.Warn("youtube: trending data API failed, scraping browse feed", slog.Any("err", err))
			videos, err = fetchTrendingBrowse(ctx, region, limit)
		}
	} else {
		videos, err = fetchTrendingBrowse(ctx, region, limit)
	}
	if err != nil {
		return nil, err
	}

	engine.CacheStoreJSON(ctx, cacheKey, videos)
	return videos, nil
}

// fetchTrendingDataAPI calls videos.list chart=mostPopular.
// Falls back to the secondary key on quota errors.
func fetchTrendingDataAPI(ctx context.Context, region string, limit int) ([]engine.TrendingVideo, error) {
	keys := []string{engine.Cfg.YouTubeAPIKey}
	if engine.Cfg.YouTubeAPIKeyFallback != "" {
		keys = append(keys, engine.Cfg.YouTubeAPIKeyFallback)
	}
	var lastErr error
	for _, key := range keys {
		videos, err := doTrendingDataAPI(ctx, region, limit, key)
		if err == nil {
			return videos, nil
		}
		lastErr = err
		slog.Debug("youtube data API key failed, trying fallback", slog.Any("err", err))
	}
	return nil, lastErr
}

func doTrendingDataAPI(ctx context.Context, region string, limit int, apiKey string) ([]engine.TrendingVideo, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("chart", "mostPopular")
	params.Set("regionCode", region)
	params.Set("maxResults", fmt.Sprintf("%d", limit))
	params.Set("key", apiKey)

	apiURL := ytDataAPIBase + "/videos?" + params.Encode()
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("youtube data API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("youtube data API %d: %s", resp.StatusCode, body)
	}

	var result ytVideosResp
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode youtube data API: %w", err)
	}

	videos := make([]engine.TrendingVideo, 0, len(result.Items))
	for _, item := range result.Items {
		if item.ID == "" {
			continue
		}
		videos = append(videos, engine.TrendingVideo{
			ID:      item.ID,
			Title:   item.Snippet.Title,
			Channel: item.Snippet.ChannelTitle,
			Views:   item.Statistics.ViewCount,
			URL:     "https://www.youtube.com/watch?v=" + item.ID,
		})
	}
	return videos, nil
}

// ytTrendingRenderer is the videoRenderer subset the browse feed walk extracts.
type ytTrendingRenderer struct {
	VideoID       string `json:"videoId"`
	Title         ytRuns `json:"title"`
	OwnerText     ytRuns `json:"ownerText"`
	ViewCountText struct {
		SimpleText string `json:"simpleText"`
	} `json:"viewCountText"`
}

// fetchTrendingBrowse scrapes the Innertube trending feed (browseId FEtrending).
func fetchTrendingBrowse(ctx context.Context, region string, limit int) ([]engine.TrendingVideo, error) {
	visitorData := generateVisitorData()

	webCtx := ytWebContext(visitorData)
	if client, ok := webCtx["client"].(ytWebClientCtx); ok {
		client.Gl = region
		webCtx["client"] = client
	}

	data, err := postInnerTubeWEB(ctx, ytBrowseURL, map[string]any{
		"browseId": "FEtrending",
		"context":  webCtx,
	}, visitorData)
	if err != nil {
		return nil, fmt.Errorf("trending /browse: %w", err)
	}

	videos := extractTrendingVideos(data, limit)
	if len(videos) == 0 {
		return nil, fmt.Errorf("no videos in trending feed")
	}
	return videos, nil
}

// extractTrendingVideos recursively walks the browse response for videoRenderer entries.
func extractTrendingVideos(data []byte, limit int) []engine.TrendingVideo {
	var results []engine.TrendingVideo
	seen := make(map[string]bool)
	var walk func(v json.RawMessage)
	walk = func(v json.RawMessage) {
		if len(results) >= limit {
			return
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(v, &obj); err == nil {
			if raw, ok := obj["videoRenderer"]; ok {
				var vr ytTrendingRenderer
				if err := json.Unmarshal(raw, &vr); err == nil && vr.VideoID != "" && !seen[vr.VideoID] {
					seen[vr.VideoID] = true
					results = append(results, engine.TrendingVideo{
						ID:      vr.VideoID,
						Title:   vr.Title.join(),
						Channel: vr.OwnerText.join(),
						Views:   vr.ViewCountText.SimpleText,
						URL:     "https://www.youtube.com/watch?v=" + vr.VideoID,
					})
					return
				}
			}
			for _, child := range obj {
				if len(results) >= limit {
					return
				}
				walk(child)
			}
			return
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(v, &arr); err == nil {
			for _, item := range arr {
				if len(results) >= limit {
					return
				}
				walk(item)
			}
		}
	}
	walk(data)
	return results
}
