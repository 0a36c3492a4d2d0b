package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/wordlens/wordlens/internal/engine"
)

// Video metadata via the public oEmbed endpoint. No API key, no Innertube
// quirks, so it also serves as a cheap existence check before heavier fetches.

const ytOEmbedURL = "https://www.youtube.com/oembed"

type ytOEmbedResp struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// FetchVideoMeta resolves title and channel for a video ID.
func FetchVideoMeta(ctx context.Context, videoID string) (engine.VideoMeta, error) {
	watchURL := "https://www.youtube.com/watch?v=" + videoID

	cacheKey := engine.CacheKey("meta", videoID)
	if meta, ok := engine.CacheLoadJSON[engine.VideoMeta](ctx, cacheKey); ok {
		return meta, nil
	}

	params := url.Values{}
	params.Set("url", watchURL)
	params.Set("format", "json")

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ytOEmbedURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return engine.VideoMeta{}, fmt.Errorf("oembed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return engine.VideoMeta{}, fmt.Errorf("oembed %d: %s", resp.StatusCode, body)
	}

	var oe ytOEmbedResp
	if err := json.NewDecoder(resp.Body).Decode(&oe); err != nil {
		return engine.VideoMeta{}, fmt.Errorf("decode oembed: %w", err)
	}

	meta := engine.VideoMeta{
		ID:      videoID,
		Title:   oe.Title,
		Channel: oe.AuthorName,
		URL:     watchURL,
	}
	engine.CacheStoreJSON(ctx, cacheKey, meta)
	return meta, nil
}
