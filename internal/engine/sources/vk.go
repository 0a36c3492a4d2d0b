package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/wordlens/wordlens/internal/engine"
)

// VK comment fetching via the official API (video.getComments). Requires a
// service token; without one the source reports itself disabled.

const (
	vkAPIBase    = "https://api.vk.com/method"
	vkAPIVersion = "5.199"
	vkPageSize   = 100
)

// vkVideoRE matches vk.com/video-123456_789 style references.
var vkVideoRE = regexp.MustCompile(`video(-?\d+)_(\d+)`)

// VKEnabled reports whether a service token is configured.
func VKEnabled() bool {
	return engine.Cfg.VKServiceToken != ""
}

// ParseVKVideoRef extracts owner and video IDs from a VK video URL or a bare
// "video{owner}_{id}" reference.
func ParseVKVideoRef(raw string) (ownerID int64, videoID int64, err error) {
	m := vkVideoRE.FindStringSubmatch(raw)
	if len(m) < 3 {
		return 0, 0, fmt.Errorf("not a VK video reference: %q", raw)
	}
	ownerID, err = strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	videoID, err = strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return ownerID, videoID, nil
}

type vkCommentsResp struct {
	Response *struct {
		Count int `json:"count"`
		Items []struct {
			Date int64  `json:"date"`
			Text string `json:"text"`
		} `json:"items"`
	} `json:"response"`
	Error *struct {
		Code    int    `json:"error_code"`
		Message string `json:"error_msg"`
	} `json:"error"`
}

func vkCall(ctx context.Context, method string, params url.Values) ([]byte, error) {
	params.Set("access_token", engine.Cfg.VKServiceToken)
	params.Set("v", vkAPIVersion)

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			vkAPIBase+"/"+method, strings.NewReader(params.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("vk %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("vk %s: read body: %w", method, err)
	}
	return body, nil
}

// FetchVKComments fetches up to max comments for a VK video, paging through
// the API. max <= 0 falls back to the configured default.
func FetchVKComments(ctx context.Context, ownerID, videoID int64, max int) ([]engine.TextItem, error) {
	engine.IncrVKRequests()
	if !VKEnabled() {
		return nil, errors.New("VK source disabled: no service token configured")
	}
	if max <= 0 {
		max = engine.Cfg.MaxComments
	}

	cacheKey := engine.CacheKey("vk-comments",
		strconv.FormatInt(ownerID, 10), strconv.FormatInt(videoID, 10), strconv.Itoa(max))
	if items, ok := engine.CacheLoadJSON[[]engine.TextItem](ctx, cacheKey); ok {
		return items, nil
	}

	var items []engine.TextItem
	for offset := 0; len(items) < max; offset += vkPageSize {
		params := url.Values{}
		params.Set("owner_id", strconv.FormatInt(ownerID, 10))
		params.Set("video_id", strconv.FormatInt(videoID, 10))
		params.Set("count", strconv.Itoa(vkPageSize))
		params.Set("offset", strconv.Itoa(offset))

		body, err := vkCall(ctx, "video.getComments", params)
		if err != nil {
			if len(items) > 0 {
				break
			}
			return nil, err
		}

		var page vkCommentsResp
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("vk: decode comments: %w", err)
		}
		if page.Error != nil {
			return nil, fmt.Errorf("vk API error %d: %s", page.Error.Code, page.Error.Message)
		}
		if page.Response == nil || len(page.Response.Items) == 0 {
			break
		}

		for _, c := range page.Response.Items {
			text := strings.TrimSpace(c.Text)
			if text == "" {
				continue
			}
			items = append(items, engine.TextItem{Text: text, Timestamp: c.Date})
		}
		if offset+vkPageSize >= page.Response.Count {
			break
		}
	}

	if len(items) > max {
		items = items[:max]
	}
	if len(items) == 0 {
		return nil, errors.New("no VK comments extracted")
	}

	engine.CacheStoreJSON(ctx, cacheKey, items)
	return items, nil
}
