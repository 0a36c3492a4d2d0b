package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/wordlens/wordlens/internal/engine"
)

// Comment fetching walks the Innertube /next continuation chain:
//  1. POST /next with the video ID → comments section continuation token
//  2. POST /next with each token → commentEntityPayload batch + next token
// Stops at MaxComments or when YouTube stops handing out tokens.

// commentsTokenRE finds the comments section entry token in the initial /next response.
var commentsTokenRE = regexp.MustCompile(`"sectionIdentifier":"comment-item-section".{0,1000}?.{0,1000}?"continuationCommand":\{"token":"([^"]+)"`)

// continuationTokenRE finds the next-page token inside a comments continuation response.
var continuationTokenRE = regexp.MustCompile(`"continuationCommand":\{"token":"([^"]+)","request":"CONTINUATION_REQUEST_TYPE_WATCH_NEXT"`)

// ytCommentsBatch is the framework-updates shape carrying comment payloads.
type ytCommentsBatch struct {
	FrameworkUpdates struct {
		EntityBatchUpdate struct {
			Mutations []struct {
				Payload struct {
					CommentEntityPayload *struct {
						Properties struct {
							Content struct {
								Content string `json:"content"`
							} `json:"content"`
							PublishedTime string `json:"publishedTime"`
						} `json:"properties"`
						Author struct {
							DisplayName string `json:"displayName"`
						} `json:"author"`
					} `json:"commentEntityPayload"`
				} `json:"payload"`
			} `json:"mutations"`
		} `json:"entityBatchUpdate"`
	} `json:"frameworkUpdates"`
}

func parseCommentsBatch(data []byte) []engine.TextItem {
	var batch ytCommentsBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil
	}
	var items []engine.TextItem
	for _, mut := range batch.FrameworkUpdates.EntityBatchUpdate.Mutations {
		p := mut.Payload.CommentEntityPayload
		if p == nil {
			continue
		}
		text := strings.TrimSpace(p.Properties.Content.Content)
		if text == "" {
			continue
		}
		items = append(items, engine.TextItem{Text: text})
	}
	return items
}

func extractCommentsToken(data []byte) (string, bool) {
	if m := commentsTokenRE.FindSubmatch(data); len(m) >= 2 {
		return string(m[1]), true
	}
	return "", false
}

func extractContinuationToken(data []byte) (string, bool) {
	if m := continuationTokenRE.FindSubmatch(data); len(m) >= 2 {
		return string(m[1]), true
	}
	return "", false
}

// FetchComments fetches up to max top-level comments for a video. max <= 0
// falls back to the configured default. Results are cached by video+max.
func FetchComments(ctx context.Context, videoID string, max int) ([]engine.TextItem, error) {
	engine.IncrCommentRequests()
	if max <= 0 {
		max = engine.Cfg.MaxComments
	}

	cacheKey := engine.CacheKey("comments", videoID, fmt.Sprint(max))
	if items, ok := engine.CacheLoadJSON[[]engine.TextItem](ctx, cacheKey); ok {
		return items, nil
	}

	visitorData := generateVisitorData()

	initial, err := postInnerTubeWEB(ctx, ytNextURL, map[string]any{
		"videoId": videoID,
		"context": ytWebContext(visitorData),
	}, visitorData)
	if err != nil {
		return nil, fmt.Errorf("comments /next: %w", err)
	}

	token, ok := extractCommentsToken(initial)
	if !ok {
		return nil, errors.New("comments section not found (comments may be disabled)")
	}

	var items []engine.TextItem
	for page := 0; token != "" && len(items) < max; page++ {
		data, err := postInnerTubeWEB(ctx, ytNextURL, map[string]any{
			"continuation": token,
			"context":      ytWebContext(visitorData),
		}, visitorData)
		if err != nil {
			if len(items) > 0 {
				slog.Warn("youtube: comments page failed, returning partial",
					slog.String("id", videoID), slog.Int("page", page), slog.Any("err", err))
				break
			}
			return nil, fmt.Errorf("comments continuation: %w", err)
		}

		batch := parseCommentsBatch(data)
		if len(batch) == 0 {
			break
		}
		items = append(items, batch...)

		token, _ = extractContinuationToken(data)
	}

	if len(items) > max {
		items = items[:max]
	}
	if len(items) == 0 {
		return nil, errors.New("no comments extracted")
	}

	engine.CacheStoreJSON(ctx, cacheKey, items)
	return items, nil
}
