package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wordlens/wordlens/internal/engine"
)

// Arbitrary web page as a corpus: extract readable text, split into
// paragraphs, one TextItem per paragraph.

// FetchPage extracts the readable text of a web page as a comments-kind
// corpus. Paragraph index doubles as the item timestamp so the detail view
// can show document order.
func FetchPage(ctx context.Context, pageURL string) (engine.Corpus, error) {
	cacheKey := engine.CacheKey("page", pageURL)
	if c, ok := engine.CacheLoadJSON[engine.Corpus](ctx, cacheKey); ok {
		return c, nil
	}

	title, content, err := engine.FetchPageText(ctx, pageURL)
	if err != nil {
		return engine.Corpus{}, fmt.Errorf("fetch page: %w", err)
	}

	var items []engine.TextItem
	for i, para := range strings.Split(content, "\n\n") {
		para = engine.CollapseWhitespace(para)
		if para == "" {
			continue
		}
		items = append(items, engine.TextItem{Text: para, Timestamp: int64(i)})
	}
	if len(items) == 0 {
		return engine.Corpus{}, errors.New("no text extracted from page")
	}

	c := engine.Corpus{
		Kind: engine.CorpusComments,
		Video: engine.VideoMeta{
			Title: title,
			URL:   pageURL,
		},
		Items: items,
	}
	engine.CacheStoreJSON(ctx, cacheKey, c)
	return c, nil
}
