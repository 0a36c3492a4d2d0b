package engine

import (
	"context"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// FetchPageText extracts main text content from a URL.
// Primary: goquery content selection converted to markdown.
// Fallback: regex-based HTML stripping.
func FetchPageText(ctx context.Context, rawURL string) (title, content string, err error) {
	metrics.PageRequests.Add(1)
	defer func() {
		if err != nil {
			metrics.PageErrors.Add(1)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()

	resp, err := fetchWithRetry(ctx, rawURL, true)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	body, err := readResponseBody(resp)
	if err != nil {
		return "", "", err
	}

	title, content, err = extractWithGoquery(body)
	if err != nil || content == "" {
		return extractWithRegex(body), extractRegexContent(body), nil
	}
	if len(content) > cfg.MaxContentChars {
		content = content[:cfg.MaxContentChars] + "..."
	}
	return title, content, nil
}

// extractWithGoquery uses goquery for structured HTML parsing.
// The selected content block is converted through html-to-markdown so list
// and paragraph boundaries survive as line breaks.
func extractWithGoquery(body []byte) (title, content string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", "", err
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		doc.Find("meta[property=og:title]").Each(func(i int, s *goquery.Selection) {
			if title == "" {
				title, _ = s.Attr("content")
			}
		})
	}

	removeSelectors := []string{
		"script", "style", "noscript", "iframe", "svg",
		"header", "footer", "nav", "aside",
		".advertisement", ".ad", ".sidebar",
		"[role=navigation]", "[role=banner]", "[role=contentinfo]",
	}
	doc.Find(strings.Join(removeSelectors, ", ")).Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	contentSel := doc.Find("article, main, .content, .post-content, .article-content, #content").First()
	if contentSel.Length() == 0 {
		contentSel = doc.Find("body")
	}

	rawHTML, err := goquery.OuterHtml(contentSel)
	if err != nil {
		return title, strings.TrimSpace(contentSel.Text()), nil
	}
	md, err := htmltomarkdown.ConvertString(rawHTML)
	if err != nil {
		return title, strings.TrimSpace(contentSel.Text()), nil
	}
	return title, strings.TrimSpace(md), nil
}

var (
	pageTitleRe   = regexp.MustCompile(`(?i)<title[^>]*>([^<]+)</title>`)
	pageOgTitleRe = regexp.MustCompile(`(?i)<meta[^>]*property=["']og:title["'][^>]*content=["']([^"']+)["']`)
)

// extractWithRegex pulls the page title via regex when goquery fails.
func extractWithRegex(body []byte) string {
	html := string(body)
	if m := pageTitleRe.FindStringSubmatch(html); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	if m := pageOgTitleRe.FindStringSubmatch(html); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// extractRegexContent strips non-content blocks and all tags via regex.
func extractRegexContent(body []byte) string {
	html := string(body)
	for _, tag := range []string{"script", "style", "noscript", "header", "footer", "nav", "aside", "iframe"} {
		re := regexp.MustCompile(`(?is)<` + tag + `[^>]*>.*?</` + tag + `>`)
		html = re.ReplaceAllString(html, "")
	}
	content := CollapseWhitespace(htmlTagRe.ReplaceAllString(html, " "))
	if len(content) > cfg.MaxContentChars {
		content = content[:cfg.MaxContentChars] + "..."
	}
	return content
}
