package analysis

import (
	"strings"

	"github.com/RadhiFadlillah/whatlanggo"
	"github.com/wordlens/wordlens/internal/engine"
)

// langSampleChars caps how much corpus text goes into detection. Detection
// quality flattens out well before this; no point scanning megabytes.
const langSampleChars = 4000

// SuggestLanguage detects the dominant language of the loaded items and maps
// it onto a supported filter code. Returns LangNone when detection is
// inconclusive or the language has no filter here. Advisory only — the
// suggestion is never applied to a policy without an explicit settings save.
func SuggestLanguage(items []engine.TextItem) string {
	var sb strings.Builder
	for _, item := range items {
		if sb.Len() >= langSampleChars {
			break
		}
		sb.WriteString(item.Text)
		sb.WriteByte(' ')
	}
	sample := sb.String()
	if strings.TrimSpace(sample) == "" {
		return LangNone
	}

	info := whatlanggo.Detect(sample)
	if !info.IsReliable() {
		return LangNone
	}
	switch info.Lang {
	case whatlanggo.Eng:
		return LangEnglish
	case whatlanggo.Pol:
		return LangPolish
	case whatlanggo.Rus:
		return LangRussian
	}
	return LangNone
}
