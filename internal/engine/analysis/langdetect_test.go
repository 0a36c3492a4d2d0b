package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wordlens/wordlens/internal/engine"
)

func TestSuggestLanguage(t *testing.T) {
	english := []engine.TextItem{
		{Text: "This is a really great video, I watched the whole thing twice."},
		{Text: "The explanation in the middle section was the best part for me."},
		{Text: "Thanks for putting this together, looking forward to the next one."},
	}
	assert.Equal(t, LangEnglish, SuggestLanguage(english))

	russian := []engine.TextItem{
		{Text: "Очень интересное видео, посмотрел полностью и узнал много нового."},
		{Text: "Спасибо автору за подробное объяснение, жду следующий выпуск."},
	}
	assert.Equal(t, LangRussian, SuggestLanguage(russian))
}

func TestSuggestLanguageInconclusive(t *testing.T) {
	assert.Equal(t, LangNone, SuggestLanguage(nil))
	assert.Equal(t, LangNone, SuggestLanguage([]engine.TextItem{{Text: "   "}}))
}
