package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const presetsYAML = `min_length: 3
max_length: 25
language: en
top_n: 15
stopwords:
  common:
    - lol
    - omg
  en:
    - the
    - and
  ru:
    - это
`

func writePresets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadPresets(t *testing.T) {
	p, err := LoadPresets(writePresets(t, presetsYAML))
	require.NoError(t, err)

	assert.Equal(t, 3, p.MinLength)
	assert.Equal(t, 25, p.MaxLength)
	assert.Equal(t, LangEnglish, p.Language)
	assert.Equal(t, 15, p.TopN)
	assert.Len(t, p.Stopwords, 3)
}

func TestLoadPresetsErrors(t *testing.T) {
	_, err := LoadPresets(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadPresets(writePresets(t, "min_length: [broken"))
	assert.Error(t, err)

	_, err = LoadPresets(writePresets(t, "min_length: 9\nmax_length: 2"))
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = LoadPresets(writePresets(t, "language: de"))
	assert.Error(t, err)
}

func TestPresetsPolicyLanguageScoped(t *testing.T) {
	p, err := LoadPresets(writePresets(t, presetsYAML))
	require.NoError(t, err)

	policy := p.Policy()
	assert.True(t, policy.HasStopword("lol"), "common list applies")
	assert.True(t, policy.HasStopword("the"), "language list applies")
	assert.False(t, policy.HasStopword("это"), "other-language list excluded")
	assert.Equal(t, LangEnglish, policy.Language)
}

func TestPresetsPolicyNoLanguageTakesAll(t *testing.T) {
	p, err := LoadPresets(writePresets(t, presetsYAML))
	require.NoError(t, err)
	p.Language = LangNone

	policy := p.Policy()
	assert.True(t, policy.HasStopword("lol"))
	assert.True(t, policy.HasStopword("the"))
	assert.True(t, policy.HasStopword("это"))
}

func TestDefaultPresets(t *testing.T) {
	p := DefaultPresets()
	require.NoError(t, p.Policy().Validate())
	assert.Equal(t, 20, p.TopN)
}
