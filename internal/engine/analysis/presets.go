package analysis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Presets is the optional YAML-configured default filter state. Operators
// ship per-language stopword lists so a fresh deployment does not rank "the"
// and "i" at the top of every chart.
type Presets struct {
	MinLength int                 `yaml:"min_length"`
	MaxLength int                 `yaml:"max_length"`
	Language  string              `yaml:"language"`
	TopN      int                 `yaml:"top_n"`
	Stopwords map[string][]string `yaml:"stopwords"` // keyed by language code, plus "common"
}

// LoadPresets reads and validates a presets YAML file.
func LoadPresets(path string) (Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Presets{}, fmt.Errorf("presets: read %s: %w", path, err)
	}
	var p Presets
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Presets{}, fmt.Errorf("presets: parse %s: %w", path, err)
	}
	if p.MinLength < 0 || p.MaxLength < p.MinLength {
		return Presets{}, fmt.Errorf("presets: %s: %w", path, ErrInvalidPolicy)
	}
	if !KnownLanguage(p.Language) {
		return Presets{}, fmt.Errorf("presets: %s: unknown language %q", path, p.Language)
	}
	return p, nil
}

// DefaultPresets mirrors DefaultPolicy for deployments without a presets file.
func DefaultPresets() Presets {
	return Presets{MinLength: 3, MaxLength: 30, Language: LangNone, TopN: 20}
}

// Policy builds the startup policy: common stopwords plus the lists for the
// configured language (all lists when no language filter is set).
func (p Presets) Policy() Policy {
	var words []string
	if p.Language == LangNone {
		for _, list := range p.Stopwords {
			words = append(words, list...)
		}
	} else {
		words = append(words, p.Stopwords["common"]...)
		words = append(words, p.Stopwords[p.Language]...)
	}
	return NewPolicy(words, p.MinLength, p.MaxLength, p.Language)
}
