package analysis

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"
)

// Sentinel errors surfaced by session operations.
var (
	// ErrInvalidPolicy reports length bounds that violate MinLen <= MaxLen.
	// The session's prior policy and ranking stay untouched.
	ErrInvalidPolicy = errors.New("invalid filter policy: min length exceeds max length")

	// ErrAlreadyExcluded reports a RemoveWord on a word that is already a
	// stopword. Informational, not a failure; no state changes.
	ErrAlreadyExcluded = errors.New("word already excluded")
)

// Language filter codes. Exactly one may be active; "" disables the stage.
const (
	LangNone    = ""
	LangEnglish = "en"
	LangPolish  = "pl"
	LangRussian = "ru"
)

// Declared alphabets per language filter. A token passes only when every rune
// is in the active alphabet.
var alphabets = map[string]map[rune]bool{
	LangEnglish: runeSet("abcdefghijklmnopqrstuvwxyz"),
	LangPolish:  runeSet("abcdefghijklmnopqrstuvwxyz" + "ąćęłńóśźż"),
	LangRussian: runeSet("абвгдеёжзийклмнопрстуфхцчшщъыьэюя"),
}

func runeSet(s string) map[rune]bool {
	m := make(map[rune]bool, len(s))
	for _, r := range s {
		m[r] = true
	}
	return m
}

// KnownLanguage reports whether code names a supported language filter.
func KnownLanguage(code string) bool {
	if code == LangNone {
		return true
	}
	_, ok := alphabets[code]
	return ok
}

// Policy is the active set of filter rules applied before counting tokens.
// Stopword entries are always lowercase and trimmed; NewPolicy and AddStopword
// enforce that on the way in.
type Policy struct {
	Stopwords map[string]struct{}
	MinLen    int
	MaxLen    int
	Language  string
}

// NewPolicy builds a Policy from raw inputs, normalizing stopwords.
func NewPolicy(stopwords []string, minLen, maxLen int, language string) Policy {
	p := Policy{
		Stopwords: make(map[string]struct{}, len(stopwords)),
		MinLen:    minLen,
		MaxLen:    maxLen,
		Language:  language,
	}
	for _, w := range stopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			p.Stopwords[w] = struct{}{}
		}
	}
	return p
}

// DefaultPolicy is the policy a fresh session starts with.
func DefaultPolicy() Policy {
	return NewPolicy(nil, 3, 30, LangNone)
}

// Validate checks the policy invariants.
func (p Policy) Validate() error {
	if p.MinLen < 0 || p.MaxLen < 0 || p.MinLen > p.MaxLen {
		return ErrInvalidPolicy
	}
	if !KnownLanguage(p.Language) {
		return ErrInvalidPolicy
	}
	return nil
}

// Keep reports whether an already-normalized token survives the policy.
func (p Policy) Keep(token string) bool {
	if token == "" {
		return false
	}
	if _, banned := p.Stopwords[token]; banned {
		return false
	}
	n := utf8.RuneCountInString(token)
	if n < p.MinLen || n > p.MaxLen {
		return false
	}
	if p.Language != LangNone {
		alphabet := alphabets[p.Language]
		for _, r := range token {
			if !alphabet[r] {
				return false
			}
		}
	}
	return true
}

// HasStopword reports whether word (lowercased) is already excluded.
func (p Policy) HasStopword(word string) bool {
	_, ok := p.Stopwords[strings.ToLower(strings.TrimSpace(word))]
	return ok
}

// Clone returns a deep copy so session mutations never alias caller state.
func (p Policy) Clone() Policy {
	c := p
	c.Stopwords = make(map[string]struct{}, len(p.Stopwords))
	for w := range p.Stopwords {
		c.Stopwords[w] = struct{}{}
	}
	return c
}

// StopwordList returns the stopwords in sorted order, for display and export.
func (p Policy) StopwordList() []string {
	out := make([]string, 0, len(p.Stopwords))
	for w := range p.Stopwords {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
