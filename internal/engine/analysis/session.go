package analysis

import (
	"strconv"
	"strings"

	"github.com/wordlens/wordlens/internal/engine"
)

// Session owns the currently loaded corpora and the active filter policy, and
// recomputes the ranked list whenever either changes. It is deliberately
// decoupled from any rendering surface: the dashboard reads Ranked()/Detail()
// and writes through the mutating operations.
//
// A session is owned by one caller at a time; dashserver gives every user an
// independent instance and serializes access per session. Recompute cost is
// O(total tokens across loaded corpora) and runs synchronously on every
// mutating call — corpora here are a few thousand comments, not gigabytes.
type Session struct {
	comments  []engine.TextItem
	subtitles []engine.TextItem
	policy    Policy
	topN      int
	ranked    []WordCount
}

// NewSession creates an empty session. Ranked and Detail on an empty session
// return empty results, not errors.
func NewSession(policy Policy, topN int) *Session {
	if topN <= 0 {
		topN = 20
	}
	return &Session{
		policy: policy.Clone(),
		topN:   topN,
		ranked: []WordCount{},
	}
}

// LoadComments replaces the comment corpus wholesale and recomputes over the
// combined corpus. A previously loaded subtitle corpus is kept.
func (s *Session) LoadComments(items []engine.TextItem) {
	s.comments = items
	s.recompute()
}

// LoadSubtitles replaces the subtitle corpus wholesale and recomputes over the
// combined corpus. A previously loaded comment corpus is kept.
func (s *Session) LoadSubtitles(items []engine.TextItem) {
	s.subtitles = items
	s.recompute()
}

// UpdatePolicy validates and replaces the active policy, then recomputes.
// On ErrInvalidPolicy the prior policy AND the prior ranking stay unchanged.
func (s *Session) UpdatePolicy(p Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.policy = p.Clone()
	s.recompute()
	return nil
}

// RemoveWord appends word to the stopword set and recomputes. Idempotent: a
// word that is already excluded yields ErrAlreadyExcluded with no state change
// and no recompute.
func (s *Session) RemoveWord(word string) error {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return nil
	}
	if s.policy.HasStopword(w) {
		return ErrAlreadyExcluded
	}
	s.policy.Stopwords[w] = struct{}{}
	s.recompute()
	return nil
}

// Policy returns a copy of the active policy.
func (s *Session) Policy() Policy {
	return s.policy.Clone()
}

// TopN returns the configured ranking length.
func (s *Session) TopN() int { return s.topN }

// SetTopN changes the ranking length and recomputes.
func (s *Session) SetTopN(n int) {
	if n <= 0 {
		return
	}
	s.topN = n
	s.recompute()
}

// Ranked is a pure accessor for the last recomputation.
func (s *Session) Ranked() []WordCount {
	return s.ranked
}

// Pairs returns the ranking as a stable {word,count} sequence for tabular
// export. Same order as Ranked; the CSV collaborator does the formatting.
func (s *Session) Pairs() [][2]string {
	out := make([][2]string, 0, len(s.ranked))
	for _, wc := range s.ranked {
		out = append(out, [2]string{wc.Word, strconv.Itoa(wc.Count)})
	}
	return out
}

// Loaded reports whether at least one corpus is loaded.
func (s *Session) Loaded() bool {
	return len(s.comments) > 0 || len(s.subtitles) > 0
}

// Items returns the combined corpus, comments first.
func (s *Session) Items() []engine.TextItem {
	combined := make([]engine.TextItem, 0, len(s.comments)+len(s.subtitles))
	combined = append(combined, s.comments...)
	combined = append(combined, s.subtitles...)
	return combined
}

// Detail returns every loaded TextItem whose normalized text contains word as
// a substring (case-insensitive), further narrowed to items whose raw text
// contains search when search is non-empty.
func (s *Session) Detail(word, search string) []engine.TextItem {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return []engine.TextItem{}
	}
	q := strings.ToLower(search)

	out := []engine.TextItem{}
	for _, item := range s.Items() {
		if !strings.Contains(NormalizeJoined(item.Text), w) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(item.Text), q) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (s *Session) recompute() {
	engine.IncrAnalyzeOps()
	s.ranked = Rank(s.Items(), s.policy, s.topN)
}
