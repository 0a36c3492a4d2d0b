package analysis

import (
	"sort"

	"github.com/wordlens/wordlens/internal/engine"
)

// WordCount is one derived ranking entry. Never persisted; recomputed in full
// on every policy or corpus change.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Rank aggregates token counts across items and returns the Top-N list,
// sorted by count descending. Ties keep first-seen scan order: the result is
// built in the order each word first survived the filter, then stable-sorted
// by count only, so equal counts never reorder. Deterministic for identical
// input and policy — no map iteration order involved.
//
// Empty items or topN <= 0 yield an empty list.
func Rank(items []engine.TextItem, p Policy, topN int) []WordCount {
	out := []WordCount{}
	if len(items) == 0 || topN <= 0 {
		return out
	}

	counts := make(map[string]int)
	var order []string // first-seen order of surviving tokens
	for _, item := range items {
		for _, tok := range Normalize(item.Text) {
			if !p.Keep(tok) {
				continue
			}
			if _, seen := counts[tok]; !seen {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}

	for _, w := range order {
		out = append(out, WordCount{Word: w, Count: counts[w]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	if len(out) > topN {
		out = out[:topN]
	}
	return out
}
