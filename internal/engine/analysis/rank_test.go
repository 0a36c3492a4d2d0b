package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wordlens/wordlens/internal/engine"
)

func items(texts ...string) []engine.TextItem {
	out := make([]engine.TextItem, len(texts))
	for i, t := range texts {
		out[i] = engine.TextItem{Text: t}
	}
	return out
}

func openPolicy() Policy {
	return NewPolicy(nil, 1, 30, LangNone)
}

func TestRankCountsAndTieOrder(t *testing.T) {
	got := Rank(items("the cat sat", "the cat ran"), openPolicy(), 10)

	// Ties resolve in first-seen scan order.
	assert.Equal(t, []WordCount{
		{Word: "the", Count: 2},
		{Word: "cat", Count: 2},
		{Word: "sat", Count: 1},
		{Word: "ran", Count: 1},
	}, got)
}

func TestRankDeterministic(t *testing.T) {
	in := items("b a c", "c b a", "a a b")
	first := Rank(in, openPolicy(), 10)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Rank(in, openPolicy(), 10))
	}
}

func TestRankTopNTruncation(t *testing.T) {
	in := items("a a a b b c")
	got := Rank(in, openPolicy(), 2)
	assert.Equal(t, []WordCount{{Word: "a", Count: 3}, {Word: "b", Count: 2}}, got)
}

func TestRankEmptyInputs(t *testing.T) {
	assert.Empty(t, Rank(nil, openPolicy(), 10))
	assert.Empty(t, Rank(items(), openPolicy(), 10))
	assert.Empty(t, Rank(items("a b c"), openPolicy(), 0))
	assert.Empty(t, Rank(items("a b c"), openPolicy(), -1))
	assert.Empty(t, Rank(items("123 !!!"), openPolicy(), 10))
}

func TestRankAppliesPolicy(t *testing.T) {
	p := NewPolicy([]string{"the"}, 3, 30, LangNone)
	got := Rank(items("the cat is on the mat"), p, 10)
	assert.Equal(t, []WordCount{{Word: "cat", Count: 1}, {Word: "mat", Count: 1}}, got)
}

func TestRankCountsRepeatsWithinOneItem(t *testing.T) {
	got := Rank(items("go go go"), openPolicy(), 10)
	assert.Equal(t, []WordCount{{Word: "go", Count: 3}}, got)
}
