package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"plain", "the cat sat", []string{"the", "cat", "sat"}},
		{"uppercase folded", "The CAT Sat", []string{"the", "cat", "sat"}},
		{"digits stripped", "top10 videos 2024", []string{"top", "videos"}},
		{"punctuation stripped", "wow!!! really, really?", []string{"wow", "really", "really"}},
		{"emoji stripped", "nice 🔥🔥 video", []string{"nice", "video"}},
		{"whitespace runs", "a\t b\n\nc", []string{"a", "b", "c"}},
		{"only symbols", "123 !!! ---", nil},
		{"cyrillic kept", "Привет МИР", []string{"привет", "мир"}},
		{"polish diacritics kept", "Żółć gęślą", []string{"żółć", "gęślą"}},
		{"apostrophe splits nothing kept inside", "don't", []string{"dont"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeNoDedup(t *testing.T) {
	got := Normalize("go go go")
	assert.Equal(t, []string{"go", "go", "go"}, got)
}

func TestNormalizeJoined(t *testing.T) {
	assert.Equal(t, "the cat sat", NormalizeJoined("The CAT... sat!"))
	assert.Equal(t, "", NormalizeJoined("12345"))
}
