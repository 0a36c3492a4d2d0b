package analysis

import (
	"math"

	"github.com/wordlens/wordlens/internal/engine"
)

// ChartEvents is the contract a chart surface implements against the core.
// The core never sees a charting library's event shape — callers translate
// their pointer events into bar indexes and displacements.
type ChartEvents interface {
	OnBarSelected(index int)
	OnBarExcluded(index int)
}

// DefaultDragThreshold is the minimum on-screen pointer displacement, in
// pixels, that distinguishes a drag from a click.
const DefaultDragThreshold = 8.0

// IsDrag reports whether a pointer displacement counts as a drag.
// Below threshold the gesture is a selection click.
func IsDrag(dx, dy, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultDragThreshold
	}
	return math.Hypot(dx, dy) >= threshold
}

// Interactor translates bar-level gestures into session operations. A click
// on bar i resolves to the word at index i of the current ranking and returns
// its detail items; a drag of bar i onto the exclude target removes the word;
// a drag that ends anywhere else is a no-op and must not mutate the session.
type Interactor struct {
	Session   *Session
	Threshold float64
}

// GestureResult reports what a gesture did.
type GestureResult struct {
	Word            string            `json:"word,omitempty"`
	Selected        bool              `json:"selected,omitempty"`
	Excluded        bool              `json:"excluded,omitempty"`
	AlreadyExcluded bool              `json:"already_excluded,omitempty"`
	Detail          []engine.TextItem `json:"detail,omitempty"`
}

// wordAt resolves a bar index into the ranked word, or "" when out of range.
func (in *Interactor) wordAt(index int) string {
	ranked := in.Session.Ranked()
	if index < 0 || index >= len(ranked) {
		return ""
	}
	return ranked[index].Word
}

// BarGesture handles a completed pointer gesture on bar index. dx/dy is the
// total pointer displacement; onExcludeTarget says whether the pointer was
// released over the designated exclude area.
func (in *Interactor) BarGesture(index int, dx, dy float64, onExcludeTarget bool) GestureResult {
	word := in.wordAt(index)
	if word == "" {
		return GestureResult{}
	}

	if !IsDrag(dx, dy, in.Threshold) {
		// Selection click: never mutates session state.
		return GestureResult{
			Word:     word,
			Selected: true,
			Detail:   in.Session.Detail(word, ""),
		}
	}

	if !onExcludeTarget {
		// Drag released elsewhere: explicit no-op.
		return GestureResult{Word: word}
	}

	switch err := in.Session.RemoveWord(word); err {
	case nil:
		return GestureResult{Word: word, Excluded: true}
	case ErrAlreadyExcluded:
		return GestureResult{Word: word, AlreadyExcluded: true}
	default:
		return GestureResult{Word: word}
	}
}

// OnBarSelected implements ChartEvents for callers that only need the
// index-to-word resolution.
func (in *Interactor) OnBarSelected(index int) {
	if word := in.wordAt(index); word != "" {
		in.Session.Detail(word, "")
	}
}

// OnBarExcluded implements ChartEvents.
func (in *Interactor) OnBarExcluded(index int) {
	if word := in.wordAt(index); word != "" {
		_ = in.Session.RemoveWord(word)
	}
}
