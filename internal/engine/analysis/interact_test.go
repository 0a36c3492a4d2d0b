package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDrag(t *testing.T) {
	tests := []struct {
		name      string
		dx, dy    float64
		threshold float64
		want      bool
	}{
		{"still pointer", 0, 0, 8, false},
		{"below threshold", 3, 3, 8, false},
		{"exactly threshold", 8, 0, 8, true},
		{"diagonal below", 5, 5, 8, false}, // hypot ~7.07
		{"diagonal above", 6, 6, 8, true},  // hypot ~8.49
		{"negative displacement", -10, 0, 8, true},
		{"zero threshold uses default", 7.9, 0, 0, false},
		{"default threshold exceeded", 8.1, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDrag(tt.dx, tt.dy, tt.threshold))
		})
	}
}

func loadedInteractor() (*Interactor, *Session) {
	s := newTestSession()
	s.LoadComments(items("the cat sat", "the cat ran"))
	return &Interactor{Session: s, Threshold: DefaultDragThreshold}, s
}

func TestBarGestureClickSelects(t *testing.T) {
	in, s := loadedInteractor()
	before := s.Ranked()

	res := in.BarGesture(1, 2, 2, false)
	assert.Equal(t, "cat", res.Word)
	assert.True(t, res.Selected)
	assert.Len(t, res.Detail, 2)
	assert.False(t, res.Excluded)

	// Selection never mutates.
	assert.Equal(t, before, s.Ranked())
}

func TestBarGestureDragToExcludeTarget(t *testing.T) {
	in, s := loadedInteractor()

	res := in.BarGesture(0, 20, 5, true)
	assert.Equal(t, "the", res.Word)
	assert.True(t, res.Excluded)

	for _, wc := range s.Ranked() {
		assert.NotEqual(t, "the", wc.Word)
	}
}

func TestBarGestureDragElsewhereIsNoOp(t *testing.T) {
	in, s := loadedInteractor()
	before := s.Ranked()

	res := in.BarGesture(0, 50, 50, false)
	assert.Equal(t, "the", res.Word)
	assert.False(t, res.Excluded)
	assert.False(t, res.Selected)
	assert.Equal(t, before, s.Ranked())
}

func TestBarGestureAlreadyExcluded(t *testing.T) {
	in, s := loadedInteractor()

	// A concurrent exclusion can make the chart's bar index stale: the word
	// is still on screen but already in the stopword set. Simulate by adding
	// the stopword without recomputing.
	s.policy.Stopwords["the"] = struct{}{}
	require.Equal(t, "the", s.Ranked()[0].Word, "ranking must still be stale")

	res := in.BarGesture(0, 20, 0, true)
	assert.Equal(t, "the", res.Word)
	assert.True(t, res.AlreadyExcluded)
	assert.False(t, res.Excluded)
}

func TestBarGestureOutOfRangeIndex(t *testing.T) {
	in, s := loadedInteractor()
	before := s.Ranked()

	assert.Equal(t, GestureResult{}, in.BarGesture(99, 0, 0, false))
	assert.Equal(t, GestureResult{}, in.BarGesture(-1, 0, 0, false))
	assert.Equal(t, before, s.Ranked())
}

func TestBarGestureEmptySession(t *testing.T) {
	s := newTestSession()
	in := &Interactor{Session: s}
	assert.Equal(t, GestureResult{}, in.BarGesture(0, 0, 0, false))
}

func TestChartEventsCallbacks(t *testing.T) {
	in, s := loadedInteractor()

	var _ ChartEvents = in // Interactor satisfies the chart contract

	in.OnBarExcluded(0) // "the"
	for _, wc := range s.Ranked() {
		assert.NotEqual(t, "the", wc.Word)
	}

	in.OnBarSelected(0) // must not mutate
	before := s.Ranked()
	in.OnBarSelected(0)
	assert.Equal(t, before, s.Ranked())
}
