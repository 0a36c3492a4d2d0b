package analysis

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetStore points the singleton at a throwaway HOME so each test gets a
// fresh database file.
func resetStore(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	storeOnce = sync.Once{}
	storeDB = nil
	storeErr = nil
}

func TestStopwordRoundTrip(t *testing.T) {
	resetStore(t)
	ctx := context.Background()

	words, err := LoadStopwords(ctx)
	require.NoError(t, err)
	assert.Empty(t, words)

	require.NoError(t, SaveStopword(ctx, "spam"))
	require.NoError(t, SaveStopword(ctx, "bots"))
	require.NoError(t, SaveStopword(ctx, "spam")) // idempotent

	words, err = LoadStopwords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bots", "spam"}, words)

	require.NoError(t, DeleteStopword(ctx, "spam"))
	words, err = LoadStopwords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bots"}, words)
}

func TestSettingsRoundTrip(t *testing.T) {
	resetStore(t)
	ctx := context.Background()

	_, _, ok, err := LoadSettings(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "fresh store must report no saved settings")

	require.NoError(t, SaveStopword(ctx, "noise"))
	require.NoError(t, SaveSettings(ctx, NewPolicy(nil, 4, 12, LangPolish), 25))

	p, topN, ok, err := LoadSettings(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, p.MinLen)
	assert.Equal(t, 12, p.MaxLen)
	assert.Equal(t, LangPolish, p.Language)
	assert.Equal(t, 25, topN)
	assert.True(t, p.HasStopword("noise"), "persisted stopwords load into the policy")

	// Upsert overwrites the single settings row.
	require.NoError(t, SaveSettings(ctx, NewPolicy(nil, 2, 8, LangNone), 10))
	p, topN, ok, err = LoadSettings(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, p.MinLen)
	assert.Equal(t, 10, topN)
}

func TestSaveSettingsRejectsInvalidPolicy(t *testing.T) {
	resetStore(t)
	err := SaveSettings(context.Background(), NewPolicy(nil, 9, 1, LangNone), 20)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}
