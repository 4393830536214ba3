package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typetest/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "typetest.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestAppendSummariesRoundtrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 9, 30, 0, 123456000, time.UTC)
	want := []model.Summary{
		{Timestamp: base, WPM: 52, Accuracy: 97.5, Mistakes: 3},
		{Timestamp: base.Add(time.Hour), WPM: 61, Accuracy: 93.21, Mistakes: 7},
	}
	for _, s := range want {
		require.NoError(t, st.Append(ctx, s, nil))
	}

	got, err := st.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range want {
		assert.True(t, want[i].Timestamp.Equal(got[i].Timestamp))
		assert.Equal(t, want[i].WPM, got[i].WPM)
		assert.Equal(t, want[i].Accuracy, got[i].Accuracy)
		assert.Equal(t, want[i].Mistakes, got[i].Mistakes)
	}
}

func TestCharAggregates(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		sum := model.Summary{Timestamp: time.Unix(int64(i), 0).UTC(), WPM: 40 + i, Accuracy: 90, Mistakes: 1}
		chars := []model.CharStats{
			{Char: "a", Correct: 5, Incorrect: 0, LatencySumMs: 500, LatencyCount: 5},
			{Char: "b", Correct: 4, Incorrect: 1, LatencySumMs: 800, LatencyCount: 4},
		}
		require.NoError(t, st.Append(ctx, sum, chars))
	}

	all, err := st.ListCharAggregates(ctx)
	require.NoError(t, err)
	byChar := map[string]model.CharAggregate{}
	for _, agg := range all {
		byChar[agg.Char] = agg
	}
	assert.Equal(t, model.CharAggregate{Char: "b", Correct: 12, Incorrect: 3, LatencySumMs: 2400, LatencyCount: 12}, byChar["b"])

	recent, err := st.GetWeakChars(ctx, 2)
	require.NoError(t, err)
	for _, agg := range recent {
		if agg.Char == "a" {
			assert.Equal(t, 10, agg.Correct)
		}
	}

	none, err := st.GetWeakChars(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestOpenRejectsNonDatabaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typetest.db")
	junk := strings.Repeat("not a database\n", 300)
	require.NoError(t, os.WriteFile(path, []byte(junk), 0o644))

	_, err := Open(path)
	require.ErrorIs(t, err, ErrNotDatabase)
}
