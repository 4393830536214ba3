package history

import (
	"bytes"
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

func TestProgressEmpty(t *testing.T) {
	_, ok := Progress(nil)
	assert.False(t, ok)

	st := NewFile(filepath.Join(t.TempDir(), "history.json"), nil)
	p, err := ProgressStats(context.Background(), st)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProgressAfterOneAppend(t *testing.T) {
	ctx := context.Background()
	st := NewFile(filepath.Join(t.TempDir(), "history.json"), nil)

	ts := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	require.NoError(t, st.Append(ctx, model.Summary{Timestamp: ts, WPM: 60, Accuracy: 95.0, Mistakes: 2}, nil))

	p, err := ProgressStats(ctx, st)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, model.Progress{Total: 1, BestWPM: 60, AvgWPM: 60.0, AvgAccuracy: 95.0}, *p)
}

func TestProgressAggregates(t *testing.T) {
	p, ok := Progress([]model.Summary{
		{WPM: 40, Accuracy: 90.55},
		{WPM: 71, Accuracy: 99.0},
		{WPM: 55, Accuracy: 95.1},
	})
	require.True(t, ok)
	assert.Equal(t, 3, p.Total)
	assert.Equal(t, 71, p.BestWPM)
	assert.Equal(t, 55.3, p.AvgWPM)
	assert.Equal(t, 94.9, p.AvgAccuracy)
}

func TestFileRoundtripKeepsOrder(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "history.json")
	st := NewFile(path, nil)

	base := time.Date(2026, 10, 1, 8, 0, 0, 250000000, time.UTC)
	want := []model.Summary{
		{Timestamp: base, WPM: 45, Accuracy: 91.67, Mistakes: 4},
		{Timestamp: base.Add(90 * time.Second), WPM: 38, Accuracy: 100, Mistakes: 0},
		{Timestamp: base.Add(time.Hour + 1500*time.Microsecond), WPM: 62, Accuracy: 96.43, Mistakes: 1},
	}
	for _, s := range want {
		require.NoError(t, st.Append(ctx, s, []model.CharStats{{Char: "a", Correct: 1}}))
	}

	got, err := NewFile(path, nil).Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Timestamp.Equal(got[i].Timestamp), "timestamp %d: %v != %v", i, want[i].Timestamp, got[i].Timestamp)
		assert.Equal(t, want[i].WPM, got[i].WPM)
		assert.Equal(t, want[i].Accuracy, got[i].Accuracy)
		assert.Equal(t, want[i].Mistakes, got[i].Mistakes)
	}
}

func TestFileRecordFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	st := NewFile(path, nil)
	ts := time.Unix(1700000000, 500000000).UTC()
	require.NoError(t, st.Append(context.Background(), model.Summary{Timestamp: ts, WPM: 50, Accuracy: 98.25, Mistakes: 1}, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"timestamp": 1700000000.5, "wpm": 50, "accuracy": 98.25, "mistakes": 1}]`, string(data))
}

func TestFileCorruptIsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var warn bytes.Buffer
	st := NewFile(path, &warn)
	got, err := st.Summaries(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Contains(t, warn.String(), "corrupt")

	require.NoError(t, st.Append(ctx, model.Summary{Timestamp: time.Unix(10, 0).UTC(), WPM: 30, Accuracy: 88, Mistakes: 5}, nil))
	got, err = st.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 30, got[0].WPM)
}

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, backend := range []string{model.BackendJSON, model.BackendSQLite} {
		st, err := Open(model.HistoryConfig{Backend: backend, Path: filepath.Join(dir, "history."+backend)}, nil)
		require.NoError(t, err, backend)
		require.NoError(t, st.Append(ctx, model.Summary{Timestamp: time.Unix(1, 0).UTC(), WPM: 70, Accuracy: 97, Mistakes: 2}, nil), backend)

		p, err := ProgressStats(ctx, st)
		require.NoError(t, err, backend)
		require.NotNil(t, p, backend)
		assert.Equal(t, 70, p.BestWPM, backend)
		require.NoError(t, st.Close(), backend)
	}

	_, err := Open(model.HistoryConfig{Backend: "csv"}, nil)
	assert.Error(t, err)
}

func TestOpenSQLiteCorruptStartsFresh(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "typetest.db")
	junk := []byte(strings.Repeat("garbage bytes\n", 300))
	require.NoError(t, os.WriteFile(path, junk, 0o644))

	var warn bytes.Buffer
	st, err := Open(model.HistoryConfig{Backend: model.BackendSQLite, Path: path}, &warn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	assert.Contains(t, warn.String(), "corrupt")

	sums, err := st.Summaries(ctx)
	require.NoError(t, err)
	assert.Empty(t, sums)

	moved, err := os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, junk, moved)

	require.NoError(t, st.Append(ctx, model.Summary{Timestamp: time.Unix(5, 0).UTC(), WPM: 40, Accuracy: 90}, nil))
	sums, err = st.Summaries(ctx)
	require.NoError(t, err)
	assert.Len(t, sums, 1)
}
