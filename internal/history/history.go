// Package history stores completed session summaries and derives progress
// statistics from them.
package history

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/store"
)

// Store persists completed sessions.
type Store interface {
	Append(ctx context.Context, sum model.Summary, chars []model.CharStats) error
	Summaries(ctx context.Context) ([]model.Summary, error)
	Close() error
}

// Open opens the configured backend. Warnings about unreadable history are
// written to warn.
func Open(cfg model.HistoryConfig, warn io.Writer) (Store, error) {
	switch cfg.Backend {
	case "", model.BackendJSON:
		return NewFile(cfg.Path, warn), nil
	case model.BackendSQLite:
		return openSQLite(cfg.Path, warn)
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}

// openSQLite opens the database at path. A file that is not a database is
// moved to path+".corrupt" and replaced by an empty one.
func openSQLite(path string, warn io.Writer) (Store, error) {
	st, err := store.Open(path)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, store.ErrNotDatabase) {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	aside := path + ".corrupt"
	if rerr := os.Rename(path, aside); rerr != nil {
		return nil, fmt.Errorf("failed to move corrupt db aside: %w", rerr)
	}
	if warn != nil {
		if _, werr := fmt.Fprintf(warn, "history database %s is corrupt, moved to %s and starting fresh: %v\n", path, aside, err); werr != nil {
			// Best-effort warning.
			_ = werr
		}
	}
	st, err = store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

// Progress aggregates summaries. It reports false when there are none.
func Progress(summaries []model.Summary) (model.Progress, bool) {
	if len(summaries) == 0 {
		return model.Progress{}, false
	}
	var wpmSum, accSum float64
	best := summaries[0].WPM
	for _, s := range summaries {
		wpmSum += float64(s.WPM)
		accSum += s.Accuracy
		if s.WPM > best {
			best = s.WPM
		}
	}
	n := float64(len(summaries))
	return model.Progress{
		Total:       len(summaries),
		BestWPM:     best,
		AvgWPM:      round1(wpmSum / n),
		AvgAccuracy: round1(accSum / n),
	}, true
}

// ProgressStats loads every summary from st and aggregates them. It returns
// nil when the history is empty.
func ProgressStats(ctx context.Context, st Store) (*model.Progress, error) {
	summaries, err := st.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := Progress(summaries)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
