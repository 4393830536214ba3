package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/typetest/internal/model"
)

// record is the on-disk form of a summary.
type record struct {
	Timestamp float64 `json:"timestamp"`
	WPM       int     `json:"wpm"`
	Accuracy  float64 `json:"accuracy"`
	Mistakes  int     `json:"mistakes"`
}

// File keeps the whole history as one JSON array. Every Append rewrites the
// file; concurrent writers are not supported.
type File struct {
	path string
	warn io.Writer
}

// NewFile returns a JSON history stored at path.
func NewFile(path string, warn io.Writer) *File {
	if warn == nil {
		warn = io.Discard
	}
	return &File{path: path, warn: warn}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Append adds a summary to the end of the history. Per-character stats are
// not kept by this backend.
func (f *File) Append(_ context.Context, sum model.Summary, _ []model.CharStats) error {
	records, err := f.load()
	if err != nil {
		return err
	}
	records = append(records, toRecord(sum))
	return f.write(records)
}

// Summaries returns every stored summary in insertion order. A missing or
// malformed file yields an empty history.
func (f *File) Summaries(_ context.Context) ([]model.Summary, error) {
	records, err := f.load()
	if err != nil {
		return nil, err
	}
	out := make([]model.Summary, len(records))
	for i, r := range records {
		out[i] = fromRecord(r)
	}
	return out, nil
}

// Close implements Store.
func (f *File) Close() error {
	return nil
}

func (f *File) load() ([]record, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		f.warnf("history file %s is corrupt, starting fresh: %v\n", f.path, err)
		return nil, nil
	}
	return records, nil
}

func (f *File) write(records []record) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "history-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp history: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close history: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

func (f *File) warnf(format string, args ...any) {
	if _, err := fmt.Fprintf(f.warn, format, args...); err != nil {
		// Best-effort warning.
		_ = err
	}
}

func toRecord(s model.Summary) record {
	return record{
		Timestamp: float64(s.Timestamp.UnixMicro()) / 1e6,
		WPM:       s.WPM,
		Accuracy:  math.Round(s.Accuracy*100) / 100,
		Mistakes:  s.Mistakes,
	}
}

func fromRecord(r record) model.Summary {
	return model.Summary{
		Timestamp: time.UnixMicro(int64(math.Round(r.Timestamp * 1e6))).UTC(),
		WPM:       r.WPM,
		Accuracy:  r.Accuracy,
		Mistakes:  r.Mistakes,
	}
}
