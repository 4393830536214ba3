// Package model defines shared data structures.
package model

import "time"

// Practice modes.
const (
	ModePassage = "passage"
	ModeWords   = "words"
)

// History backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config defines practice settings.
type Config struct {
	Mode       string
	CorpusPath string
	WordList   string
	Words      int
	CapsPct    float64
	PunctPct   float64
	PunctSet   string
	Duration   time.Duration
	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
	WeakWindow int
}

// HistoryConfig selects where completed sessions are stored.
type HistoryConfig struct {
	Backend string
	Path    string
}

// Summary is the immutable record of one completed session.
type Summary struct {
	Timestamp time.Time
	WPM       int
	Accuracy  float64
	Mistakes  int
}

// Progress aggregates all stored summaries.
type Progress struct {
	Total       int
	BestWPM     int
	AvgWPM      float64
	AvgAccuracy float64
}

// CharCount pairs an expected character with a mistake count.
type CharCount struct {
	Char  rune
	Count int
}

// CharStats stores per-character stats for a session.
type CharStats struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}
