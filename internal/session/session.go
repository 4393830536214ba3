// Package session implements the typing session engine.
package session

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/verte-zerg/typetest/internal/model"
)

// ErrEmptyCorpus reports that no passage could be selected.
var ErrEmptyCorpus = errors.New("corpus is empty")

// Provider supplies a target passage.
type Provider interface {
	Passage() (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func() (string, error)

// Passage implements Provider.
func (f ProviderFunc) Passage() (string, error) {
	return f()
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces the wall clock used for timing.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// Session tracks one typing exercise against a single target passage.
// A Session is not safe for concurrent use.
type Session struct {
	target []rune
	typed  []rune

	startedAt time.Time
	lastKeyAt time.Time
	endedAt   time.Time
	finished  bool

	keystrokes int
	mistakes   int

	charHits    map[rune]int
	charErrors  map[rune]int
	errorOrder  []rune
	charTimings map[rune][]time.Duration
	timingOrder []rune

	now func() time.Time
}

// New selects a passage from p and starts a session.
func New(p Provider, opts ...Option) (*Session, error) {
	s := &Session{
		charHits:    map[rune]int{},
		charErrors:  map[rune]int{},
		charTimings: map[rune][]time.Duration{},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if p == nil {
		return nil, ErrEmptyCorpus
	}
	text, err := p.Passage()
	if err != nil {
		if errors.Is(err, ErrEmptyCorpus) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to select passage: %w", err)
	}
	if text == "" {
		return nil, ErrEmptyCorpus
	}
	s.target = []rune(text)
	s.startedAt = s.now()
	return s, nil
}

// Ingest applies one key event. Keys received after the session finished
// are ignored.
func (s *Session) Ingest(k Key) {
	if s.finished {
		return
	}
	now := s.now()
	var delay time.Duration
	hasDelay := !s.lastKeyAt.IsZero()
	if hasDelay {
		delay = now.Sub(s.lastKeyAt)
	}
	s.lastKeyAt = now

	if k.Backspace {
		if len(s.typed) > 0 {
			s.typed = s.typed[:len(s.typed)-1]
		}
		return
	}
	if len(s.typed) == len(s.target) {
		return
	}

	expected := s.target[len(s.typed)]
	s.typed = append(s.typed, k.Rune)
	s.keystrokes++
	s.charHits[expected]++

	if hasDelay {
		if _, ok := s.charTimings[expected]; !ok {
			s.timingOrder = append(s.timingOrder, expected)
		}
		s.charTimings[expected] = append(s.charTimings[expected], delay)
	}
	if k.Rune != expected {
		s.mistakes++
		if _, ok := s.charErrors[expected]; !ok {
			s.errorOrder = append(s.errorOrder, expected)
		}
		s.charErrors[expected]++
	}
	if len(s.typed) == len(s.target) {
		s.finishAt(now)
	}
}

// Finish ends the session regardless of progress. Used when a caller-owned
// deadline elapses. Calling Finish on a finished session has no effect.
func (s *Session) Finish() {
	if s.finished {
		return
	}
	s.finishAt(s.now())
}

func (s *Session) finishAt(t time.Time) {
	s.finished = true
	s.endedAt = t
}

// Finished reports whether the session has ended.
func (s *Session) Finished() bool {
	return s.finished
}

// Target returns the passage being typed.
func (s *Session) Target() string {
	return string(s.target)
}

// Progress returns the number of typed and target characters.
func (s *Session) Progress() (typed, total int) {
	return len(s.typed), len(s.target)
}

// Keystrokes returns the number of accepted forward keystrokes.
func (s *Session) Keystrokes() int {
	return s.keystrokes
}

// Mistakes returns the number of mismatched forward keystrokes.
func (s *Session) Mistakes() int {
	return s.mistakes
}

// StartedAt returns the session creation time.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Elapsed returns the time since creation, frozen once finished.
func (s *Session) Elapsed() time.Duration {
	end := s.now()
	if s.finished {
		end = s.endedAt
	}
	return end.Sub(s.startedAt)
}

// LiveWPM returns words per minute using five characters per word.
// Elapsed time is floored at one second.
func (s *Session) LiveWPM() int {
	elapsed := s.Elapsed()
	if elapsed < time.Second {
		elapsed = time.Second
	}
	return int(math.Round(float64(len(s.typed)) / elapsed.Minutes() / 5))
}

// Accuracy returns the percentage of forward keystrokes that matched,
// rounded to two decimals. A session without keystrokes is 100% accurate.
func (s *Session) Accuracy() float64 {
	if s.keystrokes == 0 {
		return 100.0
	}
	pct := 100 * float64(s.keystrokes-s.mistakes) / float64(s.keystrokes)
	return math.Round(pct*100) / 100
}

// States returns the per-character correctness of the passage.
func (s *Session) States() []CharState {
	return characterStates(s.target, s.typed)
}

// CharErrors returns mistake counts per expected character in the order
// each character first produced a mistake.
func (s *Session) CharErrors() []model.CharCount {
	out := make([]model.CharCount, 0, len(s.errorOrder))
	for _, ch := range s.errorOrder {
		out = append(out, model.CharCount{Char: ch, Count: s.charErrors[ch]})
	}
	return out
}

// Delays returns every recorded inter-key delay.
func (s *Session) Delays() []time.Duration {
	var out []time.Duration
	for _, ch := range s.timingOrder {
		out = append(out, s.charTimings[ch]...)
	}
	return out
}

// CharStats returns per-character counters for persistence.
func (s *Session) CharStats() []model.CharStats {
	seen := map[rune]struct{}{}
	out := make([]model.CharStats, 0, len(s.charHits))
	for _, ch := range s.target {
		if _, ok := seen[ch]; ok {
			continue
		}
		seen[ch] = struct{}{}
		hits := s.charHits[ch]
		if hits == 0 {
			continue
		}
		cs := model.CharStats{
			Char:      string(ch),
			Correct:   hits - s.charErrors[ch],
			Incorrect: s.charErrors[ch],
		}
		for _, d := range s.charTimings[ch] {
			cs.LatencySumMs += d.Milliseconds()
			cs.LatencyCount++
		}
		out = append(out, cs)
	}
	return out
}

// Summary returns the final metrics of the session. The timestamp is the
// moment the session finished, or now if it has not.
func (s *Session) Summary() model.Summary {
	ts := s.endedAt
	if !s.finished {
		ts = s.now()
	}
	return model.Summary{
		Timestamp: ts.UTC().Truncate(time.Microsecond),
		WPM:       s.LiveWPM(),
		Accuracy:  s.Accuracy(),
		Mistakes:  s.mistakes,
	}
}
