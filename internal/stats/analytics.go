// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/verte-zerg/typetest/internal/model"
)

// Default result sizes for the results screen.
const (
	DefaultTopMistakes = 5
	DefaultWeakKeys    = 3
)

const (
	minConsistencySamples = 5
	consistentVariance    = 0.01
)

// Source is the read-only view of a session that analytics need.
type Source interface {
	CharErrors() []model.CharCount
	Delays() []time.Duration
	LiveWPM() int
	Accuracy() float64
}

// Consistency classifies the spread of inter-key delays.
type Consistency string

// Consistency values.
const (
	InsufficientData Consistency = "Not enough data"
	Consistent       Consistency = "Consistent"
	Inconsistent     Consistency = "Inconsistent"
)

// Profile classifies a speed/accuracy combination.
type Profile string

// Profile values.
const (
	Balanced         Profile = "Balanced typist"
	FastInaccurate   Profile = "Fast but inaccurate"
	AccurateSlow     Profile = "Accurate but slow"
	NeedsConsistency Profile = "Needs consistency"
)

// Tips returned by ActionableTip.
const (
	TipAccuracy    = "Slow down for accuracy: aim for clean keystrokes before pushing speed."
	TipSpeed       = "Build speed: practice short passages and keep your eyes on the text."
	TipConsistency = "Maintain consistency: keep the same rhythm across longer passages."
	TipPatterns    = "Practice common patterns: drill frequent letter pairs and words."
)

// Analysis bundles every post-session metric shown on the results screen.
type Analysis struct {
	WPM             int
	Accuracy        float64
	Profile         Profile
	Consistency     Consistency
	TopMistakes     []model.CharCount
	WeakKeys        []model.CharCount
	AverageKeyDelay float64
	Tip             string
}

// Analyze computes the full post-session analysis.
func Analyze(src Source) Analysis {
	return Analysis{
		WPM:             src.LiveWPM(),
		Accuracy:        src.Accuracy(),
		Profile:         PerformanceProfile(src),
		Consistency:     SpeedFeedback(src),
		TopMistakes:     TopMistakes(src, DefaultTopMistakes),
		WeakKeys:        WeakKeys(src, DefaultWeakKeys),
		AverageKeyDelay: AverageKeyDelay(src),
		Tip:             ActionableTip(src),
	}
}

// TopMistakes returns the characters with the most mistakes.
// Ties keep the order in which characters were first missed.
func TopMistakes(src Source, limit int) []model.CharCount {
	return rankErrors(src.CharErrors(), limit)
}

// WeakKeys returns the characters to focus on next.
func WeakKeys(src Source, limit int) []model.CharCount {
	return rankErrors(src.CharErrors(), limit)
}

func rankErrors(errs []model.CharCount, limit int) []model.CharCount {
	if limit <= 0 || len(errs) == 0 {
		return nil
	}
	ranked := make([]model.CharCount, len(errs))
	copy(ranked, errs)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if limit > len(ranked) {
		limit = len(ranked)
	}
	return ranked[:limit]
}

// AverageKeyDelay returns the mean inter-key delay in seconds, rounded to
// three decimals.
func AverageKeyDelay(src Source) float64 {
	delays := src.Delays()
	if len(delays) == 0 {
		return 0
	}
	return roundTo(mean(seconds(delays)), 3)
}

// SpeedFeedback classifies typing rhythm by the population variance of the
// inter-key delays.
func SpeedFeedback(src Source) Consistency {
	delays := src.Delays()
	if len(delays) < minConsistencySamples {
		return InsufficientData
	}
	if variance(seconds(delays)) < consistentVariance {
		return Consistent
	}
	return Inconsistent
}

// PerformanceProfile classifies the session by speed and accuracy.
func PerformanceProfile(src Source) Profile {
	return profileFor(src.LiveWPM(), src.Accuracy())
}

func profileFor(wpm int, acc float64) Profile {
	switch {
	case wpm >= 60 && acc >= 95:
		return Balanced
	case wpm >= 60:
		return FastInaccurate
	case wpm < 40 && acc >= 95:
		return AccurateSlow
	default:
		return NeedsConsistency
	}
}

// ActionableTip suggests what to practice next.
func ActionableTip(src Source) string {
	return tipFor(src.LiveWPM(), src.Accuracy())
}

func tipFor(wpm int, acc float64) string {
	switch {
	case acc < 90:
		return TipAccuracy
	case wpm < 40:
		return TipSpeed
	case acc >= 95 && wpm >= 60:
		return TipConsistency
	default:
		return TipPatterns
	}
}

func seconds(delays []time.Duration) []float64 {
	out := make([]float64, len(delays))
	for i, d := range delays {
		out[i] = d.Seconds()
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
