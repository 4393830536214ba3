// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/typetest/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// SummaryCurves returns smoothed WPM and accuracy series for the summaries.
func SummaryCurves(summaries []model.Summary, window int) []Curve {
	if len(summaries) == 0 {
		return nil
	}
	wpms := make([]float64, len(summaries))
	accs := make([]float64, len(summaries))
	for i, s := range summaries {
		wpms[i] = float64(s.WPM)
		accs[i] = s.Accuracy
	}
	return []Curve{
		{Name: "WPM", Values: MovingAverage(wpms, window)},
		{Name: "Accuracy", Values: MovingAverage(accs, window)},
	}
}

// RenderProgress prints the progress aggregate for the stored summaries.
func RenderProgress(w io.Writer, progress *model.Progress) error {
	if progress == nil {
		_, err := fmt.Fprintln(w, "No data yet.")
		return err
	}
	lines := []string{
		"Your Progress",
		fmt.Sprintf("Total Tests: %d", progress.Total),
		fmt.Sprintf("Best WPM: %d", progress.BestWPM),
		fmt.Sprintf("Average WPM: %.1f", progress.AvgWPM),
		fmt.Sprintf("Average Accuracy: %.1f%%", progress.AvgAccuracy),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderRecent prints the last n summaries as a table, newest last.
func RenderRecent(w io.Writer, summaries []model.Summary, n int) error {
	if len(summaries) == 0 {
		return nil
	}
	if n > 0 && len(summaries) > n {
		summaries = summaries[len(summaries)-n:]
	}
	if _, err := fmt.Fprintln(w, "Recent Sessions"); err != nil {
		return err
	}
	tbl := newTextTable("When", "WPM", "Accuracy", "Mistakes")
	for _, s := range summaries {
		tbl.addRow(
			s.Timestamp.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", s.WPM),
			fmt.Sprintf("%.2f%%", s.Accuracy),
			fmt.Sprintf("%d", s.Mistakes),
		)
	}
	return tbl.write(w)
}

// RenderCharTable prints per-character aggregates.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	type row struct {
		char      string
		acc       float64
		latency   float64
		correct   int
		incorrect int
	}
	rows := make([]row, 0, len(aggs))
	for _, agg := range aggs {
		charLabel := agg.Char
		if charLabel == " " {
			charLabel = "<space>"
		}
		lat := 0.0
		if agg.LatencyCount > 0 {
			lat = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
		}
		rows = append(rows, row{
			char:      charLabel,
			acc:       accuracy(agg),
			latency:   lat,
			correct:   agg.Correct,
			incorrect: agg.Incorrect,
		})
	}
	// Sort by lowest accuracy.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].acc == rows[j].acc {
			return rows[i].char < rows[j].char
		}
		return rows[i].acc < rows[j].acc
	})

	if _, err := fmt.Fprintln(w, "Per-Character"); err != nil {
		return err
	}

	tbl := newTextTable("Char", "Accuracy", "Avg Delay (ms)", "Correct", "Incorrect")
	for _, r := range rows {
		tbl.addRow(
			r.char,
			fmt.Sprintf("%.2f%%", r.acc*100),
			fmt.Sprintf("%.1f", r.latency),
			fmt.Sprintf("%d", r.correct),
			fmt.Sprintf("%d", r.incorrect),
		)
	}
	return tbl.write(w)
}
