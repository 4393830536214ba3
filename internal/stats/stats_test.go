package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typetest/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %.1f, got %.1f", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
}

func TestRenderProgress(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderProgress(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No data yet." {
		t.Fatalf("unexpected empty output %q", buf.String())
	}

	buf.Reset()
	err := RenderProgress(&buf, &model.Progress{Total: 3, BestWPM: 72, AvgWPM: 61.3, AvgAccuracy: 96.4})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Total Tests: 3", "Best WPM: 72", "Average WPM: 61.3", "Average Accuracy: 96.4%"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("missing %q in %q", want, buf.String())
		}
	}
}

func TestRenderCurvesDownsamples(t *testing.T) {
	summaries := make([]model.Summary, 40)
	for i := range summaries {
		summaries[i] = model.Summary{Timestamp: time.Unix(int64(i), 0), WPM: i, Accuracy: 90}
	}
	var buf bytes.Buffer
	if err := RenderCurves(&buf, "Learning Curves", SummaryCurves(summaries, 1), 20); err != nil {
		t.Fatalf("render curves: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected title and two curves, got %q", buf.String())
	}
	if !strings.Contains(lines[1], "[min 0.0 max 39.0]") {
		t.Fatalf("unexpected wpm line %q", lines[1])
	}
	values := make([]float64, 40)
	for i := range values {
		values[i] = float64(i)
	}
	spark := Sparkline(downsample(values, 20))
	if len(spark) != 20 {
		t.Fatalf("expected 20 sparkline cells, got %d", len(spark))
	}
	if !strings.Contains(lines[1], spark) {
		t.Fatalf("expected downsampled sparkline %q in %q", spark, lines[1])
	}
}

func TestCurveWidthFor(t *testing.T) {
	if got := CurveWidthFor(0); got != minCurveWidth {
		t.Fatalf("expected min width, got %d", got)
	}
	if got := CurveWidthFor(80); got <= minCurveWidth || got >= 80 {
		t.Fatalf("unexpected width %d", got)
	}
}

func TestRenderRecentKeepsLastN(t *testing.T) {
	summaries := []model.Summary{
		{Timestamp: time.Unix(0, 0), WPM: 10, Accuracy: 80, Mistakes: 4},
		{Timestamp: time.Unix(60, 0), WPM: 20, Accuracy: 90, Mistakes: 2},
		{Timestamp: time.Unix(120, 0), WPM: 30, Accuracy: 95.5, Mistakes: 1},
	}
	var buf bytes.Buffer
	if err := RenderRecent(&buf, summaries, 2); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "80.00%") {
		t.Fatalf("expected oldest session to be dropped:\n%s", out)
	}
	if !strings.Contains(out, "Recent Sessions") || !strings.Contains(out, "95.50%") {
		t.Fatalf("unexpected recent table:\n%s", out)
	}
}

func TestRenderCharTableSortsByAccuracy(t *testing.T) {
	var buf bytes.Buffer
	err := RenderCharTable(&buf, []model.CharAggregate{
		{Char: "a", Correct: 9, Incorrect: 1, LatencySumMs: 1000, LatencyCount: 10},
		{Char: " ", Correct: 1, Incorrect: 1},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	space := strings.Index(out, "<space>")
	a := strings.Index(out, "90.00%")
	if space < 0 || a < 0 || space > a {
		t.Fatalf("expected weakest char first:\n%s", out)
	}
	if !strings.Contains(out, "100.0") {
		t.Fatalf("expected average delay column:\n%s", out)
	}

	buf.Reset()
	if err := RenderCharTable(&buf, nil); err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No character stats found." {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
}
