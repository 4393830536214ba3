package statsui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetest/internal/model"
)

func sessionColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 5},
		{Title: "When", Width: 16},
		{Title: "WPM", Width: 5},
		{Title: "Accuracy", Width: 9},
		{Title: "Mistakes", Width: 8},
	}
}

func charColumns() []table.Column {
	return []table.Column{
		{Title: "Char", Width: 7},
		{Title: "Accuracy", Width: 9},
		{Title: "Avg Delay (ms)", Width: 15},
		{Title: "Correct", Width: 7},
		{Title: "Incorrect", Width: 9},
		{Title: "Total", Width: 6},
	}
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(1),
	)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// recent returns the last n summaries, or all of them when n <= 0.
func recent(summaries []model.Summary, n int) []model.Summary {
	if n <= 0 || len(summaries) <= n {
		return summaries
	}
	return summaries[len(summaries)-n:]
}

func sessionRows(summaries []model.Summary) []table.Row {
	rows := make([]table.Row, 0, len(summaries))
	for i, s := range summaries {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			s.Timestamp.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", s.WPM),
			fmt.Sprintf("%.2f%%", s.Accuracy),
			fmt.Sprintf("%d", s.Mistakes),
		})
	}
	return rows
}

func charRows(aggs []model.CharAggregate) []table.Row {
	rows := make([]table.Row, 0, len(aggs))
	for _, agg := range aggs {
		total := agg.Correct + agg.Incorrect
		acc := 0.0
		if total > 0 {
			acc = float64(agg.Correct) / float64(total) * 100
		}
		lat := 0.0
		if agg.LatencyCount > 0 {
			lat = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
		}
		label := agg.Char
		if label == " " {
			label = "<space>"
		}
		rows = append(rows, table.Row{
			label,
			fmt.Sprintf("%.2f%%", acc),
			fmt.Sprintf("%.1f", lat),
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%d", agg.Incorrect),
			fmt.Sprintf("%d", total),
		})
	}
	return rows
}

func sortCharAggsByTotal(aggs []model.CharAggregate) []model.CharAggregate {
	sorted := make([]model.CharAggregate, len(aggs))
	copy(sorted, aggs)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti := sorted[i].Correct + sorted[i].Incorrect
		tj := sorted[j].Correct + sorted[j].Incorrect
		if ti == tj {
			return sorted[i].Char < sorted[j].Char
		}
		return ti > tj
	})
	return sorted
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
