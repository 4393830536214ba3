package stats

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/term"
)

const (
	minCurveWidth       = 10
	curveLabelWidth     = 10
	terminalWidthBackup = 80
)

// Curve is a named series rendered as a sparkline.
type Curve struct {
	Name   string
	Values []float64
}

// CurveWidthFor computes the sparkline width that fits next to the labels.
func CurveWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minCurveWidth
	}
	w := totalWidth - curveLabelWidth - utf8.RuneCountInString(" [min 000.0 max 000.0]")
	if w < minCurveWidth {
		w = minCurveWidth
	}
	return w
}

// TerminalWidth returns the width of stdout or a fallback when stdout is
// not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// RenderCurves prints one sparkline per curve, downsampled to width.
func RenderCurves(w io.Writer, title string, curves []Curve, width int) error {
	if width <= 0 {
		width = CurveWidthFor(TerminalWidth())
	}
	printed := false
	for _, c := range curves {
		if len(c.Values) == 0 {
			continue
		}
		if !printed {
			if _, err := fmt.Fprintln(w, title); err != nil {
				return err
			}
			printed = true
		}
		values := downsample(c.Values, width)
		lo, hi := minMax(c.Values)
		if _, err := fmt.Fprintf(w, "%-*s %s [min %.1f max %.1f]\n", curveLabelWidth-1, c.Name, Sparkline(values), lo, hi); err != nil {
			return err
		}
	}
	if printed {
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}
	return nil
}

func downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
