package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// textTable lays out plain-text report tables. The first column is a label
// and is left aligned; every other column holds a number and is right
// aligned. Widths are measured in terminal cells.
type textTable struct {
	header []string
	rows   [][]string
}

func newTextTable(header ...string) *textTable {
	return &textTable{header: header}
}

func (t *textTable) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *textTable) widths() []int {
	w := make([]int, len(t.header))
	for _, row := range append([][]string{t.header}, t.rows...) {
		for i, cell := range row {
			if i >= len(w) {
				w = append(w, 0)
			}
			w[i] = max(w[i], runewidth.StringWidth(cell))
		}
	}
	return w
}

func (t *textTable) lines() []string {
	w := t.widths()
	out := make([]string, 0, len(t.rows)+1)
	for _, row := range append([][]string{t.header}, t.rows...) {
		cells := make([]string, len(w))
		for i := range w {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			pad := strings.Repeat(" ", w[i]-runewidth.StringWidth(cell))
			if i == 0 {
				cells[i] = cell + pad
			} else {
				cells[i] = pad + cell
			}
		}
		out = append(out, strings.Join(cells, " "))
	}
	return out
}

// write prints the table followed by a blank line.
func (t *textTable) write(w io.Writer) error {
	for _, line := range t.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
