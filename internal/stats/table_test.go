package stats

import (
	"bytes"
	"testing"
)

func TestTextTableAlignsColumns(t *testing.T) {
	tbl := newTextTable("Char", "Accuracy", "Mistakes")
	tbl.addRow("a", "97.50%", "12")
	tbl.addRow("<space>", "8.00%", "3")

	lines := tbl.lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Char    Accuracy Mistakes" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a         97.50%       12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "<space>    8.00%        3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTextTableWideChars(t *testing.T) {
	tbl := newTextTable("Char", "N")
	tbl.addRow("日", "1")
	tbl.addRow("a", "2")

	lines := tbl.lines()
	if lines[1] != "日   1" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "a    2" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}

func TestTextTableShortRowsArePadded(t *testing.T) {
	tbl := newTextTable("When", "WPM")
	tbl.addRow("today")

	var buf bytes.Buffer
	if err := tbl.write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got, want := buf.String(), "When  WPM\ntoday    \n\n"; got != want {
		t.Fatalf("unexpected table %q, want %q", got, want)
	}
}
