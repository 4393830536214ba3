package stats

import (
	"testing"

	"github.com/verte-zerg/typetest/internal/model"
)

func TestMostPracticed(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "b", Correct: 3, Incorrect: 1},
		{Char: "a", Correct: 2, Incorrect: 2},
		{Char: "c", Correct: 1, Incorrect: 0},
	}
	top := MostPracticed(aggs, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 chars, got %d", len(top))
	}
	if top[0].Char != "a" || top[1].Char != "b" {
		t.Fatalf("unexpected order: %v", top)
	}
	if got := MostPracticed(aggs, 0); len(got) != 3 {
		t.Fatalf("expected all aggregates when n is 0, got %d", len(got))
	}
}

func TestSelectWeakChars(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "a", Correct: 9, Incorrect: 1},
		{Char: "q", Correct: 1, Incorrect: 3},
		{Char: " ", Correct: 0, Incorrect: 5},
		{Char: "z", Correct: 4, Incorrect: 0},
		{Char: "x", Correct: 1, Incorrect: 1},
	}
	weak := SelectWeakChars(aggs, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak chars, got %v", weak)
	}
	for _, r := range []rune{'q', 'x'} {
		if _, ok := weak[r]; !ok {
			t.Fatalf("expected %q in weak set %v", r, weak)
		}
	}
	if got := SelectWeakChars(nil, 3); len(got) != 0 {
		t.Fatalf("expected empty weak set, got %v", got)
	}
}
