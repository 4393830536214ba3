package session

import (
	"testing"
	"unicode/utf8"
)

func TestCharacterStates(t *testing.T) {
	cases := []struct {
		target string
		typed  string
		want   []CharState
	}{
		{"cat", "cab", []CharState{{'c', Correct}, {'a', Correct}, {'t', Incorrect}}},
		{"cat", "ca", []CharState{{'c', Correct}, {'a', Correct}, {'t', Untyped}}},
		{"", "", []CharState{}},
		{"日本", "日", []CharState{{'日', Correct}, {'本', Untyped}}},
	}
	for _, tc := range cases {
		got := CharacterStates(tc.target, tc.typed)
		if len(got) != len(tc.want) {
			t.Fatalf("%q/%q: expected %d states, got %d", tc.target, tc.typed, len(tc.want), len(got))
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%q/%q: state %d = %v, want %v", tc.target, tc.typed, i, got[i], tc.want[i])
			}
		}
	}
}

func TestStateString(t *testing.T) {
	if Correct.String() != "correct" || Incorrect.String() != "incorrect" || Untyped.String() != "untyped" {
		t.Fatalf("unexpected state names")
	}
}

func TestParseKey(t *testing.T) {
	for _, name := range []string{"\b", "\x7f", "KEY_BACKSPACE"} {
		if !ParseKey(name).Backspace {
			t.Fatalf("expected %q to be backspace", name)
		}
	}
	if k := ParseKey("é"); k.Backspace || k.Rune != 'é' {
		t.Fatalf("unexpected key for é: %+v", k)
	}
	if k := ParseKey("KEY_LEFT"); k.Rune != utf8.RuneError {
		t.Fatalf("expected rune error for named key, got %+v", k)
	}
	if k := ParseKey(""); k.Rune != utf8.RuneError {
		t.Fatalf("expected rune error for empty key, got %+v", k)
	}
}
