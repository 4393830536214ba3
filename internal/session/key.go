package session

import "unicode/utf8"

// Key is a single input event.
type Key struct {
	Rune      rune
	Backspace bool
}

// RuneKey returns a forward key for r.
func RuneKey(r rune) Key {
	return Key{Rune: r}
}

// BackspaceKey returns the key that deletes the last typed character.
func BackspaceKey() Key {
	return Key{Backspace: true}
}

// ParseKey converts a raw key name into a Key. Unknown multi-rune names
// become utf8.RuneError so they are scored as mismatches.
func ParseKey(s string) Key {
	switch s {
	case "\b", "\x7f", "KEY_BACKSPACE":
		return BackspaceKey()
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		return RuneKey(utf8.RuneError)
	}
	return RuneKey(r)
}
