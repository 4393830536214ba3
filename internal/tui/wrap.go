package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typetest/internal/session"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

func buildStyledRunes(states []session.CharState, cursorIndex int) []styledRune {
	words := findWords(states)
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(states))
	for i, st := range states {
		displayed := st.Char
		style := pendingStyle
		switch st.State {
		case session.Correct:
			style = correctStyle
		case session.Incorrect:
			style = incorrectStyle
			if st.Char == ' ' {
				displayed = '•'
			}
		default:
			if st.Char != ' ' && currentWord != nil && i >= currentWord.start && i < currentWord.end {
				style = currentWordStyle
			}
		}
		if i == cursorIndex && st.State == session.Untyped {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: st.Char == ' ',
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(states []session.CharState) []wordRange {
	words := []wordRange{}
	start := -1
	for i, st := range states {
		if st.Char == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(states)})
	}
	return words
}

func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 {
		return nil
	}
	if cursorIndex < 0 {
		return &words[0]
	}
	wordIdx := -1
	for i, w := range words {
		if cursorIndex >= w.start && cursorIndex < w.end {
			wordIdx = i
			break
		}
		if cursorIndex < w.start {
			wordIdx = i
			break
		}
	}
	if wordIdx == -1 {
		return &words[len(words)-1]
	}
	return &words[wordIdx]
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes greedily fills lines of at most width cells. Lines break
// at spaces, and the space at a break is not drawn. Words wider than a line
// are split.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var lines []string
	var line []styledRune
	lineWidth := 0
	flush := func() {
		lines = append(lines, renderStyledRunes(line))
		line = nil
		lineWidth = 0
	}
	for _, tok := range splitTokens(runes) {
		tokWidth := lineWidthOf(tok)
		if tok[0].isSpace {
			if lineWidth+tokWidth > width {
				flush()
				continue
			}
			line = append(line, tok...)
			lineWidth += tokWidth
			continue
		}
		if lineWidth > 0 && lineWidth+tokWidth > width {
			if n := len(line); n > 0 && line[n-1].isSpace {
				line = line[:n-1]
			}
			flush()
		}
		for _, item := range tok {
			if lineWidth > 0 && lineWidth+item.width > width {
				flush()
			}
			line = append(line, item)
			lineWidth += item.width
		}
	}
	lines = append(lines, renderStyledRunes(line))
	return strings.Join(lines, "\n")
}

// splitTokens groups runs of non-space runes; every space is its own token.
func splitTokens(runes []styledRune) [][]styledRune {
	var tokens [][]styledRune
	start := -1
	for i, item := range runes {
		if item.isSpace {
			if start >= 0 {
				tokens = append(tokens, runes[start:i])
				start = -1
			}
			tokens = append(tokens, runes[i:i+1])
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, runes[start:])
	}
	return tokens
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}
