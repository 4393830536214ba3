// Package corpus supplies target passages for typing sessions.
package corpus

import (
	"bufio"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/verte-zerg/typetest/internal/generator"
	"github.com/verte-zerg/typetest/internal/session"
)

//go:embed passages.txt
var defaultPassages string

// Lines picks a random line from a fixed set of passages.
type Lines struct {
	lines []string
	gen   *generator.Generator
}

// NewLines returns a provider over the given passages. Blank entries are
// dropped.
func NewLines(lines []string, gen *generator.Generator) *Lines {
	clean := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = normalize(line); line != "" {
			clean = append(clean, line)
		}
	}
	return &Lines{lines: clean, gen: gen}
}

// Default returns a provider over the built-in passages.
func Default(gen *generator.Generator) *Lines {
	return NewLines(strings.Split(defaultPassages, "\n"), gen)
}

// LoadFile returns a provider over the lines of a text file.
func LoadFile(path string, gen *generator.Generator) (*Lines, error) {
	lines, err := LoadLines(path)
	if err != nil {
		return nil, err
	}
	return NewLines(lines, gen), nil
}

// Len returns the number of available passages.
func (l *Lines) Len() int {
	return len(l.lines)
}

// Passage implements session.Provider.
func (l *Lines) Passage() (string, error) {
	if len(l.lines) == 0 {
		return "", session.ErrEmptyCorpus
	}
	return l.gen.Pick(l.lines), nil
}

// Words generates passages from a word list.
type Words struct {
	words []string
	opts  generator.Options
	gen   *generator.Generator
}

// WordsConfig configures generated passages.
type WordsConfig struct {
	Count      int
	CapsPct    float64
	PunctPct   float64
	PunctSet   string
	WeakFactor float64
}

// NewWords returns a provider producing cfg.Count words per passage.
func NewWords(words []string, cfg WordsConfig, gen *generator.Generator) *Words {
	clean := make([]string, 0, len(words))
	for _, w := range words {
		if w = normalize(w); w != "" && !strings.ContainsRune(w, ' ') {
			clean = append(clean, w)
		}
	}
	return &Words{
		words: clean,
		opts: generator.Options{
			Count:      cfg.Count,
			CapsPct:    cfg.CapsPct,
			PunctPct:   cfg.PunctPct,
			PunctSet:   []rune(cfg.PunctSet),
			WeakFactor: cfg.WeakFactor,
		},
		gen: gen,
	}
}

// SetWeakSet biases later passages toward the given characters.
func (w *Words) SetWeakSet(weak map[rune]struct{}) {
	w.opts.Weak = weak
}

// Passage implements session.Provider.
func (w *Words) Passage() (string, error) {
	if len(w.words) == 0 || w.opts.Count <= 0 {
		return "", session.ErrEmptyCorpus
	}
	return strings.Join(w.gen.Words(w.words, w.opts), " "), nil
}

// LoadLines reads the non-blank lines of a file.
func LoadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only corpus.
			_ = cerr
		}
	}()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}

// normalize trims a line and composes it to NFC so that each visible
// character is a single rune where possible.
func normalize(line string) string {
	return norm.NFC.String(strings.TrimSpace(line))
}
