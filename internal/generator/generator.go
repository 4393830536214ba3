// Package generator builds typing passages.
package generator

import (
	"math/rand"
	"sort"
	"time"
	"unicode"
)

// Generator produces randomized typing text. It is not safe for concurrent
// use.
type Generator struct {
	rnd *rand.Rand
}

// Options controls how words are drawn and decorated.
type Options struct {
	Count    int
	CapsPct  float64
	PunctPct float64
	PunctSet []rune
	// Weak biases selection toward words containing these characters. Each
	// occurrence adds WeakFactor to a word's base weight of 1.
	Weak       map[rune]struct{}
	WeakFactor float64
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Pick returns one of lines uniformly at random. lines must not be empty.
func (g *Generator) Pick(lines []string) string {
	return lines[g.rnd.Intn(len(lines))]
}

// Words draws opts.Count words from the list and applies the caps and
// punctuation rules to each. words must not be empty.
func (g *Generator) Words(words []string, opts Options) []string {
	draw := g.uniform(len(words))
	if len(opts.Weak) > 0 && opts.WeakFactor > 0 {
		draw = g.weighted(cumulativeWeights(words, opts.Weak, opts.WeakFactor))
	}
	out := make([]string, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		out = append(out, g.decorate(words[draw()], opts))
	}
	return out
}

func (g *Generator) uniform(n int) func() int {
	return func() int { return g.rnd.Intn(n) }
}

func (g *Generator) weighted(cum []float64) func() int {
	total := cum[len(cum)-1]
	return func() int { return pickWeighted(g.rnd.Float64()*total, cum) }
}

// cumulativeWeights returns running totals of per-word weights.
func cumulativeWeights(words []string, weak map[rune]struct{}, factor float64) []float64 {
	cum := make([]float64, len(words))
	acc := 0.0
	for i, word := range words {
		hits := 0
		for _, r := range word {
			if _, ok := weak[r]; ok {
				hits++
			}
		}
		acc += 1 + float64(hits)*factor
		cum[i] = acc
	}
	return cum
}

// pickWeighted returns the first index whose cumulative weight reaches r.
func pickWeighted(r float64, cum []float64) int {
	i := sort.SearchFloat64s(cum, r)
	if i >= len(cum) {
		return len(cum) - 1
	}
	return i
}

func (g *Generator) decorate(word string, opts Options) string {
	if opts.CapsPct > 0 && g.rnd.Float64() < opts.CapsPct {
		runes := []rune(word)
		if len(runes) > 0 {
			runes[0] = unicode.ToUpper(runes[0])
			word = string(runes)
		}
	}
	if opts.PunctPct > 0 && len(opts.PunctSet) > 0 && g.rnd.Float64() < opts.PunctPct {
		word += string(opts.PunctSet[g.rnd.Intn(len(opts.PunctSet))])
	}
	return word
}
