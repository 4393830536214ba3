package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typetest/internal/generator"
	"github.com/verte-zerg/typetest/internal/history"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/statsui"
	"github.com/verte-zerg/typetest/internal/store"
)

func validConfig() model.Config {
	return model.Config{
		Mode:       model.ModePassage,
		Words:      defaultWords,
		PunctSet:   defaultPunctSet,
		WeakTop:    defaultWeakTop,
		WeakFactor: defaultWeakFactor,
		WeakWindow: defaultWeakWindow,
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(validConfig()); err != nil {
		t.Fatalf("expected defaults to validate: %v", err)
	}
	cases := map[string]func(*model.Config){
		"mode":     func(c *model.Config) { c.Mode = "zen" },
		"wordlist": func(c *model.Config) { c.Mode = model.ModeWords },
		"words":    func(c *model.Config) { c.Words = 0 },
		"caps":     func(c *model.Config) { c.CapsPct = 1.5 },
		"punct":    func(c *model.Config) { c.PunctPct = -0.1 },
		"duration": func(c *model.Config) { c.Duration = -time.Second },
	}
	for name, mutate := range cases {
		cfg := validConfig()
		mutate(&cfg)
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestBuildProviderModes(t *testing.T) {
	gen := generator.NewWithSeed(1)
	p, words, err := buildProvider(validConfig(), gen)
	if err != nil || words != nil {
		t.Fatalf("expected built-in provider, got %v %v", words, err)
	}
	if text, err := p.Passage(); err != nil || text == "" {
		t.Fatalf("expected a passage, got %q %v", text, err)
	}

	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("alpha\nbeta\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := validConfig()
	cfg.Mode = model.ModeWords
	cfg.WordList = path
	cfg.Words = 3
	p, words, err = buildProvider(cfg, gen)
	if err != nil || words == nil {
		t.Fatalf("expected words provider: %v", err)
	}
	text, err := p.Passage()
	if err != nil || len(strings.Fields(text)) != 3 {
		t.Fatalf("unexpected words passage %q %v", text, err)
	}

	cfg.WordList = filepath.Join(t.TempDir(), "missing.txt")
	if _, _, err := buildProvider(cfg, gen); err == nil {
		t.Fatalf("expected error for missing word list")
	}
}

func TestPrintStatsPlain(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "typetest.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = st.Close() }()

	var out bytes.Buffer
	if err := printStats(context.Background(), &out, st, st); err != nil {
		t.Fatalf("print empty: %v", err)
	}
	if !strings.Contains(out.String(), "No data yet.") {
		t.Fatalf("expected empty message, got %q", out.String())
	}

	ctx := context.Background()
	sum := model.Summary{Timestamp: time.Now().UTC(), WPM: 42, Accuracy: 97.5, Mistakes: 1}
	chars := []model.CharStats{{Char: "q", Correct: 2, Incorrect: 1, LatencySumMs: 300, LatencyCount: 3}}
	if err := st.Append(ctx, sum, chars); err != nil {
		t.Fatalf("append: %v", err)
	}
	out.Reset()
	var hist history.Store = st
	var src statsui.CharSource = st
	if err := printStats(ctx, &out, hist, src); err != nil {
		t.Fatalf("print: %v", err)
	}
	for _, want := range []string{"Your Progress", "Best WPM: 42", "Recent Sessions", "Per-Character", "66.67%"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in report:\n%s", want, out.String())
		}
	}
}
