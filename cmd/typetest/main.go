// Package main provides the CLI entrypoint for typetest.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typetest/internal/config"
	"github.com/verte-zerg/typetest/internal/corpus"
	"github.com/verte-zerg/typetest/internal/generator"
	"github.com/verte-zerg/typetest/internal/history"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/session"
	"github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/store"
	"github.com/verte-zerg/typetest/internal/tui"
)

const (
	defaultMode       = model.ModePassage
	defaultWords      = 25
	defaultCaps       = 0.0
	defaultPunct      = 0.0
	defaultWeakTop    = 5
	defaultWeakFactor = 2.0
	defaultWeakWindow = 20
	defaultBackend    = model.BackendJSON
)

const defaultPunctSet = ".,!?;:"

var (
	practiceMode       string
	practiceCorpus     string
	practiceWordList   string
	practiceWords      int
	practiceCaps       float64
	practicePunct      float64
	practicePunctSet   string
	practiceDuration   time.Duration
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int

	historyBackend string
	historyPath    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typetest",
		Short:         "Terminal typing speed test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "passage source: passage or words")
	rootCmd.Flags().StringVar(&practiceCorpus, "corpus", "", "file with one passage per line (default: built-in passages)")
	rootCmd.Flags().StringVar(&practiceWordList, "wordlist", "", "file with one word per line (words mode)")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per text (words mode)")
	rootCmd.Flags().Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().DurationVar(&practiceDuration, "duration", 0, "end each test after this long (0 disables)")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward weak characters (sqlite history)")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak characters")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak chars")
	rootCmd.PersistentFlags().StringVar(&historyBackend, "history-backend", defaultBackend, "history backend: json or sqlite")
	rootCmd.PersistentFlags().StringVar(&historyPath, "history-path", "", "history location (default under XDG data dir)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

// loadFileConfig reads the TOML file and layers environment overrides on top.
func loadFileConfig() (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return config.FileConfig{}, err
	}
	return envCfg.Merge(fileCfg), nil
}

func resolveHistoryConfig(cmd *cobra.Command, fileCfg config.FileConfig) (model.HistoryConfig, error) {
	applyStringConfig(cmd, "history-backend", &historyBackend, fileCfg.History.Backend)
	applyStringConfig(cmd, "history-path", &historyPath, fileCfg.History.Path)
	cfg := model.HistoryConfig{
		Backend: strings.ToLower(strings.TrimSpace(historyBackend)),
		Path:    historyPath,
	}
	switch cfg.Backend {
	case model.BackendJSON, model.BackendSQLite:
	default:
		return model.HistoryConfig{}, fmt.Errorf("--history-backend must be %q or %q", model.BackendJSON, model.BackendSQLite)
	}
	if cfg.Path == "" {
		cfg.Path = config.DefaultHistoryPath(cfg.Backend)
	}
	return cfg, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyStringConfig(cmd, "corpus", &practiceCorpus, fileCfg.Practice.Corpus)
	applyStringConfig(cmd, "wordlist", &practiceWordList, fileCfg.Practice.WordList)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyFloatConfig(cmd, "caps", &practiceCaps, fileCfg.Practice.CapsPct)
	applyFloatConfig(cmd, "punct", &practicePunct, fileCfg.Practice.PunctPct)
	applyStringConfig(cmd, "punct-set", &practicePunctSet, fileCfg.Practice.PunctSet)
	applyDurationConfig(cmd, "duration", &practiceDuration, fileCfg.Practice.Duration)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)

	cfg := model.Config{
		Mode:       strings.ToLower(strings.TrimSpace(practiceMode)),
		CorpusPath: practiceCorpus,
		WordList:   practiceWordList,
		Words:      practiceWords,
		CapsPct:    practiceCaps,
		PunctPct:   practicePunct,
		PunctSet:   practicePunctSet,
		Duration:   practiceDuration,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
		WeakWindow: practiceWeakWindow,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	histCfg, err := resolveHistoryConfig(cmd, fileCfg)
	if err != nil {
		return err
	}

	gen := generator.New()
	provider, words, err := buildProvider(cfg, gen)
	if err != nil {
		return err
	}

	hist, err := history.Open(histCfg, os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := hist.Close(); cerr != nil {
			logErrf("failed to close history: %v\n", cerr)
		}
	}()

	opts := tui.Options{
		Provider: provider,
		History:  hist,
		Duration: cfg.Duration,
	}
	if cfg.FocusWeak {
		opts.AfterSave = focusWeak(cfg, hist, words)
		if opts.AfterSave != nil {
			opts.AfterSave(context.Background())
		}
	}

	m, err := tui.NewModel(opts)
	if err != nil {
		if errors.Is(err, session.ErrEmptyCorpus) {
			return emptyCorpusError(cfg)
		}
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// buildProvider returns the passage source for cfg. The second result is
// non-nil in words mode so that weak-char focus can adjust it.
func buildProvider(cfg model.Config, gen *generator.Generator) (session.Provider, *corpus.Words, error) {
	if cfg.Mode == model.ModeWords {
		list, err := corpus.LoadLines(cfg.WordList)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load word list: %w", err)
		}
		words := corpus.NewWords(list, corpus.WordsConfig{
			Count:      cfg.Words,
			CapsPct:    cfg.CapsPct,
			PunctPct:   cfg.PunctPct,
			PunctSet:   cfg.PunctSet,
			WeakFactor: cfg.WeakFactor,
		}, gen)
		return words, words, nil
	}
	if cfg.CorpusPath == "" {
		return corpus.Default(gen), nil, nil
	}
	lines, err := corpus.LoadFile(cfg.CorpusPath, gen)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	return lines, nil, nil
}

// focusWeak returns a hook that refreshes the weak-character bias from the
// stored per-character stats. It returns nil when the bias cannot apply.
func focusWeak(cfg model.Config, hist history.Store, words *corpus.Words) func(context.Context) {
	st, ok := hist.(*store.Store)
	if !ok {
		logErrln("--focus-weak needs the sqlite history backend; ignoring")
		return nil
	}
	if words == nil {
		logErrln("--focus-weak only applies in words mode; ignoring")
		return nil
	}
	notified := false
	return func(ctx context.Context) {
		aggs, err := st.GetWeakChars(ctx, cfg.WeakWindow)
		if err != nil {
			logErrf("failed to load weak chars: %v\n", err)
			return
		}
		weakSet := stats.SelectWeakChars(aggs, cfg.WeakTop)
		if len(weakSet) == 0 && !notified {
			logErrln("no stats available for weak-char focus yet; using normal generator")
			notified = true
		}
		words.SetWeakSet(weakSet)
	}
}

func validateConfig(cfg model.Config) error {
	switch cfg.Mode {
	case model.ModePassage:
	case model.ModeWords:
		if cfg.WordList == "" {
			return fmt.Errorf("--wordlist is required in %s mode", model.ModeWords)
		}
	default:
		return fmt.Errorf("--mode must be %q or %q", model.ModePassage, model.ModeWords)
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.Duration < 0 {
		return fmt.Errorf("--duration must be >= 0")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func emptyCorpusError(cfg model.Config) error {
	lines := []string{"no passages available"}
	switch {
	case cfg.Mode == model.ModeWords:
		lines = append(lines, fmt.Sprintf("word list %s has no usable words", cfg.WordList))
	case cfg.CorpusPath != "":
		lines = append(lines, fmt.Sprintf("corpus %s has no non-blank lines", cfg.CorpusPath))
	}
	lines = append(lines, "Pass a file with one passage per line: typetest --corpus <path>")
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
