package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typetest/internal/history"
	"github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/statsui"
)

const (
	defaultCurveWindow = 5
	defaultRecent      = 10
	plainCharRows      = 20
)

var (
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show progress across stored sessions",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsLast, "last", defaultRecent, "number of recent sessions to list")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain report instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	histCfg, err := resolveHistoryConfig(cmd, fileCfg)
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

	chars, _ := hist.(statsui.CharSource)
	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return printStats(cmd.Context(), cmd.OutOrStdout(), hist, chars)
	}

	m := statsui.NewModel(hist, chars, statsui.Options{Last: statsLast, CurveWindow: statsCurveWindow})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func printStats(ctx context.Context, w io.Writer, hist history.Store, chars statsui.CharSource) error {
	if ctx == nil {
		ctx = context.Background()
	}
	summaries, err := hist.Summaries(ctx)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	progress, ok := history.Progress(summaries)
	if !ok {
		return stats.RenderProgress(w, nil)
	}
	if err := stats.RenderProgress(w, &progress); err != nil {
		return err
	}
	curves := stats.SummaryCurves(summaries, statsCurveWindow)
	width := stats.CurveWidthFor(stats.TerminalWidth())
	if err := stats.RenderCurves(w, "Trend", curves, width); err != nil {
		return err
	}
	if err := stats.RenderRecent(w, summaries, statsLast); err != nil {
		return err
	}
	if chars == nil {
		return nil
	}
	aggs, err := chars.ListCharAggregates(ctx)
	if err != nil {
		return fmt.Errorf("failed to load character stats: %w", err)
	}
	return stats.RenderCharTable(w, stats.MostPracticed(aggs, plainCharRows))
}
