// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetest/internal/history"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/session"
	"github.com/verte-zerg/typetest/internal/stats"
)

// refreshInterval matches how often live WPM is recomputed.
const refreshInterval = 500 * time.Millisecond

type screen int

const (
	screenStart screen = iota
	screenTyping
	screenResults
	screenProgress
)

type tickMsg time.Time

// Options configures the typing UI.
type Options struct {
	Provider session.Provider
	History  history.Store
	// Duration ends each session after a fixed time when positive.
	Duration time.Duration
	// AfterSave runs after each completed session is stored.
	AfterSave func(ctx context.Context)
	// SessionOptions are passed to every new session.
	SessionOptions []session.Option
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	opts Options

	width  int
	height int

	screen   screen
	first    string
	sess     *session.Session
	liveWPM  int
	summary  model.Summary
	analysis stats.Analysis
	progress *model.Progress
	errMsg   string
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// NewModel constructs a typing TUI model on the start screen. The first
// passage is selected here so an empty corpus fails before the UI runs; its
// session clock starts on the first key press.
func NewModel(opts Options) (*Model, error) {
	sess, err := session.New(opts.Provider, opts.SessionOptions...)
	if err != nil {
		return nil, err
	}
	return &Model{opts: opts, screen: screenStart, first: sess.Target()}, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.onTick()
		return m, tick()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch m.screen {
		case screenStart:
			first := m.first
			if err := m.startSession(session.ProviderFunc(func() (string, error) { return first, nil })); err != nil {
				m.errMsg = err.Error()
			}
		case screenTyping:
			m.handleTypingKey(msg)
		case screenResults:
			if msg.Type == tea.KeyEnter {
				m.showProgress()
			}
		case screenProgress:
			if msg.Type == tea.KeyEnter {
				if err := m.startSession(m.opts.Provider); err != nil {
					m.errMsg = err.Error()
				}
			}
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleTypingKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		m.sess.Ingest(session.BackspaceKey())
	case tea.KeySpace:
		m.sess.Ingest(session.RuneKey(' '))
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.sess.Ingest(session.RuneKey(r))
		}
	default:
		return
	}
	m.liveWPM = m.sess.LiveWPM()
	if m.sess.Finished() {
		m.completeSession()
	}
}

func (m *Model) onTick() {
	if m.screen != screenTyping || m.sess == nil {
		return
	}
	if m.opts.Duration > 0 && m.sess.Elapsed() >= m.opts.Duration {
		m.sess.Finish()
		m.completeSession()
		return
	}
	m.liveWPM = m.sess.LiveWPM()
}

func (m *Model) startSession(p session.Provider) error {
	sess, err := session.New(p, m.opts.SessionOptions...)
	if err != nil {
		return err
	}
	m.sess = sess
	m.liveWPM = 0
	m.errMsg = ""
	m.first = ""
	m.screen = screenTyping
	return nil
}

func (m *Model) completeSession() {
	m.summary = m.sess.Summary()
	m.analysis = stats.Analyze(m.sess)
	m.screen = screenResults
	if m.opts.History == nil {
		return
	}
	ctx := context.Background()
	if err := m.opts.History.Append(ctx, m.summary, m.sess.CharStats()); err != nil {
		m.errMsg = fmt.Sprintf("failed to save session: %v", err)
		logErrf("failed to save session: %v\n", err)
		return
	}
	if m.opts.AfterSave != nil {
		m.opts.AfterSave(ctx)
	}
}

func (m *Model) showProgress() {
	m.screen = screenProgress
	m.progress = nil
	if m.opts.History == nil {
		return
	}
	p, err := history.ProgressStats(context.Background(), m.opts.History)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load progress: %v", err)
		logErrf("failed to load progress: %v\n", err)
		return
	}
	m.progress = p
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.screen {
	case screenStart:
		content = renderStart()
	case screenResults:
		content = m.renderResults()
	case screenProgress:
		content = m.renderProgress()
	default:
		content = m.renderTyping()
	}
	if m.errMsg != "" {
		content += "\n\n" + errorStyle.Render(m.errMsg)
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func renderStart() string {
	return strings.Join([]string{
		titleStyle.Render("Welcome to the Speed Typing Test!"),
		"",
		"Press any key to begin",
		"",
		footerStyle.Render("Esc to quit"),
	}, "\n")
}

func (m *Model) renderTyping() string {
	states := m.sess.States()
	typed, total := m.sess.Progress()
	cursorIndex := -1
	if typed < total {
		cursorIndex = typed
	}
	styled := buildStyledRunes(states, cursorIndex)
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		return renderStyledRunes(styled) + "\n\n" + m.renderFooter()
	}
	wrapped := lipgloss.NewStyle().Width(contentWidth).Render(wrapStyledRunes(styled, contentWidth))
	return wrapped + "\n\n" + m.renderFooter()
}

func (m *Model) renderFooter() string {
	typed, total := m.sess.Progress()
	progress := 0
	if total > 0 {
		progress = typed * 100 / total
	}
	segments := []string{
		fmt.Sprintf("WPM: %d", m.liveWPM),
		fmt.Sprintf("Progress %d%%", progress),
	}
	if m.opts.Duration > 0 {
		left := m.opts.Duration - m.sess.Elapsed()
		if left < 0 {
			left = 0
		}
		segments = append(segments, fmt.Sprintf("Time left %ds", int(left.Round(time.Second).Seconds())))
	}
	segments = append(segments, "Esc to quit")
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) renderResults() string {
	a := m.analysis
	weak := "None"
	if len(a.WeakKeys) > 0 {
		keys := make([]string, len(a.WeakKeys))
		for i, k := range a.WeakKeys {
			keys[i] = charLabel(k.Char)
		}
		weak = strings.Join(keys, ", ")
	}
	lines := []string{
		titleStyle.Render("Performance Feedback"),
		"",
		fmt.Sprintf("WPM: %d | Accuracy: %.2f%% | Mistakes: %d", m.summary.WPM, m.summary.Accuracy, m.summary.Mistakes),
		"",
		fmt.Sprintf("Profile: %s", a.Profile),
		fmt.Sprintf("Typing Consistency: %s", a.Consistency),
		"",
		fmt.Sprintf("Weak Keys: %s", weak),
	}
	if len(a.TopMistakes) > 0 {
		parts := make([]string, len(a.TopMistakes))
		for i, c := range a.TopMistakes {
			parts[i] = fmt.Sprintf("%s×%d", charLabel(c.Char), c.Count)
		}
		lines = append(lines, fmt.Sprintf("Top Mistakes: %s", strings.Join(parts, " ")))
	}
	lines = append(lines,
		fmt.Sprintf("Avg key delay: %.3fs", a.AverageKeyDelay),
		"",
		fmt.Sprintf("Tip: %s", a.Tip),
		"",
		footerStyle.Render("Enter to continue  Esc to quit"),
	)
	return strings.Join(lines, "\n")
}

func (m *Model) renderProgress() string {
	lines := []string{titleStyle.Render("Your Progress"), ""}
	if m.progress == nil {
		lines = append(lines, "No data yet.")
	} else {
		lines = append(lines,
			fmt.Sprintf("Total Tests: %d", m.progress.Total),
			fmt.Sprintf("Best WPM: %d", m.progress.BestWPM),
			fmt.Sprintf("Average WPM: %.1f", m.progress.AvgWPM),
			fmt.Sprintf("Average Accuracy: %.1f%%", m.progress.AvgAccuracy),
		)
	}
	lines = append(lines, "", footerStyle.Render("Enter for a new test  Esc to quit"))
	return strings.Join(lines, "\n")
}

func charLabel(r rune) string {
	if r == ' ' {
		return "<space>"
	}
	return string(r)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
