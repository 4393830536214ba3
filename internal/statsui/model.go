// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetest/internal/history"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
)

const (
	tabOverview = iota
	tabSessions
	tabChars
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// CharSource supplies per-character aggregates. Only the SQLite history
// keeps them.
type CharSource interface {
	ListCharAggregates(ctx context.Context) ([]model.CharAggregate, error)
}

// Options tunes the initial view.
type Options struct {
	// Last limits the sessions tab to the most recent entries; 0 shows all.
	Last        int
	CurveWindow int
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	history history.Store
	chars   CharSource
	opts    Options

	summaries []model.Summary
	progress  *model.Progress
	charAggs  []model.CharAggregate
	errMsg    string

	tabs         []string
	activeTab    int
	overview     viewport.Model
	sessionTable table.Model
	charTable    table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model. chars may be nil, in which case the
// character tab is hidden.
func NewModel(h history.Store, chars CharSource, opts Options) *Model {
	if opts.CurveWindow < 1 {
		opts.CurveWindow = 1
	}
	m := &Model{
		history: h,
		chars:   chars,
		opts:    opts,
		tabs:    []string{"Overview", "Sessions"},
	}
	if chars != nil {
		m.tabs = append(m.tabs, "Characters")
	}
	m.overview = viewport.New(0, 0)
	m.sessionTable = newTable(sessionColumns())
	m.charTable = newTable(charColumns())
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.opts.CurveWindow = nextCurveWindow(m.opts.CurveWindow)
			m.renderOverview()
			return m, nil
		case "-":
			m.opts.CurveWindow = prevCurveWindow(m.opts.CurveWindow)
			m.renderOverview()
			return m, nil
		case "r":
			m.refresh()
			m.updateLayout()
			return m, nil
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case tabSessions:
			m.sessionTable, cmd = m.sessionTable.Update(msg)
		case tabChars:
			m.charTable, cmd = m.charTable.Update(msg)
		default:
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) refresh() {
	m.errMsg = ""
	ctx := context.Background()
	summaries, err := m.history.Summaries(ctx)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load history: %v", err)
		summaries = nil
	}
	m.summaries = summaries
	m.progress = nil
	if p, ok := history.Progress(summaries); ok {
		m.progress = &p
	}
	m.sessionTable.SetRows(sessionRows(recent(summaries, m.opts.Last)))
	m.sessionTable.GotoBottom()

	m.charAggs = nil
	if m.chars != nil {
		aggs, err := m.chars.ListCharAggregates(ctx)
		if err != nil {
			m.errMsg = fmt.Sprintf("failed to load character stats: %v", err)
		} else {
			m.charAggs = sortCharAggsByTotal(aggs)
		}
	}
	m.charTable.SetRows(charRows(m.charAggs))
	m.renderOverview()
}

func (m *Model) renderOverview() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.progress, m.summaries, m.opts.CurveWindow, width))
}

func renderOverview(progress *model.Progress, summaries []model.Summary, window, width int) string {
	if progress == nil {
		return "No data yet."
	}
	cards := []string{
		metricCard("Total Tests", fmt.Sprintf("%d", progress.Total)),
		metricCard("Best WPM", fmt.Sprintf("%d", progress.BestWPM)),
		metricCard("Average WPM", fmt.Sprintf("%.1f", progress.AvgWPM)),
		metricCard("Average Accuracy", fmt.Sprintf("%.1f%%", progress.AvgAccuracy)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		summary = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	var buf bytes.Buffer
	title := fmt.Sprintf("Trend (window %d)", window)
	if err := stats.RenderCurves(&buf, title, stats.SummaryCurves(summaries, window), stats.CurveWidthFor(width)); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + count) % count
	m.sessionTable.Blur()
	m.charTable.Blur()
	switch m.activeTab {
	case tabSessions:
		m.sessionTable.Focus()
	case tabChars:
		m.charTable.Focus()
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(activeNavStyle.Render("X"))
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = maxInt(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.sessionTable.SetWidth(m.width)
	m.sessionTable.SetHeight(maxInt(1, bodyHeight-1))
	m.charTable.SetWidth(m.width)
	m.charTable.SetHeight(maxInt(1, bodyHeight-1))
	m.renderOverview()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderBody() string {
	switch m.activeTab {
	case tabSessions:
		if len(m.summaries) == 0 {
			return "No data yet."
		}
		return tableMutedStyle.Render(m.sessionTable.View())
	case tabChars:
		if len(m.charAggs) == 0 {
			return "No character stats found."
		}
		return tableMutedStyle.Render(m.charTable.View())
	default:
		return m.overview.View()
	}
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render(truncateLine("Nav: left/right  Scroll: up/down  Window: -/=  Reload: r  Quit: q", m.width))
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	return help
}
