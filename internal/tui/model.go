// Package tui provides the Bubble Tea front end for the coin-flip engine.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/coinflip/internal/coin"
	"github.com/san-kum/coinflip/internal/engine"
	"github.com/san-kum/coinflip/internal/report"
	"github.com/san-kum/coinflip/internal/stats"
)

const (
	defaultWidth = 80
	historyRows  = 4
	maxSeries    = 2000
	flipFrames   = 10
	flipInterval = 50 * time.Millisecond
)

var coinFrames = []string{"( H )", "( | )", "( T )", "( | )"}

type flipTickMsg struct{}

type autoStartMsg struct{}

type Options struct {
	Theme       string
	HistorySize int
	Trials      int
	AutoStart   bool
	Logger      *slog.Logger
}

// Model is the interactive simulator view. It never touches run state
// directly; everything it shows arrives through Bridge messages.
type Model struct {
	eng    *engine.Engine
	logger *slog.Logger
	input  textinput.Model
	theme  Theme

	running   bool
	autoStart bool
	progress  stats.Progress
	result    *engine.Result
	series    []float64
	history   []coin.Outcome
	capacity  int
	scroll    int
	flipFrame int

	width, height int
}

func NewModel(eng *engine.Engine, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "trials: "
	ti.Placeholder = "1000"
	ti.CharLimit = 10
	ti.Width = 12
	if opts.Trials > 0 {
		ti.SetValue(fmt.Sprint(opts.Trials))
	}
	ti.Focus()

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return Model{
		eng:       eng,
		logger:    logger,
		input:     ti,
		theme:     GetTheme(opts.Theme),
		autoStart: opts.AutoStart,
		series:    make([]float64, 0, 256),
		history:   make([]coin.Outcome, 0, max(opts.HistorySize, 0)),
		capacity:  opts.HistorySize,
		flipFrame: -1,
		width:     defaultWidth,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.autoStart {
		cmds = append(cmds, func() tea.Msg { return autoStartMsg{} })
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case autoStartMsg:
		m.start()
		return m, nil

	case startedMsg:
		m.running = true
		m.result = nil
		m.progress = stats.Progress{Requested: msg.requested}
		m.series = m.series[:0]
		m.history = m.history[:0]
		m.scroll = 0
		m.flipFrame = 0
		return m, flipTick()

	case progressMsg:
		m.progress = msg.p
		if msg.p.HasOutcome() {
			m.pushOutcome(msg.p.Latest)
			m.series = append(m.series, msg.p.HeadsProbability)
			if len(m.series) > maxSeries {
				m.series = append(m.series[:0], m.series[len(m.series)-maxSeries:]...)
			}
		}
		return m, nil

	case stoppedMsg:
		m.running = false
		res := msg.res
		m.result = &res
		return m, nil

	case flipTickMsg:
		if m.flipFrame < 0 {
			return m, nil
		}
		m.flipFrame++
		if m.flipFrame >= flipFrames {
			m.flipFrame = -1
			return m, nil
		}
		return m, flipTick()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.eng.Cancel()
		return m, tea.Quit
	case "enter":
		m.start()
		return m, nil
	case "esc", "c":
		m.eng.Cancel()
		return m, nil
	case "t":
		m.theme = m.theme.toggled()
		return m, nil
	case "up", "k":
		if m.scroll < m.historyLines()-historyRows {
			m.scroll++
		}
		return m, nil
	case "down", "j":
		if m.scroll > 0 {
			m.scroll--
		}
		return m, nil
	}

	if !acceptsInput(msg) {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// acceptsInput keeps letters free for shortcuts; the field takes digits
// and editing keys only.
func acceptsInput(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyLeft, tea.KeyRight, tea.KeyHome, tea.KeyEnd:
		return true
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
	return false
}

// start requests a run. Rejections (bad input, run in progress) are
// dropped without feedback.
func (m *Model) start() {
	n, err := engine.ParseTrials(m.input.Value())
	if err != nil {
		m.logger.Debug("start ignored", "input", m.input.Value(), "err", err)
		return
	}
	if err := m.eng.Start(context.Background(), n); err != nil {
		m.logger.Debug("start ignored", "trials", n, "err", err)
	}
}

func (m *Model) pushOutcome(o coin.Outcome) {
	if m.capacity <= 0 {
		return
	}
	if len(m.history) == m.capacity {
		copy(m.history, m.history[1:])
		m.history = m.history[:len(m.history)-1]
	}
	m.history = append(m.history, o)
}

func flipTick() tea.Cmd {
	return tea.Tick(flipInterval, func(time.Time) tea.Msg { return flipTickMsg{} })
}

func (m Model) perRow() int {
	return max((m.width-6)/2, 1)
}

func (m Model) historyLines() int {
	return (len(m.history) + m.perRow() - 1) / m.perRow()
}

func (m Model) View() string {
	st := m.theme.styles()
	var b strings.Builder

	b.WriteString(st.title.Render("coinflip") + "  " + st.muted.Render(m.theme.Name+" theme") + "\n")
	b.WriteString(m.coinView(st) + "   " + m.input.View() + "\n\n")

	barWidth := max(m.width-20, 10)
	b.WriteString(st.bar.Render(ProgressBar(m.progress.Percent/100, barWidth)))
	b.WriteString(fmt.Sprintf(" %6.2f%%\n\n", m.progress.Percent))

	b.WriteString(m.statsView(st) + "\n")
	b.WriteString(m.historyView(st) + "\n")

	if len(m.series) > 1 {
		b.WriteString(report.PlotConvergence(m.series, max(m.width-12, 20), 6) + "\n")
	}

	status := "idle"
	switch {
	case m.running:
		status = "running"
	case m.result != nil && m.result.Cancelled:
		status = fmt.Sprintf("cancelled after %d trials", m.result.Trials)
	case m.result != nil:
		status = fmt.Sprintf("done in %s", m.result.Elapsed.Round(time.Millisecond))
	}
	b.WriteString("\n" + st.muted.Render(status+"  ·  enter start · c cancel · t theme · ↑/↓ history · q quit"))
	return b.String()
}

func (m Model) coinView(st styles) string {
	if m.flipFrame >= 0 {
		return st.heads.Render(coinFrames[m.flipFrame%len(coinFrames)])
	}
	switch m.progress.Latest {
	case coin.Heads:
		return st.heads.Render("( H )")
	case coin.Tails:
		return st.tails.Render("( T )")
	}
	if len(m.history) > 0 {
		return m.face(st, m.history[len(m.history)-1])
	}
	return st.muted.Render("( ? )")
}

func (m Model) face(st styles, o coin.Outcome) string {
	if o == coin.Heads {
		return st.heads.Render("( H )")
	}
	return st.tails.Render("( T )")
}

func (m Model) statsView(st styles) string {
	p := m.progress
	row := func(label, h, t string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, st.label.Render(label), st.value.Render(h), st.value.Render(t))
	}
	rows := []string{
		row("", st.heads.Render("heads"), st.tails.Render("tails")),
		row("count", fmt.Sprint(p.Heads), fmt.Sprint(p.Tails)),
		row("probability", fmt.Sprintf("%.2f%%", p.HeadsProbability), fmt.Sprintf("%.2f%%", p.TailsProbability)),
		row("max streak", fmt.Sprint(p.MaxHeadsStreak), fmt.Sprint(p.MaxTailsStreak)),
		row("avg streak", fmt.Sprintf("%.2f", p.AvgHeadsStreak), fmt.Sprintf("%.2f", p.AvgTailsStreak)),
		row("std streak", fmt.Sprintf("%.2f", p.StdHeadsStreak), fmt.Sprintf("%.2f", p.StdTailsStreak)),
	}
	return st.panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) historyView(st styles) string {
	perRow := m.perRow()
	lines := make([]string, 0, m.historyLines())
	for i := 0; i < len(m.history); i += perRow {
		end := min(i+perRow, len(m.history))
		cells := make([]string, 0, end-i)
		for _, o := range m.history[i:end] {
			if o == coin.Heads {
				cells = append(cells, st.heads.Render("H"))
			} else {
				cells = append(cells, st.tails.Render("T"))
			}
		}
		lines = append(lines, strings.Join(cells, " "))
	}

	// Pinned to the newest row unless the user scrolled up.
	end := len(lines) - m.scroll
	start := max(end-historyRows, 0)
	visible := lines[start:max(end, 0)]
	for len(visible) < historyRows {
		visible = append(visible, "")
	}
	return st.panel.Render(strings.Join(visible, "\n"))
}

// ProgressBar renders a fixed-width bar for percent in [0, 1].
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
