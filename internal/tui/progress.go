// Package tui shows a live progress view while a solver runs.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

var ErrInterrupted = errors.New("tui: interrupted")

// Runner is the part of a solver the progress view drives.
type Runner interface {
	Run()
	Progress() int64
	Timesteps() int
}

const (
	barWidth     = 36
	historyLen   = 60
	tickInterval = 100 * time.Millisecond
)

type tickMsg time.Time

type doneMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	title string
	r     Runner
	total int64

	start    time.Time
	last     time.Time
	lastDone int64
	rate     float64
	history  []float64

	done        bool
	interrupted bool
}

func newModel(title string, r Runner) model {
	now := time.Now()
	return model{
		title:   title,
		r:       r,
		total:   int64(r.Timesteps()),
		start:   now,
		last:    now,
		history: make([]float64, 0, historyLen),
	}
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.interrupted = true
			return m, tea.Quit
		}
	case tickMsg:
		now := time.Time(msg)
		done := m.r.Progress()
		if dt := now.Sub(m.last).Seconds(); dt > 0 {
			m.rate = float64(done-m.lastDone) / dt
			m.history = append(m.history, m.rate)
			if len(m.history) > historyLen {
				m.history = m.history[1:]
			}
		}
		m.last, m.lastDone = now, done
		return m, tick()
	case doneMsg:
		m.done = true
		m.lastDone = m.total
		return m, tea.Quit
	}
	return m, nil
}

func (m model) fraction() float64 {
	if m.total <= 0 {
		return 1
	}
	f := float64(m.lastDone) / float64(m.total)
	if f > 1 {
		f = 1
	}
	return f
}

func (m model) View() string {
	var b strings.Builder

	status := green.Render("● running")
	if m.done {
		status = green.Render("✓ done")
	} else if m.interrupted {
		status = yellow.Render("○ interrupted")
	}
	b.WriteString(fmt.Sprintf("\n   %s  %s\n", cyan.Render(m.title), status))

	frac := m.fraction()
	filled := int(frac * barWidth)
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s  %s\n",
		bar,
		white.Render(fmt.Sprintf("%5.1f%%", 100*frac)),
		dim.Render(fmt.Sprintf("%d/%d steps", m.lastDone, m.total))))

	elapsed := m.last.Sub(m.start).Round(100 * time.Millisecond)
	eta := "-"
	if m.rate > 0 && !m.done {
		remaining := float64(m.total-m.lastDone) / m.rate
		eta = (time.Duration(remaining * float64(time.Second))).Round(time.Second).String()
	}
	b.WriteString(fmt.Sprintf("   %s %s  %s %s  %s %s\n",
		dim.Render("elapsed"), white.Render(elapsed.String()),
		dim.Render("eta"), white.Render(eta),
		dim.Render("rate"), white.Render(fmt.Sprintf("%.0f steps/s", m.rate))))

	if len(m.history) > 1 {
		b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("rate"), cyan.Render(sparkline(m.history, 24))))
	}

	b.WriteString("\n" + dim.Render("   q quit") + "\n")
	return b.String()
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		idx := int((data[i*step] - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

// RunProgress runs r in the background while showing the progress view,
// and returns the wall time of the run. Quitting the view returns
// ErrInterrupted; the solver itself cannot be cancelled and keeps running
// until the process exits.
func RunProgress(title string, r Runner, opts ...tea.ProgramOption) (time.Duration, error) {
	p := tea.NewProgram(newModel(title, r), opts...)

	start := time.Now()
	var elapsed time.Duration
	go func() {
		r.Run()
		elapsed = time.Since(start)
		p.Send(doneMsg{})
	}()

	final, err := p.Run()
	if err != nil {
		return 0, err
	}
	if m, ok := final.(model); ok && m.interrupted {
		return time.Since(start), ErrInterrupted
	}
	return elapsed, nil
}
