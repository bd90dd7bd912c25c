// Package tui is the terminal consumer of a split batch: a bubbletea program
// that polls the batch event queue and draws a progress box with the most
// recent log lines, plus a huh form for entering options.
package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/kikiluvv/partsplit/internal/pipeline"
)

const defaultWidth = 72

// pollMsg fires every poll interval
type pollMsg time.Time

// Model is the bubbletea model for one running batch. It owns all
// presentation state; the batch only ever touches the queue.
type Model struct {
	queue    *pipeline.Queue
	cancel   context.CancelFunc
	interval time.Duration
	maxLines int

	width      int
	progress   progressState
	lines      []string
	outcome    *pipeline.BatchOutcome
	cancelling bool
}

// NewModel creates a model that drains queue every interval and keeps the
// last maxLines log lines. cancel is called when the user interrupts.
func NewModel(queue *pipeline.Queue, cancel context.CancelFunc, interval time.Duration, maxLines int) Model {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	if maxLines <= 0 {
		maxLines = 12
	}
	return Model{
		queue:    queue,
		cancel:   cancel,
		interval: interval,
		maxLines: maxLines,
		width:    defaultWidth,
	}
}

// Outcome returns the batch outcome once the done event has been seen
func (m Model) Outcome() *pipeline.BatchOutcome {
	return m.outcome
}

func (m Model) poll() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.poll()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.cancelling && m.cancel != nil {
				m.cancelling = true
				m.progress.Status = "Cancelling..."
				m.cancel()
			}
		}
		return m, nil

	case pollMsg:
		for _, e := range m.queue.Drain() {
			m = m.apply(e)
		}
		if m.outcome != nil {
			return m, tea.Quit
		}
		return m, m.poll()
	}

	return m, nil
}

// apply folds one event into the presentation state
func (m Model) apply(e pipeline.Event) Model {
	switch e.Kind {
	case pipeline.EventLog:
		for _, line := range strings.Split(e.Text, "\n") {
			m.lines = append(m.lines, line)
		}
		if len(m.lines) > m.maxLines {
			m.lines = m.lines[len(m.lines)-m.maxLines:]
		}
	case pipeline.EventStatus:
		m.progress.Status = e.Text
	case pipeline.EventProgress:
		m.progress.Completed = e.Done
		m.progress.Total = e.Total
		m.progress.Fraction = 0
	case pipeline.EventClipProgress:
		m.progress.Clip = e.Clip
		m.progress.Fraction = e.Fraction
	case pipeline.EventDone:
		m.outcome = e.Outcome
	}
	return m
}

func (m Model) View() string {
	width := m.width
	if width > 120 {
		width = 120
	}

	var b strings.Builder
	b.WriteString(renderProgress(m.progress, width))
	b.WriteString("\n")

	for _, line := range m.lines {
		b.WriteString(mutedStyle.Render(ansi.Truncate(line, width, "...")))
		b.WriteString("\n")
	}

	switch {
	case m.outcome != nil && m.outcome.OK():
		b.WriteString(successStyle.Render(m.outcome.Summary()))
		b.WriteString("\n")
	case m.outcome != nil:
		b.WriteString(errorStyle.Render(m.outcome.Summary()))
		b.WriteString("\n")
	case !m.cancelling:
		b.WriteString(mutedStyle.Render("ctrl+c to cancel"))
		b.WriteString("\n")
	}

	return b.String()
}
