package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kikiluvv/partsplit/internal/pipeline"
)

// Run starts a batch and shows it in a bubbletea program until it finishes.
// Interrupting the program cancels the batch; Run still waits for its outcome.
func Run(ctx context.Context, runner *pipeline.Runner, req pipeline.Request, interval time.Duration, logLines int) (pipeline.BatchOutcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := pipeline.NewQueue()
	done, err := runner.Start(ctx, req, queue)
	if err != nil {
		return pipeline.BatchOutcome{}, err
	}

	program := tea.NewProgram(NewModel(queue, cancel, interval, logLines))
	if _, err := program.Run(); err != nil {
		cancel()
		<-done
		return pipeline.BatchOutcome{}, fmt.Errorf("progress display failed: %w", err)
	}

	return <-done, nil
}

// PlainPrinter writes batch events as plain lines, for pipes and CI logs
type PlainPrinter struct {
	w       io.Writer
	verbose bool
}

// NewPlainPrinter creates a printer. ffmpeg output lines are only written when
// verbose is set; the batch's own log lines always are.
func NewPlainPrinter(w io.Writer, verbose bool) *PlainPrinter {
	return &PlainPrinter{w: w, verbose: verbose}
}

func (p *PlainPrinter) Publish(e pipeline.Event) {
	switch e.Kind {
	case pipeline.EventLog:
		if e.Encoder && !p.verbose {
			return
		}
		fmt.Fprintln(p.w, e.Text)
	case pipeline.EventProgress:
		if e.Total > 0 {
			fmt.Fprintf(p.w, "[%d/%d] clips done\n", e.Done, e.Total)
		}
	case pipeline.EventDone:
		if e.Outcome != nil {
			fmt.Fprintln(p.w, e.Outcome.Summary())
		}
	}
}
