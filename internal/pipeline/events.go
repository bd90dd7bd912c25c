package pipeline

import (
	"context"
	"sync"
	"time"
)

// EventKind tells consumers which fields of an Event are set
type EventKind int

const (
	EventLog          EventKind = iota // Text is one log line
	EventStatus                        // Text is a short status for a status bar
	EventProgress                      // Done of Total clips finished
	EventClipProgress                  // Clip is Fraction encoded
	EventDone                          // Outcome is set; always the last event of a batch
)

// Event is an immutable notification from a running batch
type Event struct {
	Kind     EventKind
	Time     time.Time
	Text     string
	Encoder  bool // Text is a line of ffmpeg output
	Done     int
	Total    int
	Clip     int
	Fraction float64
	Outcome  *BatchOutcome
}

// Sink receives batch events. Publish is called from the batch goroutine and
// must not block for long.
type Sink interface {
	Publish(Event)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(Event)

func (f SinkFunc) Publish(e Event) { f(e) }

// Queue is an unbounded FIFO hand-off between a batch and a consumer that
// owns presentation state. The batch publishes, the consumer drains on its own
// schedule.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Publish appends an event
func (q *Queue) Publish(e Event) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()
}

// Drain removes and returns every queued event in publish order
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	return out
}

// Len returns the number of queued events
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Poll drains the queue every interval and hands non-empty batches to fn on
// the polling goroutine. It returns right after fn has been handed an
// EventDone, or after ctx is done and a final drain. ctx must outlive the
// batch: a batch cancelled through its own context still publishes its
// outcome afterwards, so poll on the consumer's context, not the batch's.
func (q *Queue) Poll(ctx context.Context, interval time.Duration, fn func([]Event)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	deliver := func() bool {
		events := q.Drain()
		if len(events) == 0 {
			return false
		}
		fn(events)
		return events[len(events)-1].Kind == EventDone
	}

	for {
		select {
		case <-ctx.Done():
			deliver()
			return
		case <-ticker.C:
			if deliver() {
				return
			}
		}
	}
}
