package service

import "context"

const eventBuffer = 16

// EventType discriminates progress events on a stream.
type EventType string

const (
	EventStatus  EventType = "status"
	EventSummary EventType = "summary"
	EventError   EventType = "error"
)

// Event is one progress message. Ordering within a run is FIFO; no two
// runs share a stream.
type Event struct {
	Type    EventType `json:"type"`
	Message string    `json:"message,omitempty"`
}

// Stream couples one background pipeline run with a bounded event queue.
// The run goroutine is the sole producer; the consumer polls Events and
// Done, then reads the terminal Result.
type Stream struct {
	events chan Event
	done   chan struct{}
	cancel context.CancelFunc

	result *Result
	err    error
}

// StartStream launches Run in the background and returns the stream the
// caller consumes. Status events are buffered; a slow consumer only ever
// back-pressures the run, it cannot drop or reorder events.
func (a *Agent) StartStream(ctx context.Context, url string) *Stream {
	runCtx, cancel := context.WithCancel(ctx)
	s := &Stream{
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer close(s.done)
		s.result, s.err = a.Run(runCtx, url, func(message string) {
			s.events <- Event{Type: EventStatus, Message: message}
		})
	}()

	return s
}

// Events yields status messages in emission order.
func (s *Stream) Events() <-chan Event {
	return s.events
}

// Done is closed once the producer goroutine has finished, successfully
// or not. Buffered events may still be pending at that point.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Result returns the run outcome. Valid only after Done is closed.
func (s *Stream) Result() (*Result, error) {
	return s.result, s.err
}

// Cancel cooperatively stops the producer and waits for its teardown so
// no orphaned work outlives the stream.
func (s *Stream) Cancel() {
	s.cancel()
	for {
		select {
		case <-s.events:
			// Drain so a producer blocked on a full buffer can unwind.
		case <-s.done:
			return
		}
	}
}
