package dispatch

import (
	"time"

	"github.com/google/uuid"
)

// Outcome describes what a settled dispatch attempt did.
type Outcome int

const (
	// Dispatched means a handler ran to completion.
	Dispatched Outcome = iota
	// Suppressed means the URL repeated within the repeat threshold.
	Suppressed
	// NoHandler means nothing in the registry handles the URL.
	NoHandler
	// HandlerFailed means the handler panicked.
	HandlerFailed
)

func (o Outcome) String() string {
	switch o {
	case Dispatched:
		return "dispatched"
	case Suppressed:
		return "suppressed"
	case NoHandler:
		return "no-handler"
	case HandlerFailed:
		return "handler-failed"
	default:
		return "unknown"
	}
}

// Event reports one settled dispatch attempt to an observer.
type Event struct {
	ID       string
	URL      string
	Outcome  Outcome
	At       time.Time
	Duration time.Duration // handler run time
	Err      error
}

func newEvent(url string, outcome Outcome, at time.Time) Event {
	return Event{
		ID:      uuid.NewString(),
		URL:     url,
		Outcome: outcome,
		At:      at,
	}
}

// Stats are running totals for a coordinator.
type Stats struct {
	Signals    int64
	Coalesced  int64
	Dispatched int64
	Suppressed int64
	NoHandler  int64
	Failed     int64
}
