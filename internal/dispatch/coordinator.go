// Package dispatch settles bursts of navigation signals into single handler
// invocations.
//
// Every raw signal restarts a debounce window; when the window elapses only
// the most recent URL is considered. A URL that was dispatched less than the
// repeat threshold before it was requested again is dropped. Otherwise the
// URL is resolved to a handler, a page snapshot is captured and the handler
// runs with panics contained.
package dispatch

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/vidyasagar/pagehook/internal/pagectx"
	"github.com/vidyasagar/pagehook/internal/route"
	"go.uber.org/atomic"
)

const (
	DefaultDelay           = 2000 * time.Millisecond
	DefaultRepeatThreshold = 2000 * time.Millisecond
)

// ErrHandlerPanic wraps the value a handler panicked with.
var ErrHandlerPanic = errors.New("handler panicked")

// Resolver maps a URL to its handler. *route.Matcher implements it.
type Resolver interface {
	FindHandler(url string) (route.Handler, bool)
}

// state is the dispatch bookkeeping for one page context. It is only
// touched with Coordinator.mu held.
type state struct {
	lastURL  string
	lastTime time.Time
	hasLast  bool

	pendingURL string
	pendingAt  time.Time
	hasPending bool

	timer Timer
	seq   uint64 // identifies the live timer; older timers are stale
}

// StateView is a read-only copy of the dispatch state.
type StateView struct {
	LastProcessedURL string
	LastProcessTime  time.Time
	PendingURL       string
	HasPending       bool
	TimerScheduled   bool
}

// Coordinator owns the dispatch state of one page context.
type Coordinator struct {
	resolver Resolver
	env      pagectx.Environment
	clock    Clock
	delay    time.Duration
	repeat   time.Duration
	logger   *slog.Logger
	observer func(Event)
	origin   time.Time

	mu     sync.Mutex
	st     state
	closed bool

	signals    atomic.Int64
	coalesced  atomic.Int64
	dispatched atomic.Int64
	suppressed atomic.Int64
	noHandler  atomic.Int64
	failed     atomic.Int64
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDelay sets the debounce window.
func WithDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.delay = d }
}

// WithRepeatThreshold sets how soon a repeated URL is treated as a duplicate.
func WithRepeatThreshold(d time.Duration) Option {
	return func(c *Coordinator) { c.repeat = d }
}

// WithClock replaces the system clock.
func WithClock(clk Clock) Option {
	return func(c *Coordinator) { c.clock = clk }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers fn to receive an Event for each settled attempt.
// fn runs on the dispatching goroutine and must not block for long.
func WithObserver(fn func(Event)) Option {
	return func(c *Coordinator) { c.observer = fn }
}

// New creates a Coordinator. env supplies the page snapshot; when nil, the
// snapshot only carries the dispatched URL.
func New(resolver Resolver, env pagectx.Environment, opts ...Option) *Coordinator {
	c := &Coordinator{
		resolver: resolver,
		env:      env,
		clock:    SystemClock,
		delay:    DefaultDelay,
		repeat:   DefaultRepeatThreshold,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.origin = c.clock.Now()
	return c
}

// Signal records url as the latest navigation and restarts the debounce
// window. It never blocks on handler execution.
func (c *Coordinator) Signal(url string) {
	c.signals.Inc()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.st.pendingURL = url
	c.st.pendingAt = c.clock.Now()
	c.st.hasPending = true

	if c.st.timer != nil {
		c.st.timer.Stop()
		c.st.timer = nil
		c.coalesced.Inc()
	}

	c.st.seq++
	seq := c.st.seq
	c.st.timer = c.clock.AfterFunc(c.delay, func() { c.fire(seq) })

	c.logger.Debug("navigation signal", "url", url, "delay", c.delay)
}

// fire runs when a debounce window elapses.
func (c *Coordinator) fire(seq uint64) {
	c.mu.Lock()
	if c.closed || seq != c.st.seq || !c.st.hasPending {
		c.mu.Unlock()
		return
	}

	url := c.st.pendingURL
	requestedAt := c.st.pendingAt
	c.st.pendingURL = ""
	c.st.hasPending = false
	c.st.timer = nil

	now := c.clock.Now()
	if c.st.hasLast && url == c.st.lastURL && requestedAt.Sub(c.st.lastTime) < c.repeat {
		c.mu.Unlock()
		c.suppressed.Inc()
		c.logger.Debug("duplicate navigation suppressed", "url", url)
		c.emit(newEvent(url, Suppressed, now))
		return
	}

	c.st.lastURL = url
	c.st.lastTime = now
	c.st.hasLast = true
	c.mu.Unlock()

	c.run(url, now)
}

func (c *Coordinator) run(url string, now time.Time) {
	ev := newEvent(url, Dispatched, now)

	err := c.protect(func() error {
		h, ok := c.resolver.FindHandler(url)
		if !ok {
			ev.Outcome = NoHandler
			return nil
		}

		env := c.env
		if env == nil {
			env = pagectx.Static{Doc: pagectx.Document{URL: url, ReadyState: pagectx.Complete}}
		}
		pc := pagectx.Capture(env, now.Sub(c.origin))

		start := c.clock.Now()
		defer func() { ev.Duration = c.clock.Now().Sub(start) }()
		h(pc)
		return nil
	})

	switch {
	case err != nil:
		ev.Outcome = HandlerFailed
		ev.Err = err
		c.failed.Inc()
		c.logger.Error("handler failed", "url", url, "error", err)
	case ev.Outcome == NoHandler:
		c.noHandler.Inc()
		c.logger.Debug("no handler for url", "url", url)
	default:
		c.dispatched.Inc()
		c.logger.Info("handler dispatched", "url", url, "duration", ev.Duration)
	}

	c.emit(ev)
}

// protect runs fn and converts a panic into an error.
func (c *Coordinator) protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
			c.logger.Debug("handler stack", "stack", string(debug.Stack()))
		}
	}()
	return fn()
}

func (c *Coordinator) emit(ev Event) {
	if c.observer != nil {
		c.observer(ev)
	}
}

// State returns a copy of the current dispatch state.
func (c *Coordinator) State() StateView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return StateView{
		LastProcessedURL: c.st.lastURL,
		LastProcessTime:  c.st.lastTime,
		PendingURL:       c.st.pendingURL,
		HasPending:       c.st.hasPending,
		TimerScheduled:   c.st.timer != nil,
	}
}

// Stats returns running totals.
func (c *Coordinator) Stats() Stats {
	return Stats{
		Signals:    c.signals.Load(),
		Coalesced:  c.coalesced.Load(),
		Dispatched: c.dispatched.Load(),
		Suppressed: c.suppressed.Load(),
		NoHandler:  c.noHandler.Load(),
		Failed:     c.failed.Load(),
	}
}

// Close cancels any pending dispatch. Later signals are ignored.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.st.timer != nil {
		c.st.timer.Stop()
		c.st.timer = nil
	}
	c.st.seq++
}
