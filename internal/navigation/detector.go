package navigation

import (
	"errors"
	"sync"
)

// ErrAlreadyStarted is returned by a second Start on the same Detector.
var ErrAlreadyStarted = errors.New("detector already started")

// Notifier is a source of navigation changes.
type Notifier interface {
	Subscribe(fn Listener) (unsubscribe func())
	Current() string
}

// Detector turns session changes into plain URL-change callbacks. It does
// no deduplication or delaying of its own.
type Detector struct {
	source Notifier

	mu          sync.Mutex
	started     bool
	unsubscribe func()
}

// NewDetector creates a Detector over source.
func NewDetector(source Notifier) *Detector {
	return &Detector{source: source}
}

// Start subscribes onChange to pushes, replaces and back/forward traversal.
// With checkImmediately, onChange is also called once with the current URL
// before Start returns. Start may be called once per Detector.
func (d *Detector) Start(onChange func(url string), checkImmediately bool) error {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return ErrAlreadyStarted
	}
	d.started = true
	d.unsubscribe = d.source.Subscribe(func(_ Kind, _ string) {
		onChange(d.source.Current())
	})
	d.mu.Unlock()

	if checkImmediately {
		onChange(d.source.Current())
	}
	return nil
}

// Stop removes the subscription. The Detector cannot be restarted.
func (d *Detector) Stop() {
	d.mu.Lock()
	unsub := d.unsubscribe
	d.unsubscribe = nil
	d.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}
