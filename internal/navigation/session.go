// Package navigation tracks in-page navigation for one page context and
// reports URL changes to subscribers.
package navigation

import "sync"

// Kind identifies how the current entry changed.
type Kind int

const (
	// Push is a new entry added by the page (history.pushState).
	Push Kind = iota
	// Replace rewrites the current entry (history.replaceState).
	Replace
	// Pop is a back/forward traversal (popstate).
	Pop
)

func (k Kind) String() string {
	switch k {
	case Push:
		return "push"
	case Replace:
		return "replace"
	case Pop:
		return "pop"
	default:
		return "unknown"
	}
}

// Listener receives the URL that is current after a change.
type Listener func(kind Kind, url string)

// Session is the back/forward history of one page context. Mutations run
// first; listeners are notified synchronously afterwards, outside the lock.
type Session struct {
	mu        sync.Mutex
	entries   []string
	pos       int // current position in the stack
	nextID    int
	listeners map[int]Listener
	order     []int
}

// NewSession creates a session whose current entry is initialURL. An empty
// initialURL starts with no entries.
func NewSession(initialURL string) *Session {
	s := &Session{
		pos:       -1,
		listeners: make(map[int]Listener),
	}
	if initialURL != "" {
		s.entries = []string{initialURL}
		s.pos = 0
	}
	return s
}

// Subscribe registers fn for every change and returns a function that
// removes it.
func (s *Session) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

// PushState adds url as a new entry, truncating any forward entries.
func (s *Session) PushState(url string) {
	s.mu.Lock()
	if s.pos < len(s.entries)-1 {
		s.entries = s.entries[:s.pos+1]
	}
	s.entries = append(s.entries, url)
	s.pos = len(s.entries) - 1
	s.mu.Unlock()

	s.notify(Push, url)
}

// ReplaceState rewrites the current entry, or adds one to an empty session.
func (s *Session) ReplaceState(url string) {
	s.mu.Lock()
	if s.pos < 0 {
		s.entries = []string{url}
		s.pos = 0
	} else {
		s.entries[s.pos] = url
	}
	s.mu.Unlock()

	s.notify(Replace, url)
}

// Load records a full document load at url. It adds an entry like
// PushState but notifies nobody: a new document announces itself.
func (s *Session) Load(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos < len(s.entries)-1 {
		s.entries = s.entries[:s.pos+1]
	}
	s.entries = append(s.entries, url)
	s.pos = len(s.entries) - 1
}

// Back moves one step back. Returns the URL and true if possible.
func (s *Session) Back() (string, bool) {
	return s.traverse(-1)
}

// Forward moves one step forward. Returns the URL and true if possible.
func (s *Session) Forward() (string, bool) {
	return s.traverse(1)
}

func (s *Session) traverse(delta int) (string, bool) {
	s.mu.Lock()
	next := s.pos + delta
	if s.pos < 0 || next < 0 || next >= len(s.entries) {
		s.mu.Unlock()
		return "", false
	}
	s.pos = next
	url := s.entries[next]
	s.mu.Unlock()

	s.notify(Pop, url)
	return url, true
}

// Current returns the current URL, or empty string if history is empty.
func (s *Session) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos < 0 || s.pos >= len(s.entries) {
		return ""
	}
	return s.entries[s.pos]
}

// Previous returns the entry before the current one, used as referrer.
func (s *Session) Previous() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos <= 0 {
		return ""
	}
	return s.entries[s.pos-1]
}

// CanGoBack reports whether there is a previous entry.
func (s *Session) CanGoBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos > 0
}

// CanGoForward reports whether there is a next entry.
func (s *Session) CanGoForward() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos < len(s.entries)-1
}

// Len returns the total number of entries.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Session) notify(kind Kind, url string) {
	s.mu.Lock()
	fns := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.listeners[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(kind, url)
	}
}
