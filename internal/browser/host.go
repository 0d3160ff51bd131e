package browser

import (
	"runtime"
	"sync"

	"github.com/vidyasagar/pagehook/internal/navigation"
	"github.com/vidyasagar/pagehook/internal/pagectx"
)

// Host is the terminal page environment handlers observe. The URL comes
// from the navigation session; title and load state come from the last
// loaded page.
type Host struct {
	session  *navigation.Session
	fetcher  *Fetcher
	platform string

	mu       sync.RWMutex
	page     *Page
	state    pagectx.ReadyState
	viewport pagectx.Size
	screen   pagectx.Size
}

// NewHost creates a Host reading URLs from session.
func NewHost(session *navigation.Session, f *Fetcher) *Host {
	return &Host{
		session:  session,
		fetcher:  f,
		platform: runtime.GOOS + "/" + runtime.GOARCH,
		state:    pagectx.Complete,
		viewport: pagectx.Size{Width: 80, Height: 24},
		screen:   pagectx.Size{Width: 80, Height: 24},
	}
}

// Session returns the navigation session.
func (h *Host) Session() *navigation.Session { return h.session }

// Loading marks a page load as started.
func (h *Host) Loading() {
	h.mu.Lock()
	h.state = pagectx.Loading
	h.mu.Unlock()
}

// SetPage records a finished load. A nil page leaves the previous page in
// place and only completes the load state.
func (h *Host) SetPage(p *Page) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p != nil {
		h.page = p
	}
	h.state = pagectx.Complete
}

// Page returns the last loaded page, if any.
func (h *Host) Page() *Page {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.page
}

// Resize records the terminal size. The content viewport excludes chrome
// rows drawn by the UI.
func (h *Host) Resize(screen, viewport pagectx.Size) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.screen = screen
	h.viewport = viewport
}

func (h *Host) Document() pagectx.Document {
	h.mu.RLock()
	defer h.mu.RUnlock()

	doc := pagectx.Document{
		URL:        h.session.Current(),
		Referrer:   h.session.Previous(),
		ReadyState: h.state,
	}
	if h.page != nil {
		doc.Title = h.page.Title
	}
	return doc
}

func (h *Host) Navigator() pagectx.Navigator {
	return pagectx.Navigator{
		UserAgent: h.fetcher.UserAgent(),
		Language:  h.fetcher.Language(),
		Platform:  h.platform,
	}
}

func (h *Host) Viewport() pagectx.Size {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.viewport
}

func (h *Host) Screen() pagectx.Size {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.screen
}
