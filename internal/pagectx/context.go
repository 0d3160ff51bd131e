// Package pagectx captures the page and environment facts handed to a
// route handler at dispatch time.
package pagectx

import (
	"time"

	"github.com/vidyasagar/pagehook/internal/urlparse"
)

// ReadyState mirrors the document loading state.
type ReadyState string

const (
	Loading     ReadyState = "loading"
	Interactive ReadyState = "interactive"
	Complete    ReadyState = "complete"
)

// Size is a width/height pair in the host's native units.
type Size struct {
	Width  int
	Height int
}

// Document holds the facts a host knows about the current page.
type Document struct {
	URL        string
	Title      string
	Referrer   string
	ReadyState ReadyState
}

// Navigator holds the facts a host knows about its runtime.
type Navigator struct {
	UserAgent string
	Language  string
	Platform  string
}

// Environment is implemented by hosts that expose a page to handlers.
type Environment interface {
	Document() Document
	Navigator() Navigator
	Viewport() Size
	Screen() Size
}

// PageContext is a snapshot of the page taken right before a handler runs.
// It is passed by value, so a handler owns its copy.
type PageContext struct {
	URL      string
	Title    string
	Referrer string

	Hostname string
	Path     string
	Hash     string // with leading '#', or ""
	Search   string // with leading '?', or ""

	UserAgent string
	Language  string
	Platform  string

	Viewport Size
	Screen   Size

	// Timestamp is monotonic time since the page context started.
	Timestamp  time.Duration
	ReadyState ReadyState
}

// Capture reads env once and builds a PageContext. URL components are left
// empty when the document URL does not parse.
func Capture(env Environment, ts time.Duration) PageContext {
	doc := env.Document()
	nav := env.Navigator()

	pc := PageContext{
		URL:        doc.URL,
		Title:      doc.Title,
		Referrer:   doc.Referrer,
		UserAgent:  nav.UserAgent,
		Language:   nav.Language,
		Platform:   nav.Platform,
		Viewport:   env.Viewport(),
		Screen:     env.Screen(),
		Timestamp:  ts,
		ReadyState: doc.ReadyState,
	}

	if parts, err := urlparse.Parse(doc.URL); err == nil {
		pc.Hostname = parts.Hostname
		pc.Path = parts.Path
		pc.Hash = parts.Fragment
		pc.Search = parts.Search()
	}

	return pc
}

// Static is an Environment with fixed values.
type Static struct {
	Doc        Document
	Nav        Navigator
	ViewSize   Size
	ScreenSize Size
}

func (s Static) Document() Document   { return s.Doc }
func (s Static) Navigator() Navigator { return s.Nav }
func (s Static) Viewport() Size       { return s.ViewSize }
func (s Static) Screen() Size         { return s.ScreenSize }
