// Package handlers provides the named route handlers a site registry can
// refer to. Each handler turns the dispatched page into a markdown note.
package handlers

import (
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/vidyasagar/pagehook/internal/browser"
	"github.com/vidyasagar/pagehook/internal/pagectx"
	"github.com/vidyasagar/pagehook/internal/route"
)

// maxLinks caps the links note.
const maxLinks = 30

// Note is what a handler produced for one dispatch.
type Note struct {
	Handler  string
	URL      string
	Title    string
	Markdown string
}

// Sink receives notes. It is called on the dispatch goroutine.
type Sink func(Note)

// PageSource exposes the last loaded page. *browser.Host implements it.
type PageSource interface {
	Page() *browser.Page
}

// Set builds handlers bound to one page source and sink.
type Set struct {
	pages  PageSource
	sink   Sink
	logger *slog.Logger
}

// New creates a Set. A nil logger discards output.
func New(pages PageSource, sink Sink, logger *slog.Logger) *Set {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Set{pages: pages, sink: sink, logger: logger}
}

// Handlers returns the handlers by registry name.
func (s *Set) Handlers() route.Handlers {
	return route.Handlers{
		"context": s.wrap("context", s.context),
		"outline": s.wrap("outline", s.outline),
		"links":   s.wrap("links", s.links),
		"reader":  s.wrap("reader", s.reader),
		"query":   s.wrap("query", s.query),
	}
}

// Names lists the available handler names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, 5)
	for name := range s.Handlers() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Set) wrap(name string, fn func(pagectx.PageContext, *browser.Page) string) route.Handler {
	return func(pc pagectx.PageContext) {
		var page *browser.Page
		if s.pages != nil {
			page = s.pages.Page()
		}
		md := fn(pc, page)
		s.logger.Debug("handler produced note", "handler", name, "url", pc.URL, "bytes", len(md))
		if s.sink != nil {
			s.sink(Note{Handler: name, URL: pc.URL, Title: pc.Title, Markdown: md})
		}
	}
}

func (s *Set) context(pc pagectx.PageContext, _ *browser.Page) string {
	var sb strings.Builder
	sb.WriteString("## Page context\n\n| field | value |\n| --- | --- |\n")
	row := func(k, v string) {
		if v == "" {
			v = "-"
		}
		fmt.Fprintf(&sb, "| %s | %s |\n", k, strings.ReplaceAll(v, "|", `\|`))
	}
	row("url", pc.URL)
	row("title", pc.Title)
	row("referrer", pc.Referrer)
	row("hostname", pc.Hostname)
	row("path", pc.Path)
	row("search", pc.Search)
	row("hash", pc.Hash)
	row("ready state", string(pc.ReadyState))
	row("user agent", pc.UserAgent)
	row("language", pc.Language)
	row("platform", pc.Platform)
	row("viewport", fmt.Sprintf("%dx%d", pc.Viewport.Width, pc.Viewport.Height))
	row("screen", fmt.Sprintf("%dx%d", pc.Screen.Width, pc.Screen.Height))
	row("timestamp", pc.Timestamp.String())
	return sb.String()
}

func (s *Set) outline(pc pagectx.PageContext, page *browser.Page) string {
	if page == nil || len(page.Headings) == 0 {
		return "## Outline\n\n_No headings on " + pc.URL + "_\n"
	}
	var sb strings.Builder
	sb.WriteString("## Outline\n\n")
	for _, h := range page.Headings {
		sb.WriteString(strings.Repeat("  ", h.Level-1) + "- " + h.Text + "\n")
	}
	return sb.String()
}

func (s *Set) links(pc pagectx.PageContext, page *browser.Page) string {
	if page == nil || len(page.Links) == 0 {
		return "## Links\n\n_No links on " + pc.URL + "_\n"
	}

	var internal, external []browser.Link
	for _, l := range page.Links {
		u, err := url.Parse(l.URL)
		if err == nil && strings.EqualFold(u.Hostname(), pc.Hostname) {
			internal = append(internal, l)
		} else {
			external = append(external, l)
		}
	}

	var sb strings.Builder
	sb.WriteString("## Links\n\n")
	written := 0
	section := func(title string, links []browser.Link) {
		if len(links) == 0 || written >= maxLinks {
			return
		}
		sb.WriteString("### " + title + "\n\n")
		for _, l := range links {
			if written >= maxLinks {
				break
			}
			text := l.Text
			if text == "" {
				text = l.URL
			}
			fmt.Fprintf(&sb, "%d. [%s](%s)\n", l.Index, text, l.URL)
			written++
		}
		sb.WriteString("\n")
	}
	section("Same site", internal)
	section("External", external)
	if rest := len(page.Links) - written; rest > 0 {
		fmt.Fprintf(&sb, "_%d more_\n", rest)
	}
	return sb.String()
}

func (s *Set) reader(pc pagectx.PageContext, page *browser.Page) string {
	if page == nil {
		return "## Reader\n\n_Nothing loaded for " + pc.URL + "_\n"
	}
	return browser.Markdown(page)
}

func (s *Set) query(pc pagectx.PageContext, _ *browser.Page) string {
	values, err := url.ParseQuery(strings.TrimPrefix(pc.Search, "?"))
	if err != nil || len(values) == 0 {
		return "## Query\n\n_No query parameters_\n"
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("## Query\n\n")
	for _, k := range keys {
		fmt.Fprintf(&sb, "- **%s**: %s\n", k, strings.Join(values[k], ", "))
	}
	if pc.Hash != "" {
		fmt.Fprintf(&sb, "\nfragment: `%s`\n", pc.Hash)
	}
	return sb.String()
}
