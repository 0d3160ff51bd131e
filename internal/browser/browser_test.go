package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidyasagar/pagehook/internal/navigation"
	"github.com/vidyasagar/pagehook/internal/pagectx"
	"go.uber.org/atomic"
)

const samplePage = `<!doctype html>
<html lang="de">
<head><title>Sample Docs</title></head>
<body>
<nav><a href="/">Home</a> <a href="/guide">Guide</a></nav>
<article>
<h1>Getting started</h1>
<p>This guide explains how the sample project is installed and configured for
first use. It is long enough for readability to treat it as an article body and
keep it around instead of discarding it as boilerplate content.</p>
<h2>Install</h2>
<p>Run the installer. See <a href="https://other.org/x">the notes</a> and the
<a href="/guide">guide</a> again for more detail on every option available.</p>
</article>
</body>
</html>`

func newServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Inc()
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/plain":
			w.Header().Set("Content-Type", "text/plain")
			fmt.Fprint(w, "plain body")
		default:
			assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, samplePage)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoader(t *testing.T) {
	var hits atomic.Int64
	srv := newServer(t, &hits)

	f := NewFetcher(WithHTTPClient(srv.Client()), WithUserAgent("test-agent"))
	l, err := NewLoader(f, 4, nil)
	require.NoError(t, err)

	page, err := l.Load(context.Background(), srv.URL+"/docs", false)
	require.NoError(t, err)
	assert.Equal(t, "de", page.Lang)
	assert.NotEmpty(t, page.Title)
	require.GreaterOrEqual(t, len(page.Headings), 2)
	assert.Equal(t, Heading{Level: 1, Text: "Getting started"}, page.Headings[0])
	assert.Equal(t, Heading{Level: 2, Text: "Install"}, page.Headings[1])

	urls := make([]string, 0, len(page.Links))
	for _, link := range page.Links {
		urls = append(urls, link.URL)
	}
	assert.Equal(t, []string{srv.URL + "/", srv.URL + "/guide", "https://other.org/x"}, urls, "links are absolute and deduplicated")

	_, err = l.Load(context.Background(), srv.URL+"/docs", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), hits.Load(), "second load is served from cache")

	_, err = l.Load(context.Background(), srv.URL+"/docs", true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load())

	cached, ok := l.Cached(srv.URL + "/docs")
	require.True(t, ok)
	assert.Equal(t, page.Title, cached.Title)
}

func TestLoader_Errors(t *testing.T) {
	var hits atomic.Int64
	srv := newServer(t, &hits)
	l, err := NewLoader(NewFetcher(WithHTTPClient(srv.Client()), WithUserAgent("test-agent")), 0, nil)
	require.NoError(t, err)

	_, err = l.Load(context.Background(), srv.URL+"/missing", false)
	assert.ErrorContains(t, err, "HTTP 404")

	page, err := l.Load(context.Background(), srv.URL+"/plain", false)
	require.NoError(t, err)
	assert.Equal(t, "plain body", page.Text)
}

func TestNormalizeURL(t *testing.T) {
	tests := map[string]string{
		"":                     "",
		"https://a.io/x":       "https://a.io/x",
		"  example.com/path  ": "https://example.com/path",
		"go generics":          "https://html.duckduckgo.com/html/?q=go+generics",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeURL(in), in)
	}
}

func TestHostEnvironment(t *testing.T) {
	session := navigation.NewSession("https://a.io/one")
	session.PushState("https://a.io/two")

	h := NewHost(session, NewFetcher(WithUserAgent("ua"), WithLanguage("fr-FR")))
	h.Loading()
	h.Resize(pagectx.Size{Width: 120, Height: 40}, pagectx.Size{Width: 120, Height: 36})

	pc := pagectx.Capture(h, 0)
	assert.Equal(t, "https://a.io/two", pc.URL)
	assert.Equal(t, "https://a.io/one", pc.Referrer)
	assert.Equal(t, pagectx.Loading, pc.ReadyState)
	assert.Equal(t, "ua", pc.UserAgent)
	assert.Equal(t, "fr-FR", pc.Language)
	assert.NotEmpty(t, pc.Platform)
	assert.Equal(t, 36, pc.Viewport.Height)
	assert.Equal(t, 40, pc.Screen.Height)

	h.SetPage(&Page{Title: "Two"})
	pc = pagectx.Capture(h, 0)
	assert.Equal(t, "Two", pc.Title)
	assert.Equal(t, pagectx.Complete, pc.ReadyState)
}
