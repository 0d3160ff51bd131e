package route

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidyasagar/pagehook/internal/pagectx"
)

// recorder hands out handlers that write their name to last when invoked.
type recorder struct {
	last string
}

func (r *recorder) handler(name string) Handler {
	return func(pagectx.PageContext) { r.last = name }
}

// resolveName returns the name of the handler chosen for url, or "".
func (r *recorder) resolveName(m *Matcher, url string) string {
	r.last = ""
	h, ok := m.FindHandler(url)
	if !ok {
		return ""
	}
	h(pagectx.PageContext{})
	return r.last
}

func TestFindHandler_UnknownHost(t *testing.T) {
	rec := &recorder{}
	m := New([]Site{{HostMatch: "example.com", Routes: []Rule{{Pattern: "/", Handler: rec.handler("root")}}}})

	for _, url := range []string{
		"https://other.org/",
		"https://exampl.com/",
		"https://com/",
	} {
		h, ok := m.FindHandler(url)
		assert.False(t, ok, url)
		assert.Nil(t, h, url)
	}
}

func TestFindHandler_RuleOrder(t *testing.T) {
	rec := &recorder{}
	m := New([]Site{{
		HostMatch: "example.com",
		Routes: []Rule{
			{Pattern: "/a", Match: MatchPathPrefix, Handler: rec.handler("a")},
			{Pattern: "/", Handler: rec.handler("all")},
		},
	}})

	assert.Equal(t, "a", rec.resolveName(m, "https://example.com/a/b"))
	assert.Equal(t, "all", rec.resolveName(m, "https://example.com/z"))
}

func TestFindHandler_HostStrategies(t *testing.T) {
	rec := &recorder{}
	m := New([]Site{
		{HostMatch: "ab.com", Routes: []Rule{{Pattern: "/", Handler: rec.handler("ab")}}},
		{HostMatch: "*.wiki.org", Routes: []Rule{{Pattern: "/", Handler: rec.handler("wiki")}}},
	})

	tests := []struct {
		url      string
		want     string
		strategy HostStrategy
	}{
		{"https://ab.com/", "ab", HostExact},
		{"https://www.ab.com/", "ab", HostSubdomain},
		{"https://xab.comy/", "ab", HostSubstring},
		{"https://en.wiki.org/", "wiki", HostGlob},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			match, ok := m.Resolve(tt.url)
			require.True(t, ok)
			assert.Equal(t, tt.strategy, match.Host)
			assert.Equal(t, tt.want, rec.resolveName(m, tt.url))
		})
	}
}

func TestFindHandler_WithoutSubstringStrategy(t *testing.T) {
	rec := &recorder{}
	m := New(
		[]Site{{HostMatch: "ab.com", Routes: []Rule{{Pattern: "/", Handler: rec.handler("ab")}}}},
		WithHostStrategies(HostExact, HostSubdomain),
	)

	assert.Equal(t, "", rec.resolveName(m, "https://xab.comy/"))
	assert.Equal(t, "ab", rec.resolveName(m, "https://shop.ab.com/"))
}

func TestFindHandler_FirstMatchingSiteOnly(t *testing.T) {
	rec := &recorder{}
	m := New([]Site{
		{HostMatch: "example.com", Routes: []Rule{{Pattern: "/only", Handler: rec.handler("first")}}},
		{HostMatch: "example.com", Routes: []Rule{{Pattern: "/", Handler: rec.handler("second")}}},
	})

	assert.Equal(t, "first", rec.resolveName(m, "https://example.com/only"))
	assert.Equal(t, "", rec.resolveName(m, "https://example.com/elsewhere"))
}

func TestMatchTypes(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		match   MatchType
		url     string
		want    bool
	}{
		{"prefix segment equal", "/dashboard", MatchPathPrefix, "https://h.io/dashboard/x", true},
		{"prefix is not string prefix", "/dashboard", MatchPathPrefix, "https://h.io/dashboard-extra", false},
		{"prefix exact path", "/dashboard", MatchPathPrefix, "https://h.io/dashboard", true},
		{"prefix longer pattern", "/a/b/c", MatchPathPrefix, "https://h.io/a/b", false},
		{"prefix ignores empty segments", "/a//b/", MatchPathPrefix, "https://h.io/a/b/c", true},
		{"default non-root is prefix", "/docs", MatchDefault, "https://h.io/docs/intro", true},
		{"default root is all", "/", MatchDefault, "https://h.io/anything?q=1#x", true},
		{"exact full match", "/p?x=1", MatchExact, "https://h.io/p?x=1", true},
		{"exact needs fragment equality", "/p?x=1", MatchExact, "https://h.io/p?x=1#h", false},
		{"exact with fragment route", "/app#/settings", MatchExact, "https://h.io/app#/settings", true},
		{"path exact trailing slash", "/settings/", MatchPathExact, "https://h.io/settings", true},
		{"path exact ignores query", "/settings", MatchPathExact, "https://h.io/settings/?tab=2#top", true},
		{"path exact rejects child", "/settings", MatchPathExact, "https://h.io/settings/profile", false},
		{"regex on path and fragment", `/^\/app#\/item\/\d+$/`, MatchRegex, "https://h.io/app#/item/42", true},
		{"regex ignores query", `/^\/search$/`, MatchRegex, "https://h.io/search?q=go", true},
		{"regex is case sensitive", `/^\/About$/`, MatchRegex, "https://h.io/about", false},
		{"explicit all", "/ignored", MatchAll, "https://h.io/x/y", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			m := New([]Site{{HostMatch: "h.io", Routes: []Rule{{Pattern: tt.pattern, Match: tt.match, Handler: rec.handler("hit")}}}})
			require.Empty(t, m.Issues())

			_, ok := m.FindHandler(tt.url)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestInvalidRegexIsInert(t *testing.T) {
	rec := &recorder{}
	m := New([]Site{{
		HostMatch: "h.io",
		Routes: []Rule{
			{Pattern: "/^(unclosed$/", Match: MatchRegex, Handler: rec.handler("broken")},
			{Pattern: "/", Handler: rec.handler("fallback")},
		},
	}})

	require.Len(t, m.Issues(), 1)
	assert.ErrorIs(t, m.Err(), ErrInvalidPattern)
	assert.Equal(t, "fallback", rec.resolveName(m, "https://h.io/unclosed"))
}

func TestMissingHandlerDegrades(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	rec := &recorder{}
	m := New([]Site{{
		HostMatch: "h.io",
		Routes: []Rule{
			{Pattern: "/gone", HandlerName: "ghost"},
			{Pattern: "/also-gone", HandlerName: "ghost"},
			{Pattern: "/", Handler: rec.handler("root")},
		},
	}}, WithLogger(logger))

	assert.Len(t, m.Issues(), 2)
	assert.ErrorIs(t, m.Err(), ErrHandlerUnavailable)
	assert.Equal(t, 1, strings.Count(buf.String(), "handler unavailable"))

	match, ok := m.Resolve("https://h.io/gone")
	require.True(t, ok)
	assert.Equal(t, "ghost", match.HandlerName)

	_, found := m.FindHandler("https://h.io/gone")
	assert.False(t, found)
	assert.Equal(t, "root", rec.resolveName(m, "https://h.io/here"))
}

func TestEmptyHostIsSkipped(t *testing.T) {
	rec := &recorder{}
	m := New([]Site{{HostMatch: "  ", Routes: []Rule{{Pattern: "/", Handler: rec.handler("any")}}}})

	assert.ErrorIs(t, m.Err(), ErrEmptyHost)
	assert.Equal(t, "", rec.resolveName(m, "https://example.com/"))
}

func TestMalformedURL(t *testing.T) {
	var buf bytes.Buffer
	rec := &recorder{}
	m := New([]Site{{HostMatch: "h.io", Routes: []Rule{{Pattern: "/", Handler: rec.handler("any")}}}},
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	_, ok := m.FindHandler("::not a url::")
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "cannot route url")
}

func TestMatchedRuleIsLogged(t *testing.T) {
	var buf bytes.Buffer
	rec := &recorder{}
	m := New([]Site{{HostMatch: "h.io", Routes: []Rule{{Pattern: "/x", Match: MatchPathExact, Handler: rec.handler("x"), HandlerName: "x"}}}},
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	_, ok := m.FindHandler("https://h.io/x")
	require.True(t, ok)
	assert.Contains(t, buf.String(), "match=path_exact")
	assert.Contains(t, buf.String(), "host_strategy=exact")
}

func TestParseMatchType(t *testing.T) {
	for in, want := range map[string]MatchType{
		"":            MatchDefault,
		"ALL":         MatchAll,
		"exact":       MatchExact,
		"path_exact":  MatchPathExact,
		"path_prefix": MatchPathPrefix,
		"regex":       MatchRegex,
	} {
		got, err := ParseMatchType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMatchType("fuzzy")
	assert.Error(t, err)
}
