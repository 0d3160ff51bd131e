package route

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/gobwas/glob"
	"github.com/vidyasagar/pagehook/internal/urlparse"
)

var (
	// ErrInvalidPattern marks a regex rule that failed to compile. The rule
	// never matches; the rest of the site is unaffected.
	ErrInvalidPattern = errors.New("invalid route pattern")

	// ErrHandlerUnavailable marks a rule whose handler is missing. The rule
	// still takes part in ordering but resolves to no handler.
	ErrHandlerUnavailable = errors.New("handler unavailable")

	// ErrEmptyHost marks a site without a HostMatch; such sites are skipped.
	ErrEmptyHost = errors.New("empty host match")
)

const defaultRegexTimeout = 100 * time.Millisecond

type compiledRule struct {
	Rule
	kind     MatchType
	re       *regexp2.Regexp
	broken   bool
	segments []string
}

type compiledSite struct {
	host   string
	glob   glob.Glob
	routes []compiledRule
}

// Matcher resolves URLs against a fixed registry. It is safe for
// concurrent use once built.
type Matcher struct {
	sites        []compiledSite
	strategies   []HostStrategy
	logger       *slog.Logger
	regexTimeout time.Duration
	issues       []error
	warned       map[string]bool
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger sets the logger used for routing diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithHostStrategies replaces DefaultHostStrategies. Leaving out
// HostSubstring turns off the loose fallback.
func WithHostStrategies(s ...HostStrategy) Option {
	return func(m *Matcher) {
		m.strategies = append([]HostStrategy(nil), s...)
	}
}

// WithRegexTimeout bounds a single regex evaluation.
func WithRegexTimeout(d time.Duration) Option {
	return func(m *Matcher) {
		m.regexTimeout = d
	}
}

// New compiles sites into a Matcher. Problems found while compiling are
// logged once and kept in Issues; they never make New fail.
func New(sites []Site, opts ...Option) *Matcher {
	m := &Matcher{
		strategies:   DefaultHostStrategies,
		logger:       slog.New(slog.DiscardHandler),
		regexTimeout: defaultRegexTimeout,
		warned:       make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, site := range sites {
		host := strings.ToLower(strings.TrimSpace(site.HostMatch))
		if host == "" {
			m.addIssue(fmt.Errorf("%w: site with %d routes", ErrEmptyHost, len(site.Routes)))
			continue
		}

		cs := compiledSite{host: host}
		if hasGlobMeta(host) {
			g, err := glob.Compile(host, '.')
			if err != nil {
				m.addIssue(fmt.Errorf("%w: host %q: %v", ErrInvalidPattern, host, err))
			} else {
				cs.glob = g
			}
		}

		for i, r := range site.Routes {
			cs.routes = append(cs.routes, m.compileRule(host, i, r))
		}
		m.sites = append(m.sites, cs)
	}

	return m
}

func (m *Matcher) compileRule(host string, idx int, r Rule) compiledRule {
	cr := compiledRule{Rule: r, kind: r.Match.resolve(r.Pattern)}

	switch cr.kind {
	case MatchPathPrefix:
		cr.segments = segments(r.Pattern)
	case MatchRegex:
		re, err := regexp2.Compile(stripDelimiters(r.Pattern), regexp2.ECMAScript)
		if err != nil {
			cr.broken = true
			m.addIssue(fmt.Errorf("%w: %s rule %d %q: %v", ErrInvalidPattern, host, idx, r.Pattern, err))
		} else {
			re.MatchTimeout = m.regexTimeout
			cr.re = re
		}
	}

	if r.Handler == nil {
		name := r.HandlerName
		if name == "" {
			name = "<unnamed>"
		}
		m.issues = append(m.issues, fmt.Errorf("%w: %s rule %d %q wants %s", ErrHandlerUnavailable, host, idx, r.Pattern, name))
		if !m.warned[name] {
			m.warned[name] = true
			m.logger.Warn("handler unavailable, rules using it are inert", "handler", name, "site", host)
		}
	}

	return cr
}

func (m *Matcher) addIssue(err error) {
	m.issues = append(m.issues, err)
	m.logger.Warn("route registry problem", "error", err)
}

// Issues returns the problems found while compiling the registry.
func (m *Matcher) Issues() []error {
	return append([]error(nil), m.issues...)
}

// Err joins Issues into one error, or returns nil.
func (m *Matcher) Err() error {
	return errors.Join(m.issues...)
}

// FindHandler returns the handler for rawURL. It never fails: malformed URLs,
// unmatched hosts and rules without handlers all yield false.
func (m *Matcher) FindHandler(rawURL string) (Handler, bool) {
	match, ok := m.Resolve(rawURL)
	if !ok || match.Handler == nil {
		return nil, false
	}
	return match.Handler, true
}

// Resolve finds the first site and rule matching rawURL.
func (m *Matcher) Resolve(rawURL string) (match Match, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("route resolution panicked", "url", rawURL, "panic", r)
			match, ok = Match{}, false
		}
	}()

	parts, err := urlparse.Parse(rawURL)
	if err != nil {
		m.logger.Warn("cannot route url", "url", rawURL, "error", err)
		return Match{}, false
	}

	for i := range m.sites {
		site := &m.sites[i]
		strategy, hit := m.matchHost(site, parts.Hostname)
		if !hit {
			continue
		}

		for idx := range site.routes {
			rule := &site.routes[idx]
			if !m.matchRule(rule, parts) {
				continue
			}

			match = Match{
				Site:        site.host,
				RuleIndex:   idx,
				Pattern:     rule.Pattern,
				Type:        rule.kind,
				Host:        strategy,
				HandlerName: rule.HandlerName,
				Handler:     rule.Handler,
			}
			m.logger.Info("route matched",
				"url", rawURL,
				"site", site.host,
				"host_strategy", strategy.String(),
				"match", rule.kind.String(),
				"pattern", rule.Pattern,
				"handler", rule.HandlerName,
			)
			if rule.Handler == nil {
				m.logger.Debug("matched rule has no handler", "site", site.host, "rule", idx)
			}
			return match, true
		}

		// Only the first matching site is consulted.
		m.logger.Debug("no route matched", "url", rawURL, "site", site.host)
		return Match{}, false
	}

	return Match{}, false
}

func (m *Matcher) matchRule(rule *compiledRule, parts urlparse.Parts) bool {
	switch rule.kind {
	case MatchAll:
		return true
	case MatchExact:
		return rule.Pattern == parts.NormalizedFullPath
	case MatchPathExact:
		return strings.TrimSuffix(rule.Pattern, "/") == strings.TrimSuffix(parts.Path, "/")
	case MatchPathPrefix:
		return hasSegmentPrefix(segments(parts.Path), rule.segments)
	case MatchRegex:
		if rule.broken {
			return false
		}
		ok, err := rule.re.MatchString(parts.FullPath())
		if err != nil {
			m.logger.Warn("regex evaluation failed", "pattern", rule.Pattern, "error", err)
			return false
		}
		return ok
	default:
		return false
	}
}

// segments splits a path on '/' and drops empty elements.
func segments(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func hasSegmentPrefix(actual, prefix []string) bool {
	if len(actual) < len(prefix) {
		return false
	}
	for i, seg := range prefix {
		if actual[i] != seg {
			return false
		}
	}
	return true
}

// stripDelimiters turns "/^abc$/" into "^abc$".
func stripDelimiters(pattern string) string {
	p := strings.TrimPrefix(pattern, "/")
	return strings.TrimSuffix(p, "/")
}
