// Package route resolves navigation URLs to page handlers through an
// ordered registry of sites and their route rules.
package route

import (
	"fmt"
	"strings"

	"github.com/vidyasagar/pagehook/internal/pagectx"
)

// Handler augments a page. It receives a snapshot of the page taken at
// dispatch time.
type Handler func(pagectx.PageContext)

// MatchType selects how a rule's pattern is compared with a URL.
type MatchType int

const (
	// MatchDefault resolves to MatchAll for the pattern "/" and to
	// MatchPathPrefix otherwise.
	MatchDefault MatchType = iota
	MatchAll
	MatchExact
	MatchPathExact
	MatchPathPrefix
	MatchRegex
)

func (m MatchType) String() string {
	switch m {
	case MatchDefault:
		return "default"
	case MatchAll:
		return "all"
	case MatchExact:
		return "exact"
	case MatchPathExact:
		return "path_exact"
	case MatchPathPrefix:
		return "path_prefix"
	case MatchRegex:
		return "regex"
	default:
		return fmt.Sprintf("MatchType(%d)", int(m))
	}
}

// ParseMatchType converts a registry spelling to a MatchType. The empty
// string is MatchDefault.
func ParseMatchType(s string) (MatchType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return MatchDefault, nil
	case "all":
		return MatchAll, nil
	case "exact":
		return MatchExact, nil
	case "path_exact", "pathexact":
		return MatchPathExact, nil
	case "path_prefix", "pathprefix", "prefix":
		return MatchPathPrefix, nil
	case "regex", "regexp":
		return MatchRegex, nil
	default:
		return MatchDefault, fmt.Errorf("unknown match type %q", s)
	}
}

// resolve applies the default rule.
func (m MatchType) resolve(pattern string) MatchType {
	if m != MatchDefault {
		return m
	}
	if pattern == "/" {
		return MatchAll
	}
	return MatchPathPrefix
}

// Rule is a pattern, a match strategy and the handler it selects.
type Rule struct {
	Pattern string
	Match   MatchType
	Handler Handler

	// HandlerName is used in diagnostics only.
	HandlerName string
}

// Site bundles the rules for one host. Rule order is significant: the
// first matching rule wins.
type Site struct {
	HostMatch string
	Routes    []Rule
}

// Match describes a successful resolution.
type Match struct {
	Site        string
	RuleIndex   int
	Pattern     string
	Type        MatchType
	Host        HostStrategy
	HandlerName string
	Handler     Handler
}
