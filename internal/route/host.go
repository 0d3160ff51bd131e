package route

import (
	"fmt"
	"strings"
)

// HostStrategy is one way of comparing a site's HostMatch with a hostname.
type HostStrategy int

const (
	HostExact HostStrategy = iota
	// HostSubdomain matches true subdomains: "docs.example.com" for
	// "example.com".
	HostSubdomain
	// HostSubstring matches when HostMatch appears anywhere in the
	// hostname. It over-matches ("ab.com" matches "xab.comy") and exists
	// for registries that rely on it.
	HostSubstring
	// HostGlob applies when HostMatch contains glob metacharacters, e.g.
	// "*.example.com".
	HostGlob
)

// DefaultHostStrategies is the order used when none is configured.
var DefaultHostStrategies = []HostStrategy{HostExact, HostSubdomain, HostSubstring, HostGlob}

func (h HostStrategy) String() string {
	switch h {
	case HostExact:
		return "exact"
	case HostSubdomain:
		return "subdomain"
	case HostSubstring:
		return "substring"
	case HostGlob:
		return "glob"
	default:
		return fmt.Sprintf("HostStrategy(%d)", int(h))
	}
}

// matchHost reports the first strategy under which site accepts hostname.
func (m *Matcher) matchHost(site *compiledSite, hostname string) (HostStrategy, bool) {
	for _, s := range m.strategies {
		switch s {
		case HostExact:
			if hostname == site.host {
				return s, true
			}
		case HostSubdomain:
			if strings.HasSuffix(hostname, "."+site.host) {
				return s, true
			}
		case HostSubstring:
			if strings.Contains(hostname, site.host) {
				return s, true
			}
		case HostGlob:
			if site.glob != nil && site.glob.Match(hostname) {
				return s, true
			}
		}
	}
	return 0, false
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
