// Package urlparse splits navigation URLs into the location parts that
// route rules are matched against.
package urlparse

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMalformedURL is returned when a URL cannot be parsed as an absolute URL.
var ErrMalformedURL = errors.New("malformed url")

// Parts holds the location components of a parsed URL.
type Parts struct {
	Hostname string
	Path     string
	Query    string // without the leading '?'
	Fragment string // including the leading '#'

	// NormalizedFullPath is Path, then '?'+Query when Query is non-empty,
	// then Fragment.
	NormalizedFullPath string
}

// FullPath returns the path followed by the fragment, ignoring the query.
func (p Parts) FullPath() string {
	return p.Path + p.Fragment
}

// Search returns the query with its '?' prefix, or "" when there is none.
func (p Parts) Search() string {
	if p.Query == "" {
		return ""
	}
	return "?" + p.Query
}

// Parse splits raw into its location parts.
//
// The location string is split on the first '?' and the remainder on the
// first '#'. When there is no '?' but there is a '#', the location is split
// directly on '#' so fragment routes like "/a#/b" keep an empty query.
func Parse(raw string) (Parts, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Parts{}, fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	if !u.IsAbs() {
		return Parts{}, fmt.Errorf("%w: %q is not absolute", ErrMalformedURL, raw)
	}

	path := u.EscapedPath()
	if path == "" && u.Host != "" {
		path = "/"
	}

	location := path
	if u.RawQuery != "" {
		location += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		location += "#" + u.EscapedFragment()
	}

	parts := Parts{Hostname: strings.ToLower(u.Hostname())}
	if before, rest, ok := strings.Cut(location, "?"); ok {
		parts.Path = before
		query, frag, hasFrag := strings.Cut(rest, "#")
		parts.Query = query
		if hasFrag {
			parts.Fragment = "#" + frag
		}
	} else if before, frag, ok := strings.Cut(location, "#"); ok {
		parts.Path = before
		parts.Fragment = "#" + frag
	} else {
		parts.Path = location
	}

	parts.NormalizedFullPath = parts.Path + parts.Search() + parts.Fragment
	return parts, nil
}
