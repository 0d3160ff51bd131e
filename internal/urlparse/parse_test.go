package urlparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Parts
	}{
		{
			name: "fragment only",
			raw:  "https://x/a#/b",
			want: Parts{Hostname: "x", Path: "/a", Fragment: "#/b", NormalizedFullPath: "/a#/b"},
		},
		{
			name: "query and fragment",
			raw:  "https://example.com/p?x=1#h",
			want: Parts{Hostname: "example.com", Path: "/p", Query: "x=1", Fragment: "#h", NormalizedFullPath: "/p?x=1#h"},
		},
		{
			name: "query only",
			raw:  "https://example.com/search?q=go",
			want: Parts{Hostname: "example.com", Path: "/search", Query: "q=go", NormalizedFullPath: "/search?q=go"},
		},
		{
			name: "bare host gets root path",
			raw:  "https://Example.COM",
			want: Parts{Hostname: "example.com", Path: "/", NormalizedFullPath: "/"},
		},
		{
			name: "port is not part of hostname",
			raw:  "http://localhost:8080/app/",
			want: Parts{Hostname: "localhost", Path: "/app/", NormalizedFullPath: "/app/"},
		},
		{
			// The first '?' wins even when it sits inside the fragment.
			name: "question mark inside fragment",
			raw:  "https://mail.example.com/#/inbox?page=2",
			want: Parts{Hostname: "mail.example.com", Path: "/#/inbox", Query: "page=2", NormalizedFullPath: "/#/inbox?page=2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_FullPathIgnoresQuery(t *testing.T) {
	p, err := Parse("https://example.com/a/b?c=d#e")
	require.NoError(t, err)

	assert.Equal(t, "/a/b#e", p.FullPath())
	assert.Equal(t, "?c=d", p.Search())
}

func TestParse_Malformed(t *testing.T) {
	for _, raw := range []string{"", "not a url", "/relative/path", "http://[::1"} {
		_, err := Parse(raw)
		assert.ErrorIs(t, err, ErrMalformedURL, "input %q", raw)
	}
}
