package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type change struct {
	kind Kind
	url  string
}

func TestSession_PushBackForward(t *testing.T) {
	s := NewSession("https://a.io/")
	var got []change
	s.Subscribe(func(k Kind, url string) { got = append(got, change{k, url}) })

	s.PushState("https://a.io/one")
	s.PushState("https://a.io/two")

	url, ok := s.Back()
	require.True(t, ok)
	assert.Equal(t, "https://a.io/one", url)
	assert.Equal(t, "https://a.io/", s.Previous())
	assert.True(t, s.CanGoForward())

	url, ok = s.Forward()
	require.True(t, ok)
	assert.Equal(t, "https://a.io/two", url)

	_, ok = s.Forward()
	assert.False(t, ok)

	assert.Equal(t, []change{
		{Push, "https://a.io/one"},
		{Push, "https://a.io/two"},
		{Pop, "https://a.io/one"},
		{Pop, "https://a.io/two"},
	}, got)
}

func TestSession_PushTruncatesForward(t *testing.T) {
	s := NewSession("https://a.io/")
	s.PushState("https://a.io/1")
	s.PushState("https://a.io/2")
	s.Back()
	s.PushState("https://a.io/3")

	assert.Equal(t, 3, s.Len())
	assert.False(t, s.CanGoForward())
	assert.Equal(t, "https://a.io/3", s.Current())
}

func TestSession_Replace(t *testing.T) {
	s := NewSession("")
	assert.Equal(t, "", s.Current())
	assert.False(t, s.CanGoBack())

	s.ReplaceState("https://a.io/x")
	assert.Equal(t, "https://a.io/x", s.Current())
	assert.Equal(t, 1, s.Len())

	s.ReplaceState("https://a.io/y")
	assert.Equal(t, "https://a.io/y", s.Current())
	assert.Equal(t, 1, s.Len())
}

func TestSession_Unsubscribe(t *testing.T) {
	s := NewSession("https://a.io/")
	calls := 0
	unsub := s.Subscribe(func(Kind, string) { calls++ })

	s.PushState("https://a.io/1")
	unsub()
	unsub()
	s.PushState("https://a.io/2")

	assert.Equal(t, 1, calls)
}

func TestSession_ListenerMayNavigate(t *testing.T) {
	s := NewSession("https://a.io/")
	s.Subscribe(func(k Kind, url string) {
		if url == "https://a.io/login" {
			s.ReplaceState("https://a.io/home")
		}
	})

	s.PushState("https://a.io/login")
	assert.Equal(t, "https://a.io/home", s.Current())
}

func TestSession_LoadIsSilent(t *testing.T) {
	s := NewSession("")
	var got []change
	s.Subscribe(func(k Kind, url string) { got = append(got, change{k, url}) })

	s.Load("https://a.io/")
	s.Load("https://b.io/")
	assert.Empty(t, got)
	assert.Equal(t, "https://b.io/", s.Current())
	assert.Equal(t, "https://a.io/", s.Previous())

	_, ok := s.Back()
	require.True(t, ok)
	assert.Equal(t, []change{{Pop, "https://a.io/"}}, got)
}
