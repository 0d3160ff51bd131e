package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetector_ReportsEveryChange(t *testing.T) {
	s := NewSession("https://a.io/")
	d := NewDetector(s)

	var urls []string
	require.NoError(t, d.Start(func(url string) { urls = append(urls, url) }, false))

	s.PushState("https://a.io/1")
	s.ReplaceState("https://a.io/1?tab=2")
	s.PushState("https://a.io/2")
	s.Back()

	assert.Equal(t, []string{
		"https://a.io/1",
		"https://a.io/1?tab=2",
		"https://a.io/2",
		"https://a.io/1?tab=2",
	}, urls)
}

func TestDetector_CheckImmediately(t *testing.T) {
	s := NewSession("https://a.io/start")
	d := NewDetector(s)

	var urls []string
	require.NoError(t, d.Start(func(url string) { urls = append(urls, url) }, true))

	assert.Equal(t, []string{"https://a.io/start"}, urls)
}

func TestDetector_StartTwice(t *testing.T) {
	s := NewSession("https://a.io/")
	d := NewDetector(s)

	calls := 0
	require.NoError(t, d.Start(func(string) { calls++ }, false))
	assert.ErrorIs(t, d.Start(func(string) { calls++ }, false), ErrAlreadyStarted)

	s.PushState("https://a.io/1")
	assert.Equal(t, 1, calls, "hooks must not be wrapped twice")
}

func TestDetector_Stop(t *testing.T) {
	s := NewSession("https://a.io/")
	d := NewDetector(s)

	calls := 0
	require.NoError(t, d.Start(func(string) { calls++ }, false))
	d.Stop()
	s.PushState("https://a.io/1")

	assert.Equal(t, 0, calls)
	assert.ErrorIs(t, d.Start(func(string) {}, false), ErrAlreadyStarted)
}
