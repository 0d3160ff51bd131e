package bridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSignaler struct {
	urls  []string
	panic bool
}

func (r *recordingSignaler) Signal(url string) {
	if r.panic {
		panic("timer setup failed")
	}
	r.urls = append(r.urls, url)
}

func awaitReply(t *testing.T, ch <-chan []byte) Reply {
	t.Helper()
	select {
	case raw := <-ch:
		rep, err := DecodeReply(raw)
		require.NoError(t, err)
		return rep
	case <-time.After(time.Second):
		t.Fatal("no reply")
		return Reply{}
	}
}

func TestHandle_URLChanged(t *testing.T) {
	sig := &recordingSignaler{}
	b := New(sig, nil)
	replies := make(chan []byte, 1)

	ok := b.Handle(URLChanged("https://example.com/a?b=c"), func(r []byte) { replies <- r })

	require.True(t, ok)
	assert.Equal(t, []string{"https://example.com/a?b=c"}, sig.urls)
	assert.Equal(t, Reply{Status: StatusReceived}, awaitReply(t, replies))
}

func TestHandle_LiteralMessage(t *testing.T) {
	sig := &recordingSignaler{}
	b := New(sig, nil)
	replies := make(chan []byte, 1)

	ok := b.Handle([]byte(`{"action":"urlChanged","url":"https://x.io/#/a","tabId":7}`), func(r []byte) { replies <- r })

	require.True(t, ok)
	assert.Equal(t, []string{"https://x.io/#/a"}, sig.urls)
	assert.Equal(t, StatusReceived, awaitReply(t, replies).Status)
}

func TestHandle_MissingURL(t *testing.T) {
	sig := &recordingSignaler{}
	b := New(sig, nil)

	for _, msg := range []string{
		`{"action":"urlChanged"}`,
		`{"action":"urlChanged","url":""}`,
		`{"action":"urlChanged","url":42}`,
	} {
		replies := make(chan []byte, 1)
		require.True(t, b.Handle([]byte(msg), func(r []byte) { replies <- r }), msg)

		rep := awaitReply(t, replies)
		assert.Equal(t, StatusError, rep.Status, msg)
		assert.Equal(t, ErrMissingURL.Error(), rep.Message, msg)
	}
	assert.Empty(t, sig.urls)
}

func TestHandle_SignalPanics(t *testing.T) {
	b := New(&recordingSignaler{panic: true}, nil)
	replies := make(chan []byte, 1)

	require.NotPanics(t, func() {
		b.Handle(URLChanged("https://x.io/"), func(r []byte) { replies <- r })
	})

	rep := awaitReply(t, replies)
	assert.Equal(t, StatusError, rep.Status)
	assert.Contains(t, rep.Message, "timer setup failed")
}

func TestHandle_IgnoresOtherMessages(t *testing.T) {
	sig := &recordingSignaler{}
	b := New(sig, nil)

	called := false
	for _, msg := range []string{
		`{"action":"tabClosed","url":"https://x.io/"}`,
		`{"url":"https://x.io/"}`,
		`not json`,
	} {
		assert.False(t, b.Handle([]byte(msg), func([]byte) { called = true }), msg)
	}

	time.Sleep(10 * time.Millisecond)
	assert.False(t, called)
	assert.Empty(t, sig.urls)
}
