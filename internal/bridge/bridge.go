// Package bridge accepts navigation messages sent into the page context by
// the host runtime and forwards them to the dispatch pipeline.
//
// Messages are JSON objects of the form {"action":"urlChanged","url":"..."}.
// Each accepted message is answered asynchronously with
// {"status":"received"} or {"status":"error","message":"..."}.
package bridge

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ActionURLChanged is the only action the bridge handles.
const ActionURLChanged = "urlChanged"

const (
	StatusReceived = "received"
	StatusError    = "error"
)

// ErrMissingURL is reported when a urlChanged message has no usable url.
var ErrMissingURL = errors.New("message has no url")

// Signaler receives URLs from the bridge. *dispatch.Coordinator implements it.
type Signaler interface {
	Signal(url string)
}

// ReplyFunc delivers an encoded reply to the sender.
type ReplyFunc func(reply []byte)

// Bridge decodes inbound messages and replies to them.
type Bridge struct {
	sig    Signaler
	logger *slog.Logger
}

// New creates a Bridge that forwards to sig. A nil logger discards output.
func New(sig Signaler, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bridge{sig: sig, logger: logger}
}

// Handle processes one message. It returns true when the message was
// accepted and reply will be called once, from another goroutine; false
// means the message was not for the bridge and reply is never called.
func (b *Bridge) Handle(msg []byte, reply ReplyFunc) bool {
	if !gjson.ValidBytes(msg) {
		b.logger.Debug("ignoring non-json message")
		return false
	}
	if gjson.GetBytes(msg, "action").String() != ActionURLChanged {
		return false
	}

	var out []byte
	if err := b.forward(gjson.GetBytes(msg, "url")); err != nil {
		b.logger.Error("navigation message rejected", "error", err)
		out = encodeReply(StatusError, err.Error())
	} else {
		out = encodeReply(StatusReceived, "")
	}

	if reply != nil {
		go reply(out)
	}
	return true
}

func (b *Bridge) forward(url gjson.Result) (err error) {
	if url.Type != gjson.String || url.String() == "" {
		return ErrMissingURL
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dispatch setup failed: %v", r)
		}
	}()

	b.logger.Info("navigation message", "url", url.String())
	b.sig.Signal(url.String())
	return nil
}

func encodeReply(status, message string) []byte {
	out, _ := sjson.SetBytes(nil, "status", status)
	if message != "" {
		out, _ = sjson.SetBytes(out, "message", message)
	}
	return out
}

// URLChanged encodes the message a host sends when a tab finished loading.
func URLChanged(url string) []byte {
	out, _ := sjson.SetBytes(nil, "action", ActionURLChanged)
	out, _ = sjson.SetBytes(out, "url", url)
	return out
}

// Reply is a decoded bridge reply.
type Reply struct {
	Status  string
	Message string
}

// DecodeReply parses a reply produced by Handle.
func DecodeReply(raw []byte) (Reply, error) {
	if !gjson.ValidBytes(raw) {
		return Reply{}, fmt.Errorf("invalid reply %q", raw)
	}
	res := gjson.GetManyBytes(raw, "status", "message")
	return Reply{Status: res[0].String(), Message: res[1].String()}, nil
}
