package realtime

import (
	"context"
	"errors"
)

// Transport labels for audit records and logs.
const (
	TransportPush = "push"
	TransportPoll = "poll"
)

// ErrPushUnavailable means the push transport cannot run at all (missing app
// key or auth token). This is an opt-out, not a failure.
var ErrPushUnavailable = errors.New("realtime: push transport unavailable")

// Handler receives validated events from a Source. The Manager implements it.
type Handler interface {
	// SourceConnected fires once a source has an established subscription.
	SourceConnected(name string)
	// HandleEvent delivers one validated event.
	HandleEvent(ctx context.Context, ev Event, transport string)
}

// Source delivers realtime order events until its context is cancelled or the
// transport fails. Run always returns with the transport fully released: no
// open socket, no live ticker.
type Source interface {
	Name() string
	Run(ctx context.Context, h Handler) error
}
