// ABOUTME: Capability-checked bridge to the native engine's liveness callback.
// ABOUTME: A missing or misbehaving engine never propagates past Bridge.Signal.
package engine

import (
	"errors"
	"sync/atomic"

	"github.com/777genius/engine-notifications/internal/errorhandler"
)

// ErrNotLoaded reports that the engine's callback surface is not available.
var ErrNotLoaded = errors.New("engine callback surface not loaded")

// Engine receives the "host window is coming back because of a tapped
// notification" signal. Resume must be fast and non-blocking.
type Engine interface {
	Resume() error
}

// Func adapts a plain function to Engine.
type Func func() error

func (f Func) Resume() error { return f() }

// Outcome classifies a Signal attempt.
type Outcome int

const (
	// OutcomeFired means the engine received the signal.
	OutcomeFired Outcome = iota
	// OutcomeUnavailable means no engine was attached or it reported ErrNotLoaded.
	OutcomeUnavailable
	// OutcomeFaulted means the engine was present but returned an error or panicked.
	OutcomeFaulted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFired:
		return "fired"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

type holder struct{ e Engine }

// Bridge holds the optional engine reference. The zero value has no engine
// attached and is ready to use.
type Bridge struct {
	target atomic.Pointer[holder]
}

// NewBridge returns a bridge, attached to e when e is non-nil.
func NewBridge(e Engine) *Bridge {
	b := &Bridge{}
	if e != nil {
		b.Attach(e)
	}
	return b
}

// Attach installs e as the signal target, replacing any previous engine.
func (b *Bridge) Attach(e Engine) {
	if e == nil {
		b.Detach()
		return
	}
	b.target.Store(&holder{e: e})
}

// Detach removes the engine; subsequent signals are unavailable.
func (b *Bridge) Detach() {
	b.target.Store(nil)
}

// Attached reports whether an engine is installed.
func (b *Bridge) Attached() bool {
	return b.target.Load() != nil
}

// Signal invokes the engine's Resume at most once. The returned error is
// diagnostic only; Signal never panics.
func (b *Bridge) Signal() (Outcome, error) {
	h := b.target.Load()
	if h == nil {
		return OutcomeUnavailable, ErrNotLoaded
	}

	err := errorhandler.Recover(h.e.Resume)
	switch {
	case err == nil:
		return OutcomeFired, nil
	case errors.Is(err, ErrNotLoaded):
		return OutcomeUnavailable, err
	default:
		return OutcomeFaulted, err
	}
}
