// ABOUTME: Tap handler: best-effort engine live signal, then bring the real
// ABOUTME: application window to the front with the tapped session id.
package reactivator

import (
	"github.com/777genius/engine-notifications/internal/engine"
	"github.com/777genius/engine-notifications/internal/intent"
	"github.com/777genius/engine-notifications/internal/logging"
	"github.com/777genius/engine-notifications/internal/metrics"
	"github.com/777genius/engine-notifications/internal/window"
)

// State is a step of one reactivation.
type State int

const (
	StateInvoked State = iota
	StateCallbackAttempted
	StateRelaunching
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInvoked:
		return "invoked"
	case StateCallbackAttempted:
		return "callback-attempted"
	case StateRelaunching:
		return "relaunching"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Observer is called on every state change of a reactivation.
type Observer func(p intent.PendingActivation, s State)

// Option configures a Reactivator.
type Option func(*Reactivator)

// WithObserver installs an observer.
func WithObserver(o Observer) Option {
	return func(r *Reactivator) { r.observe = o }
}

// WithMetrics counts engine signals and relaunches.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(r *Reactivator) { r.metrics = rec }
}

// Reactivator is stateless between taps and safe for concurrent use.
type Reactivator struct {
	windowTarget string
	bridge       *engine.Bridge
	launcher     window.Launcher
	metrics      *metrics.Recorder
	observe      Observer
}

// New returns a reactivator that relaunches windowTarget.
func New(windowTarget string, bridge *engine.Bridge, launcher window.Launcher, opts ...Option) *Reactivator {
	r := &Reactivator{
		windowTarget: windowTarget,
		bridge:       bridge,
		launcher:     launcher,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnReactivate handles one tap. It signals the engine at most once, starts
// the real window with bring-to-front semantics and returns. Nothing is
// retried and nothing is propagated to the caller.
func (r *Reactivator) OnReactivate(p intent.PendingActivation) {
	r.enter(p, StateInvoked)

	r.signalEngine(p)
	r.enter(p, StateCallbackAttempted)

	r.enter(p, StateRelaunching)
	relaunch := r.RelaunchIntent(p)
	err := r.launcher.StartActivity(relaunch)
	r.metrics.Relaunched(err)
	if err != nil {
		logging.Error("Failed to bring %s to front (request %s): %v", r.windowTarget, p.RequestCode, err)
	}

	r.enter(p, StateTerminated)
}

// RelaunchIntent is the intent that brings the real window to the front,
// carrying the activation's extras unchanged.
func (r *Reactivator) RelaunchIntent(p intent.PendingActivation) intent.Intent {
	return intent.New(r.windowTarget).
		WithAction(intent.ActionMain).
		WithFlags(intent.FlagReorderToFront).
		WithExtras(p.Intent.Extras)
}

func (r *Reactivator) signalEngine(p intent.PendingActivation) {
	if r.bridge == nil {
		r.metrics.EngineSignal(engine.OutcomeUnavailable.String())
		logging.Debug("No engine bridge, skipping live signal (request %s)", p.RequestCode)
		return
	}

	outcome, err := r.bridge.Signal()
	r.metrics.EngineSignal(outcome.String())
	switch outcome {
	case engine.OutcomeFired:
		logging.Debug("Engine signalled (request %s)", p.RequestCode)
	case engine.OutcomeUnavailable:
		logging.Debug("Engine not loaded, skipping live signal: %v", err)
	default:
		logging.Warn("Engine live signal faulted (request %s): %v", p.RequestCode, err)
	}
}

func (r *Reactivator) enter(p intent.PendingActivation, s State) {
	if r.observe != nil {
		r.observe(p, s)
	}
}
