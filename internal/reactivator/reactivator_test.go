package reactivator

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/777genius/engine-notifications/internal/engine"
	"github.com/777genius/engine-notifications/internal/intent"
	"github.com/777genius/engine-notifications/internal/metrics"
	"github.com/777genius/engine-notifications/internal/window"
)

const mainTarget = "engine-main"

type countingEngine struct {
	calls atomic.Int32
	err   error
	panic bool
}

func (e *countingEngine) Resume() error {
	e.calls.Add(1)
	if e.panic {
		panic("engine blew up")
	}
	return e.err
}

type failingLauncher struct{ calls int }

func (f *failingLauncher) StartActivity(intent.Intent) error {
	f.calls++
	return errors.New("no display")
}

func activation(sessionID string) intent.PendingActivation {
	return intent.PendingActivation{
		RequestCode: "req-1",
		Intent: intent.New("engine-reactivate").
			WithAction(intent.ActionReactivate).
			WithExtra(intent.ExtraSessionID, sessionID),
	}
}

func TestOnReactivate_SignalsOnceAndForegroundsWindow(t *testing.T) {
	eng := &countingEngine{}
	stack := window.NewStack()
	r := New(mainTarget, engine.NewBridge(eng), stack)

	r.OnReactivate(activation("S1"))

	assert.Equal(t, int32(1), eng.calls.Load())
	fg, ok := stack.Foreground()
	require.True(t, ok)
	assert.Equal(t, mainTarget, fg.Target)
	assert.Equal(t, "S1", fg.Intent.SessionID())
	assert.True(t, fg.Intent.Has(intent.FlagReorderToFront))
}

func TestOnReactivate_NoEngineStillRelaunches(t *testing.T) {
	stack := window.NewStack()
	rec := metrics.NewRecorder()
	r := New(mainTarget, engine.NewBridge(nil), stack, WithMetrics(rec))

	assert.NotPanics(t, func() { r.OnReactivate(activation("S1")) })

	fg, ok := stack.Foreground()
	require.True(t, ok)
	assert.Equal(t, "S1", fg.Intent.SessionID())
	assert.Equal(t, 1, stack.Started())

	expected := `
# HELP engine_notifications_engine_signals_total Engine live-signal attempts, by outcome (fired, unavailable, faulted)
# TYPE engine_notifications_engine_signals_total counter
engine_notifications_engine_signals_total{outcome="unavailable"} 1
`
	require.NoError(t, testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected),
		"engine_notifications_engine_signals_total"))
}

func TestOnReactivate_NilBridge(t *testing.T) {
	stack := window.NewStack()
	r := New(mainTarget, nil, stack)

	assert.NotPanics(t, func() { r.OnReactivate(activation("S1")) })
	assert.Equal(t, 1, stack.Count(mainTarget))
}

func TestOnReactivate_FaultingEngineIsSwallowed(t *testing.T) {
	tests := []struct {
		name string
		eng  *countingEngine
	}{
		{"panics", &countingEngine{panic: true}},
		{"errors", &countingEngine{err: errors.New("engine busy")}},
		{"not loaded", &countingEngine{err: engine.ErrNotLoaded}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stack := window.NewStack()
			r := New(mainTarget, engine.NewBridge(tt.eng), stack)

			assert.NotPanics(t, func() { r.OnReactivate(activation("S1")) })
			assert.Equal(t, int32(1), tt.eng.calls.Load())

			fg, ok := stack.Foreground()
			require.True(t, ok)
			assert.Equal(t, mainTarget, fg.Target)
		})
	}
}

func TestOnReactivate_ReusesExistingWindow(t *testing.T) {
	stack := window.NewStack()
	existing, err := stack.Open(mainTarget)
	require.NoError(t, err)
	require.NoError(t, stack.StartActivity(intent.Home()))
	r := New(mainTarget, engine.NewBridge(nil), stack)

	r.OnReactivate(activation("S2"))

	assert.Equal(t, 1, stack.Count(mainTarget))
	fg, ok := stack.Foreground()
	require.True(t, ok)
	assert.Equal(t, existing.ID, fg.ID)
	assert.Equal(t, "S2", fg.Intent.SessionID())
	assert.False(t, stack.HomeForeground())
}

func TestOnReactivate_StateSequence(t *testing.T) {
	var states []State
	r := New(mainTarget, engine.NewBridge(nil), window.NewStack(),
		WithObserver(func(_ intent.PendingActivation, s State) { states = append(states, s) }))

	r.OnReactivate(activation("S1"))

	assert.Equal(t, []State{StateInvoked, StateCallbackAttempted, StateRelaunching, StateTerminated}, states)
}

func TestOnReactivate_LauncherErrorTerminates(t *testing.T) {
	var last State
	launcher := &failingLauncher{}
	r := New(mainTarget, engine.NewBridge(nil), launcher,
		WithObserver(func(_ intent.PendingActivation, s State) { last = s }))

	assert.NotPanics(t, func() { r.OnReactivate(activation("S1")) })
	assert.Equal(t, 1, launcher.calls, "launch must not be retried")
	assert.Equal(t, StateTerminated, last)
}

func TestRelaunchIntent_CopiesExtras(t *testing.T) {
	r := New(mainTarget, nil, window.NewStack())
	p := activation("S1")
	p.Intent = p.Intent.WithExtra("other", "x")

	in := r.RelaunchIntent(p)

	assert.Equal(t, mainTarget, in.Target)
	assert.Equal(t, intent.ActionMain, in.Action)
	assert.Equal(t, map[string]string{intent.ExtraSessionID: "S1", "other": "x"}, in.Extras)

	in.Extras["other"] = "mutated"
	assert.Equal(t, "x", p.Intent.Extras["other"])
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "invoked", StateInvoked.String())
	assert.Equal(t, "callback-attempted", StateCallbackAttempted.String())
	assert.Equal(t, "relaunching", StateRelaunching.String())
	assert.Equal(t, "terminated", StateTerminated.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestOnReactivate_AlwaysForegroundsRealWindow(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		attached := rapid.Bool().Draw(t, "attached")
		sid := rapid.String().Draw(t, "sid")

		eng := &countingEngine{}
		bridge := engine.NewBridge(nil)
		if attached {
			bridge.Attach(eng)
		}
		stack := window.NewStack()
		r := New(mainTarget, bridge, stack)

		r.OnReactivate(activation(sid))

		fg, ok := stack.Foreground()
		if !ok || fg.Target != mainTarget {
			t.Fatalf("real window not in foreground: %+v", fg)
		}
		if fg.Intent.SessionID() != sid {
			t.Fatalf("session id changed: %q -> %q", sid, fg.Intent.SessionID())
		}
		want := int32(0)
		if attached {
			want = 1
		}
		if eng.calls.Load() != want {
			t.Fatalf("engine signalled %d times, want %d", eng.calls.Load(), want)
		}
	})
}
