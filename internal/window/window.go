// ABOUTME: Window launcher abstraction and an in-memory window stack.
// ABOUTME: Bring-to-front reuses windows; the home surface backgrounds, never closes.
package window

import (
	"errors"
	"fmt"
	"sync"

	"github.com/777genius/engine-notifications/internal/intent"
)

// ErrUnsupported is returned by launchers that cannot act on this platform.
var ErrUnsupported = errors.New("window launcher not supported on this platform")

// Launcher starts components described by intents.
type Launcher interface {
	StartActivity(in intent.Intent) error
}

// State of a window in the stack.
type State string

const (
	StateForeground State = "foreground"
	StateBackground State = "background"
)

// Window is one live window in a Stack.
type Window struct {
	ID     int
	Target string
	Intent intent.Intent // most recent intent delivered to the window
	State  State
}

// Stack is an in-memory window manager. The last window is on top.
type Stack struct {
	mu      sync.Mutex
	windows []*Window
	home    bool
	nextID  int
	started int
}

// NewStack returns an empty stack with the home surface in front.
func NewStack() *Stack {
	return &Stack{home: true, nextID: 1}
}

// StartActivity applies in to the stack.
func (s *Stack) StartActivity(in intent.Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.started++

	if in.IsHome() {
		for _, w := range s.windows {
			w.State = StateBackground
		}
		s.home = true
		return nil
	}

	if in.Target == "" {
		return fmt.Errorf("intent has no target")
	}

	if in.Has(intent.FlagReorderToFront) {
		for i, w := range s.windows {
			if w.Target != in.Target {
				continue
			}
			s.windows = append(s.windows[:i], s.windows[i+1:]...)
			w.Intent = in
			s.raise(w)
			return nil
		}
	}

	w := &Window{ID: s.nextID, Target: in.Target, Intent: in}
	s.nextID++
	s.raise(w)
	return nil
}

// raise puts w on top in the foreground. Caller holds mu and has removed w
// from windows if it was present.
func (s *Stack) raise(w *Window) {
	for _, other := range s.windows {
		other.State = StateBackground
	}
	w.State = StateForeground
	s.windows = append(s.windows, w)
	s.home = false
}

// Open creates a window for target as a cold launch would.
func (s *Stack) Open(target string) (Window, error) {
	if err := s.StartActivity(intent.New(target).WithAction(intent.ActionMain)); err != nil {
		return Window{}, err
	}
	w, _ := s.Foreground()
	return w, nil
}

// Foreground returns the window in front, if any. It returns false while
// the home surface is in front.
func (s *Stack) Foreground() (Window, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.home || len(s.windows) == 0 {
		return Window{}, false
	}
	return *s.windows[len(s.windows)-1], true
}

// HomeForeground reports whether the home surface is in front.
func (s *Stack) HomeForeground() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.home
}

// Windows returns a snapshot of the stack, bottom first.
func (s *Stack) Windows() []Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Window, 0, len(s.windows))
	for _, w := range s.windows {
		out = append(out, *w)
	}
	return out
}

// Count returns how many windows exist for target.
func (s *Stack) Count(target string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, w := range s.windows {
		if w.Target == target {
			n++
		}
	}
	return n
}

// Started returns how many intents the stack has received.
func (s *Stack) Started() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}
