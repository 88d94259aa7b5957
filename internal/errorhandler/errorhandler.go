// ABOUTME: Panic containment for goroutines and for calls across the engine boundary.
// ABOUTME: SafeGo logs and swallows panics; Recover converts a panic into an error.
package errorhandler

import (
	"fmt"
	"runtime/debug"

	"github.com/777genius/engine-notifications/internal/logging"
)

// PanicError is returned by Recover when fn panicked.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// SafeGo runs fn in a new goroutine. A panic inside fn is logged and
// swallowed instead of crashing the process.
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.Error("Recovered panic in goroutine: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// Recover calls fn and returns its error. A panic is returned as *PanicError.
func Recover(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}
