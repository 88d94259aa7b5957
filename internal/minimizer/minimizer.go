// ABOUTME: Sends the application to the background by bringing the home
// ABOUTME: surface to the front. Never touches the engine.
package minimizer

import (
	"github.com/777genius/engine-notifications/internal/intent"
	"github.com/777genius/engine-notifications/internal/logging"
	"github.com/777genius/engine-notifications/internal/metrics"
	"github.com/777genius/engine-notifications/internal/window"
)

// Minimizer starts the home intent through a launcher.
type Minimizer struct {
	launcher window.Launcher
	metrics  *metrics.Recorder
}

// New creates a minimizer. rec may be nil.
func New(launcher window.Launcher, rec *metrics.Recorder) *Minimizer {
	return &Minimizer{launcher: launcher, metrics: rec}
}

// Minimize brings the home surface to the foreground. The calling window
// keeps running in the background; errors are logged, not returned.
func (m *Minimizer) Minimize() {
	err := m.launcher.StartActivity(intent.Home())
	m.metrics.Minimized(err)
	if err != nil {
		logging.Error("Failed to go to the home surface: %v", err)
		return
	}
	logging.Debug("Home surface brought to front")
}
