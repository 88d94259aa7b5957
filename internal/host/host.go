// ABOUTME: Composition root: owns the tray, window launcher, engine bridge and
// ABOUTME: metrics, and exposes postNotification/minimize to the application.
package host

import (
	"fmt"

	"github.com/777genius/engine-notifications/internal/config"
	"github.com/777genius/engine-notifications/internal/engine"
	"github.com/777genius/engine-notifications/internal/intent"
	"github.com/777genius/engine-notifications/internal/logging"
	"github.com/777genius/engine-notifications/internal/metrics"
	"github.com/777genius/engine-notifications/internal/minimizer"
	"github.com/777genius/engine-notifications/internal/notifier"
	"github.com/777genius/engine-notifications/internal/reactivator"
	"github.com/777genius/engine-notifications/internal/tray"
	"github.com/777genius/engine-notifications/internal/window"
)

// Options overrides the pieces New would otherwise build from Config.
type Options struct {
	Config   *config.Config
	Tray     tray.Service      // nil = tray.Open(Config.Notifications.Backend)
	Launcher window.Launcher   // nil = window.NewDesktop from Config.App
	Engine   engine.Engine     // nil = engine.Command from Config.Engine, if set
	Metrics  *metrics.Recorder // nil = no metrics
	Observer reactivator.Observer
}

// App wires the notifier, reactivator and minimizer together.
type App struct {
	cfg         *config.Config
	tray        tray.Service
	launcher    window.Launcher
	bridge      *engine.Bridge
	metrics     *metrics.Recorder
	notifier    *notifier.Notifier
	reactivator *reactivator.Reactivator
	minimizer   *minimizer.Minimizer
}

// New builds an App and subscribes the reactivator to tray taps.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	svc := opts.Tray
	if svc == nil {
		var err error
		svc, err = tray.Open(tray.Options{Backend: cfg.Notifications.Backend, AppName: cfg.App.Name})
		if err != nil {
			return nil, fmt.Errorf("failed to open notification tray: %w", err)
		}
	}

	launcher := opts.Launcher
	if launcher == nil {
		launcher = window.NewDesktop(window.Match{
			Name:      cfg.App.Name,
			DesktopID: cfg.App.DesktopID,
			Class:     cfg.App.WindowClass,
			Title:     cfg.App.WindowTitle,
		}, cfg.App.LaunchCommand, cfg.App.LaunchArgs)
	}

	eng := opts.Engine
	if eng == nil && cfg.Engine.Command != "" {
		eng = &engine.Command{Name: cfg.Engine.Command, Args: cfg.Engine.Args}
	}

	a := &App{
		cfg:      cfg,
		tray:     svc,
		launcher: launcher,
		bridge:   engine.NewBridge(eng),
		metrics:  opts.Metrics,
	}

	rOpts := []reactivator.Option{reactivator.WithMetrics(opts.Metrics)}
	if opts.Observer != nil {
		rOpts = append(rOpts, reactivator.WithObserver(opts.Observer))
	}
	a.notifier = notifier.New(cfg, svc, opts.Metrics)
	a.reactivator = reactivator.New(cfg.App.WindowTarget, a.bridge, launcher, rOpts...)
	a.minimizer = minimizer.New(launcher, opts.Metrics)

	svc.OnTap(a.dispatchTap)
	return a, nil
}

// PostNotification shows text in the application's single tray slot.
func (a *App) PostNotification(sessionID, text string) {
	a.notifier.Post(sessionID, text)
}

// ClearNotification removes the application's notification.
func (a *App) ClearNotification() {
	a.notifier.Clear()
}

// Minimize sends the application to the background.
func (a *App) Minimize() {
	a.minimizer.Minimize()
}

// AttachEngine installs the engine's live-signal target.
func (a *App) AttachEngine(e engine.Engine) {
	a.bridge.Attach(e)
}

// DetachEngine removes the engine; taps still relaunch the window.
func (a *App) DetachEngine() {
	a.bridge.Detach()
}

// EngineAttached reports whether an engine is installed.
func (a *App) EngineAttached() bool {
	return a.bridge.Attached()
}

// Config returns the active configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Close releases the tray connection.
func (a *App) Close() error {
	return a.tray.Close()
}

func (a *App) dispatchTap(p intent.PendingActivation) {
	if p.Intent.Target != a.cfg.App.ReactivatorTarget {
		logging.Warn("Ignoring tap for unknown target %q (request %s)", p.Intent.Target, p.RequestCode)
		return
	}
	a.metrics.Tapped()
	a.reactivator.OnReactivate(p)
}
