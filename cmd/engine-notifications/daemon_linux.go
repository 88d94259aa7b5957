//go:build linux

package main

import (
	"fmt"
	"time"

	"github.com/777genius/engine-notifications/internal/config"
	"github.com/777genius/engine-notifications/internal/daemon"
	"github.com/777genius/engine-notifications/internal/host"
	"github.com/777genius/engine-notifications/internal/logging"
	"github.com/777genius/engine-notifications/internal/metrics"
)

// runDaemon runs the notification daemon server on Linux
func runDaemon(cfg *config.Config) error {
	logging.Info("Starting notification daemon...")

	rec := metrics.NewRecorder()
	app, err := host.New(host.Options{Config: cfg, Metrics: rec})
	if err != nil {
		return fmt.Errorf("failed to create host: %w", err)
	}
	defer app.Close()

	server := daemon.NewServer(app, daemon.ServerConfig{
		Paths:       daemon.ResolvePaths(cfg.Daemon.SocketPath),
		IdleTimeout: time.Duration(cfg.Daemon.IdleTimeoutSeconds) * time.Second,
		MetricsAddr: cfg.Daemon.MetricsAddr,
		Metrics:     rec,
	})

	if err := server.Run(); err != nil {
		return fmt.Errorf("daemon server error: %w", err)
	}
	return nil
}

// client connects to the daemon, starting it on demand.
func client(opts *options) (*daemon.Client, error) {
	socketPath := opts.cfg.Daemon.SocketPath
	if !daemon.StartDaemonOnDemand(socketPath, opts.configPath) {
		return nil, daemon.ErrDaemonNotAvailable
	}
	return daemon.NewClient(socketPath)
}

func postNotification(opts *options, sessionID, text string) error {
	c, err := client(opts)
	if err != nil {
		return err
	}
	_, err = c.Notify(sessionID, text)
	return err
}

func minimize(opts *options) error {
	c, err := client(opts)
	if err != nil {
		return err
	}
	return c.Minimize()
}

func ping(opts *options) (string, error) {
	c, err := daemon.NewClient(opts.cfg.Daemon.SocketPath)
	if err != nil {
		return "", err
	}
	status, err := c.Ping()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("daemon %s up %ds, engine attached: %t", status.Version, status.Uptime, status.EngineAttached), nil
}

func stop(opts *options) error {
	return daemon.StopDaemon(opts.cfg.Daemon.SocketPath)
}
