//go:build !linux

package main

import (
	"errors"

	"github.com/777genius/engine-notifications/internal/config"
	"github.com/777genius/engine-notifications/internal/host"
)

var errNoDaemon = errors.New("notification daemon is only available on Linux")

// runDaemon is a stub for non-Linux platforms
func runDaemon(cfg *config.Config) error {
	return errNoDaemon
}

// postNotification shows the notification in-process. Taps cannot be
// delivered once this process exits.
func postNotification(opts *options, sessionID, text string) error {
	app, err := host.New(host.Options{Config: opts.cfg})
	if err != nil {
		return err
	}
	defer app.Close()
	app.PostNotification(sessionID, text)
	return nil
}

func minimize(opts *options) error {
	app, err := host.New(host.Options{Config: opts.cfg})
	if err != nil {
		return err
	}
	defer app.Close()
	app.Minimize()
	return nil
}

func ping(opts *options) (string, error) {
	return "", errNoDaemon
}

func stop(opts *options) error {
	return errNoDaemon
}
