//go:build !linux

package tray

import "errors"

func newDBus(appName string) (Service, error) {
	return nil, errors.New("D-Bus notifications are only available on Linux")
}
