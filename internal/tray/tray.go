// ABOUTME: OS notification tray abstraction with a single fixed slot per application.
// ABOUTME: Backends: in-memory, D-Bus (Linux, with tap delivery) and beeep (display only).
package tray

import (
	"fmt"
	"strings"
	"time"

	"github.com/777genius/engine-notifications/internal/intent"
	"github.com/777genius/engine-notifications/internal/logging"
	"github.com/777genius/engine-notifications/internal/platform"
)

// SlotID is the only tray slot this application posts to. Posting again
// replaces the visible notification.
const SlotID = 1

// Backend names accepted by Open.
const (
	BackendAuto   = "auto"
	BackendDBus   = "dbus"
	BackendBeeep  = "beeep"
	BackendMemory = "memory"
)

// Light is the notification LED colour (0xAARRGGBB) and blink pattern.
type Light struct {
	Color uint32
	OnMs  int
	OffMs int
}

// Notification is one tray entry.
type Notification struct {
	Slot       int
	Title      string
	Text       string
	Icon       string
	Light      Light
	Timeout    time.Duration
	Activation intent.PendingActivation
}

// TapHandler receives the activation of a tapped notification.
type TapHandler func(p intent.PendingActivation)

// Service is an OS notification service.
type Service interface {
	// Post shows n in n.Slot, replacing whatever the slot held.
	Post(n Notification) error
	// Cancel removes the notification in slot, if any.
	Cancel(slot int) error
	// OnTap installs the handler for taps. Backends that cannot observe
	// taps accept and ignore it.
	OnTap(h TapHandler)
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	AppName string
}

// Open returns the backend named by opts.Backend. "auto" prefers D-Bus on
// Linux and falls back to beeep.
func Open(opts Options) (Service, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	switch backend {
	case "", BackendAuto:
		if platform.IsLinux() {
			s, err := newDBus(opts.AppName)
			if err == nil {
				return s, nil
			}
			logging.Warn("D-Bus tray unavailable, falling back to beeep: %v", err)
		}
		return NewBeeep(opts.AppName), nil
	case BackendDBus:
		return newDBus(opts.AppName)
	case BackendBeeep:
		return NewBeeep(opts.AppName), nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown tray backend: %s", opts.Backend)
	}
}
