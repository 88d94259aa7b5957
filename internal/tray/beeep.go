package tray

import (
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/777genius/engine-notifications/internal/logging"
	"github.com/777genius/engine-notifications/internal/platform"
)

// beeepMu serialises access to the package-global beeep.AppName.
var beeepMu sync.Mutex

// beeepNotify is the display call; overridden in tests.
var beeepNotify = func(title, message, icon string) error {
	return beeep.Notify(title, message, icon)
}

// Beeep displays notifications through gen2brain/beeep. It cannot replace
// an on-screen notification or observe taps, so the single slot is tracked
// logically only.
type Beeep struct {
	appName string

	mu   sync.Mutex
	live map[int]Notification
}

// NewBeeep returns a beeep-backed tray.
func NewBeeep(appName string) *Beeep {
	return &Beeep{appName: appName, live: make(map[int]Notification)}
}

func (b *Beeep) Post(n Notification) error {
	icon := n.Icon
	if icon != "" && !platform.FileExists(icon) {
		logging.Warn("App icon not found: %s, using default", icon)
		icon = ""
	}

	beeepMu.Lock()
	originalAppName := beeep.AppName
	if b.appName != "" {
		beeep.AppName = b.appName
	}
	err := beeepNotify(n.Title, n.Text, icon)
	beeep.AppName = originalAppName
	beeepMu.Unlock()

	if err != nil {
		return fmt.Errorf("beeep notify failed: %w", err)
	}

	b.mu.Lock()
	b.live[n.Slot] = n
	b.mu.Unlock()
	return nil
}

func (b *Beeep) Cancel(slot int) error {
	b.mu.Lock()
	delete(b.live, slot)
	b.mu.Unlock()
	return nil
}

func (b *Beeep) OnTap(h TapHandler) {
	logging.Debug("beeep tray cannot deliver taps; notifications are display-only")
}

func (b *Beeep) Close() error { return nil }
