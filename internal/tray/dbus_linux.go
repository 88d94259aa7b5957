//go:build linux

package tray

import (
	"fmt"
	"sync"
	"time"

	"github.com/esiqveland/notify"
	"github.com/godbus/dbus/v5"

	"github.com/777genius/engine-notifications/internal/intent"
	"github.com/777genius/engine-notifications/internal/logging"
)

// defaultActionKey is the action the notification server invokes when the
// body of a notification is clicked.
const defaultActionKey = "default"

// serverDefaultTimeout lets the notification server pick the expiry.
const serverDefaultTimeout = -time.Millisecond

// sender is the subset of notify.Notifier used by DBus.
type sender interface {
	SendNotification(n notify.Notification) (uint32, error)
	CloseNotification(id uint32) (bool, error)
	Close() error
}

// DBus posts through org.freedesktop.Notifications. The fixed slot maps to
// the server-side notification ID, reused through ReplacesID.
type DBus struct {
	conn     *dbus.Conn
	notifier sender
	appName  string

	// postMu serialises Post and Cancel across the D-Bus round trip so the
	// slot's server ID is read and replaced atomically.
	postMu sync.Mutex

	mu      sync.Mutex
	live    map[int]uint32                      // slot -> server notification ID
	pending map[uint32]intent.PendingActivation // server notification ID -> activation
	handler TapHandler
}

func newDBus(appName string) (Service, error) {
	return NewDBus(appName)
}

// NewDBus connects to the session bus.
func NewDBus(appName string) (*DBus, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to D-Bus session bus: %w", err)
	}

	d := &DBus{
		conn:    conn,
		appName: appName,
		live:    make(map[int]uint32),
		pending: make(map[uint32]intent.PendingActivation),
	}

	notifier, err := notify.New(conn,
		notify.WithOnAction(d.onActionInvoked),
		notify.WithOnClosed(d.onNotificationClosed),
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create notifier: %w", err)
	}
	d.notifier = notifier
	return d, nil
}

func (d *DBus) Post(n Notification) error {
	d.postMu.Lock()
	defer d.postMu.Unlock()

	d.mu.Lock()
	replaces := d.live[n.Slot]
	d.mu.Unlock()

	id, err := d.notifier.SendNotification(buildNotification(d.appName, n, replaces))
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	d.mu.Lock()
	if replaces != 0 {
		delete(d.pending, replaces)
	}
	d.live[n.Slot] = id
	d.pending[id] = n.Activation
	d.mu.Unlock()

	logging.Debug("Notification sent: slot=%d id=%d replaces=%d", n.Slot, id, replaces)
	return nil
}

func (d *DBus) Cancel(slot int) error {
	d.postMu.Lock()
	defer d.postMu.Unlock()

	d.mu.Lock()
	id, ok := d.live[slot]
	if ok {
		delete(d.live, slot)
		delete(d.pending, id)
	}
	d.mu.Unlock()

	if !ok {
		return nil
	}
	if _, err := d.notifier.CloseNotification(id); err != nil {
		return fmt.Errorf("failed to close notification %d: %w", id, err)
	}
	return nil
}

func (d *DBus) OnTap(h TapHandler) {
	d.mu.Lock()
	d.handler = h
	d.mu.Unlock()
}

func (d *DBus) Close() error {
	if d.notifier != nil {
		d.notifier.Close()
	}
	if d.conn != nil {
		return d.conn.Close()
	}
	return nil
}

// onActionInvoked is called when a notification action is invoked
func (d *DBus) onActionInvoked(sig *notify.ActionInvokedSignal) {
	logging.Debug("ActionInvoked: ID=%d, Action=%s", sig.ID, sig.ActionKey)
	if sig.ActionKey != defaultActionKey {
		return
	}

	p, h, ok := d.take(sig.ID)
	if !ok {
		logging.Warn("No pending activation for notification %d", sig.ID)
		return
	}
	if h != nil {
		h(p)
	}
}

// onNotificationClosed is called when a notification is closed
func (d *DBus) onNotificationClosed(sig *notify.NotificationClosedSignal) {
	d.take(sig.ID)
}

// take removes and returns the activation for a server notification ID.
func (d *DBus) take(id uint32) (intent.PendingActivation, TapHandler, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pending[id]
	if !ok {
		return intent.PendingActivation{}, d.handler, false
	}
	delete(d.pending, id)
	for slot, live := range d.live {
		if live == id {
			delete(d.live, slot)
		}
	}
	return p, d.handler, true
}

// buildNotification converts a tray entry to a D-Bus notification.
func buildNotification(appName string, n Notification, replaces uint32) notify.Notification {
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = serverDefaultTimeout
	}
	return notify.Notification{
		AppName:    appName,
		ReplacesID: replaces,
		AppIcon:    n.Icon,
		Summary:    n.Title,
		Body:       n.Text,
		Actions: []notify.Action{
			{Key: defaultActionKey, Label: "Open"},
		},
		Hints:         buildHints(appName, n),
		ExpireTimeout: timeout,
	}
}

// buildHints returns standard and vendor hints. The LED colour and pattern
// have no standard hint and travel as x-engine-* vendor hints.
func buildHints(appName string, n Notification) map[string]dbus.Variant {
	hints := map[string]dbus.Variant{
		"urgency":  dbus.MakeVariant(byte(1)),
		"category": dbus.MakeVariant("im.received"),
	}
	if appName != "" {
		hints["desktop-entry"] = dbus.MakeVariant(appName)
	}
	if n.Light.Color != 0 {
		hints["x-engine-light-color"] = dbus.MakeVariant(n.Light.Color)
		hints["x-engine-light-on-ms"] = dbus.MakeVariant(int32(n.Light.OnMs))
		hints["x-engine-light-off-ms"] = dbus.MakeVariant(int32(n.Light.OffMs))
	}
	if n.Activation.RequestCode != "" {
		hints["x-engine-request-code"] = dbus.MakeVariant(n.Activation.RequestCode)
	}
	return hints
}
