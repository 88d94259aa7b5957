// ABOUTME: Posts the single "engine has something to say" notification whose tap
// ABOUTME: target is the reactivator, carrying the session id untouched.
package notifier

import (
	"time"

	"github.com/google/uuid"

	"github.com/777genius/engine-notifications/internal/config"
	"github.com/777genius/engine-notifications/internal/intent"
	"github.com/777genius/engine-notifications/internal/logging"
	"github.com/777genius/engine-notifications/internal/metrics"
	"github.com/777genius/engine-notifications/internal/sessionname"
	"github.com/777genius/engine-notifications/internal/tray"
)

// Notifier builds notifications for the tray
type Notifier struct {
	cfg     *config.Config
	tray    tray.Service
	metrics *metrics.Recorder

	newRequestCode func() string
}

// New creates a new notifier. rec may be nil.
func New(cfg *config.Config, svc tray.Service, rec *metrics.Recorder) *Notifier {
	return &Notifier{
		cfg:            cfg,
		tray:           svc,
		metrics:        rec,
		newRequestCode: uuid.NewString,
	}
}

// Post shows text in the application's tray slot, replacing any earlier
// notification. Tapping it reactivates the application with sessionID.
// Failures are logged and counted, never returned.
func (n *Notifier) Post(sessionID, text string) {
	if !n.cfg.IsNotificationsEnabled() {
		logging.Debug("Notifications disabled, skipping post for session %q", sessionID)
		return
	}

	note := n.Build(sessionID, text)
	err := n.tray.Post(note)
	n.metrics.Posted(err)
	if err != nil {
		logging.Warn("Failed to post notification (request %s): %v", note.Activation.RequestCode, err)
		return
	}

	logging.Debug("Posted notification in slot %d (request %s)", note.Slot, note.Activation.RequestCode)
}

// Build returns the notification Post would submit.
func (n *Notifier) Build(sessionID, text string) tray.Notification {
	target := intent.New(n.cfg.App.ReactivatorTarget).
		WithAction(intent.ActionReactivate).
		WithExtra(intent.ExtraSessionID, sessionID)

	title := n.cfg.Notifications.Title
	if n.cfg.ShouldShowSessionName() {
		title = sessionname.Label(title, sessionID)
	}

	return tray.Notification{
		Slot:  tray.SlotID,
		Title: title,
		Text:  text,
		Icon:  n.cfg.Notifications.Icon,
		Light: tray.Light{
			Color: n.cfg.LightARGB(),
			OnMs:  n.cfg.Notifications.LightOnMs,
			OffMs: n.cfg.Notifications.LightOffMs,
		},
		Timeout: time.Duration(n.cfg.Notifications.TimeoutSeconds) * time.Second,
		Activation: intent.PendingActivation{
			RequestCode: n.newRequestCode(),
			Intent:      target,
		},
	}
}

// Clear removes the application's notification, if one is showing.
func (n *Notifier) Clear() {
	if err := n.tray.Cancel(tray.SlotID); err != nil {
		logging.Warn("Failed to cancel notification: %v", err)
	}
}
