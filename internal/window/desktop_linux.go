//go:build linux

// ABOUTME: Desktop launcher for Linux: raises the application window or shows the desktop.
// ABOUTME: Implements fallback chains over GNOME Shell, wlroots, KWin and X11 tools.
package window

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/777genius/engine-notifications/internal/errorhandler"
	"github.com/777genius/engine-notifications/internal/intent"
	"github.com/777genius/engine-notifications/internal/logging"
)

// execCommand builds commands; overridden in tests.
var execCommand = exec.Command

// FocusMethod represents a method for focusing the application window
type FocusMethod struct {
	Name string
	Fn   func(m Match) error
}

// HomeMethod represents a method for bringing the desktop to the front
type HomeMethod struct {
	Name string
	Fn   func() error
}

// Desktop is the Launcher for Linux desktop sessions.
type Desktop struct {
	match         Match
	launchCommand string
	launchArgs    []string
	focusMethods  []FocusMethod
	homeMethods   []HomeMethod
}

// NewDesktop returns a launcher for the window described by m. When
// launchCommand is set it is started with the intent appended as
// --intent=<wire form>, after the window has been raised or when it could
// not be.
func NewDesktop(m Match, launchCommand string, launchArgs []string) *Desktop {
	return &Desktop{
		match:         m.Resolved(),
		launchCommand: launchCommand,
		launchArgs:    launchArgs,
		focusMethods:  GetFocusMethods(),
		homeMethods:   GetHomeMethods(),
	}
}

// StartActivity raises, launches, or hides behind the desktop depending on in.
func (d *Desktop) StartActivity(in intent.Intent) error {
	if in.IsHome() {
		return d.showHome()
	}

	if in.Has(intent.FlagReorderToFront) {
		focusErr := d.focus()
		if d.launchCommand == "" {
			// Raised without a launch command: the window keeps its previous
			// intent and the extras have no receiver.
			return focusErr
		}
		if focusErr != nil {
			logging.Debug("Window focus failed (%v), launching %s", focusErr, d.launchCommand)
		}
	}

	// A single-instance application receives the new intent through its
	// launch command whether or not the window was already raised.
	return d.launch(in)
}

func (d *Desktop) focus() error {
	var lastErr error
	for _, method := range d.focusMethods {
		if err := method.Fn(d.match); err != nil {
			lastErr = err
			continue
		}
		logging.Debug("Focused %s via %s", d.match.Name, method.Name)
		return nil
	}
	return fmt.Errorf("all focus methods failed, last error: %v", lastErr)
}

func (d *Desktop) showHome() error {
	var lastErr error
	for _, method := range d.homeMethods {
		if err := method.Fn(); err != nil {
			lastErr = err
			continue
		}
		logging.Debug("Desktop shown via %s", method.Name)
		return nil
	}
	return fmt.Errorf("all show-desktop methods failed, last error: %v", lastErr)
}

func (d *Desktop) launch(in intent.Intent) error {
	if d.launchCommand == "" {
		return fmt.Errorf("no launch command configured for %s", d.match.Name)
	}

	args := append(append([]string{}, d.launchArgs...), "--intent="+intent.Encode(in))
	cmd := execCommand(d.launchCommand, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", d.launchCommand, err)
	}
	errorhandler.SafeGo(func() {
		if err := cmd.Wait(); err != nil {
			logging.Debug("Launch command %s exited: %v", d.launchCommand, err)
		}
	})
	return nil
}

// GetFocusMethods returns the ordered list of focus methods to try
func GetFocusMethods() []FocusMethod {
	return []FocusMethod{
		{"activate-window-by-title extension", TryActivateWindowByTitle},
		{"GNOME Shell Eval (by window title)", TryGnomeShellEvalByTitle},
		{"GNOME Shell Eval (by app)", TryGnomeShellEval},
		{"GNOME Shell FocusApp", TryGnomeFocusApp},
		{"wlrctl", TryWlrctl},
		{"kdotool", TryKdotool},
		{"xdotool", TryXdotool},
	}
}

// GetHomeMethods returns the ordered list of show-desktop methods to try
func GetHomeMethods() []HomeMethod {
	return []HomeMethod{
		{"wmctrl", TryWmctrlShowDesktop},
		{"xdotool", TryXdotoolShowDesktop},
	}
}

// TryActivateWindowByTitle uses the activate-window-by-title GNOME extension.
// https://extensions.gnome.org/extension/5021/activate-window-by-title/
// This method does NOT require unsafe_mode and works on GNOME 42+.
func TryActivateWindowByTitle(m Match) error {
	cmd := execCommand("busctl", "--user", "call",
		"org.gnome.Shell",
		"/de/lucaswerkmeister/ActivateWindowByTitle",
		"de.lucaswerkmeister.ActivateWindowByTitle",
		"activateBySubstring", "s", m.Title,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("activate-window-by-title extension not available: %w, output: %s", err, string(output))
	}
	return nil
}

// TryGnomeShellEvalByTitle uses GNOME Shell's Eval to find and focus the window by title.
// Requires unsafe_mode or development-tools enabled.
func TryGnomeShellEvalByTitle(m Match) error {
	js := fmt.Sprintf(`
		(function() {
			let start = Date.now();
			let found = false;
			global.get_window_actors().forEach(function(actor) {
				let win = actor.get_meta_window();
				let title = win.get_title() || '';
				if (title.indexOf('%s') !== -1) {
					win.activate(start);
					found = true;
				}
			});
			return found ? 'activated' : 'no matching window';
		})()
	`, escapeJS(m.Title))

	output, err := gnomeShellEval(js)
	if err != nil {
		return err
	}
	if strings.Contains(output, "no matching window") {
		return fmt.Errorf("no window with title containing %q", m.Title)
	}
	return checkEvalAllowed(output)
}

// TryGnomeShellEval uses GNOME Shell's Eval method to activate the app.
// Requires unsafe_mode or development-tools enabled.
func TryGnomeShellEval(m Match) error {
	js := fmt.Sprintf(`
		(function() {
			let app = Shell.AppSystem.get_default().lookup_app('%s');
			if (app) {
				app.activate();
				return 'activated';
			}
			return 'app not found';
		})()
	`, escapeJS(m.DesktopID))

	output, err := gnomeShellEval(js)
	if err != nil {
		return err
	}
	if strings.Contains(output, "app not found") {
		return fmt.Errorf("app %s not found via Shell.Eval", m.DesktopID)
	}
	return checkEvalAllowed(output)
}

func gnomeShellEval(js string) (string, error) {
	cmd := execCommand("gdbus", "call",
		"--session",
		"--dest", "org.gnome.Shell",
		"--object-path", "/org/gnome/Shell",
		"--method", "org.gnome.Shell.Eval",
		js,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("gdbus Eval failed: %w, output: %s", err, string(output))
	}
	return string(output), nil
}

func checkEvalAllowed(output string) error {
	if strings.Contains(output, "false") && !strings.Contains(output, "activated") {
		return fmt.Errorf("Shell.Eval blocked (GNOME 41+ security) - install unsafe-mode-menu extension or activate-window-by-title extension")
	}
	return nil
}

// TryGnomeFocusApp uses GNOME Shell's FocusApp method (available since GNOME 45).
func TryGnomeFocusApp(m Match) error {
	cmd := execCommand("gdbus", "call",
		"--session",
		"--dest", "org.gnome.Shell",
		"--object-path", "/org/gnome/Shell",
		"--method", "org.gnome.Shell.FocusApp",
		m.DesktopID,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("gdbus FocusApp failed: %w, output: %s", err, string(output))
	}
	return nil
}

// TryWlrctl uses wlrctl for wlroots-based compositors (Sway, etc.).
func TryWlrctl(m Match) error {
	if _, err := exec.LookPath("wlrctl"); err != nil {
		return fmt.Errorf("wlrctl not installed")
	}

	// app_id first, title as fallback
	if err := execCommand("wlrctl", "toplevel", "focus", "app_id:"+m.Class).Run(); err == nil {
		return nil
	}

	output, err := execCommand("wlrctl", "toplevel", "focus", "title:"+m.Title).CombinedOutput()
	if err != nil {
		return fmt.Errorf("wlrctl failed: %w, output: %s", err, string(output))
	}
	return nil
}

// TryKdotool uses kdotool for KDE Plasma.
func TryKdotool(m Match) error {
	if _, err := exec.LookPath("kdotool"); err != nil {
		return fmt.Errorf("kdotool not installed")
	}

	output, err := execCommand("kdotool", "search", "--class", m.Class).CombinedOutput()
	ids := strings.TrimSpace(string(output))
	if err != nil || ids == "" {
		return fmt.Errorf("no windows found via kdotool")
	}

	windowID := strings.Split(ids, "\n")[0]
	if _, err := execCommand("kdotool", "windowactivate", windowID).CombinedOutput(); err != nil {
		return fmt.Errorf("kdotool windowactivate failed: %w", err)
	}
	return nil
}

// TryXdotool uses xdotool for X11-based desktop environments
// (XFCE, MATE, Cinnamon, i3, bspwm, and X11 sessions of GNOME/KDE).
func TryXdotool(m Match) error {
	if _, err := exec.LookPath("xdotool"); err != nil {
		return fmt.Errorf("xdotool not installed")
	}

	output, err := execCommand("xdotool", "search", "--class", m.Class).CombinedOutput()
	ids := strings.TrimSpace(string(output))

	if err != nil || ids == "" {
		output, err = execCommand("xdotool", "search", "--name", m.Title).CombinedOutput()
		ids = strings.TrimSpace(string(output))
	}

	if err != nil || ids == "" {
		return fmt.Errorf("no windows found via xdotool")
	}

	windowID := strings.Split(ids, "\n")[0]
	if _, err := execCommand("xdotool", "windowactivate", windowID).CombinedOutput(); err != nil {
		return fmt.Errorf("xdotool windowactivate failed: %w", err)
	}
	return nil
}

// TryWmctrlShowDesktop toggles EWMH "showing desktop" mode on.
func TryWmctrlShowDesktop() error {
	if _, err := exec.LookPath("wmctrl"); err != nil {
		return fmt.Errorf("wmctrl not installed")
	}
	if output, err := execCommand("wmctrl", "-k", "on").CombinedOutput(); err != nil {
		return fmt.Errorf("wmctrl -k on failed: %w, output: %s", err, string(output))
	}
	return nil
}

// TryXdotoolShowDesktop asks the window manager to show the desktop.
func TryXdotoolShowDesktop() error {
	if _, err := exec.LookPath("xdotool"); err != nil {
		return fmt.Errorf("xdotool not installed")
	}
	if output, err := execCommand("xdotool", "key", "--clearmodifiers", "super+d").CombinedOutput(); err != nil {
		return fmt.Errorf("xdotool show desktop failed: %w, output: %s", err, string(output))
	}
	return nil
}

// DetectTools returns a map of available focus and show-desktop tools.
func DetectTools() map[string]bool {
	tools := map[string]bool{}

	for _, tool := range []string{"wlrctl", "kdotool", "xdotool", "wmctrl", "gdbus", "busctl"} {
		_, err := exec.LookPath(tool)
		tools[tool] = err == nil
	}

	output, err := execCommand("busctl", "--user", "introspect",
		"org.gnome.Shell",
		"/de/lucaswerkmeister/ActivateWindowByTitle",
	).CombinedOutput()
	tools["activate-window-by-title"] = err == nil && strings.Contains(string(output), "activateBySubstring")

	return tools
}
