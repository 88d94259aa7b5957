package window

import (
	"strings"
)

// Match identifies the real application window for the desktop focus tools.
// Empty fields are derived from Name.
type Match struct {
	Name      string // application name, e.g. "engine"
	DesktopID string // .desktop app ID for GNOME Shell
	Class     string // WM_CLASS / wlroots app_id / KWin class
	Title     string // window title substring
}

// Resolved returns m with every empty field derived from Name.
func (m Match) Resolved() Match {
	name := strings.TrimSpace(m.Name)
	if m.DesktopID == "" {
		m.DesktopID = GetAppID(name)
	}
	if m.Class == "" {
		m.Class = name
	}
	if m.Title == "" {
		m.Title = name
	}
	return m
}

// GetAppID returns the .desktop app ID for an application name.
func GetAppID(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasSuffix(name, ".desktop") {
		return name
	}
	return strings.ToLower(name) + ".desktop"
}

// escapeJS escapes a string for safe interpolation into JavaScript single-quoted strings.
// Prevents JS injection when values are passed to GNOME Shell.Eval.
func escapeJS(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\x00", `\x00`,
		"\u2028", `\u2028`,
		"\u2029", `\u2029`,
	)
	return r.Replace(s)
}
