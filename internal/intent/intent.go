// ABOUTME: Relaunch descriptors: which component to start, with which flags and extras.
// ABOUTME: Intents are values; every With* method returns a copy with its own extras map.
package intent

import (
	"sort"
	"strings"
)

// Actions and categories understood by the launchers.
const (
	ActionMain       = "main"
	ActionReactivate = "reactivate"
	CategoryHome     = "home"

	// TargetHome is the component name of the home/launcher surface.
	TargetHome = "home"
)

// ExtraSessionID is the extras key carrying the engine session identifier.
const ExtraSessionID = "session_id"

// Flag modifies how a launcher starts the target.
type Flag uint32

const (
	// FlagNewTask starts the target in its own task.
	FlagNewTask Flag = 1 << iota
	// FlagReorderToFront brings an existing instance of the target to the
	// front instead of creating a new one.
	FlagReorderToFront
)

var flagNames = []struct {
	flag Flag
	name string
}{
	{FlagNewTask, "new-task"},
	{FlagReorderToFront, "reorder-to-front"},
}

func (f Flag) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, "|")
}

// Intent describes a component start request.
type Intent struct {
	Target   string
	Action   string
	Category string
	Flags    Flag
	Extras   map[string]string
}

// New returns an intent for target.
func New(target string) Intent {
	return Intent{Target: target}
}

// Home returns the intent that brings the home surface to the foreground.
func Home() Intent {
	return Intent{
		Target:   TargetHome,
		Action:   ActionMain,
		Category: CategoryHome,
		Flags:    FlagNewTask,
	}
}

// IsHome reports whether the intent asks for the home surface.
func (i Intent) IsHome() bool {
	return i.Category == CategoryHome
}

// WithAction returns a copy with the action set.
func (i Intent) WithAction(action string) Intent {
	out := i.clone()
	out.Action = action
	return out
}

// WithFlags returns a copy with flags added.
func (i Intent) WithFlags(flags Flag) Intent {
	out := i.clone()
	out.Flags |= flags
	return out
}

// WithExtra returns a copy with key set to value.
func (i Intent) WithExtra(key, value string) Intent {
	out := i.clone()
	if out.Extras == nil {
		out.Extras = make(map[string]string, 1)
	}
	out.Extras[key] = value
	return out
}

// WithExtras returns a copy carrying all of extras in addition to its own.
func (i Intent) WithExtras(extras map[string]string) Intent {
	out := i.clone()
	if len(extras) == 0 {
		return out
	}
	if out.Extras == nil {
		out.Extras = make(map[string]string, len(extras))
	}
	for k, v := range extras {
		out.Extras[k] = v
	}
	return out
}

// Extra returns the value stored under key.
func (i Intent) Extra(key string) (string, bool) {
	v, ok := i.Extras[key]
	return v, ok
}

// SessionID returns the session identifier extra, or "" when absent.
func (i Intent) SessionID() string {
	return i.Extras[ExtraSessionID]
}

// Has reports whether all of flags are set.
func (i Intent) Has(flags Flag) bool {
	return i.Flags&flags == flags
}

// ExtraKeys returns the extras keys in sorted order.
func (i Intent) ExtraKeys() []string {
	keys := make([]string, 0, len(i.Extras))
	for k := range i.Extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (i Intent) clone() Intent {
	out := i
	if i.Extras != nil {
		out.Extras = make(map[string]string, len(i.Extras))
		for k, v := range i.Extras {
			out.Extras[k] = v
		}
	}
	return out
}

// PendingActivation binds a tap target to its payload for one tray slot.
type PendingActivation struct {
	RequestCode string
	Intent      Intent
}
