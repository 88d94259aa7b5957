//go:build !linux

package window

import (
	"github.com/777genius/engine-notifications/internal/intent"
)

// Desktop is unsupported outside Linux; StartActivity always fails.
type Desktop struct {
	match Match
}

// NewDesktop returns a launcher that reports ErrUnsupported.
func NewDesktop(m Match, launchCommand string, launchArgs []string) *Desktop {
	return &Desktop{match: m.Resolved()}
}

// StartActivity returns ErrUnsupported.
func (d *Desktop) StartActivity(in intent.Intent) error {
	return ErrUnsupported
}

// DetectTools returns an empty map outside Linux.
func DetectTools() map[string]bool {
	return map[string]bool{}
}
