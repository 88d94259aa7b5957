package engine

import (
	"fmt"
	"os/exec"

	"github.com/777genius/engine-notifications/internal/errorhandler"
	"github.com/777genius/engine-notifications/internal/logging"
)

// lookPath resolves executables; overridden in tests.
var lookPath = exec.LookPath

// execCommand builds commands; overridden in tests.
var execCommand = exec.Command

// Command signals an out-of-process engine by starting an executable.
// The executable is looked up on every signal, so an engine installed or
// removed after startup is picked up without a restart.
type Command struct {
	Name string
	Args []string
}

// Resume starts the command without waiting for it to exit.
func (c *Command) Resume() error {
	if c.Name == "" {
		return fmt.Errorf("%w: no engine command configured", ErrNotLoaded)
	}
	path, err := lookPath(c.Name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotLoaded, err)
	}

	cmd := execCommand(path, c.Args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start engine command %s: %w", path, err)
	}

	errorhandler.SafeGo(func() {
		if err := cmd.Wait(); err != nil {
			logging.Debug("Engine command %s exited: %v", path, err)
		}
	})
	return nil
}
