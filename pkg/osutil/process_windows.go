//go:build windows

package osutil

import (
	"os"
	"os/exec"
)

// SetProcessGroup is a no-op on Windows; foreground processes have no
// Unix-style process group to join.
func SetProcessGroup(_ *exec.Cmd) {
}

// SetProcessGroupKill installs a cancel hook that terminates the main
// process. Children may outlive it; Windows offers no group-wide kill here.
func SetProcessGroupKill(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Kill)
	}
}
