//go:build unix

// Package osutil holds the platform-specific bits of process management the
// proposal wrapper needs: running an external tool in its own process group
// so a timeout can take down the whole tree, not just the direct child.
package osutil

import (
	"os/exec"
	"syscall"
)

// SetProcessGroup puts the command in its own process group before it starts.
func SetProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// SetProcessGroupKill installs a cancel hook that kills the entire process
// group. Call after SetProcessGroup and before cmd.Start.
func SetProcessGroupKill(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
