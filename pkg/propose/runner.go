package propose

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/pkg/errors"

	"github.com/skillsmith/skillsmith/pkg/osutil"
)

// RunResult is what came back from one tool invocation.
type RunResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// ProcessRunner abstracts spawning the external generation tool so the
// wrapper can be tested with canned output instead of a real process.
type ProcessRunner interface {
	Run(ctx context.Context, name string, args []string, timeout time.Duration) (*RunResult, error)
}

// ExecRunner runs the tool as a real subprocess. The argument vector is
// passed straight to exec; no shell is ever involved. The process gets its
// own process group and the whole group is killed when the timeout fires.
type ExecRunner struct{}

// Run spawns the command and blocks until it exits or the timeout fires.
func (ExecRunner) Run(ctx context.Context, name string, args []string, timeout time.Duration) (*RunResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	osutil.SetProcessGroup(cmd)
	osutil.SetProcessGroupKill(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, errors.Errorf("%s timed out after %s", name, timeout)
		}
		return nil, errors.Wrapf(ctxErr, "%s was cancelled", name)
	}

	result := &RunResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, errors.Wrapf(err, "failed to run %s", name)
	}

	result.ExitCode = cmd.ProcessState.ExitCode()
	return result, nil
}
