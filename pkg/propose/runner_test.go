//go:build unix

package propose

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner(t *testing.T) {
	runner := ExecRunner{}
	ctx := context.Background()

	t.Run("captures stdout and exit code", func(t *testing.T) {
		result, err := runner.Run(ctx, "sh", []string{"-c", "echo hello; echo oops >&2"}, 5*time.Second)
		require.NoError(t, err)
		assert.Equal(t, 0, result.ExitCode)
		assert.Equal(t, "hello\n", string(result.Stdout))
		assert.Equal(t, "oops\n", string(result.Stderr))
	})

	t.Run("non-zero exit is a result, not an error", func(t *testing.T) {
		result, err := runner.Run(ctx, "sh", []string{"-c", "exit 3"}, 5*time.Second)
		require.NoError(t, err)
		assert.Equal(t, 3, result.ExitCode)
	})

	t.Run("timeout kills the process", func(t *testing.T) {
		start := time.Now()
		_, err := runner.Run(ctx, "sleep", []string{"10"}, 200*time.Millisecond)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timed out")
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("missing executable", func(t *testing.T) {
		_, err := runner.Run(ctx, "definitely-not-a-real-binary-xyz", nil, time.Second)
		assert.Error(t, err)
	})
}
