package cluster

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHostRunner_Run_CapturesOutput(t *testing.T) {
	r := NewHostRunner()

	res, err := r.Run(context.Background(), "sh", "-c", "echo out; echo err >&2")
	require.NoError(t, err)
	require.True(t, res.Ok())
	require.Equal(t, "out\n", res.Stdout)
	require.Equal(t, "err\n", res.Stderr)
}

func TestHostRunner_Run_NonZeroExitIsNotAnError(t *testing.T) {
	r := NewHostRunner()

	res, err := r.Run(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	require.NoError(t, err)
	require.False(t, res.Ok())
	require.Equal(t, 3, res.ExitCode)

	cmdErr := res.Err([]string{"sh", "-c", "..."})
	require.Error(t, cmdErr)
	require.Contains(t, cmdErr.Error(), "boom")
	require.Contains(t, cmdErr.Error(), "code 3")
}

func TestHostRunner_Run_EmptyCommand(t *testing.T) {
	r := NewHostRunner()

	_, err := r.Run(context.Background())
	require.Error(t, err)
}

func TestHostRunner_Run_MissingBinary(t *testing.T) {
	r := NewHostRunner()

	_, err := r.Run(context.Background(), "definitely-not-a-binary-xyz")
	require.Error(t, err)
}

func TestHostRunner_Run_ContextCancellation(t *testing.T) {
	r := NewHostRunner()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := r.Run(ctx, "sh", "-c", "sleep 5")
	require.Error(t, err)
}

func TestHostRunner_Stage_IsNoop(t *testing.T) {
	r := NewHostRunner()

	staged, err := r.Stage(context.Background(), "/some/local/file.json")
	require.NoError(t, err)
	require.Equal(t, "/some/local/file.json", staged)
	require.NoError(t, r.Unstage(context.Background(), staged))
}

func TestResult_Err_NilOnSuccess(t *testing.T) {
	res := &Result{ExitCode: 0}
	require.NoError(t, res.Err([]string{"hdfs", "dfs", "-ls", "/"}))
}

func TestResult_Err_FallsBackToStdout(t *testing.T) {
	res := &Result{ExitCode: 1, Stdout: "only stdout here"}
	err := res.Err([]string{"hdfs"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "only stdout here")
}
