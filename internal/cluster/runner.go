package cluster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Result captures the outcome of a single command. A non-zero exit code is
// not an error at this layer; callers decide what it means.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

func (r *Result) Ok() bool {
	return r.ExitCode == 0
}

// Err converts a failed Result into an error carrying the command's stderr.
func (r *Result) Err(argv []string) error {
	if r.Ok() {
		return nil
	}
	msg := strings.TrimSpace(r.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(r.Stdout)
	}
	return fmt.Errorf("command %q exited with code %d: %s", strings.Join(argv, " "), r.ExitCode, msg)
}

// Runner executes commands in the environment where the Hadoop CLI tools
// live: either inside the namenode container or directly on the host.
type Runner interface {
	// Run executes argv and returns its captured output. The returned error
	// is non-nil only when the command could not be started or the context
	// was canceled; command failures are reported through Result.ExitCode.
	Run(ctx context.Context, argv ...string) (*Result, error)

	// Stage makes a local file visible to commands executed by this runner
	// and returns the path those commands should use to reach it.
	Stage(ctx context.Context, localPath string) (string, error)

	// Unstage removes a previously staged file.
	Unstage(ctx context.Context, stagedPath string) error
}

// DockerRunner executes every command through `docker exec <container>`.
type DockerRunner struct {
	Container  string
	StagingDir string
}

func NewDockerRunner(container, stagingDir string) *DockerRunner {
	if stagingDir == "" {
		stagingDir = "/tmp"
	}
	return &DockerRunner{Container: container, StagingDir: stagingDir}
}

func (r *DockerRunner) Run(ctx context.Context, argv ...string) (*Result, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}
	args := append([]string{"exec", r.Container}, argv...)
	return execute(ctx, "docker", args...)
}

func (r *DockerRunner) Stage(ctx context.Context, localPath string) (string, error) {
	staged := path.Join(r.StagingDir, fmt.Sprintf("%s-%s", uuid.NewString()[:8], filepath.Base(localPath)))

	mkdir, err := r.Run(ctx, "mkdir", "-p", r.StagingDir)
	if err != nil {
		return "", err
	}
	if !mkdir.Ok() {
		return "", mkdir.Err([]string{"mkdir", "-p", r.StagingDir})
	}

	cp, err := execute(ctx, "docker", "cp", localPath, r.Container+":"+staged)
	if err != nil {
		return "", err
	}
	if !cp.Ok() {
		return "", cp.Err([]string{"docker", "cp", localPath, staged})
	}
	return staged, nil
}

func (r *DockerRunner) Unstage(ctx context.Context, stagedPath string) error {
	res, err := r.Run(ctx, "rm", "-f", stagedPath)
	if err != nil {
		return err
	}
	return res.Err([]string{"rm", "-f", stagedPath})
}

// HostRunner executes commands directly on the host. Staging is a no-op
// since local files are already reachable.
type HostRunner struct{}

func NewHostRunner() *HostRunner {
	return &HostRunner{}
}

func (r *HostRunner) Run(ctx context.Context, argv ...string) (*Result, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}
	return execute(ctx, argv[0], argv[1:]...)
}

func (r *HostRunner) Stage(ctx context.Context, localPath string) (string, error) {
	return localPath, nil
}

func (r *HostRunner) Unstage(ctx context.Context, stagedPath string) error {
	return nil
}

func execute(ctx context.Context, name string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("command %s interrupted: %w", name, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}
	return res, nil
}
