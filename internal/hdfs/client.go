package hdfs

import (
	"context"
	"fmt"

	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/cluster"
)

// Client drives HDFS through the `hdfs dfs` command line instead of a
// native protocol. All cluster state belongs to Hadoop; this client only
// issues the same subcommands an operator would type.
type Client struct {
	runner cluster.Runner
	bin    string
}

// NewClient builds a client that invokes the given hdfs binary (usually
// just "hdfs", or a discovered absolute path) through the runner.
func NewClient(runner cluster.Runner, bin string) *Client {
	if bin == "" {
		bin = "hdfs"
	}
	return &Client{runner: runner, bin: bin}
}

func (c *Client) dfs(ctx context.Context, args ...string) (*cluster.Result, []string, error) {
	argv := append([]string{c.bin, "dfs"}, args...)
	res, err := c.runner.Run(ctx, argv...)
	return res, argv, err
}

// Exists reports whether the given HDFS path exists. `-test -e` exits 1
// for a missing path, which is a regular answer, not a failure.
func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	res, _, err := c.dfs(ctx, "-test", "-e", path)
	if err != nil {
		return false, err
	}
	switch res.ExitCode {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, fmt.Errorf("hdfs dfs -test -e %s: unexpected exit code %d: %s", path, res.ExitCode, res.Stderr)
	}
}

// MkdirAll creates the directory and any missing parents.
func (c *Client) MkdirAll(ctx context.Context, path string) error {
	res, argv, err := c.dfs(ctx, "-mkdir", "-p", path)
	if err != nil {
		return err
	}
	return res.Err(argv)
}

// Put uploads a local file to HDFS, overwriting any existing file. The
// file is staged into the runner's environment first so `docker exec hdfs`
// can see it, then the staged copy is removed.
func (c *Client) Put(ctx context.Context, localPath, hdfsPath string) error {
	staged, err := c.runner.Stage(ctx, localPath)
	if err != nil {
		return fmt.Errorf("staging %s: %w", localPath, err)
	}
	defer c.runner.Unstage(ctx, staged)

	res, argv, err := c.dfs(ctx, "-put", "-f", staged, hdfsPath)
	if err != nil {
		return err
	}
	return res.Err(argv)
}

// Move renames a file or directory within HDFS.
func (c *Client) Move(ctx context.Context, src, dst string) error {
	res, argv, err := c.dfs(ctx, "-mv", src, dst)
	if err != nil {
		return err
	}
	return res.Err(argv)
}

// Remove deletes a path recursively. Missing paths are not an error.
func (c *Client) Remove(ctx context.Context, path string) error {
	res, argv, err := c.dfs(ctx, "-rm", "-r", "-f", path)
	if err != nil {
		return err
	}
	return res.Err(argv)
}

// List returns the `hdfs dfs -ls` output for a path.
func (c *Client) List(ctx context.Context, path string, recursive bool) (string, error) {
	args := []string{"-ls"}
	if recursive {
		args = append(args, "-R")
	}
	args = append(args, path)

	res, argv, err := c.dfs(ctx, args...)
	if err != nil {
		return "", err
	}
	if !res.Ok() {
		return "", res.Err(argv)
	}
	return res.Stdout, nil
}

// Cat returns the contents of an HDFS file.
func (c *Client) Cat(ctx context.Context, path string) (string, error) {
	res, argv, err := c.dfs(ctx, "-cat", path)
	if err != nil {
		return "", err
	}
	if !res.Ok() {
		return "", res.Err(argv)
	}
	return res.Stdout, nil
}

// DiskUsage returns the summarized, human-readable size of a path.
func (c *Client) DiskUsage(ctx context.Context, path string) (string, error) {
	res, argv, err := c.dfs(ctx, "-du", "-s", "-h", path)
	if err != nil {
		return "", err
	}
	if !res.Ok() {
		return "", res.Err(argv)
	}
	return res.Stdout, nil
}

// Chmod applies a mode recursively.
func (c *Client) Chmod(ctx context.Context, mode, path string) error {
	res, argv, err := c.dfs(ctx, "-chmod", "-R", mode, path)
	if err != nil {
		return err
	}
	return res.Err(argv)
}
