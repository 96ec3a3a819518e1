package hadoop

import (
	"context"
	"fmt"
	"strings"

	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/cluster"
)

// Toolchain holds the resolved locations of the Hadoop pieces a streaming
// job needs. The paths are valid inside the runner's environment, not
// necessarily on the host.
type Toolchain struct {
	HadoopBin    string
	HdfsBin      string
	StreamingJar string
}

// Discovery probes candidate glob patterns to locate Hadoop installs.
// Hadoop docker images scatter the streaming jar and binaries across a few
// well-known prefixes, so a short ordered candidate list beats guessing a
// single layout.
type Discovery struct {
	runner cluster.Runner
}

func NewDiscovery(runner cluster.Runner) *Discovery {
	return &Discovery{runner: runner}
}

// FindFirst expands each pattern in order inside the runner's environment
// and returns the first match. The shell does the globbing because the
// patterns refer to the container's filesystem.
func (d *Discovery) FindFirst(ctx context.Context, patterns []string) (string, error) {
	for _, pattern := range patterns {
		res, err := d.runner.Run(ctx, "sh", "-c", fmt.Sprintf("ls -1 %s 2>/dev/null", pattern))
		if err != nil {
			return "", err
		}
		if !res.Ok() {
			continue
		}
		for _, line := range strings.Split(res.Stdout, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				return line, nil
			}
		}
	}
	return "", fmt.Errorf("no match among candidate patterns: %s", strings.Join(patterns, ", "))
}

// FindBinary locates an executable: the candidate patterns first, then the
// PATH of the runner's environment as a last resort.
func (d *Discovery) FindBinary(ctx context.Context, name string, patterns []string) (string, error) {
	if found, err := d.FindFirst(ctx, patterns); err == nil {
		return found, nil
	}

	res, err := d.runner.Run(ctx, "sh", "-c", "command -v "+name)
	if err != nil {
		return "", err
	}
	if res.Ok() {
		if p := strings.TrimSpace(res.Stdout); p != "" {
			return p, nil
		}
	}
	return "", fmt.Errorf("%s binary not found among candidate patterns or on PATH: %s", name, strings.Join(patterns, ", "))
}

// DiscoveryPatterns carries the candidate lists for one resolution pass.
type DiscoveryPatterns struct {
	StreamingJar []string
	HadoopBin    []string
	HdfsBin      []string
}

// Resolve locates the full toolchain in one pass.
func (d *Discovery) Resolve(ctx context.Context, patterns DiscoveryPatterns) (*Toolchain, error) {
	jar, err := d.FindFirst(ctx, patterns.StreamingJar)
	if err != nil {
		return nil, fmt.Errorf("locating streaming jar: %w", err)
	}

	hadoopBin, err := d.FindBinary(ctx, "hadoop", patterns.HadoopBin)
	if err != nil {
		return nil, fmt.Errorf("locating hadoop binary: %w", err)
	}

	hdfsBin, err := d.FindBinary(ctx, "hdfs", patterns.HdfsBin)
	if err != nil {
		return nil, fmt.Errorf("locating hdfs binary: %w", err)
	}

	return &Toolchain{
		HadoopBin:    hadoopBin,
		HdfsBin:      hdfsBin,
		StreamingJar: jar,
	}, nil
}
