package hadoop

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/cluster"
)

// StreamingJob describes one `hadoop jar hadoop-streaming.jar` invocation.
// Mapper and Reducer are the commands the streaming framework runs, e.g.
// "python3 mapper.py"; Files lists paths (in the runner's environment) to
// ship with the job.
type StreamingJob struct {
	Name        string
	Input       []string
	Output      string
	Mapper      string
	Reducer     string
	Files       []string
	CmdEnv      map[string]string
	NumReducers int
	Options     []string
}

// Args builds the argument vector passed to the hadoop binary.
// See https://hadoop.apache.org/docs/stable/hadoop-streaming/HadoopStreaming.html
func (j *StreamingJob) Args(jar string) ([]string, error) {
	if j.Mapper == "" || j.Reducer == "" {
		return nil, errors.New("streaming job requires both a mapper and a reducer")
	}
	if len(j.Input) == 0 {
		return nil, errors.New("streaming job requires at least one input path")
	}
	if j.Output == "" {
		return nil, errors.New("streaming job requires an output path")
	}

	args := []string{"jar", jar}
	args = append(args, "-D", fmt.Sprintf("mapred.job.name=%s", j.Name))
	args = append(args, "-D", fmt.Sprintf("mapred.reduce.tasks=%d", j.NumReducers))
	args = append(args, j.Options...)

	if len(j.Files) > 0 {
		args = append(args, "-files", strings.Join(j.Files, ","))
	}
	for _, in := range j.Input {
		args = append(args, "-input", in)
	}
	args = append(args, "-output", j.Output)
	args = append(args, "-mapper", j.Mapper)
	args = append(args, "-reducer", j.Reducer)

	// Sorted so the constructed command is stable.
	envKeys := make([]string, 0, len(j.CmdEnv))
	for k := range j.CmdEnv {
		envKeys = append(envKeys, k)
	}
	sort.Strings(envKeys)
	for _, k := range envKeys {
		args = append(args, "-cmdenv", k+"="+j.CmdEnv[k])
	}

	return args, nil
}

// Submit runs the job through the toolchain and waits for it to finish.
// Hadoop's own log output is returned so callers can surface it.
func (j *StreamingJob) Submit(ctx context.Context, runner cluster.Runner, tc *Toolchain) (string, error) {
	args, err := j.Args(tc.StreamingJar)
	if err != nil {
		return "", err
	}

	argv := append([]string{tc.HadoopBin}, args...)
	res, err := runner.Run(ctx, argv...)
	if err != nil {
		return "", fmt.Errorf("submitting job %s: %w", j.Name, err)
	}
	// Hadoop writes progress to stderr even on success.
	logs := res.Stderr
	if !res.Ok() {
		return logs, fmt.Errorf("job %s failed with exit code %d", j.Name, res.ExitCode)
	}
	return logs, nil
}
