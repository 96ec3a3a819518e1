package upload

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/cluster"
)

// nopLogger is a no-op logger for testing
type nopLogger struct{}

func (l *nopLogger) Debug(msg string, args ...any) {}
func (l *nopLogger) Info(msg string, args ...any)  {}
func (l *nopLogger) Warn(msg string, args ...any)  {}
func (l *nopLogger) Error(msg string, args ...any) {}
func (l *nopLogger) Fatal(msg string, args ...any) {}

type scriptedResponse struct {
	substr string
	res    cluster.Result
}

// fakeRunner replies to commands from an ordered substring table and
// records everything it ran.
type fakeRunner struct {
	calls     [][]string
	responses []scriptedResponse
}

func (f *fakeRunner) respond(substr string, res cluster.Result) {
	f.responses = append(f.responses, scriptedResponse{substr: substr, res: res})
}

func (f *fakeRunner) Run(ctx context.Context, argv ...string) (*cluster.Result, error) {
	f.calls = append(f.calls, argv)
	joined := strings.Join(argv, " ")
	for _, r := range f.responses {
		if strings.Contains(joined, r.substr) {
			res := r.res
			return &res, nil
		}
	}
	return &cluster.Result{ExitCode: 0}, nil
}

func (f *fakeRunner) Stage(ctx context.Context, localPath string) (string, error) {
	return "/tmp/staged/" + filepath.Base(localPath), nil
}

func (f *fakeRunner) Unstage(ctx context.Context, stagedPath string) error {
	return nil
}

func (f *fakeRunner) findCall(substr string) []string {
	for _, call := range f.calls {
		if strings.Contains(strings.Join(call, " "), substr) {
			return call
		}
	}
	return nil
}

func (f *fakeRunner) countCalls(substr string) int {
	n := 0
	for _, call := range f.calls {
		if strings.Contains(strings.Join(call, " "), substr) {
			n++
		}
	}
	return n
}
