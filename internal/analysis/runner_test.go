package analysis

import (
	"context"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/cluster"
	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/shared/config"
)

// mockLogger is a no-op logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any) {}
func (m *mockLogger) Info(msg string, args ...any)  {}
func (m *mockLogger) Warn(msg string, args ...any)  {}
func (m *mockLogger) Error(msg string, args ...any) {}
func (m *mockLogger) Fatal(msg string, args ...any) {}

type scriptedResponse struct {
	substr string
	res    cluster.Result
}

// scriptedRunner replies to commands from an ordered substring table and
// records everything it ran.
type scriptedRunner struct {
	calls     [][]string
	responses []scriptedResponse
}

func (s *scriptedRunner) respond(substr string, res cluster.Result) {
	s.responses = append(s.responses, scriptedResponse{substr: substr, res: res})
}

func (s *scriptedRunner) Run(ctx context.Context, argv ...string) (*cluster.Result, error) {
	s.calls = append(s.calls, argv)
	joined := strings.Join(argv, " ")
	for _, r := range s.responses {
		if strings.Contains(joined, r.substr) {
			res := r.res
			return &res, nil
		}
	}
	return &cluster.Result{ExitCode: 0}, nil
}

func (s *scriptedRunner) Stage(ctx context.Context, localPath string) (string, error) {
	return "/tmp/tweetmr/" + path.Base(localPath), nil
}

func (s *scriptedRunner) Unstage(ctx context.Context, stagedPath string) error {
	return nil
}

func (s *scriptedRunner) findCall(substr string) []string {
	for _, call := range s.calls {
		if strings.Contains(strings.Join(call, " "), substr) {
			return call
		}
	}
	return nil
}

func testConfig() *config.RunnerConfig {
	return &config.RunnerConfig{
		Scripts: config.ScriptsConfig{Mapper: "mapper.py", Reducer: "reducer.py"},
		Discovery: config.DiscoveryConfig{
			StreamingJarPatterns: []string{"/opt/hadoop-*/share/hadoop/tools/lib/hadoop-streaming-*.jar"},
			HadoopBinPatterns:    []string{"/opt/hadoop-*/bin/hadoop"},
			HdfsBinPatterns:      []string{"/opt/hadoop-*/bin/hdfs"},
		},
		Input:  config.InputConfig{Primary: "/user/data/tweets", Fallback: "/user/data/input/tweets"},
		Output: config.OutputConfig{Base: "/user/data/output/analysis"},
		Jobs:   config.JobsConfig{NumReducers: 1},
	}
}

func newScriptedRunner() *scriptedRunner {
	s := &scriptedRunner{}
	// Toolchain probes.
	s.respond("ls -1 /opt/hadoop-*/share", cluster.Result{Stdout: "/opt/hadoop-3.2.1/share/hadoop/tools/lib/hadoop-streaming-3.2.1.jar\n"})
	s.respond("ls -1 /opt/hadoop-*/bin/hadoop", cluster.Result{Stdout: "/opt/hadoop-3.2.1/bin/hadoop\n"})
	s.respond("ls -1 /opt/hadoop-*/bin/hdfs", cluster.Result{Stdout: "/opt/hadoop-3.2.1/bin/hdfs\n"})
	return s
}

func preparedRunner(t *testing.T, s *scriptedRunner) *Runner {
	t.Helper()
	r := NewRunner(testConfig(), s, &mockLogger{})
	require.NoError(t, r.Prepare(context.Background()))
	return r
}

func TestRunner_Run_Sentiment(t *testing.T) {
	s := newScriptedRunner()
	s.respond("-cat", cluster.Result{Stdout: "SENTIMENT_RESULT\t2024-01\tpositive\t42\n"})
	r := preparedRunner(t, s)

	require.NoError(t, r.Run(context.Background(), "sentiment"))

	jar := s.findCall("jar /opt/hadoop-3.2.1/share")
	require.NotNil(t, jar, "expected a hadoop jar submission")
	joined := strings.Join(jar, " ")
	require.Equal(t, "/opt/hadoop-3.2.1/bin/hadoop", jar[0])
	require.Contains(t, joined, "-input /user/data/tweets")
	require.Contains(t, joined, "-output /user/data/output/analysis/sentiment")
	require.Contains(t, joined, "-cmdenv ANALYSIS_TYPE=sentiment")
	require.Contains(t, joined, "-files /tmp/tweetmr/mapper.py,/tmp/tweetmr/reducer.py")
	require.Contains(t, joined, "-mapper python3 mapper.py")

	// Previous output cleared before submission, part-file renamed after.
	require.NotNil(t, s.findCall("-rm -r -f /user/data/output/analysis/sentiment"))
	require.NotNil(t, s.findCall("-mv /user/data/output/analysis/sentiment/part-00000 /user/data/output/analysis/sentiment/sentiment_results.txt"))
}

func TestRunner_Run_UsesDiscoveredHdfsBinary(t *testing.T) {
	s := newScriptedRunner()
	r := preparedRunner(t, s)

	require.NoError(t, r.Run(context.Background(), "hashtags"))

	probe := s.findCall("-test -e")
	require.NotNil(t, probe)
	require.Equal(t, "/opt/hadoop-3.2.1/bin/hdfs", probe[0])
}

func TestRunner_Run_FallbackInput(t *testing.T) {
	s := newScriptedRunner()
	s.respond("-test -e /user/data/tweets", cluster.Result{ExitCode: 1})
	s.respond("-test -e /user/data/input/tweets", cluster.Result{ExitCode: 0})
	r := preparedRunner(t, s)

	require.NoError(t, r.Run(context.Background(), "geography"))

	jar := s.findCall(" jar ")
	require.NotNil(t, jar)
	require.Contains(t, strings.Join(jar, " "), "-input /user/data/input/tweets")
}

func TestRunner_Run_NoInputAnywhere(t *testing.T) {
	s := newScriptedRunner()
	s.respond("-test -e", cluster.Result{ExitCode: 1})
	r := preparedRunner(t, s)

	err := r.Run(context.Background(), "sentiment")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no input dataset")
}

func TestRunner_Run_RenameFailureIsSoft(t *testing.T) {
	s := newScriptedRunner()
	s.respond("-mv", cluster.Result{ExitCode: 1, Stderr: "mv: destination exists"})
	r := preparedRunner(t, s)

	require.NoError(t, r.Run(context.Background(), "hashtags"))

	// Preview falls back to the unrenamed part-file.
	cat := s.findCall("-cat")
	require.NotNil(t, cat)
	require.Contains(t, strings.Join(cat, " "), "part-00000")
}

func TestRunner_Run_JobFailure(t *testing.T) {
	s := newScriptedRunner()
	s.respond(" jar ", cluster.Result{ExitCode: 1, Stderr: "Streaming Command Failed!"})
	r := preparedRunner(t, s)

	err := r.Run(context.Background(), "sentiment")
	require.Error(t, err)
	require.Contains(t, err.Error(), "tweet-sentiment")
}

func TestRunner_Run_UnknownAnalysis(t *testing.T) {
	r := preparedRunner(t, newScriptedRunner())

	err := r.Run(context.Background(), "wordcount")
	require.Error(t, err)
}

func TestRunner_Run_RequiresPrepare(t *testing.T) {
	r := NewRunner(testConfig(), newScriptedRunner(), &mockLogger{})

	err := r.Run(context.Background(), "sentiment")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not prepared")
}

func TestRunner_RunAll_ContinuesPastFailures(t *testing.T) {
	s := newScriptedRunner()
	s.respond("mapred.job.name=tweet-geography", cluster.Result{ExitCode: 1, Stderr: "boom"})
	r := preparedRunner(t, s)

	err := r.RunAll(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "geography")

	// The failure did not stop the later jobs.
	require.NotNil(t, s.findCall("mapred.job.name=tweet-hashtags"))
	require.NotNil(t, s.findCall("mapred.job.name=tweet-sentiment"))
}

func TestRunner_Prepare_FailsWithoutStreamingJar(t *testing.T) {
	s := &scriptedRunner{}
	s.respond("ls -1 /opt/hadoop-*/bin/hadoop", cluster.Result{Stdout: "/opt/hadoop-3.2.1/bin/hadoop\n"})
	s.respond("ls -1 /opt/hadoop-*/bin/hdfs", cluster.Result{Stdout: "/opt/hadoop-3.2.1/bin/hdfs\n"})
	s.respond("ls -1", cluster.Result{ExitCode: 1})
	s.respond("command -v", cluster.Result{ExitCode: 1})

	r := NewRunner(testConfig(), s, &mockLogger{})
	err := r.Prepare(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "streaming jar")
}
