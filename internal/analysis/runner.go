package analysis

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/cluster"
	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/hadoop"
	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/hdfs"
	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/shared/config"
	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/shared/logging"
)

// Runner executes the canned analyses sequentially against an externally
// managed Hadoop cluster. Individual job failures are reported but do not
// stop the remaining jobs.
type Runner struct {
	cfg    *config.RunnerConfig
	runner cluster.Runner
	logger logging.Logger

	tc  *hadoop.Toolchain
	dfs *hdfs.Client

	stagedMapper  string
	stagedReducer string
}

func NewRunner(cfg *config.RunnerConfig, runner cluster.Runner, logger logging.Logger) *Runner {
	return &Runner{cfg: cfg, runner: runner, logger: logger}
}

// Prepare resolves the Hadoop toolchain and stages the mapper and reducer
// scripts into the execution environment. Must be called before Run.
func (r *Runner) Prepare(ctx context.Context) error {
	discovery := hadoop.NewDiscovery(r.runner)
	tc, err := discovery.Resolve(ctx, hadoop.DiscoveryPatterns{
		StreamingJar: r.cfg.Discovery.StreamingJarPatterns,
		HadoopBin:    r.cfg.Discovery.HadoopBinPatterns,
		HdfsBin:      r.cfg.Discovery.HdfsBinPatterns,
	})
	if err != nil {
		return err
	}
	r.tc = tc
	r.dfs = hdfs.NewClient(r.runner, tc.HdfsBin)

	r.logger.Info("Hadoop toolchain resolved",
		"hadoop", tc.HadoopBin,
		"hdfs", tc.HdfsBin,
		"streaming_jar", tc.StreamingJar,
	)

	r.stagedMapper, err = r.runner.Stage(ctx, r.cfg.Scripts.Mapper)
	if err != nil {
		return fmt.Errorf("staging mapper: %w", err)
	}
	r.stagedReducer, err = r.runner.Stage(ctx, r.cfg.Scripts.Reducer)
	if err != nil {
		return fmt.Errorf("staging reducer: %w", err)
	}

	r.logger.Info("Scripts staged", "mapper", r.stagedMapper, "reducer", r.stagedReducer)
	return nil
}

// Close removes the staged scripts. Errors are logged, not returned;
// leftover staging files do not affect job results.
func (r *Runner) Close(ctx context.Context) {
	for _, staged := range []string{r.stagedMapper, r.stagedReducer} {
		if staged == "" {
			continue
		}
		if err := r.runner.Unstage(ctx, staged); err != nil {
			r.logger.Warn("Failed to remove staged script", "path", staged, "error", err)
		}
	}
}

// RunAll runs every registered analysis in name order and returns the
// joined failures, if any.
func (r *Runner) RunAll(ctx context.Context) error {
	var errs []error
	for _, name := range List() {
		if err := r.Run(ctx, name); err != nil {
			r.logger.Error("Analysis failed", "analysis", name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
	}
	return errors.Join(errs...)
}

// Run executes a single analysis end to end: resolve the input dataset,
// clear the previous output, submit the streaming job, then rename the
// part-file to its friendly name.
func (r *Runner) Run(ctx context.Context, name string) error {
	if r.tc == nil {
		return errors.New("runner not prepared")
	}

	a, err := Get(name)
	if err != nil {
		return err
	}

	input, err := r.resolveInput(ctx)
	if err != nil {
		return err
	}

	output := path.Join(r.cfg.Output.Base, a.OutputDir)

	// Hadoop refuses to overwrite an existing output directory.
	if err := r.dfs.Remove(ctx, output); err != nil {
		r.logger.Warn("Failed to clear previous output", "path", output, "error", err)
	}

	job := &hadoop.StreamingJob{
		Name:        "tweet-" + a.Name,
		Input:       []string{input},
		Output:      output,
		Mapper:      "python3 " + path.Base(r.stagedMapper),
		Reducer:     "python3 " + path.Base(r.stagedReducer),
		Files:       []string{r.stagedMapper, r.stagedReducer},
		CmdEnv:      map[string]string{"ANALYSIS_TYPE": a.EnvType},
		NumReducers: r.cfg.Jobs.NumReducers,
	}

	r.logger.Info("Submitting streaming job",
		"analysis", a.Name,
		"input", input,
		"output", output,
		"reducers", job.NumReducers,
	)

	jobCtx := ctx
	if r.cfg.Jobs.Timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, r.cfg.Jobs.Timeout)
		defer cancel()
	}

	logs, err := job.Submit(jobCtx, r.runner, r.tc)
	if err != nil {
		if logs != "" {
			r.logger.Debug("Hadoop job logs", "analysis", a.Name, "logs", logs)
		}
		return err
	}

	resultPath := r.renameResult(ctx, a, output)
	r.preview(ctx, a, resultPath)

	r.logger.Info("Analysis completed", "analysis", a.Name, "result", resultPath)
	return nil
}

// resolveInput picks the primary dataset path if it exists, otherwise the
// fallback. Neither existing is fatal for the whole run only because the
// caller treats per-job errors as soft.
func (r *Runner) resolveInput(ctx context.Context) (string, error) {
	primary := r.cfg.Input.Primary
	exists, err := r.dfs.Exists(ctx, primary)
	if err != nil {
		return "", fmt.Errorf("probing input path %s: %w", primary, err)
	}
	if exists {
		return primary, nil
	}

	fallback := r.cfg.Input.Fallback
	r.logger.Warn("Primary input path missing, trying fallback", "primary", primary, "fallback", fallback)

	exists, err = r.dfs.Exists(ctx, fallback)
	if err != nil {
		return "", fmt.Errorf("probing fallback input path %s: %w", fallback, err)
	}
	if exists {
		return fallback, nil
	}
	return "", fmt.Errorf("no input dataset found at %s or %s", primary, fallback)
}

// renameResult gives the reducer's part-file a friendly name. Best effort:
// a failed rename leaves the part-file in place and the original path is
// returned instead.
func (r *Runner) renameResult(ctx context.Context, a Analysis, output string) string {
	src := path.Join(output, "part-00000")
	dst := path.Join(output, a.ResultFile)

	if err := r.dfs.Move(ctx, src, dst); err != nil {
		r.logger.Warn("Failed to rename result file", "from", src, "to", dst, "error", err)
		return src
	}
	return dst
}

// preview logs a digest of the reducer output. Failures here never affect
// the job outcome.
func (r *Runner) preview(ctx context.Context, a Analysis, resultPath string) {
	out, err := r.dfs.Cat(ctx, resultPath)
	if err != nil {
		r.logger.Warn("Failed to read result file", "path", resultPath, "error", err)
		return
	}

	records := ParseRecords(out)
	if len(records) == 0 {
		r.logger.Warn("Result file contains no parseable records", "path", resultPath)
		return
	}

	top := records[0]
	r.logger.Info("Result summary",
		"analysis", a.Name,
		"records", len(records),
		"top_item", top.Item,
		"top_month", top.Month,
		"top_count", top.Count,
	)
}
