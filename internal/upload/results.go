package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/hdfs"
	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/shared/logging"
)

// Categories the three expected analysis result files are filed under in
// HDFS (mapreduce_results/<category>/<file>).
var resultCategories = map[string]string{
	"sentiment_analysis.json":    "sentiment",
	"geographic_analysis.json":   "geographic",
	"tweets_with_locations.json": "organized_data",
}

// ResultFile is one located analysis result file.
type ResultFile struct {
	Name     string
	Path     string
	Size     int64
	Category string
}

// FileOutcome records the outcome of publishing one file.
type FileOutcome struct {
	Name     string `json:"name"`
	Local    string `json:"local_path"`
	HDFS     string `json:"hdfs_path"`
	Category string `json:"category"`
	Size     int64  `json:"size"`
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
}

// Summary aggregates one publish run.
type Summary struct {
	RunID     string        `json:"run_id"`
	Timestamp time.Time     `json:"timestamp"`
	BasePath  string        `json:"hdfs_base_path"`
	Total     int           `json:"total_files"`
	Succeeded int           `json:"successful_uploads"`
	Failed    int           `json:"failed_uploads"`
	Files     []FileOutcome `json:"files"`
}

// ResultPublisher uploads the analysis result JSON files into a fixed HDFS
// results tree and records metadata about the run.
type ResultPublisher struct {
	dfs    *hdfs.Client
	logger logging.Logger
}

func NewResultPublisher(dfs *hdfs.Client, logger logging.Logger) *ResultPublisher {
	return &ResultPublisher{dfs: dfs, logger: logger}
}

// Find locates all three expected result files across the search paths.
// All of them are required; the error names the missing ones.
func (p *ResultPublisher) Find(searchPaths []string) ([]ResultFile, error) {
	var found []ResultFile
	var missing []string

	for name, category := range resultCategories {
		local := FindInPaths(name, searchPaths)
		if local == "" {
			missing = append(missing, name)
			continue
		}
		info, err := os.Stat(local)
		if err != nil {
			missing = append(missing, name)
			continue
		}
		found = append(found, ResultFile{
			Name:     name,
			Path:     local,
			Size:     info.Size(),
			Category: category,
		})
		p.logger.Info("Found result file", "file", name, "path", local, "size", info.Size())
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing result files: %s", strings.Join(missing, ", "))
	}
	return found, nil
}

// EnsureTree creates the full results directory structure and opens up
// permissions so the analysis containers can read it back.
func (p *ResultPublisher) EnsureTree(ctx context.Context, base string) error {
	dirs := []string{
		base,
		path.Join(base, "mapreduce_results"),
		path.Join(base, "mapreduce_results", "sentiment"),
		path.Join(base, "mapreduce_results", "geographic"),
		path.Join(base, "mapreduce_results", "organized_data"),
		path.Join(base, "metadata"),
	}

	for _, dir := range dirs {
		exists, err := p.dfs.Exists(ctx, dir)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := p.dfs.MkdirAll(ctx, dir); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		p.logger.Info("Created HDFS directory", "path", dir)
	}

	if err := p.dfs.Chmod(ctx, "755", base); err != nil {
		p.logger.Warn("Failed to set permissions", "path", base, "error", err)
	}
	return nil
}

// SmokeTest uploads and removes a throwaway file to prove HDFS is writable
// before touching the real results.
func (p *ResultPublisher) SmokeTest(ctx context.Context, base string) error {
	tmp, err := os.CreateTemp("", "hdfs-write-test-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	probe := map[string]any{"test": true, "timestamp": time.Now().UTC().Format(time.RFC3339)}
	if err := json.NewEncoder(tmp).Encode(probe); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	target := path.Join(base, ".write_test_"+uuid.NewString()[:8]+".json")
	if err := p.dfs.Put(ctx, tmp.Name(), target); err != nil {
		return fmt.Errorf("HDFS write test failed: %w", err)
	}
	if err := p.dfs.Remove(ctx, target); err != nil {
		p.logger.Warn("Failed to remove write-test file", "path", target, "error", err)
	}
	return nil
}

// Publish validates and uploads the located files. Per-file failures are
// recorded in the summary; the run errors only when nothing succeeded.
func (p *ResultPublisher) Publish(ctx context.Context, base string, files []ResultFile) (*Summary, error) {
	summary := &Summary{
		RunID:     uuid.NewString(),
		Timestamp: time.Now().UTC(),
		BasePath:  base,
		Total:     len(files),
	}

	for _, file := range files {
		outcome := FileOutcome{
			Name:     file.Name,
			Local:    file.Path,
			Category: file.Category,
			Size:     file.Size,
		}

		if err := validateJSON(file.Path); err != nil {
			outcome.Message = err.Error()
			summary.Failed++
			summary.Files = append(summary.Files, outcome)
			p.logger.Error("Result file is not valid JSON", "file", file.Name, "error", err)
			continue
		}

		outcome.HDFS = path.Join(base, "mapreduce_results", file.Category, file.Name)
		if err := p.dfs.Put(ctx, file.Path, outcome.HDFS); err != nil {
			outcome.Message = err.Error()
			summary.Failed++
			summary.Files = append(summary.Files, outcome)
			p.logger.Error("Failed to upload result file", "file", file.Name, "error", err)
			continue
		}

		outcome.Success = true
		summary.Succeeded++
		summary.Files = append(summary.Files, outcome)
		p.logger.Info("Published result file", "file", file.Name, "hdfs", outcome.HDFS)
	}

	if summary.Succeeded == 0 {
		return summary, fmt.Errorf("no result files published to %s", base)
	}
	return summary, nil
}

// Verify re-checks each successful upload with an existence probe and
// returns how many were confirmed.
func (p *ResultPublisher) Verify(ctx context.Context, summary *Summary) int {
	verified := 0
	for _, outcome := range summary.Files {
		if !outcome.Success {
			continue
		}
		exists, err := p.dfs.Exists(ctx, outcome.HDFS)
		if err != nil {
			p.logger.Warn("Verification probe failed", "path", outcome.HDFS, "error", err)
			continue
		}
		if exists {
			verified++
		} else {
			p.logger.Warn("Uploaded file not found in HDFS", "path", outcome.HDFS)
		}
	}
	return verified
}

// WriteMetadata uploads the run summary as a JSON document under the
// metadata directory.
func (p *ResultPublisher) WriteMetadata(ctx context.Context, summary *Summary) error {
	tmp, err := os.CreateTemp("", "upload-metadata-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	name := fmt.Sprintf("upload_%s.json", summary.Timestamp.Format("20060102_150405"))
	target := path.Join(summary.BasePath, "metadata", name)
	if err := p.dfs.Put(ctx, tmp.Name(), target); err != nil {
		return fmt.Errorf("uploading metadata: %w", err)
	}
	p.logger.Info("Metadata uploaded", "path", target, "run_id", summary.RunID)
	return nil
}

func validateJSON(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	if !json.Valid(data) {
		return fmt.Errorf("%s: invalid JSON", filepath.Base(file))
	}
	return nil
}
