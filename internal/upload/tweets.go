package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/hdfs"
	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/shared/logging"
)

// TweetPusher mirrors a local partitioned tweet tree
// (year=YYYY/month=MM/tweets.json) into HDFS.
type TweetPusher struct {
	dfs    *hdfs.Client
	logger logging.Logger
}

func NewTweetPusher(dfs *hdfs.Client, logger logging.Logger) *TweetPusher {
	return &TweetPusher{dfs: dfs, logger: logger}
}

// PushStats summarizes one push run.
type PushStats struct {
	Uploaded int
	Failed   int
	Tweets   int
}

// Push clears the HDFS base and uploads every JSON file under localDir,
// preserving the directory layout. statistics.json files are bookkeeping
// from the organizing step and are skipped. Individual file failures are
// counted, not fatal.
func (p *TweetPusher) Push(ctx context.Context, localDir, hdfsBase string) (*PushStats, error) {
	if _, err := os.Stat(localDir); err != nil {
		return nil, fmt.Errorf("local tweet directory %s: %w", localDir, err)
	}

	p.logger.Info("Clearing HDFS destination", "path", hdfsBase)
	if err := p.dfs.Remove(ctx, hdfsBase); err != nil {
		return nil, err
	}
	if err := p.dfs.MkdirAll(ctx, hdfsBase); err != nil {
		return nil, err
	}

	files, err := FindFiles([]string{filepath.Join(localDir, "**", "*.json")}, "statistics.json")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no tweet files found under %s", localDir)
	}

	stats := &PushStats{}
	for _, file := range files {
		rel, err := filepath.Rel(localDir, file)
		if err != nil {
			stats.Failed++
			continue
		}
		rel = filepath.ToSlash(rel)
		hdfsFile := path.Join(hdfsBase, rel)

		if err := p.dfs.MkdirAll(ctx, path.Dir(hdfsFile)); err != nil {
			p.logger.Error("Failed to create HDFS directory", "path", path.Dir(hdfsFile), "error", err)
			stats.Failed++
			continue
		}
		if err := p.dfs.Put(ctx, file, hdfsFile); err != nil {
			p.logger.Error("Failed to upload tweet file", "file", rel, "error", err)
			stats.Failed++
			continue
		}

		count := countTweets(file)
		stats.Tweets += count
		stats.Uploaded++
		p.logger.Info("Uploaded tweet file", "file", rel, "hdfs", hdfsFile, "tweets", count)
	}

	p.logger.Info("Push finished",
		"uploaded", stats.Uploaded,
		"failed", stats.Failed,
		"tweets", stats.Tweets,
	)

	if stats.Uploaded == 0 {
		return stats, fmt.Errorf("no files transferred to %s", hdfsBase)
	}
	return stats, nil
}

// Verify lists the created tree, reads back one sample file and reports
// disk usage. Best effort: verification problems are logged only.
func (p *TweetPusher) Verify(ctx context.Context, hdfsBase string) {
	listing, err := p.dfs.List(ctx, hdfsBase, true)
	if err != nil {
		p.logger.Warn("Failed to list HDFS tree", "path", hdfsBase, "error", err)
		return
	}
	p.logger.Info("HDFS tree created", "path", hdfsBase, "listing", listing)

	if sample := firstFileIn(listing); sample != "" {
		content, err := p.dfs.Cat(ctx, sample)
		if err != nil {
			p.logger.Warn("Failed to read sample file", "path", sample, "error", err)
		} else {
			var tweets []json.RawMessage
			if err := json.Unmarshal([]byte(content), &tweets); err != nil {
				p.logger.Warn("Sample file is not a JSON array", "path", sample, "error", err)
			} else {
				p.logger.Info("Sample file validated", "path", sample, "tweets", len(tweets))
			}
		}
	}

	usage, err := p.dfs.DiskUsage(ctx, hdfsBase)
	if err != nil {
		p.logger.Warn("Failed to read disk usage", "path", hdfsBase, "error", err)
		return
	}
	p.logger.Info("HDFS disk usage", "path", hdfsBase, "usage", usage)
}

// firstFileIn extracts the first regular file path from `hdfs dfs -ls -R`
// output. File entries start with "-"; the path is the last column.
func firstFileIn(listing string) string {
	for _, line := range strings.Split(listing, "\n") {
		if !strings.HasPrefix(line, "-") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > 0 {
			return fields[len(fields)-1]
		}
	}
	return ""
}

// countTweets returns the number of elements when the file holds a JSON
// array, zero otherwise. Only used for reporting.
func countTweets(file string) int {
	data, err := os.ReadFile(file)
	if err != nil {
		return 0
	}
	var tweets []json.RawMessage
	if err := json.Unmarshal(data, &tweets); err != nil {
		return 0
	}
	return len(tweets)
}
