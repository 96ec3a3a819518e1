package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/cluster"
	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/hdfs"
	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/shared/config"
	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/shared/logging"
	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/upload"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	cfg, err := config.LoadUploader(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	detectCtx, cancel := context.WithTimeout(ctx, cfg.Cluster.Timeout)
	runner, err := cluster.Detect(detectCtx, cfg.Cluster.Container, cfg.Cluster.StagingDir, logger)
	cancel()
	if err != nil {
		logger.Fatal("HDFS not reachable", "error", err)
	}

	publisher := upload.NewResultPublisher(hdfs.NewClient(runner, "hdfs"), logger)

	base := cfg.Results.HDFSBase
	if err := publisher.EnsureTree(ctx, base); err != nil {
		logger.Fatal("Failed to create HDFS results tree", "error", err)
	}
	if err := publisher.SmokeTest(ctx, base); err != nil {
		logger.Fatal("HDFS write access check failed", "error", err)
	}

	files, err := publisher.Find(cfg.Results.SearchPaths)
	if err != nil {
		logger.Fatal("Result files missing", "error", err)
	}

	if !*yes && !confirm(len(files)) {
		logger.Info("Upload canceled")
		return
	}

	summary, err := publisher.Publish(ctx, base, files)
	if err != nil {
		logger.Fatal("Publish failed", "error", err)
	}

	if err := publisher.WriteMetadata(ctx, summary); err != nil {
		logger.Warn("Failed to upload metadata", "error", err)
	}

	verified := publisher.Verify(ctx, summary)

	logger.Info("Results published",
		"base", base,
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"verified", verified,
		"run_id", summary.RunID,
	)

	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func confirm(count int) bool {
	fmt.Printf("Ready to upload %d analysis files to HDFS. Continue? (y/N): ", count)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
