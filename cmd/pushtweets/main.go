package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/cluster"
	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/hdfs"
	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/shared/config"
	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/shared/logging"
	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/upload"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	localDir := flag.String("local", "", "local tweet directory (overrides config)")
	flag.Parse()

	cfg, err := config.LoadUploader(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *localDir != "" {
		cfg.Tweets.LocalDir = *localDir
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

	pusher := upload.NewTweetPusher(hdfs.NewClient(runner, "hdfs"), logger)

	stats, err := pusher.Push(ctx, cfg.Tweets.LocalDir, cfg.Tweets.HDFSBase)
	if err != nil {
		logger.Fatal("Push failed", "error", err)
	}

	pusher.Verify(ctx, cfg.Tweets.HDFSBase)

	logger.Info("Tweets pushed to HDFS",
		"base", cfg.Tweets.HDFSBase,
		"uploaded", stats.Uploaded,
		"failed", stats.Failed,
		"tweets", stats.Tweets,
	)
}
