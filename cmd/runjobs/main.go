package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/analysis"
	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/cluster"
	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/shared/config"
	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/shared/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	jobName := flag.String("job", "", "run a single analysis (default: all). Available: "+strings.Join(analysis.List(), ", "))
	flag.Parse()

	cfg, err := config.LoadRunner(*configPath)
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

	r := analysis.NewRunner(cfg, runner, logger)
	if err := r.Prepare(ctx); err != nil {
		logger.Fatal("Failed to prepare job runner", "error", err)
	}
	defer r.Close(context.Background())

	if *jobName != "" {
		if err := r.Run(ctx, *jobName); err != nil {
			logger.Fatal("Analysis failed", "analysis", *jobName, "error", err)
		}
		return
	}

	if err := r.RunAll(ctx); err != nil {
		r.Close(context.Background())
		logger.Fatal("Some analyses failed", "error", err)
	}

	logger.Info("All analyses completed")
}
