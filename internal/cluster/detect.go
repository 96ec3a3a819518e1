package cluster

import (
	"context"
	"fmt"

	"github.com/carter221/HADOOP-HDFS-BIGDATA/internal/shared/logging"
)

// Detect probes for a reachable HDFS. The dockerized namenode is tried
// first since that is the usual deployment; a host-local hdfs binary is
// the fallback. Mirrors the connectivity check the upload flow has always
// done before touching HDFS.
func Detect(ctx context.Context, container, stagingDir string, logger logging.Logger) (Runner, error) {
	docker := NewDockerRunner(container, stagingDir)
	if res, err := docker.Run(ctx, "hdfs", "dfs", "-ls", "/"); err == nil && res.Ok() {
		logger.Info("HDFS reachable via docker", "container", container)
		return docker, nil
	}

	logger.Warn("Docker container not reachable, trying host hdfs", "container", container)

	host := NewHostRunner()
	if res, err := host.Run(ctx, "hdfs", "dfs", "-ls", "/"); err == nil && res.Ok() {
		logger.Info("HDFS reachable on host")
		return host, nil
	}

	return nil, fmt.Errorf("HDFS not reachable via docker container %q nor host hdfs binary", container)
}
