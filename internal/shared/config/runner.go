package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// RunnerConfig contains all configuration for the streaming job runner.
type RunnerConfig struct {
	Cluster   ClusterConfig   `mapstructure:"cluster"`
	Scripts   ScriptsConfig   `mapstructure:"scripts"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Input     InputConfig     `mapstructure:"input"`
	Output    OutputConfig    `mapstructure:"output"`
	Jobs      JobsConfig      `mapstructure:"jobs"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ClusterConfig describes how to reach the Hadoop cluster.
type ClusterConfig struct {
	Container  string        `mapstructure:"container"`
	StagingDir string        `mapstructure:"staging_dir"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ScriptsConfig names the local mapper and reducer programs shipped with
// every streaming job.
type ScriptsConfig struct {
	Mapper  string `mapstructure:"mapper"`
	Reducer string `mapstructure:"reducer"`
}

// DiscoveryConfig carries the candidate glob patterns probed to locate the
// Hadoop streaming jar and the hdfs/hadoop binaries inside the cluster.
type DiscoveryConfig struct {
	StreamingJarPatterns []string `mapstructure:"streaming_jar_patterns"`
	HadoopBinPatterns    []string `mapstructure:"hadoop_bin_patterns"`
	HdfsBinPatterns      []string `mapstructure:"hdfs_bin_patterns"`
}

// InputConfig holds the HDFS dataset locations. Fallback is used when the
// primary path does not exist.
type InputConfig struct {
	Primary  string `mapstructure:"primary"`
	Fallback string `mapstructure:"fallback"`
}

// OutputConfig holds the HDFS output base for analysis results.
type OutputConfig struct {
	Base string `mapstructure:"base"`
}

// JobsConfig contains per-job execution settings.
type JobsConfig struct {
	NumReducers int           `mapstructure:"num_reducers"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// LoadRunner loads the runner configuration from the given path.
// If configPath is empty, it looks for runner.yaml in the config/ directory.
// Environment variables with TWEETMR_RUNNER_ prefix override config file values.
func LoadRunner(configPath string) (*RunnerConfig, error) {
	v := viper.New()

	v.SetDefault("cluster.container", "namenode")
	v.SetDefault("cluster.staging_dir", "/tmp/tweetmr")
	v.SetDefault("cluster.timeout", 60*time.Second)
	v.SetDefault("scripts.mapper", "mapper.py")
	v.SetDefault("scripts.reducer", "reducer.py")
	v.SetDefault("discovery.streaming_jar_patterns", []string{
		"/opt/hadoop-*/share/hadoop/tools/lib/hadoop-streaming-*.jar",
		"/opt/hadoop/share/hadoop/tools/lib/hadoop-streaming-*.jar",
		"/usr/local/hadoop/share/hadoop/tools/lib/hadoop-streaming-*.jar",
		"/usr/lib/hadoop-mapreduce/hadoop-streaming*.jar",
	})
	v.SetDefault("discovery.hadoop_bin_patterns", []string{
		"/opt/hadoop-*/bin/hadoop",
		"/opt/hadoop/bin/hadoop",
		"/usr/local/hadoop/bin/hadoop",
		"/usr/bin/hadoop",
	})
	v.SetDefault("discovery.hdfs_bin_patterns", []string{
		"/opt/hadoop-*/bin/hdfs",
		"/opt/hadoop/bin/hdfs",
		"/usr/local/hadoop/bin/hdfs",
		"/usr/bin/hdfs",
	})
	v.SetDefault("input.primary", "/user/data/tweets")
	v.SetDefault("input.fallback", "/user/data/input/tweets")
	v.SetDefault("output.base", "/user/data/output/analysis")
	v.SetDefault("jobs.num_reducers", 1)
	v.SetDefault("jobs.timeout", 15*time.Minute)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("runner")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("TWEETMR_RUNNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg RunnerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}
