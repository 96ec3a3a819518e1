package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// UploaderConfig contains all configuration for the HDFS upload tools.
type UploaderConfig struct {
	Cluster ClusterConfig `mapstructure:"cluster"`
	Tweets  TweetsConfig  `mapstructure:"tweets"`
	Results ResultsConfig `mapstructure:"results"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TweetsConfig describes the local tweet tree and its HDFS destination.
type TweetsConfig struct {
	LocalDir string `mapstructure:"local_dir"`
	HDFSBase string `mapstructure:"hdfs_base"`
}

// ResultsConfig describes where analysis result files are searched for
// locally and where they are published in HDFS.
type ResultsConfig struct {
	SearchPaths []string `mapstructure:"search_paths"`
	HDFSBase    string   `mapstructure:"hdfs_base"`
}

// LoadUploader loads the uploader configuration from the given path.
// If configPath is empty, it looks for uploader.yaml in the config/ directory.
// Environment variables with TWEETMR_UPLOADER_ prefix override config file values.
func LoadUploader(configPath string) (*UploaderConfig, error) {
	v := viper.New()

	v.SetDefault("cluster.container", "namenode")
	v.SetDefault("cluster.staging_dir", "/tmp/tweetmr")
	v.SetDefault("cluster.timeout", 60*time.Second)
	v.SetDefault("tweets.local_dir", "tweets_organized")
	v.SetDefault("tweets.hdfs_base", "/user/data/tweets")
	v.SetDefault("results.search_paths", []string{".", "json-output"})
	v.SetDefault("results.hdfs_base", "/user/data/output")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("uploader")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("TWEETMR_UPLOADER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg UploaderConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}
