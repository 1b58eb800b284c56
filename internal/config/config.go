// Package config loads the process-level configuration for the daemons.
// See doc.go for complete package documentation.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every externally-tunable process value: crawler
// concurrency knobs, the signature band count, and the durable-store
// endpoints. Each field's mapstructure tag names its viper key.
type Config struct {
	MaxConcurrent int           `mapstructure:"max_concurrent"`
	BatchSize     int           `mapstructure:"batch_size"`
	SleepInterval time.Duration `mapstructure:"sleep_interval"`
	SigSize       int           `mapstructure:"sig_size"`

	RedisAddr string `mapstructure:"redis_addr"`
	MongoURI  string `mapstructure:"mongo_uri"`
	MongoDB   string `mapstructure:"mongo_db"`

	CredentialsFile string `mapstructure:"credentials_file"`
	ErrorLogPath    string `mapstructure:"error_log_path"`

	HTTPAddr string `mapstructure:"http_addr"`
}

// defaults mirrors the Sketch/Crawler default constants so a process
// started with no configuration at all still behaves sanely.
var defaults = map[string]any{
	"max_concurrent":   8,
	"batch_size":       20,
	"sleep_interval":   2 * time.Second,
	"sig_size":         128,
	"redis_addr":       "localhost:6379",
	"mongo_uri":        "mongodb://localhost:27017",
	"mongo_db":         "recohub",
	"credentials_file": "credentials.txt",
	"error_log_path":   "crawler-errors.log",
	"http_addr":        ":8080",
}

// flagKeys maps each daemon's CLI flag name to the viper/mapstructure
// key it overrides.
var flagKeys = map[string]string{
	"max-concurrent":   "max_concurrent",
	"batch-size":       "batch_size",
	"sleep-interval":   "sleep_interval",
	"sig-size":         "sig_size",
	"redis-addr":       "redis_addr",
	"mongo-uri":        "mongo_uri",
	"mongo-db":         "mongo_db",
	"credentials-file": "credentials_file",
	"error-log-path":   "error_log_path",
	"http-addr":        "http_addr",
}

// Load reads configuration from (in ascending precedence) an optional
// YAML file, RECOHUB_-prefixed environment variables, and flags already
// registered on fs, then unmarshals the result into a Config.
func Load(fs *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	v.SetEnvPrefix("recohub")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", configFile, err)
		}
	}

	// Flags use CLI-conventional dashes; viper/mapstructure keys use
	// underscores to match struct tags, so each flag is bound to its
	// corresponding key explicitly rather than via BindPFlags (which
	// would bind "max-concurrent" as a distinct key from "max_concurrent").
	if fs != nil {
		for flagName, key := range flagKeys {
			f := fs.Lookup(flagName)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", flagName, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return &cfg, nil
}
