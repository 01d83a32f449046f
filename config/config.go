// Package config loads the settings of the compute-cache command.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	homedir "github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"

	cache "github.com/krisalay/compute-cache"
	"github.com/krisalay/compute-cache/eviction"
	"github.com/krisalay/compute-cache/expiration"
	"github.com/krisalay/compute-cache/filecount"
	"github.com/krisalay/compute-cache/page"
)

// Name is used for the config file, its directory and the env prefix.
const Name = "compute-cache"

// Config is the effective configuration after defaults, file, env and flags.
type Config struct {
	Root       string        `mapstructure:"root"        yaml:"root"`
	Patterns   []string      `mapstructure:"patterns"    yaml:"patterns"`
	Excludes   []string      `mapstructure:"excludes"    yaml:"excludes"`
	Key        string        `mapstructure:"key"         yaml:"key"`
	TTL        time.Duration `mapstructure:"ttl"         yaml:"ttl"`
	Shards     int           `mapstructure:"shards"      yaml:"shards"`
	Capacity   int           `mapstructure:"capacity"    yaml:"capacity"`
	Eviction   string        `mapstructure:"eviction"    yaml:"eviction"`
	Expiration string        `mapstructure:"expiration"  yaml:"expiration"`
	Listen     string        `mapstructure:"listen"      yaml:"listen"`
	Watch      bool          `mapstructure:"watch"       yaml:"watch"`
	LogLevel   string        `mapstructure:"log-level"   yaml:"log-level"`
	LogFile    string        `mapstructure:"log-file"    yaml:"log-file"`
}

// Env holds the settings that only come from the environment.
type Env struct {
	ConfigHome string `env:"COMPUTE_CACHE_CONFIG_HOME"`
	XDGConfig  string `env:"XDG_CONFIG_HOME"`
	Log        string `env:"COMPUTE_CACHE_LOG" envDefault:"info"`
}

// ParseEnv reads Env from the process environment.
func ParseEnv() (Env, error) {
	e, err := env.ParseAs[Env]()
	if err != nil {
		return Env{}, fmt.Errorf("error parsing environment: %w", err)
	}
	return e, nil
}

// SetDefaults registers every key with its default so that env overrides and
// Unmarshal see it.
func SetDefaults(v *viper.Viper, e Env) {
	v.SetDefault("root", filecount.DefaultRoot)
	v.SetDefault("patterns", filecount.DefaultPatterns)
	v.SetDefault("excludes", []string{})
	v.SetDefault("key", page.DefaultKey)
	v.SetDefault("ttl", time.Duration(0))
	v.SetDefault("shards", cache.DefaultShards)
	v.SetDefault("capacity", 0)
	v.SetDefault("eviction", string(eviction.LRU))
	v.SetDefault("expiration", "absolute")
	v.SetDefault("listen", "127.0.0.1:8080")
	v.SetDefault("watch", false)
	v.SetDefault("log-level", e.Log)
	v.SetDefault("log-file", "")

	v.SetEnvPrefix("compute_cache")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// ConfigDirs lists where the config file is searched, most specific first.
func ConfigDirs(e Env) ([]string, error) {
	scope := gap.NewScope(gap.User, Name)
	dirs, err := scope.ConfigDirs()
	if err != nil {
		return nil, fmt.Errorf("could not find configuration directory: %w", err)
	}
	if e.XDGConfig != "" {
		dirs = append([]string{filepath.Join(e.XDGConfig, Name)}, dirs...)
	}
	if e.ConfigHome != "" {
		dirs = append([]string{e.ConfigHome}, dirs...)
	}
	return dirs, nil
}

/*
ReadFile loads file into v, or searches dirs for compute-cache.yml when file
is empty. A missing file in the search path is not an error. It returns the
path of the file used, if any.
*/
func ReadFile(v *viper.Viper, file string, dirs []string) (string, error) {
	if file != "" {
		expanded, err := homedir.Expand(file)
		if err != nil {
			return "", fmt.Errorf("unable to expand %s: %w", file, err)
		}
		v.SetConfigFile(expanded)
	} else {
		for _, d := range dirs {
			v.AddConfigPath(d)
		}
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("unable to read configuration file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode configuration: %w", err)
	}

	root, err := homedir.Expand(cfg.Root)
	if err != nil {
		return Config{}, fmt.Errorf("unable to expand root %s: %w", cfg.Root, err)
	}
	cfg.Root = root

	if cfg.LogFile != "" {
		if cfg.LogFile, err = homedir.Expand(cfg.LogFile); err != nil {
			return Config{}, fmt.Errorf("unable to expand log file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.Key == "":
		return errors.New("key must not be empty")
	case c.TTL < 0:
		return fmt.Errorf("ttl must not be negative, got %s", c.TTL)
	case c.Shards < 0:
		return fmt.Errorf("shards must not be negative, got %d", c.Shards)
	case c.Capacity < 0:
		return fmt.Errorf("capacity must not be negative, got %d", c.Capacity)
	}
	if _, err := eviction.NewEvictionPolicy(eviction.PolicyType(c.Eviction)); err != nil {
		return err
	}
	if _, err := c.strategy(); err != nil {
		return err
	}
	return nil
}

func (c Config) strategy() (expiration.Strategy, error) {
	switch strings.ToLower(c.Expiration) {
	case "", "absolute":
		return expiration.Absolute{}, nil
	case "sliding":
		return expiration.Sliding{}, nil
	}
	return nil, fmt.Errorf("unknown expiration strategy %q", c.Expiration)
}

// CacheConfig turns the settings into a cache.Config. Clock and Metrics are left to the caller.
func (c Config) CacheConfig() (cache.Config, error) {
	strategy, err := c.strategy()
	if err != nil {
		return cache.Config{}, err
	}
	return cache.Config{
		Shards:     c.Shards,
		Capacity:   c.Capacity,
		Eviction:   eviction.PolicyType(c.Eviction),
		Expiration: strategy,
	}, nil
}
