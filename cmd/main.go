// Package main provides the compute-cache command.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cache "github.com/krisalay/compute-cache"
	"github.com/krisalay/compute-cache/config"
	"github.com/krisalay/compute-cache/filecount"
	"github.com/krisalay/compute-cache/metrics"
	"github.com/krisalay/compute-cache/page"
	"github.com/krisalay/compute-cache/types"
)

var (
	configFile string
	cfg        config.Config
	usedFile   string
	logCloser  = func() error { return nil }

	rootCmd = &cobra.Command{
		Use:   "compute-cache",
		Short: "Count files once, serve the count from cache until it is cleared",
		Long: "compute-cache counts the files matching a pattern under a directory tree,\n" +
			"caches the number and tells you whether an answer came from the cache or\n" +
			"from walking the filesystem.",
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
)

func loadConfig(*cobra.Command, []string) error {
	e, err := config.ParseEnv()
	if err != nil {
		return err
	}

	v := viper.GetViper()
	config.SetDefaults(v, e)

	dirs, err := config.ConfigDirs(e)
	if err != nil {
		return err
	}
	if usedFile, err = config.ReadFile(v, configFile, dirs); err != nil {
		return err
	}

	if cfg, err = config.Load(v); err != nil {
		return err
	}

	if logCloser, err = config.SetupLog(cfg.LogLevel, cfg.LogFile); err != nil {
		return err
	}
	if usedFile != "" {
		log.Debug("Using configuration file", "path", usedFile)
	}
	return nil
}

// app is everything one command invocation works with.
type app struct {
	cache   *cache.ComputeCache
	metrics *metrics.Prometheus
	page    *page.FileCount
}

func newApp(cfg config.Config) (*app, error) {
	cc, err := cfg.CacheConfig()
	if err != nil {
		return nil, err
	}
	m := metrics.NewPrometheus()
	cc.Metrics = m

	c, err := cache.New(cc)
	if err != nil {
		return nil, fmt.Errorf("unable to create cache: %w", err)
	}

	scanner := filecount.NewScanner(cfg.Root, cfg.Patterns, cfg.Excludes)
	return &app{
		cache:   c,
		metrics: m,
		page: &page.FileCount{
			Cache: c,
			Key:   cfg.Key,
			Scan:  scanner.Count,
			TTL:   types.For(cfg.TTL),
		},
	}, nil
}

func main() {
	err := rootCmd.Execute()
	_ = logCloser()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default: compute-cache.yml in the user config dir)")
	flags.String("root", filecount.DefaultRoot, "directory to count files under")
	flags.StringSlice("pattern", filecount.DefaultPatterns, "file name patterns to count")
	flags.StringSlice("exclude", nil, "file name patterns to skip")
	flags.String("key", page.DefaultKey, "cache key holding the count")
	flags.Duration("ttl", 0, "how long a count stays cached (0 keeps it until cleared)")
	flags.Int("shards", cache.DefaultShards, "number of cache shards")
	flags.Int("capacity", 0, "maximum cached entries (0 for unbounded)")
	flags.String("eviction", "lru", "eviction policy when capacity is set (lru, fifo)")
	flags.String("expiration", "absolute", "ttl strategy (absolute, sliding)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-file", "", "write logs to this file instead of stderr")

	for key, flag := range map[string]string{
		"root":       "root",
		"patterns":   "pattern",
		"excludes":   "exclude",
		"key":        "key",
		"ttl":        "ttl",
		"shards":     "shards",
		"capacity":   "capacity",
		"eviction":   "eviction",
		"expiration": "expiration",
		"log-level":  "log-level",
		"log-file":   "log-file",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(countCmd, serveCmd, clearCmd, configCmd)
}
