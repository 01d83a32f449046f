package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/krisalay/compute-cache/expiration"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v, Env{Log: "info"})
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := Load(newViper(t))
	require.NoError(t, err)

	assert.Equal(t, "core", cfg.Root)
	assert.Equal(t, []string{"*.php"}, cfg.Patterns)
	assert.Equal(t, "files_count", cfg.Key)
	assert.Zero(t, cfg.TTL)
	assert.Equal(t, 8, cfg.Shards)
	assert.Equal(t, "lru", cfg.Eviction)
	assert.Equal(t, "absolute", cfg.Expiration)
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("COMPUTE_CACHE_TTL", "90s")
	t.Setenv("COMPUTE_CACHE_LOG_LEVEL", "debug")
	t.Setenv("COMPUTE_CACHE_KEY", "try_cache_files_count")

	cfg, err := Load(newViper(t))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.TTL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "try_cache_files_count", cfg.Key)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("COMPUTE_CACHE_LOG", "warn")
	t.Setenv("COMPUTE_CACHE_CONFIG_HOME", "/etc/compute-cache")

	e, err := ParseEnv()
	require.NoError(t, err)
	assert.Equal(t, "warn", e.Log)
	assert.Equal(t, "/etc/compute-cache", e.ConfigHome)

	dirs, err := ConfigDirs(e)
	require.NoError(t, err)
	require.NotEmpty(t, dirs)
	assert.Equal(t, "/etc/compute-cache", dirs[0])
}

func TestReadFileFromSearchPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "compute-cache.yml"), []byte(
		"root: /srv/app/core\nttl: 10m\nexpiration: sliding\ncapacity: 100\neviction: fifo\n"), 0o644))

	v := newViper(t)
	used, err := ReadFile(v, "", []string{dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "compute-cache.yml"), used)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/srv/app/core", cfg.Root)
	assert.Equal(t, 10*time.Minute, cfg.TTL)

	cc, err := cfg.CacheConfig()
	require.NoError(t, err)
	assert.Equal(t, expiration.Sliding{}, cc.Expiration)
	assert.Equal(t, 100, cc.Capacity)
	assert.EqualValues(t, "fifo", cc.Eviction)
}

func TestReadFileMissingInSearchPath(t *testing.T) {
	used, err := ReadFile(newViper(t), "", []string{t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, used)
}

func TestReadFileExplicitMissing(t *testing.T) {
	_, err := ReadFile(newViper(t), filepath.Join(t.TempDir(), "nope.yml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"empty key":          func(c *Config) { c.Key = "" },
		"negative ttl":       func(c *Config) { c.TTL = -time.Second },
		"negative capacity":  func(c *Config) { c.Capacity = -1 },
		"unknown eviction":   func(c *Config) { c.Eviction = "lfu" },
		"unknown expiration": func(c *Config) { c.Expiration = "whenever" },
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(newViper(t))
			require.NoError(t, err)
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestRootHomeExpansion(t *testing.T) {
	v := newViper(t)
	v.Set("root", "~/app/core")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.NotContains(t, cfg.Root, "~")
	assert.True(t, filepath.IsAbs(cfg.Root))
}

func TestYAMLRoundTrip(t *testing.T) {
	cfg, err := Load(newViper(t))
	require.NoError(t, err)

	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "key: files_count")

	var back Config
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, cfg.Key, back.Key)
	assert.Equal(t, cfg.TTL, back.TTL)
}

func TestSetupLog(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	file := filepath.Join(t.TempDir(), "logs", "compute-cache.log")
	closer, err := SetupLog("debug", file)
	require.NoError(t, err)

	log.Debug("hello", "key", "files_count")
	require.NoError(t, closer())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "files_count")

	_, err = SetupLog("chatty", "")
	assert.Error(t, err)
}
