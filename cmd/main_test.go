package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/compute-cache/config"
	"github.com/krisalay/compute-cache/httpapi"
	"github.com/krisalay/compute-cache/page"
)

func testConfig(t *testing.T, files int) config.Config {
	t.Helper()
	root := t.TempDir()
	for i := 0; i < files; i++ {
		name := filepath.Join(root, "lib", string(rune('a'+i))+".php")
		require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
		require.NoError(t, os.WriteFile(name, nil, 0o644))
	}
	return config.Config{
		Root:       root,
		Patterns:   []string{"*.php"},
		Key:        page.DefaultKey,
		Shards:     4,
		Eviction:   "lru",
		Expiration: "absolute",
	}
}

func TestRender(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	miss := render(page.Report{Count: 12345, Retrieval: "calculated by traversing the filesystem", Source: "actual file search", Elapsed: 1500 * time.Microsecond})
	assert.Equal(t, "12,345 files exist in this installation; calculated by traversing the filesystem in 1.50 ms. (Source: actual file search)", miss)

	hit := render(page.Report{Count: 3, Hit: true, Retrieval: "retrieved from cache", Source: "cached"})
	assert.Equal(t, "3 files exist in this installation; retrieved from cache in 0.00 ms. (Source: cached)", hit)
}

func TestRunCountScenario(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	a, err := newApp(testConfig(t, 3))
	require.NoError(t, err)
	defer a.cache.Close()

	repeat, invalidateAfter = 4, 2
	t.Cleanup(func() { repeat, invalidateAfter = 1, 0 })

	var out bytes.Buffer
	require.NoError(t, runCount(context.Background(), a.page, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "(Source: actual file search)")
	assert.Contains(t, lines[1], "(Source: cached)")
	assert.Equal(t, `Cached data key "files_count" was cleared.`, lines[2])
	assert.Contains(t, lines[3], "(Source: actual file search)")
	assert.Contains(t, lines[4], "(Source: cached)")
	for _, l := range []string{lines[0], lines[1], lines[3], lines[4]} {
		assert.True(t, strings.HasPrefix(l, "3 files exist"), l)
	}

	assert.EqualValues(t, 2, a.cache.Stats().Computes)
}

func TestRunCountMissingRoot(t *testing.T) {
	cfg := testConfig(t, 0)
	cfg.Root = filepath.Join(cfg.Root, "core")
	a, err := newApp(cfg)
	require.NoError(t, err)
	defer a.cache.Close()

	err = runCount(context.Background(), a.page, &bytes.Buffer{})
	assert.Error(t, err)
	assert.Zero(t, a.cache.Len())
}

func TestConfirm(t *testing.T) {
	for answer, want := range map[string]bool{
		"y\n":   true,
		"YES\n": true,
		"n\n":   false,
		"\n":    false,
		"":      false,
	} {
		var out bytes.Buffer
		ok, err := confirm(strings.NewReader(answer), &out, page.Question("files_count"))
		require.NoError(t, err)
		assert.Equal(t, want, ok, "answer %q", answer)
		assert.Equal(t, "Do you want to delete files_count? [y/N] ", out.String())
	}
}

func TestPostClear(t *testing.T) {
	a, err := newApp(testConfig(t, 2))
	require.NoError(t, err)
	defer a.cache.Close()

	srv := httptest.NewServer(httpapi.New(a.page, a.metrics.Handler()))
	defer srv.Close()

	_, err = a.page.Build(context.Background())
	require.NoError(t, err)

	res, err := postClear(srv.URL+"/", page.DefaultKey)
	require.NoError(t, err)
	assert.True(t, res.Existed)
	assert.Equal(t, `Cached data key "files_count" was cleared.`, res.Message)
	assert.Zero(t, a.cache.Len())
}
