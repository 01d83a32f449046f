package filecount

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/muesli/gitcha"
)

// ErrRootNotFound is returned when the directory to scan does not exist.
var ErrRootNotFound = errors.New("scan root not found")

// By default PHP files under the core directory are counted.
var (
	DefaultRoot     = "core"
	DefaultPatterns = []string{"*.php"}
)

// Scanner counts regular files under Root whose names match Patterns.
type Scanner struct {
	Root     string
	Patterns []string
	Excludes []string
}

// NewScanner returns a Scanner, falling back to the defaults for empty arguments.
func NewScanner(root string, patterns, excludes []string) *Scanner {
	if root == "" {
		root = DefaultRoot
	}
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	return &Scanner{Root: root, Patterns: patterns, Excludes: excludes}
}

// Count walks the tree once. .gitignore rules are not applied; every matching file counts.
func (s *Scanner) Count(ctx context.Context) (int, error) {
	info, err := os.Stat(s.Root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrRootNotFound, s.Root)
		}
		return 0, fmt.Errorf("unable to stat scan root: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("scan root %s is not a directory", s.Root)
	}

	ch, err := gitcha.FindAllFilesExcept(s.Root, s.Patterns, s.Excludes)
	if err != nil {
		return 0, fmt.Errorf("unable to scan %s: %w", s.Root, err)
	}

	n := 0
	for {
		select {
		case <-ctx.Done():
			// Let the walker finish so its goroutine does not block on send.
			go drain(ch)
			return 0, ctx.Err()
		case res, ok := <-ch:
			if !ok {
				return n, nil
			}
			if res.Info != nil && res.Info.IsDir() {
				continue
			}
			n++
		}
	}
}

func drain(ch chan gitcha.SearchResult) {
	for range ch {
	}
}
