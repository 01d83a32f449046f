package page

import (
	"context"
	"fmt"

	"github.com/krisalay/compute-cache/clock"
	"github.com/krisalay/compute-cache/types"
)

// DefaultKey names the cached file count when FileCount.Key is empty.
const DefaultKey = "files_count"

// Cache is the part of the compute cache the page uses.
type Cache interface {
	GetOrCompute(ctx context.Context, key string, fn types.ComputeFunc, ttl types.TTL) (types.Result, error)
	Invalidate(key string) bool
}

// ScanFunc counts the files in the installation.
type ScanFunc func(ctx context.Context) (int, error)

/*
FileCount is the file count page: it reports how many files exist and
where the number came from, and clears the cached number on request.
*/
type FileCount struct {
	Cache Cache
	Key   string
	Scan  ScanFunc
	TTL   types.TTL
	Clock clock.Clock
}

func (p *FileCount) key() string {
	if p.Key == "" {
		return DefaultKey
	}
	return p.Key
}

func (p *FileCount) now() clock.Clock {
	if p.Clock == nil {
		return clock.System{}
	}
	return p.Clock
}

/*
Build looks the count up, scanning the tree on a miss.

Cancelling ctx only stops this caller from waiting; a scan already running
finishes and is cached for the next caller.

Elapsed covers the whole lookup as seen by the caller, so a hit reports the
cost of reading the cache and a miss the cost of the scan plus storing it.
*/
func (p *FileCount) Build(ctx context.Context) (Report, error) {
	clk := p.now()
	key := p.key()

	// The scan may be shared with other callers, so it must outlive this one.
	scanCtx := context.WithoutCancel(ctx)

	start := clk.Now()
	res, err := p.Cache.GetOrCompute(ctx, key, func() (any, error) {
		return p.Scan(scanCtx)
	}, p.TTL)
	elapsed := clk.Now().Sub(start)
	if err != nil {
		return Report{}, fmt.Errorf("unable to count files: %w", err)
	}

	count, ok := res.Value.(int)
	if !ok {
		return Report{}, fmt.Errorf("cached value for %q is %T, not a file count", key, res.Value)
	}

	return newReport(key, count, res, elapsed), nil
}

// Question is the confirmation prompt shown before clearing key.
func Question(key string) string {
	return fmt.Sprintf("Do you want to delete %s?", key)
}

// ClearRequest asks for a cached key to be removed.
type ClearRequest struct {
	Key       string
	Confirmed bool
}

// ClearResult tells the caller what Clear did.
type ClearResult struct {
	Key      string `json:"key"`
	Question string `json:"question,omitempty"`
	Message  string `json:"message,omitempty"`
	Cleared  bool   `json:"cleared"`
	Existed  bool   `json:"existed"`
}

/*
Clear removes the cached value once the request is confirmed. An unconfirmed
request only returns the question and leaves the cache alone.
*/
func (p *FileCount) Clear(req ClearRequest) (ClearResult, error) {
	key := req.Key
	if key == "" {
		key = p.key()
	}

	if !req.Confirmed {
		return ClearResult{Key: key, Question: Question(key)}, nil
	}

	existed := p.Cache.Invalidate(key)
	return ClearResult{
		Key:     key,
		Message: fmt.Sprintf("Cached data key %q was cleared.", key),
		Cleared: true,
		Existed: existed,
	}, nil
}
