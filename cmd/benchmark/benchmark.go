// Command benchmark stampedes a compute cache and reports how often the
// compute function actually ran and how fast cached reads are.
package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	cache "github.com/krisalay/compute-cache"
	"github.com/krisalay/compute-cache/eviction"
)

const (
	shards      = 8
	capacity    = 200000
	preloadKeys = 100000
	goroutines  = 200
	opsPerG     = 5000
	computeCost = 50 * time.Millisecond
)

func main() {
	ctx := context.Background()

	fmt.Println("\n================ COMPUTE CACHE BENCHMARK =================")
	fmt.Println("Shards       :", shards)
	fmt.Println("Capacity     :", humanize.Comma(capacity))
	fmt.Println("Preload Keys :", humanize.Comma(preloadKeys))
	fmt.Println("Goroutines   :", goroutines)
	fmt.Println("Ops/Goroutine:", humanize.Comma(opsPerG))
	fmt.Println("Compute cost :", computeCost)

	c, err := cache.New(cache.Config{Shards: shards, Capacity: capacity, Eviction: eviction.LRU})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer c.Close()

	// ---------------- Stampede ----------------
	var computes atomic.Int64
	slow := func() (any, error) {
		computes.Add(1)
		time.Sleep(computeCost)
		return 42, nil
	}

	start := time.Now()
	var g errgroup.Group
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			_, err := c.GetOrCompute(ctx, "stampede", slow, cache.Permanent)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	stampede := time.Since(start)

	// ---------------- Hot reads ----------------
	for i := 0; i < preloadKeys; i++ {
		v := i
		_, _ = c.GetOrCompute(ctx, fmt.Sprintf("key-%d", i), func() (any, error) { return v, nil }, cache.Permanent)
	}

	start = time.Now()
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			for j := 0; j < opsPerG; j++ {
				if _, err := c.GetOrCompute(ctx, fmt.Sprintf("key-%d", j%preloadKeys), slow, cache.Permanent); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	duration := time.Since(start)
	totalOps := goroutines * opsPerG
	stats := c.Stats()

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Stampede callers : %d\n", goroutines)
	fmt.Printf("Stampede computes: %d\n", computes.Load())
	fmt.Printf("Stampede time    : %v\n", stampede)
	fmt.Printf("Read operations  : %s\n", humanize.Comma(int64(totalOps)))
	fmt.Printf("Read time        : %v\n", duration)
	fmt.Printf("Throughput       : %s ops/sec\n", humanize.Commaf(float64(totalOps)/duration.Seconds()))
	fmt.Printf("Hit rate         : %.2f%%\n", stats.HitRate*100)
	fmt.Println("=========================================")

	if computes.Load() != 1 {
		fmt.Fprintf(os.Stderr, "expected exactly one compute, got %d\n", computes.Load())
		os.Exit(1)
	}
}
