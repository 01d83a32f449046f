package page

import (
	"fmt"
	"time"

	"github.com/krisalay/compute-cache/types"
)

// Colours used to flag where a count came from.
const (
	ColorCached   = "green"
	ColorComputed = "red"
)

// Report is the outcome of one Build.
type Report struct {
	Key       string        `json:"key"`
	Count     int           `json:"count"`
	Hit       bool          `json:"hit"`
	Latency   time.Duration `json:"latency"`
	Elapsed   time.Duration `json:"elapsed"`
	Source    string        `json:"source"`
	Retrieval string        `json:"retrieval"`
	Color     string        `json:"color"`
}

func newReport(key string, count int, res types.Result, elapsed time.Duration) Report {
	r := Report{
		Key:     key,
		Count:   count,
		Hit:     res.Hit,
		Latency: res.Latency,
		Elapsed: elapsed,
	}
	if res.Hit {
		r.Source = "cached"
		r.Retrieval = "retrieved from cache"
		r.Color = ColorCached
	} else {
		r.Source = "actual file search"
		r.Retrieval = "calculated by traversing the filesystem"
		r.Color = ColorComputed
	}
	return r
}

// Millis is Elapsed in milliseconds.
func (r Report) Millis() float64 {
	return float64(r.Elapsed) / float64(time.Millisecond)
}

// Message renders the report as one sentence.
func (r Report) Message() string {
	return fmt.Sprintf("%d files exist in this installation; %s in %.2f ms. (Source: %s)",
		r.Count, r.Retrieval, r.Millis(), r.Source)
}
