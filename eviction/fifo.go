// This file implements FIFO eviction.

package eviction

import "container/list"

// fifo keeps keys in insertion order; the front is the oldest.
type fifo struct {
	queue *list.List
	nodes map[string]*list.Element
}

func newFIFO() *fifo {
	return &fifo{queue: list.New(), nodes: make(map[string]*list.Element)}
}

// OnGet is a no-op: FIFO ignores reads.
func (f *fifo) OnGet(string) {}

// OnPut only records the first insertion. Replacing a value keeps its place in line.
func (f *fifo) OnPut(k string) {
	if _, ok := f.nodes[k]; ok {
		return
	}
	f.nodes[k] = f.queue.PushBack(k)
}

func (f *fifo) Remove(k string) {
	if e, ok := f.nodes[k]; ok {
		f.queue.Remove(e)
		delete(f.nodes, k)
	}
}

func (f *fifo) Evict() string {
	e := f.queue.Front()
	if e == nil {
		return ""
	}
	k := f.queue.Remove(e).(string)
	delete(f.nodes, k)
	return k
}

func (f *fifo) Reset() {
	f.queue.Init()
	f.nodes = make(map[string]*list.Element)
}
