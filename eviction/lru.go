// This file implements LRU eviction.

package eviction

import "container/list"

// lru keeps keys in a list ordered from most (front) to least (back) recently used.
type lru struct {
	order *list.List
	nodes map[string]*list.Element
}

func newLRU() *lru {
	return &lru{order: list.New(), nodes: make(map[string]*list.Element)}
}

func (l *lru) OnGet(k string) {
	if e, ok := l.nodes[k]; ok {
		l.order.MoveToFront(e)
	}
}

// OnPut treats a replacement as a use, so a recomputed key moves to the front.
func (l *lru) OnPut(k string) {
	if e, ok := l.nodes[k]; ok {
		l.order.MoveToFront(e)
		return
	}
	l.nodes[k] = l.order.PushFront(k)
}

func (l *lru) Remove(k string) {
	if e, ok := l.nodes[k]; ok {
		l.order.Remove(e)
		delete(l.nodes, k)
	}
}

func (l *lru) Evict() string {
	e := l.order.Back()
	if e == nil {
		return ""
	}
	k := l.order.Remove(e).(string)
	delete(l.nodes, k)
	return k
}

func (l *lru) Reset() {
	l.order.Init()
	l.nodes = make(map[string]*list.Element)
}
