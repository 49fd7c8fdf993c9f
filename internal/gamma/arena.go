package gamma

import (
	"errors"
	"sync"
)

type nodeKind int

const (
	kindSite nodeKind = iota
	kindPartition
	kindCRTC
)

func (k nodeKind) String() string {
	switch k {
	case kindSite:
		return "site"
	case kindPartition:
		return "partition"
	default:
		return "crtc"
	}
}

// closer is the part of every native handle the arena needs.
type closer interface {
	Close() error
}

// handle addresses one arena slot. A handle whose generation no longer
// matches its slot refers to a released resource.
type handle struct {
	index int
	gen   uint32
}

type slot struct {
	gen      uint32
	live     bool
	kind     nodeKind
	parent   int
	native   closer
	children []int
}

// arena owns every native handle opened under one site. Children are
// recorded on their parent slot so releasing a parent releases its live
// descendants first.
type arena struct {
	mu    sync.Mutex
	slots []slot
	free  []int
}

func (a *arena) insert(kind nodeKind, parent handle, native closer) (handle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p := -1
	if kind != kindSite {
		if !a.validLocked(parent) {
			return handle{}, ErrClosed
		}
		p = parent.index
	}

	var i int
	if n := len(a.free); n > 0 {
		i = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot{})
		i = len(a.slots) - 1
	}
	s := &a.slots[i]
	s.gen++
	s.live = true
	s.kind = kind
	s.parent = p
	s.native = native
	s.children = s.children[:0]
	if p >= 0 {
		a.slots[p].children = append(a.slots[p].children, i)
	}
	return handle{index: i, gen: s.gen}, nil
}

func (a *arena) validLocked(h handle) bool {
	return h.index >= 0 && h.index < len(a.slots) && a.slots[h.index].live && a.slots[h.index].gen == h.gen
}

// lookup returns the native handle behind h, or ErrClosed once it has been
// released.
func (a *arena) lookup(h handle) (closer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.validLocked(h) {
		return nil, ErrClosed
	}
	return a.slots[h.index].native, nil
}

// release closes h and every live descendant, deepest first. Releasing a
// stale handle is a no-op. Every native Close is attempted; the errors are
// joined.
func (a *arena) release(h handle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.validLocked(h) {
		return nil
	}
	return a.releaseLocked(h.index)
}

func (a *arena) releaseLocked(i int) error {
	var errs []error
	children := append([]int(nil), a.slots[i].children...)
	for _, c := range children {
		if a.slots[c].live && a.slots[c].parent == i {
			errs = append(errs, a.releaseLocked(c))
		}
	}

	s := &a.slots[i]
	errs = append(errs, s.native.Close())
	if p := s.parent; p >= 0 {
		a.slots[p].children = removeIndex(a.slots[p].children, i)
	}
	s.live = false
	s.native = nil
	s.children = s.children[:0]
	a.free = append(a.free, i)
	return errors.Join(errs...)
}

func removeIndex(list []int, v int) []int {
	for k, x := range list {
		if x == v {
			return append(list[:k], list[k+1:]...)
		}
	}
	return list
}

// live counts open handles.
func (a *arena) live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, s := range a.slots {
		if s.live {
			n++
		}
	}
	return n
}
