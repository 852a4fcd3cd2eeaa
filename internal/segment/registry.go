package segment

import "sync"

// registry deduplicates repeated opens of the same address within a single
// process: a process that calls OpenOrCreate twice for the same address
// (e.g. a Sink and a Source in the same test binary standing in for two
// separate OS processes) shares one *Segment and one backing mmap, keyed
// by a reference count, so a double-touch from a single process cannot
// corrupt its own counters. Teardown is still driven by the in-segment
// Node counters, never by this refcount.
type registry struct {
	mu    sync.Mutex
	byKey map[string]*entry
}

type entry struct {
	seg      *Segment
	refcount int
}

var global = &registry{byKey: make(map[string]*entry)}

func (r *registry) acquire(address string, open func() (*Segment, error)) (*Segment, error) {
	r.mu.Lock()
	if e, ok := r.byKey[address]; ok {
		e.refcount++
		r.mu.Unlock()
		return e.seg, nil
	}
	r.mu.Unlock()

	seg, err := open()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if e, ok := r.byKey[address]; ok {
		// Lost a race with a concurrent acquire for the same address: keep
		// the winner's mapping, discard ours.
		e.refcount++
		r.mu.Unlock()
		seg.closeMapping()
		return e.seg, nil
	}
	r.byKey[address] = &entry{seg: seg, refcount: 1}
	r.mu.Unlock()
	return seg, nil
}

func (r *registry) release(address string) (last bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byKey[address]
	if !ok {
		return true
	}
	e.refcount--
	if e.refcount <= 0 {
		delete(r.byKey, address)
		return true
	}
	return false
}
