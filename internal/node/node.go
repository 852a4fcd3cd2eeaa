package node

import (
	"golang.org/x/sys/cpu"
)

// MaxConsumers bounds source_ref_count so read_barriers can be a flat,
// fixed-size array inside the POD Node rather than requiring an
// in-segment allocator.
const MaxConsumers = 10

// SinkState is the producer lifecycle state.
type SinkState uint32

const (
	Undefined SinkState = iota
	Bound
	End
)

// Node is the in-segment control block. It is placed directly inside a
// mapped segment via segment.Object[Node](seg, 0); every field is
// fixed-size so its layout is identical across processes mapping the same
// file. The zero value is a valid Node with sinkState == Undefined and all
// counters at zero, which is exactly what a freshly truncated (zero-filled)
// segment file provides; constructing the Node is simply mapping it.
type Node struct {
	mu mutex

	sinkState      uint32
	sourceRefCount uint32
	writeNumber    uint64

	slotUsed [MaxConsumers]uint32

	// awaitingRead marks, per slot, whether that consumer still owes a
	// read for the cycle most recently opened by SinkPost. It is the
	// obligation a SinkWait blocks on, not sourceRefCount, which can grow
	// the moment a new consumer attaches mid-cycle. A slot's bit is set by
	// SinkPost for every consumer attached at that instant, and cleared by
	// whichever of SourcePost or DecrementSourceRefCount touches it first.
	awaitingRead [MaxConsumers]uint32

	// sinkWaitOpen and sourceWaitOpen gate SinkPost/SourcePost on a
	// preceding, still-unmatched Wait, so a doubled or premature Post is
	// detected rather than silently corrupting the read-count bookkeeping.
	sinkWaitOpen   uint32
	sourceWaitOpen [MaxConsumers]uint32

	// bindBarrier is posted by SetSinkState on any transition away from
	// Undefined (Bind, and also End) so a consumer that attached before the sink
	// binds can synchronize on that transition in Connect without
	// consuming a read-barrier token meant for an actual published
	// sample.
	bindBarrier barrierSeq

	writeBarrier barrierSeq

	// Padding so the write barrier (touched every cycle by the sink and by
	// whichever source last posts) and the read-barrier array (touched by
	// every source every cycle) don't share a cache line.
	_ cpu.CacheLinePad

	readBarriers [MaxConsumers]barrierSeq
}

// SetSinkState latches s into the Node. End is terminal: once set, further
// calls are no-ops.
func (n *Node) SetSinkState(s SinkState) {
	n.mu.Lock()
	if SinkState(n.sinkState) == End {
		n.mu.Unlock()
		return
	}
	n.sinkState = uint32(s)
	n.mu.Unlock()
	if s != Undefined {
		n.bindBarrier.post()
	}
}

// SinkState returns the current latched sink state.
func (n *Node) SinkState() SinkState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return SinkState(n.sinkState)
}

// Bind transitions Undefined -> Bound, failing with ErrAlreadyBound if the
// sink side is already Bound or has ended: exactly one Bind succeeds per
// address.
func (n *Node) Bind() error {
	n.mu.Lock()
	if SinkState(n.sinkState) != Undefined {
		n.mu.Unlock()
		return ErrAlreadyBound
	}
	n.sinkState = uint32(Bound)
	n.mu.Unlock()
	n.bindBarrier.post()
	return nil
}

// IncrementSourceRefCount picks the lowest free slot index, marks it used,
// increments source_ref_count, and returns the slot index.
func (n *Node) IncrementSourceRefCount() (slot int, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.sourceRefCount >= MaxConsumers {
		return 0, ErrTooManyConsumers
	}
	for i := 0; i < MaxConsumers; i++ {
		if n.slotUsed[i] == 0 {
			n.slotUsed[i] = 1
			n.awaitingRead[i] = 0
			n.sourceWaitOpen[i] = 0
			n.sourceRefCount++
			return i, nil
		}
	}
	return 0, ErrTooManyConsumers
}

// DecrementSourceRefCount releases slot and returns the post-decrement
// source_ref_count. A departing consumer that still owed a read for the
// in-flight cycle has that obligation cleared here rather than left for a
// SinkWait to wait on forever.
func (n *Node) DecrementSourceRefCount(slot int) (newCount uint32) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if slot >= 0 && slot < MaxConsumers && n.slotUsed[slot] != 0 {
		n.slotUsed[slot] = 0
		n.awaitingRead[slot] = 0
		n.sourceWaitOpen[slot] = 0
		n.sourceRefCount--
	}
	return n.sourceRefCount
}

// SourceRefCount returns the current number of attached consumers.
func (n *Node) SourceRefCount() uint32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sourceRefCount
}

// WriteNumber returns the id of the currently-published sample.
func (n *Node) WriteNumber() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.writeNumber
}
