package oatshm

import (
	"fmt"
	"sync"

	"github.com/oat-streams/oatshm/internal/node"
	"github.com/oat-streams/oatshm/internal/segment"
)

// Source is the consumer façade, generic over the payload type T. Use
// Touch to create one, then Connect before the first Wait.
type Source[T any] struct {
	seg     *segment.Segment
	n       *node.Node
	slot    *T
	slotIdx int

	closeOnce sync.Once
	quit      func() bool
}

// Touch opens the segment named address, creating it (sized for one T and
// no free area) if the sink has not yet arrived, and attaches as a new
// consumer, assigning this Source a slot index. Frame payload streams
// must use TouchFrame, which also agrees the free-area capacity with the
// eventual sink.
func Touch[T any](address string) (*Source[T], error) {
	return touch[T](address, 0)
}

func touch[T any](address string, extraBytes int) (*Source[T], error) {
	size := freeAreaOffset[T]() + extraBytes

	seg, err := segment.OpenOrCreate(address, size)
	if err != nil {
		return nil, err
	}

	n := segment.Object[node.Node](seg, nodeOffset)
	slotIdx, err := n.IncrementSourceRefCount()
	if err != nil {
		seg.Close()
		return nil, fmt.Errorf("%s: %w", segment.NodeObjectName(address), err)
	}

	slot := segment.Object[T](seg, slotOffset())
	return &Source[T]{seg: seg, n: n, slot: slot, slotIdx: slotIdx}, nil
}

// SetQuit installs a predicate polled during Wait/Connect's retry loop;
// see Sink.SetQuit.
func (s *Source[T]) SetQuit(quit func() bool) { s.quit = quit }

// Connect implements the attach protocol: if the sink has not bound yet,
// block until it binds (or ends). It does not wait for the first sample;
// that sample is delivered by the first Wait.
func (s *Source[T]) Connect() (NodeState, error) {
	return s.n.Connect(s.slotIdx, s.quit)
}

// Wait blocks on this Source's read barrier until a new sample is posted
// or the sink latches end of stream.
func (s *Source[T]) Wait() (NodeState, error) {
	return s.n.SourceWait(s.slotIdx, s.quit)
}

// Retrieve returns a stable pointer to the payload slot, valid between the
// return of Wait and the call to Post. It panics if the sink has never
// bound, since that means the caller skipped Connect; a programmer
// error, not a recoverable one.
func (s *Source[T]) Retrieve() *T {
	if s.n.SinkState() == node.Undefined {
		panic(node.ErrReadWithoutBoundSink)
	}
	return s.slot
}

// Clone returns a deep copy of the current payload, for a consumer that
// releases the cycle quickly and processes off-line. For inline types
// this is an ordinary value copy.
func (s *Source[T]) Clone() T {
	return *s.slot
}

// Post clears this Source's read obligation for the current cycle,
// releasing the sink's write barrier once no attached consumer owes a
// read any longer. It returns ErrPostWithoutWait if called without a
// preceding, still-unmatched Wait.
func (s *Source[T]) Post() error {
	return s.n.SourcePost(s.slotIdx)
}

// WriteNumber returns the id of the last sample observed, letting a
// multi-source consumer detect whether two of its Sources are
// time-aligned.
func (s *Source[T]) WriteNumber() uint64 { return s.n.WriteNumber() }

// Close detaches this Source: decrements source_ref_count, releases a
// possibly-waiting sink's write barrier, and, if this was the last
// attached consumer and the sink is not bound, unlinks the segment; the
// last one out turns off the lights. Safe to call more than once.
func (s *Source[T]) Close() error {
	var unlinkErr error
	s.closeOnce.Do(func() {
		remaining := s.n.DecrementSourceRefCount(s.slotIdx)
		s.n.ReleaseWriteBarrier()
		if remaining == 0 && s.n.SinkState() != node.Bound {
			unlinkErr = segment.Unlink(s.seg.Address())
		}
		s.seg.Close()
	})
	return unlinkErr
}
