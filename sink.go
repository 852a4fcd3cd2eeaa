package oatshm

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/oat-streams/oatshm/internal/node"
	"github.com/oat-streams/oatshm/internal/segment"
)

// Sink is the producer façade, generic over the payload type T. Use Bind
// to create one.
type Sink[T any] struct {
	seg  *segment.Segment
	n    *node.Node
	slot *T

	closeOnce sync.Once
	quit      func() bool
}

const nodeOffset = 0

func slotOffset() int {
	return nodeOffset + int(unsafe.Sizeof(node.Node{}))
}

func freeAreaOffset[T any]() int {
	return slotOffset() + int(unsafe.Sizeof(*new(T)))
}

// Bind opens or creates the segment named address, sized to hold the Node,
// one T, and extraBytes of free area (extraBytes is 0 for inline payload
// types; frame payloads pass their pixel buffer capacity), and transitions
// the Node's sink state Undefined -> Bound. It fails with ErrAlreadyBound
// if another sink is already bound on this address.
func Bind[T any](address string, extraBytes int) (*Sink[T], error) {
	size := freeAreaOffset[T]() + extraBytes

	seg, err := segment.OpenOrCreate(address, size)
	if err != nil {
		return nil, err
	}

	n := segment.Object[node.Node](seg, nodeOffset)
	if err := n.Bind(); err != nil {
		seg.Close()
		return nil, fmt.Errorf("%s: %w", segment.NodeObjectName(address), err)
	}

	slot := segment.Object[T](seg, slotOffset())
	return &Sink[T]{seg: seg, n: n, slot: slot}, nil
}

// SetQuit installs a predicate polled during Wait's retry loop, driven by
// a process-global quit flag set from a signal handler; when it returns
// true, Wait returns ErrCancelled instead of blocking further.
func (s *Sink[T]) SetQuit(quit func() bool) { s.quit = quit }

// Wait blocks until every attached consumer has read the previous sample,
// or there are no consumers.
func (s *Sink[T]) Wait() error {
	return s.n.SinkWait(s.quit)
}

// Post publishes the mutation made to the slot since the matching Wait:
// it hands every attached consumer a fresh read obligation and releases
// their read barriers. It returns ErrPostWithoutWait if called without a
// preceding, still-unmatched Wait.
func (s *Sink[T]) Post() error {
	return s.n.SinkPost()
}

// Slot returns the payload slot for in-place mutation between Wait and
// Post. Most callers should use Push instead.
func (s *Sink[T]) Slot() *T { return s.slot }

// Push is the convenience cycle: wait(); *payload = value; post().
func (s *Sink[T]) Push(value T) error {
	if err := s.Wait(); err != nil {
		return err
	}
	*s.slot = value
	return s.Post()
}

// WriteNumber returns the id of the most recently published sample.
func (s *Sink[T]) WriteNumber() uint64 { return s.n.WriteNumber() }

// Close latches the Node's sink state to end of stream, wakes every
// blocked consumer once, and unlinks the segment if no consumer remains
// attached. It is safe to call more than once.
func (s *Sink[T]) Close() error {
	var unlinkErr error
	s.closeOnce.Do(func() {
		s.n.EndOfStreamTeardown()
		if s.n.SourceRefCount() == 0 {
			unlinkErr = segment.Unlink(s.seg.Address())
		}
		s.seg.Close()
	})
	return unlinkErr
}
