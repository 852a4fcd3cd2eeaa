package node

import "errors"

// ErrCancelled is returned by SinkWait/SourceWait/Connect when the supplied
// quit predicate reports true during a retry: the next wait iteration
// observes it and returns rather than blocking further.
var ErrCancelled = errors.New("node: wait cancelled")

// WaitOutcome is the result of a consumer's Wait: Active or EndOfStream.
type WaitOutcome int

const (
	Active WaitOutcome = iota
	EndOfStream
)

// SinkWait implements the producer half of one cycle: block until every
// consumer obligated by the previous SinkPost has posted or detached.
// That obligation, not the live source_ref_count, is what gates the
// wait; before the very first SinkPost no consumer owes anything, so a
// sink with consumers already attached still proceeds immediately, and a
// consumer that attaches mid-cycle is not waited on until it is swept
// into the obligation set by the next SinkPost. quit is polled once per
// retry period and, if it ever reports true, SinkWait returns
// ErrCancelled.
func (n *Node) SinkWait(quit func() bool) error {
	for {
		n.mu.Lock()
		pending := n.pendingReadersLocked()
		n.mu.Unlock()

		if pending == 0 {
			n.mu.Lock()
			n.sinkWaitOpen = 1
			n.mu.Unlock()
			return nil
		}

		if quit != nil && quit() {
			return ErrCancelled
		}

		last := n.writeBarrier.load()
		n.writeBarrier.waitOnce(last)
		// Timeout or real post: loop and re-check, since a newly-departing
		// consumer may be exactly what we were waiting for.
	}
}

func (n *Node) pendingReadersLocked() int {
	pending := 0
	for i := 0; i < MaxConsumers; i++ {
		if n.awaitingRead[i] != 0 {
			pending++
		}
	}
	return pending
}

// SinkPost implements step 3 of the producer cycle: it requires a
// still-open SinkWait (ErrPostWithoutWait otherwise), hands every
// currently-attached consumer a fresh read obligation for this cycle, and
// posts their read barriers. A consumer attached between the matching
// Wait and this Post is swept into the obligation set here, so it
// synchronizes starting with this cycle rather than one it never saw
// posted.
func (n *Node) SinkPost() error {
	n.mu.Lock()
	if n.sinkWaitOpen == 0 {
		n.mu.Unlock()
		return ErrPostWithoutWait
	}
	n.sinkWaitOpen = 0
	n.writeNumber++
	active := make([]int, 0, MaxConsumers)
	for i := 0; i < MaxConsumers; i++ {
		if n.slotUsed[i] != 0 {
			n.awaitingRead[i] = 1
			active = append(active, i)
		} else {
			n.awaitingRead[i] = 0
		}
	}
	n.mu.Unlock()

	for _, i := range active {
		n.readBarriers[i].post()
	}
	return nil
}

// SourceWait implements the consumer half of one cycle: block on this
// slot's read barrier until a new sample is posted or the sink latches
// end of stream.
func (n *Node) SourceWait(slot int, quit func() bool) (WaitOutcome, error) {
	for {
		if n.SinkState() == End {
			return EndOfStream, nil
		}

		// The barrier value is taken before the obligation check, so a
		// SinkPost landing in between moves it and the wait below returns.
		last := n.readBarriers[slot].load()
		n.mu.Lock()
		if n.awaitingRead[slot] != 0 {
			n.sourceWaitOpen[slot] = 1
			n.mu.Unlock()
			return Active, nil
		}
		n.mu.Unlock()

		if quit != nil && quit() {
			return Active, ErrCancelled
		}

		// Any wake, spurious or real, loops back to re-check the sink
		// state and this slot's read obligation.
		n.readBarriers[slot].waitOnce(last)
	}
}

// SourcePost implements step 3 of the consumer cycle: it requires a
// still-open Wait on this slot (ErrPostWithoutWait otherwise), clears the
// slot's read obligation for the current cycle, and releases the sink's
// write barrier once no consumer owes a read any longer.
func (n *Node) SourcePost(slot int) error {
	n.mu.Lock()
	if n.sourceWaitOpen[slot] == 0 {
		n.mu.Unlock()
		return ErrPostWithoutWait
	}
	n.sourceWaitOpen[slot] = 0
	n.awaitingRead[slot] = 0
	release := n.pendingReadersLocked() == 0
	n.mu.Unlock()

	if release {
		n.writeBarrier.post()
	}
	return nil
}

// Connect implements the attach protocol: a consumer that attaches before
// the sink binds blocks on the bind barrier, not a read barrier, until
// Bind runs, so attaching early never consumes the read-barrier token for
// an actual published sample; that sample is still delivered in full by
// the consumer's first ordinary Wait. A consumer that attaches after the
// sink is already Bound or has already ended observes that state
// immediately.
func (n *Node) Connect(slot int, quit func() bool) (WaitOutcome, error) {
	for n.SinkState() == Undefined {
		if quit != nil && quit() {
			return Active, ErrCancelled
		}
		last := n.bindBarrier.load()
		n.bindBarrier.waitOnce(last)
	}
	if n.SinkState() == End {
		return EndOfStream, nil
	}
	return Active, nil
}

// ReleaseWriteBarrier wakes a sink that may be blocked in SinkWait because
// it was waiting on the consumer now detaching.
func (n *Node) ReleaseWriteBarrier() {
	n.writeBarrier.post()
}

// EndOfStreamTeardown latches end of stream and wakes every waiter
// unconditionally, since with multiple blocked consumers every read
// barrier needs posting. It also releases the write barrier once in case
// the sink itself is the one tearing down while a late consumer is
// mid-attach.
func (n *Node) EndOfStreamTeardown() {
	n.SetSinkState(End)
	for i := 0; i < MaxConsumers; i++ {
		n.readBarriers[i].post()
	}
	n.writeBarrier.post()
}
