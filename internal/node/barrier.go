package node

import (
	"sync/atomic"
	"time"
)

// retryPeriod is the timed-wait interval: producer and consumer waits
// periodically re-check their higher-level condition (a newly-departing
// consumer, an external quit flag, a latched end-of-stream state) rather
// than blocking forever on the barrier primitive alone.
const retryPeriod = 10 * time.Millisecond

// barrierSeq is a counting synchronization primitive: a sequence number
// bumped once per post, waited on with a timed futex (or its portable
// fallback). It backs both write_barrier and each slot of read_barriers.
type barrierSeq struct {
	seq uint32
}

// post bumps the sequence and wakes any waiter. Posting more than once
// between two waits (e.g. the teardown path posting every read barrier
// unconditionally) is harmless: a waiter only cares that the value changed
// since it last observed it.
func (b *barrierSeq) post() {
	atomic.AddUint32(&b.seq, 1)
	futexWake(&b.seq)
}

// load returns the current sequence value, used by callers to remember
// what they last observed before waiting.
func (b *barrierSeq) load() uint32 {
	return atomic.LoadUint32(&b.seq)
}

// waitOnce blocks for up to one retry period for the sequence to move past
// last. It returns the observed sequence and whether the wait merely timed
// out (as opposed to having observed a change). Callers are responsible
// for looping: a timeout is not failure, it is the cancellation and
// liveness mechanism.
func (b *barrierSeq) waitOnce(last uint32) (current uint32, timedOut bool) {
	timedOut, err := futexWaitTimeout(&b.seq, last, retryPeriod)
	if err != nil {
		// a futex syscall error here is exceedingly rare (EINVAL on a
		// misaligned address); tolerate it as a spurious timeout, since every
		// caller re-checks its real condition on the next loop iteration.
		timedOut = true
	}
	return atomic.LoadUint32(&b.seq), timedOut
}
