//go:build !linux

package node

import (
	"sync/atomic"
	"time"
)

// futexWaitTimeout is the portable fallback for platforms without a
// process-shared futex: it has no OS parking primitive to rely on, so it
// simply sleeps for the timeout and re-reads the word. Correctness is
// unaffected: every caller already loops on the return value and
// re-checks its higher-level condition; only latency under contention is
// worse than the Linux futex path.
func futexWaitTimeout(addr *uint32, val uint32, timeout time.Duration) (timedOut bool, err error) {
	if atomic.LoadUint32(addr) != val {
		return false, nil
	}
	time.Sleep(timeout)
	if atomic.LoadUint32(addr) != val {
		return false, nil
	}
	return true, nil
}

// futexWake is a no-op fallback: there is no parked waiter to signal
// directly, but every waiter re-polls at the next timer tick regardless.
func futexWake(addr *uint32) {}
