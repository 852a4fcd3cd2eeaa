//go:build linux

package node

import (
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux futex(2) operation codes. golang.org/x/sys/unix does not export
// these (it only exports the FUTEX syscall number), so they are defined
// here using their fixed kernel ABI values.
const (
	futexWaitOp = 0
	futexWakeOp = 1
)

// futexWaitTimeout blocks while *addr == val, for up to timeout, using the
// Linux futex syscall directly on the shared-memory word. It re-checks
// the value before entering the syscall to avoid the lost-wake race, and
// treats EAGAIN/EINTR as "recheck the condition", never as a hard error.
func futexWaitTimeout(addr *uint32, val uint32, timeout time.Duration) (timedOut bool, err error) {
	if atomic.LoadUint32(addr) != val {
		return false, nil
	}

	ts := unix.NsecToTimespec(timeout.Nanoseconds())
	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		futexWaitOp,
		uintptr(val),
		uintptr(unsafe.Pointer(&ts)),
		0, 0,
	)

	switch errno {
	case 0, unix.EAGAIN, unix.EINTR:
		return false, nil
	case unix.ETIMEDOUT:
		return true, nil
	default:
		return false, errno
	}
}

// futexWake wakes every waiter currently parked on addr.
func futexWake(addr *uint32) {
	unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		futexWakeOp,
		uintptr(1<<31-1),
		0, 0, 0,
	)
}
