//go:build unix

package segment

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapShared mmaps the whole of f (which must already be sized via
// Truncate) MAP_SHARED so every process that maps the same file observes
// the same bytes.
func mapShared(f *os.File, size int) ([]byte, error) {
	return unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

func unmapShared(b []byte) error {
	return unix.Munmap(b)
}

func syncShared(b []byte) error {
	return unix.Msync(b, unix.MS_SYNC)
}
