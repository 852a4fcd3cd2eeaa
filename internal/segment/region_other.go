//go:build !unix

package segment

import "os"

// mapShared has no portable implementation outside POSIX systems: the
// substrate's whole premise is named, file-backed, MAP_SHARED memory, which
// this repository does not attempt to emulate on Windows. See DESIGN.md.
func mapShared(f *os.File, size int) ([]byte, error) {
	return nil, errUnsupportedPlatform
}

func unmapShared(b []byte) error { return errUnsupportedPlatform }
func syncShared(b []byte) error  { return errUnsupportedPlatform }
