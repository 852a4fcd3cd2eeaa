package segment

import (
	"errors"
	"os"
	"sync"
	"syscall"
	"unsafe"
)

// Segment is a named, file-backed MAP_SHARED region. Its size is fixed at
// creation and never changes for the lifetime of the backing file.
type Segment struct {
	address string
	path    string
	file    *os.File
	bytes   []byte
	size    int

	closeOnce sync.Once
}

// OpenOrCreate opens the segment named by address, creating it sized size
// if it does not already exist. Concurrent callers either both see an
// existing segment of exactly the prior size, or one creates it and the
// other opens it; implemented with O_EXCL plus a retry-as-open loop.
func OpenOrCreate(address string, size int) (*Segment, error) {
	seg, err := global.acquire(address, func() (*Segment, error) {
		return openOrCreateUncached(address, size)
	})
	if err != nil {
		return nil, err
	}
	if seg.size != size {
		seg.Close()
		return nil, ErrSizeMismatch
	}
	return seg, nil
}

// OpenExisting opens a segment that must already exist (strict-open mode);
// it fails with ErrNotFound rather than creating one.
func OpenExisting(address string) (*Segment, error) {
	return global.acquire(address, func() (*Segment, error) {
		return openExistingUncached(address)
	})
}

// openOrCreateUncached implements idempotent allocation: concurrent
// callers either both see an existing segment of exactly the prior size,
// or one creates it and the other opens it. A segment is never resized
// after the fact; whichever of sink/source is first to bind/attach on an
// address fixes its capacity for the lifetime of the segment; every later
// opener for the same address must agree on that size or receive
// ErrSizeMismatch. For inline payload types this is automatic (sizeof(T)
// is identical on every build); for frame streams, sink and sources must
// be configured with the same payload capacity out of band, e.g. a shared
// config file.
func openOrCreateUncached(address string, size int) (*Segment, error) {
	path, err := pathFor(address)
	if err != nil {
		return nil, err
	}

	for {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
		switch {
		case err == nil:
			if terr := file.Truncate(int64(size)); terr != nil {
				file.Close()
				os.Remove(path)
				return nil, classify(terr)
			}
			return mapFile(address, path, file, size)
		case errors.Is(err, os.ErrExist):
			seg, oerr := openExistingSized(path, address, size)
			if oerr == ErrNotFound {
				// Removed between the two opens: try to create it again.
				continue
			}
			return seg, oerr
		default:
			return nil, classify(err)
		}
	}
}

func openExistingUncached(address string) (*Segment, error) {
	path, err := pathFor(address)
	if err != nil {
		return nil, err
	}
	fi, serr := os.Stat(path)
	if serr != nil {
		if os.IsNotExist(serr) {
			return nil, ErrNotFound
		}
		return nil, classify(serr)
	}
	file, err := os.OpenFile(path, os.O_RDWR, 0600)
	if err != nil {
		return nil, classify(err)
	}
	return mapFile(address, path, file, int(fi.Size()))
}

func openExistingSized(path, address string, wantSize int) (*Segment, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0600)
	if err != nil {
		return nil, classify(err)
	}
	fi, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, classify(err)
	}
	if int(fi.Size()) != wantSize {
		file.Close()
		return nil, ErrSizeMismatch
	}
	return mapFile(address, path, file, wantSize)
}

func mapFile(address, path string, file *os.File, size int) (*Segment, error) {
	b, err := mapShared(file, size)
	if err != nil {
		file.Close()
		return nil, classify(err)
	}
	return &Segment{address: address, path: path, file: file, bytes: b, size: size}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, os.ErrPermission):
		return ErrPermissionDenied
	case errors.Is(err, os.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, syscall.ENOSPC):
		return ErrInsufficientMemory
	default:
		return err
	}
}

// Size returns the fixed size of the segment in bytes.
func (s *Segment) Size() int { return s.size }

// Address returns the logical address this segment was opened under.
func (s *Segment) Address() string { return s.address }

// Bytes returns the mapped region. Callers obtain typed views into it via
// Object; the slice itself must never be reassigned or resliced out from
// under a live Object.
func (s *Segment) Bytes() []byte { return s.bytes }

// Object returns a pointer to a T living at the given byte offset inside
// the mapped region. "Construction" is implicit: a freshly truncated file
// is zero-filled by the kernel, and every type placed in a segment by this
// package (node.Node, payload.Position2D, payload.FrameHeader) has a valid
// zero value, so the first opener and every later opener observe the same
// find-or-construct semantics without an explicit placement step.
func Object[T any](s *Segment, offset int) *T {
	if offset < 0 || offset+int(unsafe.Sizeof(*new(T))) > len(s.bytes) {
		panic("segment: object offset out of range")
	}
	return (*T)(unsafe.Pointer(&s.bytes[offset]))
}

// FreeArea returns the bulk-data region of the segment starting at offset,
// used by frame payloads to stash pixel bytes outside the fixed Node/slot
// layout.
func (s *Segment) FreeArea(offset int) []byte {
	return s.bytes[offset:]
}

// Close unmaps the segment for this handle. The backing file is not
// removed; Unlink does that independently, and a still-mapped reference
// in another process remains valid after unlink.
func (s *Segment) Close() error {
	last := global.release(s.address)
	if !last {
		return nil
	}
	return s.closeMapping()
}

func (s *Segment) closeMapping() error {
	var err error
	s.closeOnce.Do(func() {
		// Best-effort flush: the segment is MAP_SHARED, so every write is
		// already visible to other mappers without this, but flushing
		// before unmap gives a consistent on-disk copy to a reader that
		// reopens the file after every process has detached.
		_ = syncShared(s.bytes)
		err = unmapShared(s.bytes)
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
	})
	return err
}

// Unlink removes address's backing file from the host's namespace. Any
// process that still has the segment mapped keeps a valid mapping; only
// new opens fail after this. A failure because another participant
// already removed it, or still holds an open handle on a platform that
// disallows unlinking open files, is non-fatal; callers log it and move
// on.
func Unlink(address string) error {
	path, err := pathFor(address)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
