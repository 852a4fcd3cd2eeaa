package segment

import "errors"

var (
	// ErrNameTooLong is returned when an address exceeds the host's
	// filename length limit once mangled into a segment path.
	ErrNameTooLong = errors.New("segment: name too long")

	// ErrInsufficientMemory is returned when the backing store could not be
	// sized to the requested length (disk or tmpfs exhaustion).
	ErrInsufficientMemory = errors.New("segment: insufficient shared memory")

	// ErrSizeMismatch is returned by OpenOrCreate when the caller's expected
	// size does not match the segment already open or on disk.
	ErrSizeMismatch = errors.New("segment: size mismatch on reopen")

	// ErrPermissionDenied surfaces a permission failure opening or creating
	// the backing file.
	ErrPermissionDenied = errors.New("segment: permission denied")

	// ErrNotFound is returned by OpenExisting (strict-open mode) when no
	// segment with the given name exists.
	ErrNotFound = errors.New("segment: not found")

	errUnsupportedPlatform = errors.New("segment: shared memory segments require a POSIX host")
)
