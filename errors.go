package oatshm

import (
	"github.com/oat-streams/oatshm/internal/node"
	"github.com/oat-streams/oatshm/internal/segment"
)

// Error kinds surfaced by the substrate. They alias the internal
// packages' sentinels so callers can use errors.Is against a single,
// stable set of names regardless of which internal layer raised them.
var (
	ErrAddressTooLong     = segment.ErrNameTooLong
	ErrInsufficientMemory = segment.ErrInsufficientMemory
	ErrSizeMismatch       = segment.ErrSizeMismatch
	ErrPermissionDenied   = segment.ErrPermissionDenied
	ErrSegmentNotFound    = segment.ErrNotFound

	ErrAlreadyBound     = node.ErrAlreadyBound
	ErrTooManyConsumers = node.ErrTooManyConsumers
	ErrReadWithoutBound = node.ErrReadWithoutBoundSink
	ErrPostWithoutWait  = node.ErrPostWithoutWait
	ErrCancelled        = node.ErrCancelled
)
