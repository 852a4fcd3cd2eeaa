package node

import "errors"

var (
	// ErrAlreadyBound is returned by Bind when a sink has already bound
	// this Node; exactly one sink may bind per address.
	ErrAlreadyBound = errors.New("node: sink already bound")

	// ErrTooManyConsumers is returned by IncrementSourceRefCount when
	// source_ref_count would exceed MaxConsumers.
	ErrTooManyConsumers = errors.New("node: too many consumers")

	// ErrReadWithoutBoundSink is a protocol-misuse error: a consumer called
	// Retrieve while the sink was never bound.
	ErrReadWithoutBoundSink = errors.New("node: read without bound sink")

	// ErrPostWithoutWait is a protocol-misuse error: Post was called twice
	// for the same cycle, or called before Wait returned. SinkPost and
	// SourcePost both guard on a per-side "wait is open" flag set by the
	// matching Wait and cleared by the Post that consumes it.
	ErrPostWithoutWait = errors.New("node: post without matching wait")
)
