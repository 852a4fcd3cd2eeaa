// Package node implements the in-segment control block shared between one
// Sink and up to MaxConsumers Sources, and the single-producer,
// multi-consumer lock-step barrier protocol built on top of it.
//
// Node is plain old data: every field is a fixed-size integer or array of
// fixed-size integers, so it can be placed at a known offset inside a
// mapped segment and interpreted identically by every process that maps
// that segment, regardless of which process happened to zero-initialize
// the underlying file.
package node
