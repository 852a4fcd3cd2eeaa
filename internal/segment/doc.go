// Package segment implements the host-side mapping of a named shared-memory
// region onto a file-backed MAP_SHARED mmap.
//
// A Segment is laid out as three fixed regions: a Node control block at
// offset 0, a fixed-size payload slot immediately after it, and a free area
// for bulk payload data (video frame pixels) filling the rest. There is no
// in-segment allocator; layout is decided once, at creation time, by the
// caller's requested sizes.
package segment
