// Package payload defines the fixed-layout value types that travel through
// a segment's payload slot: Position2D, an inline 2-D sample, and
// FrameHeader, a descriptor for a video frame whose pixel bytes live in
// the segment's free area. Both types are pointer-free and slice-free so
// their size and layout are stable across the separate processes that map
// the same segment.
package payload
