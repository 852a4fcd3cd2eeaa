package oatshm

import (
	"errors"
	"fmt"

	"github.com/oat-streams/oatshm/internal/segment"
	"github.com/oat-streams/oatshm/payload"
)

// ErrFrameExceedsCapacity is returned by PushFrame when the caller asks to
// publish more pixel bytes than BindFrame reserved free-area space for.
var ErrFrameExceedsCapacity = errors.New("oatshm: frame exceeds bound capacity")

// FrameSink is the frame-payload specialization of Sink, adding pixel
// buffer allocation on top of the generic FrameHeader slot.
type FrameSink struct {
	*Sink[payload.FrameHeader]
	capacity int
}

// BindFrame binds a frame stream, reserving capacity bytes of free area
// for pixel data. Every Source that may attach before this Sink binds
// must agree on the same capacity, since a segment's size is fixed at
// creation (see internal/segment's openOrCreateUncached doc).
func BindFrame(address string, capacity int) (*FrameSink, error) {
	sink, err := Bind[payload.FrameHeader](address, capacity)
	if err != nil {
		return nil, err
	}
	return &FrameSink{Sink: sink, capacity: capacity}, nil
}

// PushFrame writes rows x cols pixels of pixelType into the segment's free
// area and publishes a FrameHeader describing them, in one wait/mutate/post
// cycle.
func (f *FrameSink) PushFrame(rows, cols int, pixelType payload.PixelType, pixels []byte) error {
	need := rows * cols * pixelType.BytesPerPixel()
	if need > f.capacity {
		return fmt.Errorf("%s: %w", segment.PayloadObjectName(f.seg.Address()), ErrFrameExceedsCapacity)
	}

	if err := f.Wait(); err != nil {
		return err
	}
	dst := f.seg.FreeArea(freeAreaOffset[payload.FrameHeader]())
	copy(dst[:need], pixels)
	*f.Slot() = payload.FrameHeader{
		Rows:       int32(rows),
		Cols:       int32(cols),
		PixelType:  pixelType,
		DataOffset: uint64(freeAreaOffset[payload.FrameHeader]()),
		DataLen:    uint64(need),
	}
	return f.Post()
}

// FrameSource is the frame-payload specialization of Source, adding a
// zero-copy view materialization on top of the generic FrameHeader slot.
type FrameSource struct {
	*Source[payload.FrameHeader]
}

// TouchFrame attaches to a frame stream, creating it (if the sink has not
// yet arrived) with capacity bytes of free area. Every participant on a
// given address must agree on capacity; see BindFrame's doc.
func TouchFrame(address string, capacity int) (*FrameSource, error) {
	src, err := touch[payload.FrameHeader](address, capacity)
	if err != nil {
		return nil, err
	}
	return &FrameSource{Source: src}, nil
}

// RetrieveFrame returns a zero-copy view of the current frame: the header
// plus a slice into the segment's mapped bytes at DataOffset:DataOffset+
// DataLen. The view is only valid between the Wait that produced it and
// the matching Post; call Clone on it to keep the pixels longer.
func (f *FrameSource) RetrieveFrame() payload.FrameView {
	h := *f.Retrieve()
	return payload.FrameView{
		Header: h,
		Pixels: f.seg.Bytes()[h.DataOffset : h.DataOffset+h.DataLen],
	}
}
