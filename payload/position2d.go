package payload

// regionLen bounds the categorical position label, e.g. "north west",
// to a fixed-width buffer.
const regionLen = 32

// Position2D is an inline payload type: a 2-D position sample with
// optional velocity and heading, a categorical region label, and a
// monotonic sample counter and period. It is a pointer-free struct
// suitable for placement in shared memory.
type Position2D struct {
	PositionValid bool
	VelocityValid bool
	HeadingValid  bool
	RegionValid   bool

	X, Y float64

	VX, VY float64

	HeadingX, HeadingY float64

	region [regionLen]byte

	// SampleCount is a monotonic counter of samples taken by the
	// producer, independent of WriteNumber (which counts published
	// cycles on this stream; SampleCount is the producer's own notion of
	// elapsed samples and survives across gaps in the stream).
	SampleCount uint64

	// SamplePeriodMicros is the producer's sampling period, used by
	// multi-source consumers to relate SampleCount across streams.
	SamplePeriodMicros uint64
}

// SetRegion stores label as the categorical region, truncating it to fit
// regionLen-1 bytes and marking RegionValid.
func (p *Position2D) SetRegion(label string) {
	p.region = [regionLen]byte{}
	copy(p.region[:regionLen-1], label)
	p.RegionValid = true
}

// Region returns the categorical region label, or "" if RegionValid is
// false.
func (p *Position2D) Region() string {
	if !p.RegionValid {
		return ""
	}
	n := 0
	for n < len(p.region) && p.region[n] != 0 {
		n++
	}
	return string(p.region[:n])
}
