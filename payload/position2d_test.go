package payload_test

import (
	"testing"

	"github.com/oat-streams/oatshm/payload"
)

func TestRegionRoundTrip(t *testing.T) {
	var p payload.Position2D
	if got := p.Region(); got != "" {
		t.Fatalf("Region() before SetRegion = %q, want empty", got)
	}

	p.SetRegion("north west")
	if got := p.Region(); got != "north west" {
		t.Fatalf("Region() = %q, want %q", got, "north west")
	}
	if !p.RegionValid {
		t.Fatal("SetRegion() did not set RegionValid")
	}
}

func TestRegionTruncatesToFitBuffer(t *testing.T) {
	var p payload.Position2D
	long := "an extremely long region label that will not fit in thirty two bytes"
	p.SetRegion(long)

	got := p.Region()
	if len(got) >= len(long) {
		t.Fatalf("Region() = %q (len %d), want it truncated shorter than input (len %d)", got, len(got), len(long))
	}
}

func TestBytesPerPixel(t *testing.T) {
	cases := []struct {
		pt   payload.PixelType
		want int
	}{
		{payload.PixelGray8, 1},
		{payload.PixelBGR8, 3},
		{payload.PixelBGRA8, 4},
	}
	for _, c := range cases {
		if got := c.pt.BytesPerPixel(); got != c.want {
			t.Errorf("BytesPerPixel(%v) = %d, want %d", c.pt, got, c.want)
		}
	}
}
