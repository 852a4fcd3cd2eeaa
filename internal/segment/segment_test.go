package segment_test

import (
	"errors"
	"testing"

	"github.com/oat-streams/oatshm/internal/segment"
	"github.com/oat-streams/oatshm/internal/testutil"
)

func TestOpenOrCreateThenOpenExistingShareBytes(t *testing.T) {
	addr := testutil.UniqueAddress("segment")

	a, err := segment.OpenOrCreate(addr, 64)
	if err != nil {
		t.Fatalf("OpenOrCreate() failed: %v", err)
	}
	defer a.Close()
	defer segment.Unlink(addr)

	b, err := segment.OpenExisting(addr)
	if err != nil {
		t.Fatalf("OpenExisting() failed: %v", err)
	}
	defer b.Close()

	a.Bytes()[0] = 0x42
	if got := b.Bytes()[0]; got != 0x42 {
		t.Fatalf("second opener did not observe first opener's write: got %x", got)
	}
}

func TestOpenExistingMissingFails(t *testing.T) {
	addr := testutil.UniqueAddress("segment")

	_, err := segment.OpenExisting(addr)
	if !errors.Is(err, segment.ErrNotFound) {
		t.Fatalf("OpenExisting() on missing segment: got %v, want ErrNotFound", err)
	}
}

func TestOpenOrCreateSizeMismatchFails(t *testing.T) {
	addr := testutil.UniqueAddress("segment")

	first, err := segment.OpenOrCreate(addr, 64)
	if err != nil {
		t.Fatalf("OpenOrCreate() failed: %v", err)
	}
	defer first.Close()
	defer segment.Unlink(addr)

	_, err = segment.OpenOrCreate(addr, 128)
	if !errors.Is(err, segment.ErrSizeMismatch) {
		t.Fatalf("reopen with different size: got %v, want ErrSizeMismatch", err)
	}
}

func TestSameProcessOpensAreDeduplicated(t *testing.T) {
	addr := testutil.UniqueAddress("segment")

	a, err := segment.OpenOrCreate(addr, 32)
	if err != nil {
		t.Fatalf("OpenOrCreate() failed: %v", err)
	}
	defer segment.Unlink(addr)

	b, err := segment.OpenOrCreate(addr, 32)
	if err != nil {
		t.Fatalf("second OpenOrCreate() failed: %v", err)
	}

	a.Bytes()[1] = 7
	if b.Bytes()[1] != 7 {
		t.Fatalf("deduplicated opens did not share the same mapping")
	}

	if err := a.Close(); err != nil {
		t.Fatalf("first Close() failed: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close() failed: %v", err)
	}
}

func TestObjectOutOfRangePanics(t *testing.T) {
	addr := testutil.UniqueAddress("segment")

	seg, err := segment.OpenOrCreate(addr, 8)
	if err != nil {
		t.Fatalf("OpenOrCreate() failed: %v", err)
	}
	defer seg.Close()
	defer segment.Unlink(addr)

	defer func() {
		if recover() == nil {
			t.Fatalf("Object() at an out-of-range offset did not panic")
		}
	}()
	segment.Object[[16]byte](seg, 4)
}

func TestUnlinkThenOpenOrCreateRecreates(t *testing.T) {
	addr := testutil.UniqueAddress("segment")

	first, err := segment.OpenOrCreate(addr, 16)
	if err != nil {
		t.Fatalf("OpenOrCreate() failed: %v", err)
	}
	first.Bytes()[0] = 9
	if err := first.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := segment.Unlink(addr); err != nil {
		t.Fatalf("Unlink() failed: %v", err)
	}

	second, err := segment.OpenOrCreate(addr, 16)
	if err != nil {
		t.Fatalf("OpenOrCreate() after unlink failed: %v", err)
	}
	defer second.Close()
	defer segment.Unlink(addr)

	if got := second.Bytes()[0]; got != 0 {
		t.Fatalf("recreated segment was not zero-filled: got %x", got)
	}
}
