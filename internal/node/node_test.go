package node_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/oat-streams/oatshm/internal/node"
)

func TestBindTwiceFails(t *testing.T) {
	var n node.Node

	if err := n.Bind(); err != nil {
		t.Fatalf("first Bind() failed: %v", err)
	}
	if err := n.Bind(); !errors.Is(err, node.ErrAlreadyBound) {
		t.Fatalf("second Bind(): got %v, want ErrAlreadyBound", err)
	}
}

func TestSinkWaitReturnsImmediatelyWithNoConsumers(t *testing.T) {
	var n node.Node
	if err := n.Bind(); err != nil {
		t.Fatalf("Bind() failed: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- n.SinkWait(nil) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("SinkWait() with no consumers: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("SinkWait() blocked with no attached consumers")
	}
}

func TestTooManyConsumersFails(t *testing.T) {
	var n node.Node
	for i := 0; i < node.MaxConsumers; i++ {
		if _, err := n.IncrementSourceRefCount(); err != nil {
			t.Fatalf("IncrementSourceRefCount() #%d failed: %v", i, err)
		}
	}
	if _, err := n.IncrementSourceRefCount(); !errors.Is(err, node.ErrTooManyConsumers) {
		t.Fatalf("IncrementSourceRefCount() past MaxConsumers: got %v, want ErrTooManyConsumers", err)
	}
}

func TestOneCycleOneConsumer(t *testing.T) {
	var n node.Node
	if err := n.Bind(); err != nil {
		t.Fatalf("Bind() failed: %v", err)
	}
	slot, err := n.IncrementSourceRefCount()
	if err != nil {
		t.Fatalf("IncrementSourceRefCount() failed: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		outcome, err := n.SourceWait(slot, nil)
		if err != nil {
			t.Errorf("SourceWait() failed: %v", err)
			return
		}
		if outcome != node.Active {
			t.Errorf("SourceWait() outcome = %v, want Active", outcome)
			return
		}
		if err := n.SourcePost(slot); err != nil {
			t.Errorf("SourcePost() failed: %v", err)
		}
	}()

	if err := n.SinkWait(nil); err != nil {
		t.Fatalf("SinkWait() before first post failed: %v", err)
	}
	if err := n.SinkPost(); err != nil {
		t.Fatalf("SinkPost() failed: %v", err)
	}

	wg.Wait()

	if err := n.SinkWait(nil); err != nil {
		t.Fatalf("SinkWait() after consumer posted failed: %v", err)
	}
	if got := n.WriteNumber(); got != 1 {
		t.Fatalf("WriteNumber() = %d, want 1", got)
	}
}

func TestEndOfStreamWakesAllConsumers(t *testing.T) {
	var n node.Node
	if err := n.Bind(); err != nil {
		t.Fatalf("Bind() failed: %v", err)
	}

	const consumers = 3
	slots := make([]int, consumers)
	for i := range slots {
		slot, err := n.IncrementSourceRefCount()
		if err != nil {
			t.Fatalf("IncrementSourceRefCount() failed: %v", err)
		}
		slots[i] = slot
	}

	var wg sync.WaitGroup
	for _, slot := range slots {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			outcome, err := n.SourceWait(slot, nil)
			if err != nil {
				t.Errorf("SourceWait() failed: %v", err)
				return
			}
			if outcome != node.EndOfStream {
				t.Errorf("SourceWait() outcome = %v, want EndOfStream", outcome)
			}
		}(slot)
	}

	// give the consumers a moment to park on their read barriers before
	// tearing down, so this test actually exercises the wake path rather
	// than the EndOfStream != Active fast-path checked before blocking.
	time.Sleep(20 * time.Millisecond)
	n.EndOfStreamTeardown()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("EndOfStreamTeardown() did not wake every attached consumer")
	}
}

func TestConnectPassesThroughOnceBound(t *testing.T) {
	var n node.Node
	slot, err := n.IncrementSourceRefCount()
	if err != nil {
		t.Fatalf("IncrementSourceRefCount() failed: %v", err)
	}
	if err := n.Bind(); err != nil {
		t.Fatalf("Bind() failed: %v", err)
	}

	outcome, err := n.Connect(slot, nil)
	if err != nil {
		t.Fatalf("Connect() after sink already bound failed: %v", err)
	}
	if outcome != node.Active {
		t.Fatalf("Connect() outcome = %v, want Active", outcome)
	}
}

func TestConnectBeforeBindDoesNotConsumeReadBarrier(t *testing.T) {
	var n node.Node
	slot, err := n.IncrementSourceRefCount()
	if err != nil {
		t.Fatalf("IncrementSourceRefCount() failed: %v", err)
	}

	connectDone := make(chan struct{})
	go func() {
		defer close(connectDone)
		outcome, err := n.Connect(slot, nil)
		if err != nil {
			t.Errorf("Connect() before Bind failed: %v", err)
			return
		}
		if outcome != node.Active {
			t.Errorf("Connect() outcome = %v, want Active", outcome)
		}
	}()

	select {
	case <-connectDone:
		t.Fatal("Connect() returned before Bind() ran")
	case <-time.After(50 * time.Millisecond):
	}

	if err := n.Bind(); err != nil {
		t.Fatalf("Bind() failed: %v", err)
	}

	select {
	case <-connectDone:
	case <-time.After(2 * time.Second):
		t.Fatal("Connect() did not unblock once Bind() ran")
	}

	// If Connect had consumed a read-barrier token (the bug this guards
	// against), this first real cycle would find awaitingRead already
	// cleared for slot and SinkWait would return with nothing posted.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		outcome, err := n.SourceWait(slot, nil)
		if err != nil {
			t.Errorf("SourceWait() failed: %v", err)
			return
		}
		if outcome != node.Active {
			t.Errorf("SourceWait() outcome = %v, want Active", outcome)
			return
		}
		if err := n.SourcePost(slot); err != nil {
			t.Errorf("SourcePost() failed: %v", err)
		}
	}()

	if err := n.SinkWait(nil); err != nil {
		t.Fatalf("SinkWait() failed: %v", err)
	}
	if err := n.SinkPost(); err != nil {
		t.Fatalf("SinkPost() failed: %v", err)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("first sample after a pre-Bind Connect() was never delivered")
	}

	if err := n.SinkWait(nil); err != nil {
		t.Fatalf("SinkWait() after consumer posted failed: %v", err)
	}
}

func TestCancelledWaitReturnsErrCancelled(t *testing.T) {
	var n node.Node
	if err := n.Bind(); err != nil {
		t.Fatalf("Bind() failed: %v", err)
	}
	slot, err := n.IncrementSourceRefCount()
	if err != nil {
		t.Fatalf("IncrementSourceRefCount() failed: %v", err)
	}

	quit := func() bool { return true }
	if _, err := n.SourceWait(slot, quit); !errors.Is(err, node.ErrCancelled) {
		t.Fatalf("SourceWait() with an always-true quit: got %v, want ErrCancelled", err)
	}

	// Open a cycle with the attached consumer on the hook for a read, so
	// the next SinkWait actually has something to wait on rather than
	// returning immediately with no obligation outstanding.
	if err := n.SinkWait(nil); err != nil {
		t.Fatalf("SinkWait() priming cycle failed: %v", err)
	}
	if err := n.SinkPost(); err != nil {
		t.Fatalf("SinkPost() priming cycle failed: %v", err)
	}

	if err := n.SinkWait(quit); !errors.Is(err, node.ErrCancelled) {
		t.Fatalf("SinkWait() with an always-true quit: got %v, want ErrCancelled", err)
	}
}
