package node

import (
	"sync"
	"testing"
	"time"
)

func TestZZFullCycleRepro(t *testing.T) {
	var n Node
	if err := n.Bind(); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	slot, err := n.IncrementSourceRefCount()
	if err != nil {
		t.Fatalf("Incr: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		outcome, err := n.SourceWait(slot, nil)
		t.Logf("SourceWait outcome=%v err=%v", outcome, err)
		if err := n.SourcePost(slot); err != nil {
			t.Errorf("SourcePost: %v", err)
		}
		t.Log("SourcePost done")
	}()

	if err := n.SinkWait(nil); err != nil {
		t.Fatalf("SinkWait before: %v", err)
	}
	t.Log("SinkWait before done")
	if err := n.SinkPost(); err != nil {
		t.Fatalf("SinkPost: %v", err)
	}
	t.Log("SinkPost done")

	wgDone := make(chan struct{})
	go func() { wg.Wait(); close(wgDone) }()
	select {
	case <-wgDone:
		t.Log("wg.Wait done")
	case <-time.After(3 * time.Second):
		t.Fatal("wg.Wait hung")
	}

	errc := make(chan error, 1)
	go func() { errc <- n.SinkWait(nil) }()
	select {
	case err := <-errc:
		t.Logf("SinkWait after returned err=%v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("SinkWait after hung")
	}
}
