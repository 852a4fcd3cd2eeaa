// Package oatshm implements a single-producer/multi-consumer, lock-step
// shared-memory streaming substrate: one Sink (producer) and up to
// node.MaxConsumers Sources (consumers) attach to a named segment and
// exchange typed samples under a barrier protocol that guarantees
// exactly-once delivery of every published sample to every attached
// consumer.
//
// # Basic usage
//
// Producer:
//
//	sink, err := oatshm.Bind[payload.Position2D]("/tracker/position", 0)
//	if err != nil { ... }
//	defer sink.Close()
//	for { sink.Push(sample) }
//
// Consumer:
//
//	src, err := oatshm.Touch[payload.Position2D]("/tracker/position")
//	if err != nil { ... }
//	defer src.Close()
//	if _, err := src.Connect(); err != nil { ... }
//	for {
//	    state, err := src.Wait()
//	    if state == oatshm.EndOfStream { return }
//	    sample := src.Retrieve()
//	    use(*sample)
//	    src.Post()
//	}
//
// Frame payloads use the FrameSink/FrameSource specialization, which adds
// zero-copy pixel access on top of the same Sink[T]/Source[T] mechanics.
package oatshm
