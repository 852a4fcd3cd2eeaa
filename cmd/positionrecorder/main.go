// Command positionrecorder attaches as a Position2D consumer and appends
// each sample to an on-disk msgpack log, one length-prefixed record per
// sample: the same length-prefix-plus-msgpack framing a subprocess bridge
// would use on a pipe, reused here for a durable on-disk record instead.
package main

import (
	"context"
	"encoding/binary"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/oat-streams/oatshm"
	"github.com/oat-streams/oatshm/config"
	"github.com/oat-streams/oatshm/payload"
)

const defaultConfigPath = "config/position.yaml"

// positionRecord is the on-disk DTO for one logged sample. Position2D's
// region field is unexported so msgpack cannot see it directly; this
// struct copies the decoded label out instead of teaching payload a
// serialization format it otherwise has no need for.
type positionRecord struct {
	X, Y               float64
	VX, VY             float64
	HeadingX, HeadingY float64
	Region             string
	SampleCount        uint64
	SamplePeriodMicros uint64
	WriteNumber        uint64
}

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	outPath := flag.String("out", "positions.msgpack.log", "Path to the output record log")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	out, err := os.Create(*outPath)
	if err != nil {
		slog.Error("failed to create output log", "error", err)
		os.Exit(1)
	}
	defer out.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	src, err := oatshm.Touch[payload.Position2D](cfg.Address)
	if err != nil {
		slog.Error("failed to touch source", "error", err)
		os.Exit(1)
	}
	defer src.Close()

	src.SetQuit(func() bool { return ctx.Err() != nil })

	if _, err := src.Connect(); err != nil {
		slog.Error("connect failed", "error", err)
		os.Exit(1)
	}

	slog.Info("recording positions", "address", cfg.Address, "out", *outPath)

	var recorded uint64
	for {
		state, err := src.Wait()
		if err != nil {
			slog.Info("positionrecorder stopping", "records_written", recorded, "reason", err)
			return
		}
		if state == oatshm.EndOfStream {
			slog.Info("positionrecorder stopping: end of stream", "records_written", recorded)
			return
		}

		pos := src.Clone()
		if err := src.Post(); err != nil {
			slog.Error("post failed", "error", err)
			return
		}

		rec := positionRecord{
			X: pos.X, Y: pos.Y,
			VX: pos.VX, VY: pos.VY,
			HeadingX: pos.HeadingX, HeadingY: pos.HeadingY,
			Region:             pos.Region(),
			SampleCount:        pos.SampleCount,
			SamplePeriodMicros: pos.SamplePeriodMicros,
			WriteNumber:        src.WriteNumber(),
		}

		if err := writeRecord(out, rec); err != nil {
			slog.Error("failed to write record", "error", err)
			return
		}
		recorded++
	}
}

func writeRecord(w io.Writer, rec positionRecord) error {
	data, err := msgpack.Marshal(rec)
	if err != nil {
		return err
	}
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(data)))
	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
