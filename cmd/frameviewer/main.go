// Command frameviewer attaches as a frame consumer and reports each
// frame's checksum, demonstrating the zero-copy retrieve/post cycle
// against the clone path used when a frame must outlive its post.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/oat-streams/oatshm"
	"github.com/oat-streams/oatshm/config"
)

const defaultConfigPath = "config/frame.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	clone := flag.Bool("clone", false, "Clone each frame before releasing it, instead of reading it zero-copy")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	capacity := cfg.FrameCapacity
	if capacity == 0 {
		capacity = 480 * 640
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	src, err := oatshm.TouchFrame(cfg.Address, capacity)
	if err != nil {
		slog.Error("failed to touch frame source", "error", err)
		os.Exit(1)
	}
	defer src.Close()

	src.SetQuit(func() bool { return ctx.Err() != nil })

	if _, err := src.Connect(); err != nil {
		slog.Error("connect failed", "error", err)
		os.Exit(1)
	}

	slog.Info("viewing frames", "address", cfg.Address, "clone", *clone)

	var viewed uint64
	for {
		state, err := src.Wait()
		if err != nil {
			slog.Info("frameviewer stopping", "frames_viewed", viewed, "reason", err)
			return
		}
		if state == oatshm.EndOfStream {
			slog.Info("frameviewer stopping: end of stream", "frames_viewed", viewed)
			return
		}

		view := src.RetrieveFrame()
		if *clone {
			view = view.Clone()
		}

		var checksum uint64
		for _, b := range view.Pixels {
			checksum += uint64(b)
		}
		if err := src.Post(); err != nil {
			slog.Error("post failed", "error", err)
			return
		}

		slog.Debug("frame viewed",
			"rows", view.Header.Rows, "cols", view.Header.Cols,
			"checksum", checksum, "write_number", src.WriteNumber())
		viewed++
	}
}
