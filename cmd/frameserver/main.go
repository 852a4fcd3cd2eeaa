// Command frameserver publishes synthetic grayscale frames on a fixed
// schedule, standing in for a real frame source (camera driver, GStreamer
// pipeline) so the frame substrate can be exercised without one attached.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oat-streams/oatshm"
	"github.com/oat-streams/oatshm/config"
	"github.com/oat-streams/oatshm/payload"
)

const defaultConfigPath = "config/frame.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	rows := flag.Int("rows", 480, "Frame height in pixels")
	cols := flag.Int("cols", 640, "Frame width in pixels")
	rate := flag.Float64("rate", 30.0, "Frames per second")
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
		capacity = *rows * *cols
	}

	slog.Info("starting frameserver", "address", cfg.Address, "rows", *rows, "cols", *cols, "capacity", capacity)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	sink, err := oatshm.BindFrame(cfg.Address, capacity)
	if err != nil {
		slog.Error("failed to bind frame sink", "error", err)
		os.Exit(1)
	}
	defer sink.Close()

	sink.SetQuit(func() bool { return ctx.Err() != nil })

	pixels := make([]byte, *rows**cols)
	tick := time.NewTicker(time.Duration(float64(time.Second) / *rate))
	defer tick.Stop()

	var frameCount byte
	var published uint64
	for {
		select {
		case <-ctx.Done():
			slog.Info("frameserver stopping", "frames_published", published)
			return
		case <-tick.C:
		}

		for i := range pixels {
			pixels[i] = frameCount
		}
		frameCount++

		if err := sink.PushFrame(*rows, *cols, payload.PixelGray8, pixels); err != nil {
			slog.Error("push frame failed", "error", err)
			return
		}
		published++
	}
}
