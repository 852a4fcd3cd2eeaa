// Command positiongen publishes synthetic Position2D samples driven by a
// random-acceleration walk, a producer used to exercise consumers without
// a live tracker attached.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oat-streams/oatshm"
	"github.com/oat-streams/oatshm/config"
	"github.com/oat-streams/oatshm/payload"
)

const defaultConfigPath = "config/position.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	sigmaAccel := flag.Float64("sigma-accel", 20.0, "Standard deviation of normally-distributed random accelerations")
	room := flag.Float64("room", 500.0, "Half-width of the square room samples are confined to")
	rate := flag.Float64("rate", 30.0, "Samples per second")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	slog.Info("starting positiongen", "address", cfg.Address, "sigma_accel", *sigmaAccel, "room", *room)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	sink, err := oatshm.Bind[payload.Position2D](cfg.Address, 0)
	if err != nil {
		slog.Error("failed to bind sink", "error", err)
		os.Exit(1)
	}
	defer sink.Close()

	sink.SetQuit(func() bool { return ctx.Err() != nil })

	period := time.Duration(float64(time.Second) / *rate)
	tick := time.NewTicker(period)
	defer tick.Stop()

	x, y, vx, vy := 0.0, 0.0, 0.0, 0.0
	var sampleCount uint64

	for {
		select {
		case <-ctx.Done():
			slog.Info("positiongen stopping", "samples_published", sampleCount)
			return
		case <-tick.C:
		}

		dt := period.Seconds()
		ax := rand.NormFloat64() * *sigmaAccel
		ay := rand.NormFloat64() * *sigmaAccel
		vx += ax * dt
		vy += ay * dt
		x += vx * dt
		y += vy * dt

		if x > *room || x < -*room {
			vx = -vx
			x = math.Max(-*room, math.Min(*room, x))
		}
		if y > *room || y < -*room {
			vy = -vy
			y = math.Max(-*room, math.Min(*room, y))
		}

		sampleCount++
		speed := math.Hypot(vx, vy)
		hx, hy := 0.0, 0.0
		if speed > 1e-9 {
			hx, hy = vx/speed, vy/speed
		}

		pos := payload.Position2D{
			PositionValid:      true,
			VelocityValid:      true,
			HeadingValid:       speed > 1e-9,
			X:                  x,
			Y:                  y,
			VX:                 vx,
			VY:                 vy,
			HeadingX:           hx,
			HeadingY:           hy,
			SampleCount:        sampleCount,
			SamplePeriodMicros: uint64(period.Microseconds()),
		}
		pos.SetRegion("room")

		if err := sink.Push(pos); err != nil {
			slog.Error("push failed", "error", err)
			return
		}
	}
}
