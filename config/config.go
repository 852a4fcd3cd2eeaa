// Package config loads the YAML configuration shared by the demo cmd/
// binaries: a config file is how independent producer and consumer
// processes agree on an address and, for frame streams, a payload
// capacity, since the substrate itself never reads files; config file
// parsing is left to the processes that use it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Stream describes one named shared-memory stream shared by a producer and
// its consumers.
type Stream struct {
	Address string `yaml:"address"`

	// FrameCapacity is the pixel-byte capacity reserved for a frame
	// stream's free area. Zero for inline payload streams (Position2D).
	FrameCapacity int `yaml:"frame_capacity_bytes"`

	// LogLevel controls the slog level for the process reading this
	// config; "debug", "info", "warn", or "error".
	LogLevel string `yaml:"log_level"`
}

// Load reads and decodes a Stream config from path.
func Load(path string) (Stream, error) {
	var s Stream
	b, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return s, nil
}
