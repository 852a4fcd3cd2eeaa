package config

import "log/slog"

// SlogLevel translates the config's LogLevel string into a slog.Level,
// defaulting to Info for an empty or unrecognized value.
func (s Stream) SlogLevel() slog.Level {
	switch s.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
