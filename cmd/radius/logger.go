package main

import (
	"io"
	"log/slog"
)

// NewLogger returns a JSON logger when LOG_FORMAT is json, text otherwise.
func NewLogger(cfg *Config, w io.Writer) *slog.Logger {
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, nil))
	}
	return slog.New(slog.NewTextHandler(w, nil))
}
