package main

import (
	"io"
	"log/slog"

	"github.com/xh3b4sd/loadcast/config"
)

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch cfg.LogLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opt := &slog.HandlerOptions{Level: lvl}

	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opt))
	}

	return slog.New(slog.NewJSONHandler(w, opt))
}
