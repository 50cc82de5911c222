// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps a slog.Logger so that packages can share one logging type.
type Logger struct {
	*slog.Logger
}

// New returns a Logger writing text output to stderr at the given level.
func New(level slog.Level) *Logger {
	return NewLogger(level)
}

// NewLogger returns a Logger at the given level. If output writers are provided, log
// lines are written to all of them, otherwise to stderr.
func NewLogger(level slog.Level, output ...io.Writer) *Logger {
	var writer io.Writer = os.Stderr
	switch len(output) {
	case 0:
	case 1:
		writer = output[0]
	default:
		writer = io.MultiWriter(output...)
	}
	return &Logger{slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level}))}
}

// Err returns a slog attribute for the given error.
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}
