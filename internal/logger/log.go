// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger is a thin wrapper around slog.Logger so that components share one type.
type Logger struct {
	*slog.Logger
}

// New returns a Logger that writes text records to stderr.
func New(level slog.Level) *Logger {
	return NewLogger(level)
}

// NewLogger returns a Logger that writes text records to the given outputs. If no output is
// given, stderr is used.
func NewLogger(level slog.Level, output ...io.Writer) *Logger {
	var out io.Writer = os.Stderr
	switch len(output) {
	case 0:
	case 1:
		out = output[0]
	default:
		out = io.MultiWriter(output...)
	}
	return &Logger{slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))}
}

// Err returns an slog attribute for the given error.
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}
