package bslog

import (
	"context"
	"log/slog"
	"os"
)

// Logger is a slog.Logger that also knows how to die.
type Logger struct {
	slog.Logger
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: *l.Logger.With(args...)}
}

func (l *Logger) Fatal(msg string, args ...any) {
	l.Log(context.Background(), LevelFatal, msg, args...)
	os.Exit(1)
}

func (l *Logger) FatalContext(ctx context.Context, msg string, args ...any) {
	l.Log(ctx, LevelFatal, msg, args...)
	os.Exit(1)
}
