package transport

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Sink consumes packets transmitted over infrared.
type Sink interface {
	Send(packet []byte) error
}

// LogSink is a Sink that only logs packets. It stands in for the link when
// no peer is connected, which is handy when tracing what the firmware sends.
type LogSink struct {
	logger  *slog.Logger
	level   slog.Level
	packets atomic.Int64
}

type LogSinkOption func(*LogSink)

// WithLogger sets the logger packets are written to.
func WithLogger(l *slog.Logger) LogSinkOption { return func(s *LogSink) { s.logger = l } }

// WithLevel sets the level packets are logged at.
func WithLevel(level slog.Level) LogSinkOption { return func(s *LogSink) { s.level = level } }

// NewLogSink creates a sink logging at Debug on the default logger.
func NewLogSink(opts ...LogSinkOption) *LogSink {
	s := &LogSink{
		logger: slog.Default(),
		level:  slog.LevelDebug,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LogSink) Send(packet []byte) error {
	s.packets.Add(1)
	s.logger.Log(context.Background(), s.level, "ir packet",
		"size", len(packet),
		"data", fmt.Sprintf("% X", packet),
	)
	return nil
}

// Packets returns how many packets were logged.
func (s *LogSink) Packets() int {
	return int(s.packets.Load())
}
