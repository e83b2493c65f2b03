package sampling

import (
	"context"
	"errors"
	"iter"
	"log/slog"

	sensors "github.com/Taylor-eOS/bmp280-sensor"
)

// Sink receives every result of the loop, failed polls included.
type Sink interface {
	Record(r Result) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(r Result) error

func (f SinkFunc) Record(r Result) error {
	return f(r)
}

// Run drains the stream into the sinks. Failed polls and failing sinks are logged and the loop
// carries on with the next result. Run returns once the stream ends, with ctx's error if it was cancelled.
func Run(ctx context.Context, stream iter.Seq[Result], sinks ...Sink) error {
	for res := range stream {
		if res.Err != nil {
			logFailure(res.Err)
		}
		for _, sink := range sinks {
			if err := sink.Record(res); err != nil {
				slog.Error("could not record result", "error", err)
			}
		}
	}
	return ctx.Err()
}

func logFailure(err error) {
	if errors.Is(err, sensors.ErrNoResponse) {
		slog.Warn("device not responding", "error", err)
		return
	}
	slog.Error("sample read failed", "error", err)
}
