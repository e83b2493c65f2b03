// Package sampling polls a sensor on a fixed period and hands every result to output sinks.
package sampling

import (
	"context"
	"iter"
	"sync/atomic"
	"time"

	"github.com/Taylor-eOS/bmp280-sensor/environment"
)

// Sensor is anything producing compensated readings, e.g. *environment.BMx280.
type Sensor interface {
	Sense(ctx context.Context) (environment.Reading, error)
}

// Result is one poll: a reading or the error that prevented it.
type Result struct {
	Time    time.Time
	Reading environment.Reading
	Err     error
}

type StreamOpts struct {
	Clock func() time.Time
}

type StreamOpt func(*StreamOpts)

func WithClock(clock func() time.Time) StreamOpt {
	return func(o *StreamOpts) {
		o.Clock = clock
	}
}

// Stream returns an infinite sequence of results: the first poll happens immediately, the next
// ones interval apart, until ctx is done or the consumer stops. The sequence can be ranged over
// once; later iterations yield nothing.
func Stream(ctx context.Context, sensor Sensor, interval time.Duration, opts ...StreamOpt) iter.Seq[Result] {
	config := StreamOpts{
		Clock: time.Now,
	}
	for _, opt := range opts {
		opt(&config)
	}
	var started atomic.Bool
	return func(yield func(Result) bool) {
		if !started.CompareAndSwap(false, true) {
			return
		}
		timer := time.NewTimer(0)
		defer timer.Stop()
		for {
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			reading, err := sensor.Sense(ctx)
			if !yield(Result{Time: config.Clock(), Reading: reading, Err: err}) {
				return
			}
			timer.Reset(interval)
		}
	}
}
