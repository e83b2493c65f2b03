package console

import (
	"fmt"

	"github.com/Taylor-eOS/bmp280-sensor/environment"
	"github.com/Taylor-eOS/bmp280-sensor/sampling"
)

// Sink prints every successful reading on one line. Failures are left to the sampling loop's log.
type Sink struct {
	prefix  string
	counter bool
	n       int
}

type SinkOpt func(*Sink)

// WithCounter appends the running sample number to each line.
func WithCounter() SinkOpt {
	return func(s *Sink) {
		s.counter = true
	}
}

func NewSink(prefix string, opts ...SinkOpt) *Sink {
	s := &Sink{prefix: prefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sink) Record(r sampling.Result) error {
	if r.Err != nil {
		return nil
	}
	s.n++
	line := FormatReading(r.Reading)
	if s.counter {
		line = fmt.Sprintf("%s  #%d", line, s.n)
	}
	if s.prefix != "" {
		line = s.prefix + " " + line
	}
	Printf("%s %s\n", White(r.Time.Format("15:04:05")), line)
	return nil
}

// FormatReading renders a reading with two decimals, humidity shown as N/A when not measured.
func FormatReading(r environment.Reading) string {
	humidity := "N/A"
	if r.HasHumidity {
		humidity = fmt.Sprintf("%.2f %%", r.Humidity)
	}
	return fmt.Sprintf("%s %s C  %s %s hPa  %s %s",
		PictoThermometer, Bold(fmt.Sprintf("%.2f", r.Temperature)),
		PictoPressure, Bold(fmt.Sprintf("%.2f", r.PressureHPa())),
		PictoHumidity, Bold(humidity))
}
