package console

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/Taylor-eOS/bmp280-sensor/environment"
	"github.com/Taylor-eOS/bmp280-sensor/sampling"
)

func TestFormatReading(t *testing.T) {
	color.NoColor = true
	assert.Equal(t, "🌡 20.44 C  🎈 879.88 hPa  💧 54.83 %",
		FormatReading(environment.Reading{Temperature: 20.44031828083098, Pressure: 87987.91677129541, Humidity: 54.833280778029646, HasHumidity: true}))
	assert.Equal(t, "🌡 25.08 C  🎈 1006.53 hPa  💧 N/A",
		FormatReading(environment.Reading{Temperature: 25.08247793081682, Pressure: 100653.26677582515}))
}

func TestSink_Record(t *testing.T) {
	color.NoColor = true
	stdout, stderr := writer, errWriter
	defer SetOutput(stdout, stderr)
	var out bytes.Buffer
	SetOutput(&out, &out)

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	sink := NewSink("Logged:", WithCounter())
	assert.NoError(t, sink.Record(sampling.Result{Time: ts, Err: errors.New("no response")}))
	assert.NoError(t, sink.Record(sampling.Result{Time: ts, Reading: environment.Reading{Temperature: 21.5, Pressure: 101325}}))
	assert.Equal(t, "03:04:05 Logged: 🌡 21.50 C  🎈 1013.25 hPa  💧 N/A  #1\n", out.String())
}
