package sampling

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taylor-eOS/bmp280-sensor/environment"
)

var (
	bmeReading = environment.Reading{Temperature: 20.44031828083098, Pressure: 87987.91677129541, Humidity: 54.833280778029646, HasHumidity: true}
	bmpReading = environment.Reading{Temperature: 25.08247793081682, Pressure: 100653.26677582515}
)

const headerLine = "timestamp,temperature_C,pressure_hPa,humidity_percent\n"

func TestCSVSink_Record(t *testing.T) {
	var buf bytes.Buffer
	sink, err := NewCSVSink(&buf, true)
	require.NoError(t, err)

	require.NoError(t, sink.Record(Result{Time: fixedTime, Reading: bmeReading}))
	require.NoError(t, sink.Record(Result{Time: fixedTime, Err: errors.New("no response")}))
	require.NoError(t, sink.Record(Result{Time: fixedTime, Reading: bmpReading}))

	assert.Equal(t, headerLine+
		"2024-01-02T03:04:05.123456,20.44,879.88,54.83\n"+
		"2024-01-02T03:04:05.123456,25.08,1006.53,\n", buf.String())
}

func TestCSVSink_NoHeader(t *testing.T) {
	var buf bytes.Buffer
	sink, err := NewCSVSink(&buf, false)
	require.NoError(t, err)
	require.NoError(t, sink.Record(Result{Time: fixedTime, Reading: bmpReading}))
	assert.Equal(t, "2024-01-02T03:04:05.123456,25.08,1006.53,\n", buf.String())
}

func TestOpenCSVFile_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	for range 2 {
		sink, closer, err := OpenCSVFile(path)
		require.NoError(t, err)
		require.NoError(t, sink.Record(Result{Time: fixedTime, Reading: bmpReading}))
		require.NoError(t, closer.Close())
	}
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	row := "2024-01-02T03:04:05.123456,25.08,1006.53,\n"
	assert.Equal(t, headerLine+row+row, string(content))
}

func TestOpenCSVFile_EmptyFileGetsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	sink, closer, err := OpenCSVFile(path)
	require.NoError(t, err)
	require.NoError(t, sink.Record(Result{Time: fixedTime, Reading: bmeReading}))
	require.NoError(t, closer.Close())
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, headerLine+"2024-01-02T03:04:05.123456,20.44,879.88,54.83\n", string(content))
}

func TestHeaderMatches(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		content  *string
		expected bool
	}{
		{"missing", nil, true},
		{"empty", ptr(""), true},
		{"ours", ptr(headerLine + "2024-01-02T03:04:05.123456,25.08,1006.53,\n"), true},
		{"foreign", ptr("time,value\n1,2\n"), false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(dir, test.name+".csv")
			if test.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*test.content), 0o644))
			}
			ok, err := HeaderMatches(path)
			require.NoError(t, err)
			assert.Equal(t, test.expected, ok)
		})
	}
}

func ptr(s string) *string { return &s }
