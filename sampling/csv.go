package sampling

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
)

// TimestampFormat is local time with microseconds and no zone.
const TimestampFormat = "2006-01-02T15:04:05.000000"

var Header = []string{"timestamp", "temperature_C", "pressure_hPa", "humidity_percent"}

// CSVSink appends one row per successful result. Failed polls are not recorded.
type CSVSink struct {
	w *csv.Writer
}

// NewCSVSink writes the header row first when header is set.
func NewCSVSink(w io.Writer, header bool) (*CSVSink, error) {
	s := &CSVSink{w: csv.NewWriter(w)}
	if header {
		if err := s.write(Header); err != nil {
			return nil, fmt.Errorf("could not write header: %w", err)
		}
	}
	return s, nil
}

func (s *CSVSink) Record(r Result) error {
	if r.Err != nil {
		return nil
	}
	humidity := ""
	if r.Reading.HasHumidity {
		humidity = formatFixed(r.Reading.Humidity)
	}
	return s.write([]string{
		r.Time.Format(TimestampFormat),
		formatFixed(r.Reading.Temperature),
		formatFixed(r.Reading.PressureHPa()),
		humidity,
	})
}

func (s *CSVSink) write(row []string) error {
	if err := s.w.Write(row); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

func formatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// OpenCSVFile opens path for appending. The header is written only when the file is new or empty.
func OpenCSVFile(path string) (*CSVSink, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open output file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("could not stat output file: %w", err)
	}
	sink, err := NewCSVSink(f, info.Size() == 0)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return sink, f, nil
}

// HeaderMatches reports whether the file at path is missing, empty or starts with Header.
func HeaderMatches(path string) (bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not open output file: %w", err)
	}
	defer func() { _ = f.Close() }()
	first, err := csv.NewReader(bufio.NewReader(f)).Read()
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	if err != nil {
		return false, nil
	}
	return slices.Equal(first, Header), nil
}
