package environment

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"

	sensors "github.com/Taylor-eOS/bmp280-sensor"
)

type TemperatureCoefficients struct {
	T1 uint16 `yaml:"t1"`
	T2 int16  `yaml:"t2"`
	T3 int16  `yaml:"t3"`
}

type PressureCoefficients struct {
	P1 uint16 `yaml:"p1"`
	P2 int16  `yaml:"p2"`
	P3 int16  `yaml:"p3"`
	P4 int16  `yaml:"p4"`
	P5 int16  `yaml:"p5"`
	P6 int16  `yaml:"p6"`
	P7 int16  `yaml:"p7"`
	P8 int16  `yaml:"p8"`
	P9 int16  `yaml:"p9"`
}

type HumidityCoefficients struct {
	H1 uint8 `yaml:"h1"`
	H2 int16 `yaml:"h2"`
	H3 uint8 `yaml:"h3"`
	H4 int16 `yaml:"h4"`
	H5 int16 `yaml:"h5"`
	H6 int8  `yaml:"h6"`
}

// Calibration is the factory trimming of one device. Humidity is meaningful only when HasHumidity is set.
type Calibration struct {
	Temperature TemperatureCoefficients `yaml:"temperature"`
	Pressure    PressureCoefficients    `yaml:"pressure"`
	Humidity    HumidityCoefficients    `yaml:"humidity,omitempty"`
	HasHumidity bool                    `yaml:"has_humidity"`
}

// ReadCalibration reads the temperature/pressure block and, when humidity is requested,
// the humidity coefficients. Only a failure of the base block is an error; a failed
// humidity read returns a calibration without humidity.
func ReadCalibration(ctx context.Context, bus sensors.RegisterBus, address byte, humidity bool) (Calibration, error) {
	tp := make([]byte, calTPLength)
	if err := bus.ReadRegisters(ctx, address, regCalTP, tp); err != nil {
		return Calibration{}, fmt.Errorf("bmx280: could not read calibration block: %w", err)
	}
	cal := Calibration{}
	cal.Temperature, cal.Pressure = decodeTP(tp)
	if !humidity {
		return cal, nil
	}
	h1, err := bus.ReadRegister(ctx, address, regCalH1)
	if err != nil {
		slog.Debug("humidity calibration unavailable", "addr", fmt.Sprintf("%#x", address), "error", err)
		return cal, nil
	}
	h := make([]byte, calHLength)
	if err := bus.ReadRegisters(ctx, address, regCalH2, h); err != nil {
		slog.Debug("humidity calibration unavailable", "addr", fmt.Sprintf("%#x", address), "error", err)
		return cal, nil
	}
	cal.Humidity = decodeHumidity(h1, h)
	cal.HasHumidity = true
	return cal, nil
}

func u16(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b)
}

func s16(b []byte) int16 {
	return int16(binary.LittleEndian.Uint16(b))
}

// decodeTP decodes the 24 bytes read from 0x88.
func decodeTP(b []byte) (TemperatureCoefficients, PressureCoefficients) {
	t := TemperatureCoefficients{
		T1: u16(b[0:2]),
		T2: s16(b[2:4]),
		T3: s16(b[4:6]),
	}
	p := PressureCoefficients{
		P1: u16(b[6:8]),
		P2: s16(b[8:10]),
		P3: s16(b[10:12]),
		P4: s16(b[12:14]),
		P5: s16(b[14:16]),
		P6: s16(b[16:18]),
		P7: s16(b[18:20]),
		P8: s16(b[20:22]),
		P9: s16(b[22:24]),
	}
	return t, p
}

// decodeHumidity decodes H1 (0xA1) and the 7 bytes read from 0xE1.
// H4 and H5 share 0xE5: H4 takes its low nibble, H5 its high nibble.
func decodeHumidity(h1 byte, e []byte) HumidityCoefficients {
	return HumidityCoefficients{
		H1: h1,
		H2: s16(e[0:2]),
		H3: e[2],
		H4: int16(e[3])<<4 | int16(e[4]&0x0F),
		H5: int16(uint16(e[5])<<4 | uint16(e[4])>>4),
		H6: int8(e[6]),
	}
}
