package environment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sensors "github.com/Taylor-eOS/bmp280-sensor"
)

// Candidate I2C addresses; SDO pulled low selects 0x76.
const (
	BMx280AddrLow  = 0x76
	BMx280AddrHigh = 0x77
)

// ChipIDBME280 is the identity byte of the humidity capable variant. BMP280 parts answer 0x56-0x58.
const ChipIDBME280 = 0x60

const (
	regChipID     byte = 0xD0
	regCalTP      byte = 0x88
	regCalH1      byte = 0xA1
	regCalH2      byte = 0xE1
	regCtrlHum    byte = 0xF2
	regCtrlMeas   byte = 0xF4
	regConfig     byte = 0xF5
	regData       byte = 0xF7
	calTPLength        = 24
	calHLength         = 7
	dataLengthTP       = 6
	dataLengthTPH      = 8
	ctrlHumX1          = 0x01 // humidity oversampling x1
	ctrlMeasNormal     = 0x27 // temperature x1, pressure x1, normal mode
	configStandby1s    = 0xA0 // t_sb 1000ms, filter off, no 3-wire SPI
)

var ErrDeviceAbsent = errors.New("bmx280: no device found at 0x76/0x77")
var ErrSampleRead = errors.New("bmx280: sample read failed")

var defaultCandidates = []byte{BMx280AddrLow, BMx280AddrHigh}

// Identity is the outcome of a successful discovery.
type Identity struct {
	Address byte
	ChipID  byte
}

// HasHumidity reports whether the chip identity belongs to the humidity capable variant.
func (id Identity) HasHumidity() bool {
	return id.ChipID == ChipIDBME280
}

func (id Identity) Variant() string {
	if id.HasHumidity() {
		return "BME280"
	}
	return "BMP280"
}

// Discover probes the candidate addresses in order (0x76 then 0x77 by default) and
// returns the first one whose chip identity register can be read. A device missing
// from an address is the normal case, so probe errors are not reported.
func Discover(ctx context.Context, bus sensors.RegisterBus, candidates ...byte) (Identity, bool) {
	if len(candidates) == 0 {
		candidates = defaultCandidates
	}
	for _, addr := range candidates {
		id, err := bus.ReadRegister(ctx, addr, regChipID)
		if err != nil {
			slog.Debug("no device at address", "addr", fmt.Sprintf("%#x", addr), "error", err)
			continue
		}
		return Identity{Address: addr, ChipID: id}, true
	}
	return Identity{}, false
}

// Configure selects x1 oversampling for every channel in normal mode with 1s standby.
// Callers are free to ignore the error: the device keeps whatever configuration it has.
func Configure(ctx context.Context, bus sensors.RegisterBus, address byte) error {
	writes := []struct {
		reg byte
		val byte
	}{
		{regCtrlHum, ctrlHumX1},
		{regCtrlMeas, ctrlMeasNormal},
		{regConfig, configStandby1s},
	}
	for _, w := range writes {
		if err := bus.WriteRegister(ctx, address, w.reg, w.val); err != nil {
			return fmt.Errorf("bmx280: could not write configuration register %#x: %w", w.reg, err)
		}
	}
	return nil
}

// RawSample holds uncompensated ADC values.
type RawSample struct {
	Temperature uint32
	Pressure    uint32
	Humidity    uint16
	HasHumidity bool
}

// ReadRawSample burst reads the data registers: 8 bytes with humidity, 6 without.
// Any transport failure is returned wrapped in ErrSampleRead.
func ReadRawSample(ctx context.Context, bus sensors.RegisterBus, address byte, humidity bool) (RawSample, error) {
	buf := [dataLengthTPH]byte{}
	b := buf[:]
	if !humidity {
		b = buf[:dataLengthTP]
	}
	if err := bus.ReadRegisters(ctx, address, regData, b); err != nil {
		return RawSample{}, fmt.Errorf("%w: %w", ErrSampleRead, err)
	}
	return decodeRaw(b), nil
}

// decodeRaw expects 6 or 8 bytes starting at 0xF7.
func decodeRaw(b []byte) RawSample {
	// press_msb, press_lsb, press_xlsb[7:4], temp_msb, temp_lsb, temp_xlsb[7:4], hum_msb, hum_lsb
	s := RawSample{
		Pressure:    uint32(b[0])<<12 | uint32(b[1])<<4 | uint32(b[2])>>4,
		Temperature: uint32(b[3])<<12 | uint32(b[4])<<4 | uint32(b[5])>>4,
	}
	if len(b) >= dataLengthTPH {
		s.Humidity = uint16(b[6])<<8 | uint16(b[7])
		s.HasHumidity = true
	}
	return s
}

type BMx280Config struct {
	Candidates []byte
}

type BMx280ConfigOption func(*BMx280Config)

// WithAddress restricts discovery to a single address.
func WithAddress(address byte) BMx280ConfigOption {
	return func(c *BMx280Config) {
		c.Candidates = []byte{address}
	}
}

// BMx280 is a Bosch BMP280 or BME280 session bound to one address.
// See: https://www.bosch-sensortec.com/media/boschsensortec/downloads/datasheets/bst-bme280-ds002.pdf
//
// Typical usage:
//
//	s, err := NewBMx280(ctx, sensors.NewRegisterBus(bus))
//	r, err := s.Sense(ctx)
//
// The session holds no lock; all access to the underlying bus must be serialized by the caller.
type BMx280 struct {
	transport sensors.RegisterBus
	id        Identity
	cal       Calibration
}

// NewBMx280 discovers the device, reads its calibration once and configures it.
// It returns ErrDeviceAbsent when no candidate address answers.
func NewBMx280(ctx context.Context, trans sensors.RegisterBus, opts ...BMx280ConfigOption) (*BMx280, error) {
	config := &BMx280Config{
		Candidates: defaultCandidates,
	}
	for _, opt := range opts {
		opt(config)
	}
	id, ok := Discover(ctx, trans, config.Candidates...)
	if !ok {
		return nil, ErrDeviceAbsent
	}
	cal, err := ReadCalibration(ctx, trans, id.Address, id.HasHumidity())
	if err != nil {
		return nil, err
	}
	if err := Configure(ctx, trans, id.Address); err != nil {
		slog.Debug("configuration rejected, keeping device defaults", "addr", fmt.Sprintf("%#x", id.Address), "error", err)
	}
	return &BMx280{transport: trans, id: id, cal: cal}, nil
}

func (s *BMx280) Address() byte {
	return s.id.Address
}

func (s *BMx280) ChipID() byte {
	return s.id.ChipID
}

func (s *BMx280) Variant() string {
	return s.id.Variant()
}

// HasHumidity is false for BMP280 parts and for BME280 parts whose humidity calibration could not be read.
func (s *BMx280) HasHumidity() bool {
	return s.cal.HasHumidity
}

func (s *BMx280) Calibration() Calibration {
	return s.cal
}

// Sample reads one uncompensated sample.
func (s *BMx280) Sample(ctx context.Context) (RawSample, error) {
	return ReadRawSample(ctx, s.transport, s.id.Address, s.cal.HasHumidity)
}

// Sense reads one sample and converts it to physical units.
func (s *BMx280) Sense(ctx context.Context) (Reading, error) {
	raw, err := s.Sample(ctx)
	if err != nil {
		return Reading{}, err
	}
	return Compensate(s.cal, raw), nil
}
