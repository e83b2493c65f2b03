package environment

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"periph.io/x/conn/v3/physic"
)

func datasheetCalibration() Calibration {
	t, p := decodeTP(datasheetTP)
	return Calibration{Temperature: t, Pressure: p}
}

func bmeCalibration() Calibration {
	return Calibration{
		Temperature: TemperatureCoefficients{T1: 28485, T2: 26735, T3: 50},
		Pressure:    PressureCoefficients{P1: 36738, P2: -10635, P3: 3024, P4: 6980, P5: -4, P6: -7, P7: 9900, P8: -10230, P9: 4285},
		Humidity:    HumidityCoefficients{H1: 75, H2: 362, H3: 0, H4: 313, H5: 50, H6: 30},
		HasHumidity: true,
	}
}

func TestCompensate_Datasheet(t *testing.T) {
	r := Compensate(datasheetCalibration(), RawSample{Temperature: 519888, Pressure: 415148})
	// datasheet: t_fine 128422.29, T 25.08 °C, P 100653.27 Pa
	assert.InDelta(t, 128422.29, fineTemperature(datasheetCalibration().Temperature, 519888), 0.01)
	assert.InDelta(t, 25.08, r.Temperature, 0.01)
	assert.InDelta(t, 100653.27, r.Pressure, 0.01)
	assert.InDelta(t, 25.08247793081682, r.Temperature, 1e-9)
	assert.InDelta(t, 100653.26677582515, r.Pressure, 1e-6)
	assert.False(t, r.HasHumidity)
	assert.Zero(t, r.Humidity)
	assert.InDelta(t, 1006.53, r.PressureHPa(), 0.01)
}

func TestCompensate_Humidity(t *testing.T) {
	tests := []struct {
		name     string
		raw      uint16
		expected float64
	}{
		{"nominal", 30000, 54.833280778029646},
		{"clamped low", 0, 0},
		{"clamped high", 65535, 100},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := Compensate(bmeCalibration(), RawSample{Temperature: 519888, Pressure: 415148, Humidity: test.raw, HasHumidity: true})
			assert.True(t, r.HasHumidity)
			assert.InDelta(t, test.expected, r.Humidity, 1e-9)
		})
	}
}

func TestCompensate_HumidityAlwaysInRange(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 5000; i++ {
		cal := bmeCalibration()
		cal.Humidity = HumidityCoefficients{
			H1: uint8(rnd.Intn(256)),
			H2: int16(rnd.Intn(65536) - 32768),
			H3: uint8(rnd.Intn(256)),
			H4: int16(rnd.Intn(4096)),
			H5: int16(rnd.Intn(4096)),
			H6: int8(rnd.Intn(256) - 128),
		}
		raw := RawSample{Temperature: uint32(rnd.Intn(1 << 20)), Pressure: uint32(rnd.Intn(1 << 20)), Humidity: uint16(rnd.Intn(65536)), HasHumidity: true}
		r := Compensate(cal, raw)
		assert.GreaterOrEqual(t, r.Humidity, 0.0)
		assert.LessOrEqual(t, r.Humidity, 100.0)
	}
}

func TestCompensate_HumidityNeedsBothSides(t *testing.T) {
	cal := bmeCalibration()
	r := Compensate(cal, RawSample{Temperature: 519888, Pressure: 415148})
	assert.False(t, r.HasHumidity)

	cal.HasHumidity = false
	r = Compensate(cal, RawSample{Temperature: 519888, Pressure: 415148, Humidity: 30000, HasHumidity: true})
	assert.False(t, r.HasHumidity)
}

func TestCompensate_ZeroPressureDenominator(t *testing.T) {
	for _, raw := range []uint32{0, 415148, 1 << 19, 1<<20 - 1} {
		cal := datasheetCalibration()
		cal.Pressure.P1 = 0
		r := Compensate(cal, RawSample{Temperature: 519888, Pressure: raw})
		assert.Equal(t, 0.0, r.Pressure)
		assert.InDelta(t, 25.08, r.Temperature, 0.01)
	}
}

func TestCompensate_Pure(t *testing.T) {
	cal := bmeCalibration()
	raw := RawSample{Temperature: 530000, Pressure: 300000, Humidity: 28000, HasHumidity: true}
	first := Compensate(cal, raw)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compensate(cal, raw))
	}
}

func TestReading_Env(t *testing.T) {
	r := Reading{Temperature: 25, Pressure: 100000, Humidity: 50, HasHumidity: true}
	e := r.Env()
	assert.Equal(t, physic.ZeroCelsius+25*physic.Celsius, e.Temperature)
	assert.Equal(t, 100*physic.KiloPascal, e.Pressure)
	assert.Equal(t, 50*physic.PercentRH, e.Humidity)

	r.HasHumidity = false
	assert.Equal(t, physic.RelativeHumidity(0), r.Env().Humidity)
}
