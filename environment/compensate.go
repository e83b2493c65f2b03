package environment

import (
	"periph.io/x/conn/v3/physic"
)

// Reading is a compensated measurement.
type Reading struct {
	// Temperature in °C.
	Temperature float64
	// Pressure in Pa.
	Pressure float64
	// Humidity in %RH, valid only when HasHumidity is set.
	Humidity    float64
	HasHumidity bool
}

func (r Reading) PressureHPa() float64 {
	return r.Pressure / 100
}

// Env converts the reading to periph units.
func (r Reading) Env() physic.Env {
	e := physic.Env{
		Temperature: physic.ZeroCelsius + physic.Temperature(r.Temperature*float64(physic.Celsius)),
		Pressure:    physic.Pressure(r.Pressure * float64(physic.Pascal)),
	}
	if r.HasHumidity {
		e.Humidity = physic.RelativeHumidity(r.Humidity * float64(physic.PercentRH))
	}
	return e
}

// Compensate converts a raw sample with the double precision formulas of the datasheet
// (BME280 section 8.1). It keeps no state and never fails.
//
// The float64 conversions around products stop the compiler from fusing them with the
// following addition, so results are identical on amd64 and arm64.
func Compensate(cal Calibration, raw RawSample) Reading {
	tFine := fineTemperature(cal.Temperature, raw.Temperature)
	r := Reading{
		Temperature: tFine / 5120.0,
		Pressure:    compensatePressure(cal.Pressure, raw.Pressure, tFine),
	}
	if cal.HasHumidity && raw.HasHumidity {
		r.Humidity = compensateHumidity(cal.Humidity, raw.Humidity, tFine)
		r.HasHumidity = true
	}
	return r
}

func fineTemperature(c TemperatureCoefficients, raw uint32) float64 {
	adc := float64(raw)
	t1 := float64(c.T1)
	t2 := float64(c.T2)
	t3 := float64(c.T3)
	var1 := float64((adc/16384.0 - t1/1024.0) * t2)
	d := adc/131072.0 - t1/8192.0
	var2 := float64(float64(d*d) * t3)
	return var1 + var2
}

// compensatePressure returns Pa. A zero denominator yields exactly 0.
func compensatePressure(c PressureCoefficients, raw uint32, tFine float64) float64 {
	p1 := float64(c.P1)
	p2 := float64(c.P2)
	p3 := float64(c.P3)
	p4 := float64(c.P4)
	p5 := float64(c.P5)
	p6 := float64(c.P6)
	p7 := float64(c.P7)
	p8 := float64(c.P8)
	p9 := float64(c.P9)

	var1 := tFine/2.0 - 64000.0
	var2 := var1 * var1 * p6 / 32768.0
	var2 = var2 + float64(var1*p5*2.0)
	var2 = var2/4.0 + float64(p4*65536.0)
	var1 = (float64(p3*var1*var1/524288.0) + float64(p2*var1)) / 524288.0
	var1 = (1.0 + var1/32768.0) * p1
	p := 1048576.0 - float64(raw)
	if var1 == 0 {
		return 0
	}
	p = float64((p-var2/4096.0)*6250.0) / var1
	var1 = p9 * p * p / 2147483648.0
	var2 = p * p8 / 32768.0
	return p + (float64(var1+var2)+p7)/16.0
}

// compensateHumidity returns %RH clamped to [0, 100].
func compensateHumidity(c HumidityCoefficients, raw uint16, tFine float64) float64 {
	adc := float64(raw)
	h1 := float64(c.H1)
	h2 := float64(c.H2)
	h3 := float64(c.H3)
	h4 := float64(c.H4)
	h5 := float64(c.H5)
	h6 := float64(c.H6)

	h := tFine - 76800.0
	h = (adc - (float64(h4*64.0) + float64(h5/16384.0*h))) *
		(h2 / 65536.0 * (1.0 + float64(h6/67108864.0*h*(1.0+float64(h3/67108864.0*h)))))
	h = h * (1.0 - float64(h1*h/524288.0))
	switch {
	case h > 100:
		return 100
	case h < 0:
		return 0
	}
	return h
}
