package logic

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Divider and thermistor constants. The thermistor is a 10k NTC (B=3950)
// against a 10k reference resistor, read by an 8-bit ADC referenced to 3.3 V.
const (
	RawMax        = 255
	VRef          = 3.3
	RefResistance = 10000.0
	Beta          = 3950.0
	T0Kelvin      = 298.15 // 25 °C
	KelvinOffset  = 273.15
)

var (
	// ErrDivisionSingularity is returned when the divider voltage equals the
	// reference voltage (raw == 255) and the thermistor resistance is undefined.
	ErrDivisionSingularity = errors.New("logic: thermistor divider at full scale")

	// ErrRawOutOfRange is returned for samples outside 0..255.
	ErrRawOutOfRange = errors.New("logic: raw sample out of range")
)

// TemperatureFromRaw converts a raw thermistor divider sample to degrees Celsius
// using the Beta-parameter approximation anchored at 25 °C / 10 kΩ.
func TemperatureFromRaw(raw int) (float64, error) {
	if raw < 0 || raw > RawMax {
		return 0, fmt.Errorf("%w: %d", ErrRawOutOfRange, raw)
	}
	if raw == RawMax {
		return 0, ErrDivisionSingularity
	}

	vr := VRef * float64(raw) / RawMax
	rt := RefResistance * vr / (VRef - vr)
	kelvin := 1 / (math.Log(rt/RefResistance)/Beta + 1/T0Kelvin)
	return kelvin - KelvinOffset, nil
}

// LightMetricsFromRaw converts a raw photoresistor sample to lux and volts.
// Out-of-range input is not clamped; callers pass ADC codes.
func LightMetricsFromRaw(raw int) LightMetrics {
	return LightMetrics{
		Lux:     float64(raw) * 100 / RawMax,
		Voltage: VRef * float64(raw) / RawMax,
	}
}

// NewReading derives a full Reading from one pair of raw samples.
// The light fields are filled in even when the temperature conversion fails.
func NewReading(tempRaw, lightRaw int, t time.Time) (Reading, error) {
	light := LightMetricsFromRaw(lightRaw)
	r := Reading{
		Time:     t,
		LightRaw: lightRaw,
		Lux:      light.Lux,
		Voltage:  light.Voltage,
	}

	temp, err := TemperatureFromRaw(tempRaw)
	if err != nil {
		return r, err
	}
	r.TemperatureC = temp
	return r, nil
}
