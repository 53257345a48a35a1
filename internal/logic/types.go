// Package logic contains the pure signal conversion and switching rules for the agent.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// State represents the on/off state of the LED switch.
type State string

const (
	StateOn  State = "ON"
	StateOff State = "OFF"
)

// Valid reports whether s is one of the two switch states.
func (s State) Valid() bool {
	return s == StateOn || s == StateOff
}

// ADC channel assignments on the ADC0832.
const (
	ChannelTemperature = 0 // NTC thermistor divider
	ChannelLight       = 1 // photoresistor divider
)

// LightMetrics are the values derived from a raw light sample.
type LightMetrics struct {
	Lux     float64 // 0..100
	Voltage float64 // 0..3.3 V
}

// Reading is one tick's worth of derived sensor values.
type Reading struct {
	Time         time.Time
	TemperatureC float64
	LightRaw     int
	Lux          float64
	Voltage      float64
}
