package logic

const (
	// DarkThreshold is the raw light code below which the node is considered dark.
	// With the photoresistor on the low side of the divider, a higher code means
	// more light, and light turns the LED on.
	DarkThreshold = 128

	// CommandThresholdC is the inbound temperature above which the LED is switched on.
	CommandThresholdC = 20.0
)

// SwitchForLight returns the switch state for a raw light sample.
func SwitchForLight(lightRaw int) State {
	if lightRaw < DarkThreshold {
		return StateOff
	}
	return StateOn
}

// SwitchForTemperature returns the switch state for an inbound command.
// A nil temperature means none was present and always yields OFF.
func SwitchForTemperature(tempC *float64) State {
	if tempC != nil && *tempC > CommandThresholdC {
		return StateOn
	}
	return StateOff
}

// IsDark reports whether the raw light sample falls below DarkThreshold.
func IsDark(lightRaw int) bool {
	return lightRaw < DarkThreshold
}
