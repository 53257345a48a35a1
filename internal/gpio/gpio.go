// Package gpio drives the LED actuator with hardware abstraction.
// The real implementation uses the Linux GPIO character device with a software PWM.
// The fake implementation allows testing without hardware.
package gpio

// LED drives a single LED line that is both PWM-dimmed and switched on/off.
type LED interface {
	// SetDutyCycle sets the PWM duty cycle as a percentage (0..100).
	SetDutyCycle(percent float64) error

	// SetLevel switches the output. When off the line is held low regardless
	// of the duty cycle; when on the PWM waveform is driven.
	SetLevel(on bool) error

	// Close releases GPIO resources.
	Close() error
}

// Defaults (BCM numbering)
const (
	DefaultChip    = "gpiochip0"
	DefaultPinLED  = 4
	DefaultPWMFreq = 10.0 // Hz
)

// clampPercent bounds p to 0..100. NaN maps to 0.
func clampPercent(p float64) float64 {
	if !(p > 0) {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
