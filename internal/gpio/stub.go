//go:build !linux

package gpio

import "errors"

// RealLED is not available on non-Linux platforms.
type RealLED struct{}

// NewRealLED returns an error on non-Linux platforms.
func NewRealLED(chipName string, pin int, freqHz float64) (*RealLED, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// SetDutyCycle is not implemented on non-Linux platforms.
func (l *RealLED) SetDutyCycle(percent float64) error {
	return errors.New("gpio: not supported")
}

// SetLevel is not implemented on non-Linux platforms.
func (l *RealLED) SetLevel(on bool) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (l *RealLED) Close() error {
	return nil
}
