//go:build !linux

package adc

import (
	"errors"
	"fmt"
)

// ADC0832 is not available on non-Linux platforms.
type ADC0832 struct{}

// NewADC0832 returns a reader whose Init always fails on non-Linux platforms.
func NewADC0832(chipName string, pinCS, pinCLK, pinDIO int) *ADC0832 {
	return &ADC0832{}
}

// Init returns an error on non-Linux platforms.
func (a *ADC0832) Init() error {
	return errors.New("adc: not supported on this platform (requires Linux)")
}

// ReadChannel is not implemented on non-Linux platforms.
func (a *ADC0832) ReadChannel(ch int) (int, error) {
	return 0, fmt.Errorf("%w: not supported", ErrSensorUnavailable)
}

// Close is not implemented on non-Linux platforms.
func (a *ADC0832) Close() error {
	return nil
}
