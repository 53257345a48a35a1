// Package adc reads raw samples from the ADC0832 two-channel converter.
// The real implementation bit-bangs the serial protocol over Linux GPIO character
// device lines. The fake implementation allows testing without hardware.
package adc

import "errors"

// Reader reads raw 8-bit samples from an analog-to-digital converter.
type Reader interface {
	// Init acquires the hardware. It must be called once before ReadChannel.
	Init() error

	// ReadChannel returns the raw code (0..255) for channel 0 or 1.
	// Returns ErrSensorUnavailable if the hardware is not initialized or the
	// read faulted.
	ReadChannel(ch int) (int, error)

	// Close releases the hardware.
	Close() error
}

var (
	// ErrSensorUnavailable is returned when the converter is not initialized or a read faults.
	ErrSensorUnavailable = errors.New("adc: sensor unavailable")

	// ErrInvalidChannel is returned for channels other than 0 and 1.
	ErrInvalidChannel = errors.New("adc: invalid channel")
)

// Pin definitions (BCM numbering)
const (
	DefaultPinCS  = 17
	DefaultPinCLK = 18
	DefaultPinDIO = 27
)

func validChannel(ch int) bool {
	return ch == 0 || ch == 1
}
