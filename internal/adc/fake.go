package adc

import (
	"errors"
	"fmt"
	"sync"
)

// Sample is one scripted pair of raw codes.
type Sample struct {
	Temp  int // channel 0
	Light int // channel 1
}

// FakeReader is a test double that returns scripted raw samples.
// Each channel consumes its own column of Samples; when exhausted the last
// value is returned repeatedly.
type FakeReader struct {
	mu sync.Mutex

	// Samples contains scripted raw codes.
	Samples []Sample

	// ReadError, if set, will be returned by ReadChannel.
	ReadError error

	// InitError, if set, will be returned by Init.
	InitError error

	Initialized bool
	Closed      bool

	index [2]int
	reads int
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// NewInitializedFakeReader creates a FakeReader that is ready to read.
func NewInitializedFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples, Initialized: true}
}

// Init marks the reader as initialized.
func (f *FakeReader) Init() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.InitError != nil {
		return f.InitError
	}
	f.Initialized = true
	f.Closed = false
	return nil
}

// ReadChannel returns the next scripted value for ch.
func (f *FakeReader) ReadChannel(ch int) (int, error) {
	if !validChannel(ch) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.Initialized || f.Closed {
		return 0, fmt.Errorf("%w: not initialized", ErrSensorUnavailable)
	}
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}

	f.reads++
	sample := f.Samples[f.index[ch]]
	if f.index[ch] < len(f.Samples)-1 {
		f.index[ch]++
	}

	if ch == 0 {
		return sample.Temp, nil
	}
	return sample.Light, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// Reads returns the number of successful ReadChannel calls.
func (f *FakeReader) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.index = [2]int{}
	f.reads = 0
	f.Closed = false
}
