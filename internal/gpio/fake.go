package gpio

import "sync"

// FakeLED is a test double that records every hardware write.
// Safe for concurrent use; the controller is driven from two goroutines.
type FakeLED struct {
	mu sync.Mutex

	// Duties contains every duty cycle written, after clamping.
	Duties []float64

	// Levels contains every switch level written.
	Levels []bool

	// SetDutyError, if set, will be returned by SetDutyCycle.
	SetDutyError error

	// SetLevelError, if set, will be returned by SetLevel.
	SetLevelError error

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeLED creates a FakeLED.
func NewFakeLED() *FakeLED {
	return &FakeLED{}
}

// SetDutyCycle records the duty cycle.
func (f *FakeLED) SetDutyCycle(percent float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetDutyError != nil {
		return f.SetDutyError
	}
	f.Duties = append(f.Duties, clampPercent(percent))
	return nil
}

// SetLevel records the switch level.
func (f *FakeLED) SetLevel(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetLevelError != nil {
		return f.SetLevelError
	}
	f.Levels = append(f.Levels, on)
	return nil
}

// Close marks the LED as closed.
func (f *FakeLED) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// LevelWrites returns the number of SetLevel calls that reached the hardware.
func (f *FakeLED) LevelWrites() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Levels)
}

// LastLevel returns the most recently written level and whether any was written.
func (f *FakeLED) LastLevel() (on bool, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Levels) == 0 {
		return false, false
	}
	return f.Levels[len(f.Levels)-1], true
}

// LastDuty returns the most recently written duty cycle and whether any was written.
func (f *FakeLED) LastDuty() (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Duties) == 0 {
		return 0, false
	}
	return f.Duties[len(f.Duties)-1], true
}

// Reset clears recorded writes and injected errors.
func (f *FakeLED) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Duties = nil
	f.Levels = nil
	f.SetDutyError = nil
	f.SetLevelError = nil
	f.Closed = false
}
