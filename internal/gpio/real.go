//go:build linux

package gpio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RealLED drives an LED from an actual GPIO line using the Linux GPIO character
// device. Brightness is produced by a software PWM goroutine.
type RealLED struct {
	chip   *gpiocdev.Chip
	line   *gpiocdev.Line
	period time.Duration

	mu    sync.Mutex
	duty  float64
	on    bool
	level int

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewRealLED requests pin on chipName as an output (initially low) and starts
// the PWM at freqHz.
func NewRealLED(chipName string, pin int, freqHz float64) (*RealLED, error) {
	if freqHz <= 0 {
		return nil, errors.New("gpio: pwm frequency must be positive")
	}

	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0), gpiocdev.WithConsumer("champlain-led"))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request LED pin %d: %w", pin, err)
	}

	l := &RealLED{
		chip:   chip,
		line:   line,
		period: time.Duration(float64(time.Second) / freqHz),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go l.run()
	return l, nil
}

// SetDutyCycle sets the PWM duty cycle. Takes effect from the next PWM period.
func (l *RealLED) SetDutyCycle(percent float64) error {
	l.mu.Lock()
	l.duty = clampPercent(percent)
	l.mu.Unlock()
	return nil
}

// SetLevel switches the LED. Switching off drives the line low immediately.
func (l *RealLED) SetLevel(on bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.on = on
	if !on {
		return l.write(0)
	}
	if l.duty > 0 {
		return l.write(1)
	}
	return nil
}

// write sets the line value. Caller must hold l.mu.
func (l *RealLED) write(v int) error {
	if l.level == v {
		return nil
	}
	if err := l.line.SetValue(v); err != nil {
		return fmt.Errorf("set LED line: %w", err)
	}
	l.level = v
	return nil
}

// run generates the PWM waveform until Close is called.
func (l *RealLED) run() {
	defer close(l.done)

	for {
		l.mu.Lock()
		high := time.Duration(float64(l.period) * l.duty / 100)
		if !l.on {
			high = 0
		}
		// Write errors surface through the next SetLevel call.
		if high > 0 {
			_ = l.write(1)
		} else {
			_ = l.write(0)
		}
		l.mu.Unlock()

		if high <= 0 || high >= l.period {
			if !l.wait(l.period) {
				return
			}
			continue
		}

		if !l.wait(high) {
			return
		}
		l.mu.Lock()
		if l.on && l.duty < 100 {
			_ = l.write(0)
		}
		l.mu.Unlock()
		if !l.wait(l.period - high) {
			return
		}
	}
}

// wait sleeps for d. Returns false if the LED was closed meanwhile.
func (l *RealLED) wait(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-l.stop:
		return false
	case <-t.C:
		return true
	}
}

// Close stops the PWM, drives the line low and releases GPIO resources.
// The line is reconfigured to input with pull-down (matching Pi boot defaults)
// before closing so the LED is not left floating across a reboot.
func (l *RealLED) Close() error {
	var err error

	l.closeOnce.Do(func() {
		close(l.stop)
		<-l.done

		steps := []closeStep{{"drive LED low", func() error {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.on = false
			return l.write(0)
		}}}
		if l.line != nil {
			steps = append(steps,
				closeStep{"reconfigure LED pin", func() error {
					return l.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown)
				}},
				closeStep{"close LED pin", l.line.Close},
			)
		}
		if l.chip != nil {
			steps = append(steps, closeStep{"close chip", l.chip.Close})
		}
		err = runClose(steps)
	})

	return err
}
