// Package actuator owns the LED state. The Controller is the only component
// allowed to drive the LED hardware; the sampling loop and the command handler
// both go through it.
package actuator

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sweeney/champlain-agent/internal/gpio"
	"github.com/sweeney/champlain-agent/internal/logic"
	"github.com/sweeney/champlain-agent/internal/metrics"
	"github.com/sweeney/champlain-agent/internal/status"
)

// DefaultDutyCycle is driven when the controller is created.
const DefaultDutyCycle = 50.0

var (
	// ErrInvalidState is returned by SetSwitch for states other than ON and OFF.
	ErrInvalidState = errors.New("actuator: invalid switch state")

	// ErrClosed is returned by the setters once the LED has been released.
	ErrClosed = errors.New("actuator: closed")
)

// State is the LED state as last written to the hardware.
type State struct {
	DutyCycle float64
	Switch    logic.State
}

// Controller serializes all LED writes behind a mutex. Callers are not
// coordinated with each other: the last write to complete wins.
type Controller struct {
	mu          sync.Mutex
	led         gpio.LED
	state       State
	transitions int
	closed      bool

	log     zerolog.Logger
	metrics *metrics.Metrics
	tracker *status.Tracker
}

// Option configures a Controller.
type Option func(*Controller)

// WithMetrics records duty cycle and switch transitions.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithTracker mirrors the LED state into the status tracker.
func WithTracker(t *status.Tracker) Option {
	return func(c *Controller) { c.tracker = t }
}

// New creates a Controller and drives the default duty cycle. The switch
// starts OFF, matching the line's initial output value.
func New(led gpio.LED, log zerolog.Logger, opts ...Option) (*Controller, error) {
	c := &Controller{
		led:   led,
		state: State{Switch: logic.StateOff},
		log:   log,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.SetBrightness(DefaultDutyCycle); err != nil {
		return nil, fmt.Errorf("set default duty cycle: %w", err)
	}
	return c, nil
}

// SetBrightness sets the PWM duty cycle. Values outside 0..100 are clamped.
func (c *Controller) SetBrightness(percent float64) error {
	percent = clamp(percent)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if err := c.led.SetDutyCycle(percent); err != nil {
		return fmt.Errorf("set duty cycle: %w", err)
	}
	c.state.DutyCycle = percent
	c.metrics.ObserveDutyCycle(percent)
	c.publishLocked()
	return nil
}

// SetSwitch switches the LED on or off. Setting the current state again does
// not touch the hardware.
func (c *Controller) SetSwitch(s logic.State) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidState, s)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.state.Switch == s {
		return nil
	}
	if err := c.led.SetLevel(s == logic.StateOn); err != nil {
		return fmt.Errorf("set switch %s: %w", s, err)
	}

	c.log.Debug().Str("from", string(c.state.Switch)).Str("to", string(s)).Msg("led switch")
	c.state.Switch = s
	c.transitions++
	c.metrics.ObserveSwitch(s == logic.StateOn)
	c.publishLocked()
	return nil
}

// State returns the current LED state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Transitions returns the number of switch changes written to the hardware.
func (c *Controller) Transitions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transitions
}

// Close switches the LED off and releases the hardware. Later writes return
// ErrClosed; closing again is a no-op.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.state.Switch == logic.StateOn {
		if err := c.led.SetLevel(false); err != nil {
			c.log.Warn().Err(err).Msg("switch off on close")
		}
		c.state.Switch = logic.StateOff
	}
	return c.led.Close()
}

// publishLocked mirrors the state into the tracker. Caller holds c.mu.
func (c *Controller) publishLocked() {
	if c.tracker == nil {
		return
	}
	c.tracker.SetActuator(status.Actuator{
		DutyCycle: c.state.DutyCycle,
		Switch:    c.state.Switch,
	})
}

func clamp(p float64) float64 {
	if !(p > 0) {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
