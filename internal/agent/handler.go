// Package agent contains the two drivers of the LED: the periodic sampling
// loop and the handler for inbound bus commands.
package agent

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/champlain-agent/internal/logic"
	"github.com/sweeney/champlain-agent/internal/metrics"
	"github.com/sweeney/champlain-agent/internal/mqtt"
	"github.com/sweeney/champlain-agent/internal/status"
)

// Actuator is the subset of actuator.Controller used by the loop and handler.
type Actuator interface {
	SetBrightness(percent float64) error
	SetSwitch(s logic.State) error
}

// Handler applies inbound commands to the actuator. It keeps no state between
// messages and is safe for concurrent use.
type Handler struct {
	act     Actuator
	log     zerolog.Logger
	metrics *metrics.Metrics
	tracker *status.Tracker
	now     func() time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithHandlerMetrics counts commands by result.
func WithHandlerMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) { h.metrics = m }
}

// WithHandlerTracker records command counts in the status tracker.
func WithHandlerTracker(t *status.Tracker) HandlerOption {
	return func(h *Handler) { h.tracker = t }
}

// NewHandler creates a Handler driving act.
func NewHandler(act Actuator, log zerolog.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		act: act,
		log: log,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle processes one message. A payload that is not a JSON object returns
// an error wrapping mqtt.ErrMalformedPayload and leaves the LED untouched.
func (h *Handler) Handle(topic string, payload []byte) error {
	cmd, err := mqtt.ParseCommand(payload)
	if err != nil {
		h.metrics.ObserveCommand(metrics.CommandMalformed)
		if h.tracker != nil {
			h.tracker.CountCommand(h.now(), true)
		}
		return fmt.Errorf("topic %s: %w", topic, err)
	}

	if h.tracker != nil {
		h.tracker.CountCommand(h.now(), false)
	}

	target := logic.SwitchForTemperature(cmd.Temperature)
	if err := h.act.SetSwitch(target); err != nil {
		h.metrics.ObserveCommand(metrics.CommandFailed)
		return fmt.Errorf("apply command: %w", err)
	}
	h.metrics.ObserveCommand(metrics.CommandApplied)

	ev := h.log.Debug().Str("topic", topic).Str("switch", string(target))
	if cmd.Temperature != nil {
		ev = ev.Float64("temperature", *cmd.Temperature)
	}
	ev.Msg("command applied")
	return nil
}

// Callback adapts Handle to a bus subscription. Errors are logged and dropped.
func (h *Handler) Callback() mqtt.MessageHandler {
	return func(topic string, payload []byte) {
		if err := h.Handle(topic, payload); err != nil {
			h.log.Warn().Err(err).Msg("command dropped")
		}
	}
}
