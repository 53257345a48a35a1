package agent

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/sweeney/champlain-agent/internal/actuator"
	"github.com/sweeney/champlain-agent/internal/gpio"
	"github.com/sweeney/champlain-agent/internal/logic"
	"github.com/sweeney/champlain-agent/internal/metrics"
	"github.com/sweeney/champlain-agent/internal/mqtt"
	"github.com/sweeney/champlain-agent/internal/status"
)

const commandTopic = "champlain/republish"

func TestHandleTemperatureRule(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    logic.State
	}{
		{"above threshold", `{"temperature": 25.0}`, logic.StateOn},
		{"below threshold", `{"temperature": 15.0}`, logic.StateOff},
		{"at threshold", `{"temperature": 20.0}`, logic.StateOff},
		{"missing", `{}`, logic.StateOff},
		{"null", `{"temperature": null}`, logic.StateOff},
		{"not a number", `{"temperature": "hot"}`, logic.StateOff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act := &recordingActuator{}
			h := NewHandler(act, zerolog.Nop())

			if err := h.Handle(commandTopic, []byte(tt.payload)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			calls := act.switchCalls()
			if len(calls) != 1 || calls[0] != tt.want {
				t.Errorf("switch calls: got %v, want [%s]", calls, tt.want)
			}
			if len(act.brightnessCalls()) != 0 {
				t.Error("handler must not change brightness")
			}
		})
	}
}

func TestHandleMalformed(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	tr := status.NewTracker(time.Now(), status.Config{})
	act := &recordingActuator{}
	h := NewHandler(act, zerolog.Nop(), WithHandlerMetrics(m), WithHandlerTracker(tr))

	for _, p := range []string{"not json", "null", "[]", `"25"`} {
		err := h.Handle(commandTopic, []byte(p))
		if !errors.Is(err, mqtt.ErrMalformedPayload) {
			t.Errorf("Handle(%q): expected ErrMalformedPayload, got %v", p, err)
		}
	}

	if len(act.switchCalls()) != 0 {
		t.Errorf("malformed payloads must not reach the actuator, got %v", act.switchCalls())
	}
	if got := testutil.ToFloat64(m.Commands.WithLabelValues(metrics.CommandMalformed)); got != 4 {
		t.Errorf("malformed counter: got %v, want 4", got)
	}
	if c := tr.Snapshot().Counts; c.MalformedCommands != 4 || c.Commands != 0 {
		t.Errorf("tracker counts: %+v", c)
	}
}

func TestHandleActuatorError(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	act := &recordingActuator{switchError: errSimulated}
	h := NewHandler(act, zerolog.Nop(), WithHandlerMetrics(m))

	err := h.Handle(commandTopic, []byte(`{"temperature": 30}`))
	if !errors.Is(err, errSimulated) {
		t.Fatalf("expected actuator error, got %v", err)
	}
	if got := testutil.ToFloat64(m.Commands.WithLabelValues(metrics.CommandFailed)); got != 1 {
		t.Errorf("failed counter: got %v, want 1", got)
	}
}

func TestHandleCountsCommands(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	tr := status.NewTracker(time.Now(), status.Config{})
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	h := NewHandler(&recordingActuator{}, zerolog.Nop(), WithHandlerMetrics(m), WithHandlerTracker(tr))
	h.now = func() time.Time { return at }

	h.Handle(commandTopic, []byte(`{"temperature": 25}`))
	h.Handle(commandTopic, []byte(`{"temperature": 10}`))

	if got := testutil.ToFloat64(m.Commands.WithLabelValues(metrics.CommandApplied)); got != 2 {
		t.Errorf("applied counter: got %v, want 2", got)
	}
	snap := tr.Snapshot()
	if snap.Counts.Commands != 2 {
		t.Errorf("Counts.Commands: got %d, want 2", snap.Counts.Commands)
	}
	if !snap.LastCommand.Equal(at) {
		t.Errorf("LastCommand: got %v, want %v", snap.LastCommand, at)
	}
}

func TestHandlerWithController(t *testing.T) {
	led := gpio.NewFakeLED()
	ctrl, err := actuator.New(led, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := NewHandler(ctrl, zerolog.Nop())

	// Switching ON reaches the hardware once; repeating it is a no-op.
	h.Handle(commandTopic, []byte(`{"temperature": 25.0}`))
	h.Handle(commandTopic, []byte(`{"temperature": 26.0}`))
	if led.LevelWrites() != 1 {
		t.Errorf("expected 1 level write, got %d", led.LevelWrites())
	}
	if ctrl.State().Switch != logic.StateOn {
		t.Errorf("expected ON, got %s", ctrl.State().Switch)
	}

	h.Handle(commandTopic, []byte(`{}`))
	if ctrl.State().Switch != logic.StateOff {
		t.Errorf("expected OFF, got %s", ctrl.State().Switch)
	}

	h.Handle(commandTopic, []byte("not json"))
	if led.LevelWrites() != 2 {
		t.Errorf("malformed payload changed the LED: %d writes", led.LevelWrites())
	}
}

func TestCallbackDropsErrors(t *testing.T) {
	client := mqtt.NewFakeClient()
	act := &recordingActuator{}
	h := NewHandler(act, zerolog.Nop())

	if err := client.Subscribe(commandTopic, mqtt.QoSAtLeastOnce, h.Callback()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	client.Deliver(commandTopic, []byte("not json"))
	client.Deliver(commandTopic, []byte(`{"temperature": 21.5}`))

	calls := act.switchCalls()
	if len(calls) != 1 || calls[0] != logic.StateOn {
		t.Errorf("switch calls: got %v, want [ON]", calls)
	}
}

func TestHandlerConcurrentDelivery(t *testing.T) {
	act := &recordingActuator{}
	h := NewHandler(act, zerolog.Nop())
	cb := h.Callback()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				cb(commandTopic, []byte(`{"temperature": 30}`))
			} else {
				cb(commandTopic, []byte(`{"temperature": 10}`))
			}
		}(i)
	}
	wg.Wait()

	if n := len(act.switchCalls()); n != 50 {
		t.Errorf("expected 50 switch calls, got %d", n)
	}
}
