package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveSample(SampleOK)
	m.ObserveReading(21.5, 40, 102)
	m.ObservePublish(errors.New("x"))
	m.ObserveCommand(CommandApplied)
	m.ObserveDutyCycle(50)
	m.ObserveSwitch(true)
	m.SetMQTTConnected(true)
}

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveSample(SampleOK)
	m.ObserveSample(SampleOK)
	m.ObserveSample(SampleSensorError)
	m.ObservePublish(nil)
	m.ObservePublish(errors.New("timeout"))
	m.ObserveCommand(CommandMalformed)
	m.ObserveSwitch(true)
	m.ObserveSwitch(false)

	if got := testutil.ToFloat64(m.Samples.WithLabelValues(SampleOK)); got != 2 {
		t.Errorf("samples ok: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Samples.WithLabelValues(SampleSensorError)); got != 1 {
		t.Errorf("samples sensor_error: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Publishes.WithLabelValues("error")); got != 1 {
		t.Errorf("publish errors: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Commands.WithLabelValues(CommandMalformed)); got != 1 {
		t.Errorf("malformed commands: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SwitchTransitions); got != 2 {
		t.Errorf("transitions: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.SwitchOn); got != 0 {
		t.Errorf("switch gauge: got %v, want 0", got)
	}
}

func TestGauges(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveReading(22.25, 78.43, 200)
	m.ObserveDutyCycle(78.43)
	m.SetMQTTConnected(true)

	if got := testutil.ToFloat64(m.TemperatureCelsius); got != 22.25 {
		t.Errorf("temperature: got %v", got)
	}
	if got := testutil.ToFloat64(m.LightRaw); got != 200 {
		t.Errorf("light raw: got %v", got)
	}
	if got := testutil.ToFloat64(m.DutyCycle); got != 78.43 {
		t.Errorf("duty: got %v", got)
	}
	if got := testutil.ToFloat64(m.MQTTConnected); got != 1 {
		t.Errorf("mqtt connected: got %v", got)
	}
}

func TestRegistersWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	// A second registration of the same names must fail.
	defer func() {
		if recover() == nil {
			t.Error("expected duplicate registration to panic")
		}
	}()
	New(reg)
}
