// Package metrics exposes the agent's Prometheus collectors.
// All methods are safe to call on a nil *Metrics, which disables recording.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "champlain"

// Sample results.
const (
	SampleOK          = "ok"
	SampleSensorError = "sensor_error"
	SampleSingularity = "singularity"
)

// Command results.
const (
	CommandApplied   = "applied"
	CommandMalformed = "malformed"
	CommandFailed    = "actuator_error"
)

// Metrics holds the collectors registered for one agent.
type Metrics struct {
	Samples            *prometheus.CounterVec
	Publishes          *prometheus.CounterVec
	Commands           *prometheus.CounterVec
	SwitchTransitions  prometheus.Counter
	TemperatureCelsius prometheus.Gauge
	LightLux           prometheus.Gauge
	LightRaw           prometheus.Gauge
	DutyCycle          prometheus.Gauge
	SwitchOn           prometheus.Gauge
	MQTTConnected      prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Sampling ticks by result.",
		}, []string{"result"}),
		Publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publishes_total",
			Help:      "Telemetry publishes by result.",
		}, []string{"result"}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Inbound commands by result.",
		}, []string{"result"}),
		SwitchTransitions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "led_switch_transitions_total",
			Help:      "Observable LED switch transitions.",
		}),
		TemperatureCelsius: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "temperature_celsius",
			Help:      "Last derived temperature.",
		}),
		LightLux: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "light_lux",
			Help:      "Last derived light intensity (0-100).",
		}),
		LightRaw: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "light_raw",
			Help:      "Last raw light sample.",
		}),
		DutyCycle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "led_duty_cycle_percent",
			Help:      "Current LED PWM duty cycle.",
		}),
		SwitchOn: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "led_switch_on",
			Help:      "1 if the LED switch is on.",
		}),
		MQTTConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mqtt_connected",
			Help:      "1 if the MQTT client is connected.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Samples,
			m.Publishes,
			m.Commands,
			m.SwitchTransitions,
			m.TemperatureCelsius,
			m.LightLux,
			m.LightRaw,
			m.DutyCycle,
			m.SwitchOn,
			m.MQTTConnected,
		)
	}
	return m
}

// ObserveSample counts a sampling tick.
func (m *Metrics) ObserveSample(result string) {
	if m == nil {
		return
	}
	m.Samples.WithLabelValues(result).Inc()
}

// ObserveReading records the derived values of a tick.
func (m *Metrics) ObserveReading(tempC, lux float64, lightRaw int) {
	if m == nil {
		return
	}
	m.TemperatureCelsius.Set(tempC)
	m.LightLux.Set(lux)
	m.LightRaw.Set(float64(lightRaw))
}

// ObservePublish counts a telemetry publish.
func (m *Metrics) ObservePublish(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Publishes.WithLabelValues("error").Inc()
		return
	}
	m.Publishes.WithLabelValues("ok").Inc()
}

// ObserveCommand counts an inbound command.
func (m *Metrics) ObserveCommand(result string) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(result).Inc()
}

// ObserveDutyCycle records the LED duty cycle.
func (m *Metrics) ObserveDutyCycle(percent float64) {
	if m == nil {
		return
	}
	m.DutyCycle.Set(percent)
}

// ObserveSwitch records a switch transition.
func (m *Metrics) ObserveSwitch(on bool) {
	if m == nil {
		return
	}
	m.SwitchTransitions.Inc()
	m.SwitchOn.Set(boolToFloat(on))
}

// SetMQTTConnected records the MQTT connection state.
func (m *Metrics) SetMQTTConnected(connected bool) {
	if m == nil {
		return
	}
	m.MQTTConnected.Set(boolToFloat(connected))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
