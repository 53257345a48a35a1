package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/champlain-agent/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Reading       *ReadingJSON `json:"reading,omitempty"`
	LED           LEDJSON      `json:"led"`
	LastCommand   string       `json:"last_command,omitempty"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"counts"`
	Config        ConfigJSON   `json:"config"`
}

// ReadingJSON is the JSON representation of the latest reading.
type ReadingJSON struct {
	Timestamp    string  `json:"timestamp"`
	TemperatureC float64 `json:"temperature_c"`
	LightRaw     int     `json:"light_raw"`
	Lux          float64 `json:"lux"`
	Voltage      float64 `json:"voltage"`
	Dark         bool    `json:"dark"`
}

// LEDJSON reports the actuator state.
type LEDJSON struct {
	DutyCycle float64 `json:"duty_cycle"`
	Switch    string  `json:"switch"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected      bool   `json:"connected"`
	Broker         string `json:"broker"`
	ClientID       string `json:"client_id"`
	TelemetryTopic string `json:"telemetry_topic"`
	CommandTopic   string `json:"command_topic"`
}

// CountsJSON is the JSON representation of activity counts.
type CountsJSON struct {
	Samples           int `json:"samples"`
	SensorErrors      int `json:"sensor_errors"`
	Singularities     int `json:"singularities"`
	Publishes         int `json:"publishes"`
	PublishErrors     int `json:"publish_errors"`
	Commands          int `json:"commands"`
	MalformedCommands int `json:"malformed_commands"`
}

// ConfigJSON is the JSON representation of agent config.
type ConfigJSON struct {
	PeriodMs int64  `json:"period_ms"`
	HTTPAddr string `json:"http_addr"`
}

// FormatJSON renders a snapshot as indented JSON.
func FormatJSON(snap Snapshot) []byte {
	sw := string(snap.Actuator.Switch)
	if sw == "" {
		sw = "UNKNOWN"
	}

	sj := StatusJSON{
		Status: StatusInner{
			LED: LEDJSON{
				DutyCycle: snap.Actuator.DutyCycle,
				Switch:    sw,
			},
			UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
			StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
			Timestamp:     snap.Now.UTC().Format(time.RFC3339),
			MQTT: MQTTStatus{
				Connected:      snap.MQTTConnected,
				Broker:         snap.Config.Broker,
				ClientID:       snap.Config.ClientID,
				TelemetryTopic: snap.Config.TelemetryTopic,
				CommandTopic:   snap.Config.CommandTopic,
			},
			Counts: CountsJSON(snap.Counts),
			Config: ConfigJSON{
				PeriodMs: snap.Config.PeriodMs,
				HTTPAddr: snap.Config.HTTPAddr,
			},
		},
	}

	if snap.HasReading {
		r := snap.Reading
		sj.Status.Reading = &ReadingJSON{
			Timestamp:    r.Time.UTC().Format(time.RFC3339),
			TemperatureC: r.TemperatureC,
			LightRaw:     r.LightRaw,
			Lux:          r.Lux,
			Voltage:      r.Voltage,
			Dark:         logic.IsDark(r.LightRaw),
		}
	}
	if !snap.LastCommand.IsZero() {
		sj.Status.LastCommand = snap.LastCommand.UTC().Format(time.RFC3339)
	}

	data, _ := json.MarshalIndent(sj, "", "  ")
	return data
}
