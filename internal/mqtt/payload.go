package mqtt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sweeney/champlain-agent/internal/logic"
)

// ErrMalformedPayload is returned when an inbound payload is not a JSON object.
var ErrMalformedPayload = errors.New("mqtt: malformed payload")

// Telemetry is the outbound message body.
type Telemetry struct {
	Temperature float64 `json:"temperature"`
	Lux         float64 `json:"lux"`
}

// FormatTelemetry creates the JSON payload for a reading.
func FormatTelemetry(r logic.Reading) ([]byte, error) {
	return json.Marshal(Telemetry{
		Temperature: r.TemperatureC,
		Lux:         r.Lux,
	})
}

// Command is a decoded inbound message.
type Command struct {
	// Temperature is nil when the field is absent, null or not a number.
	Temperature *float64
}

// ParseCommand decodes an inbound payload. The payload must be a JSON object;
// every other shape is ErrMalformedPayload.
func ParseCommand(payload []byte) (Command, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if fields == nil {
		return Command{}, fmt.Errorf("%w: null payload", ErrMalformedPayload)
	}

	raw, ok := fields["temperature"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return Command{}, nil
	}

	var t float64
	if err := json.Unmarshal(raw, &t); err != nil {
		return Command{}, nil
	}
	return Command{Temperature: &t}, nil
}
