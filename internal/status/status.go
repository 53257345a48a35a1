// Package status provides a thread-safe status tracker for the agent.
// It is written by the sampling loop and the command handler and read by HTTP handlers.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/champlain-agent/internal/logic"
)

// Config contains agent configuration for display.
type Config struct {
	PeriodMs       int64
	Broker         string
	ClientID       string
	TelemetryTopic string
	CommandTopic   string
	HTTPAddr       string
}

// Counts tracks activity since startup.
type Counts struct {
	Samples           int
	SensorErrors      int
	Singularities     int
	Publishes         int
	PublishErrors     int
	Commands          int
	MalformedCommands int
}

// Actuator is the last known LED state.
type Actuator struct {
	DutyCycle float64
	Switch    logic.State
}

// Snapshot is a point-in-time view of agent state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Reading       logic.Reading
	HasReading    bool
	Actuator      Actuator
	LastCommand   time.Time
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the agent started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable agent state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// SetReading records the latest derived reading and counts the sample.
func (t *Tracker) SetReading(r logic.Reading) {
	t.mu.Lock()
	t.snap.Reading = r
	t.snap.HasReading = true
	t.snap.Counts.Samples++
	t.mu.Unlock()
}

// CountSensorError counts a tick aborted by a sensor read failure.
func (t *Tracker) CountSensorError() {
	t.mu.Lock()
	t.snap.Counts.SensorErrors++
	t.mu.Unlock()
}

// CountSingularity counts a tick whose temperature could not be derived.
func (t *Tracker) CountSingularity() {
	t.mu.Lock()
	t.snap.Counts.Singularities++
	t.mu.Unlock()
}

// CountPublish counts a telemetry publish attempt.
func (t *Tracker) CountPublish(err error) {
	t.mu.Lock()
	if err != nil {
		t.snap.Counts.PublishErrors++
	} else {
		t.snap.Counts.Publishes++
	}
	t.mu.Unlock()
}

// CountCommand counts an inbound command received at the given time.
func (t *Tracker) CountCommand(at time.Time, malformed bool) {
	t.mu.Lock()
	t.snap.LastCommand = at
	if malformed {
		t.snap.Counts.MalformedCommands++
	} else {
		t.snap.Counts.Commands++
	}
	t.mu.Unlock()
}

// SetActuator records the LED state.
func (t *Tracker) SetActuator(a Actuator) {
	t.mu.Lock()
	t.snap.Actuator = a
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the agent state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
