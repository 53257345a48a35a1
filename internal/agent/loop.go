package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/champlain-agent/internal/adc"
	"github.com/sweeney/champlain-agent/internal/logic"
	"github.com/sweeney/champlain-agent/internal/metrics"
	"github.com/sweeney/champlain-agent/internal/mqtt"
	"github.com/sweeney/champlain-agent/internal/status"
)

// LoopConfig wires the sampling loop. Reader, Actuator and Publisher are required.
type LoopConfig struct {
	Reader    adc.Reader
	Actuator  Actuator
	Publisher mqtt.Publisher
	Topic     string

	// Connection, if set, is polled every tick for the status page.
	Connection mqtt.ConnectionStatus

	Tracker *status.Tracker
	Metrics *metrics.Metrics
	Logger  zerolog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Loop samples the sensors, drives the LED from the light level and
// publishes telemetry.
type Loop struct {
	cfg LoopConfig
}

// NewLoop creates a Loop.
func NewLoop(cfg LoopConfig) *Loop {
	if cfg.Topic == "" {
		cfg.Topic = mqtt.DefaultTelemetryTopic
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Loop{cfg: cfg}
}

// Run performs one sample immediately and then one per tick until ctx is done.
// Sample errors are logged and never stop the loop. Returns nil on cancellation.
func (l *Loop) Run(ctx context.Context, tick <-chan time.Time) error {
	if ctx.Err() != nil {
		return nil
	}
	l.Step(l.cfg.Now())

	for {
		select {
		case <-ctx.Done():
			l.cfg.Logger.Info().Msg("sampling loop stopped")
			return nil
		case <-tick:
			l.Step(l.cfg.Now())
		}
	}
}

// Step performs one sample. The returned error is already logged and counted.
func (l *Loop) Step(now time.Time) error {
	defer l.refreshConnection()

	tempRaw, lightRaw, err := l.read()
	if err != nil {
		l.cfg.Logger.Error().Err(err).Msg("adc read error")
		l.cfg.Metrics.ObserveSample(metrics.SampleSensorError)
		if l.cfg.Tracker != nil {
			l.cfg.Tracker.CountSensorError()
		}
		return err
	}

	reading, convErr := logic.NewReading(tempRaw, lightRaw, now)
	if convErr != nil && !errors.Is(convErr, logic.ErrDivisionSingularity) {
		l.cfg.Logger.Error().Err(convErr).Int("raw", tempRaw).Msg("temperature conversion error")
		l.cfg.Metrics.ObserveSample(metrics.SampleSensorError)
		if l.cfg.Tracker != nil {
			l.cfg.Tracker.CountSensorError()
		}
		return convErr
	}

	// The light value is valid even when the temperature is not.
	if err := l.cfg.Actuator.SetBrightness(reading.Lux); err != nil {
		l.cfg.Logger.Error().Err(err).Msg("set brightness error")
	}
	if err := l.cfg.Actuator.SetSwitch(logic.SwitchForLight(lightRaw)); err != nil {
		l.cfg.Logger.Error().Err(err).Msg("set switch error")
	}

	if convErr != nil {
		l.cfg.Logger.Warn().Err(convErr).Int("raw", tempRaw).Msg("temperature unavailable, not publishing")
		l.cfg.Metrics.ObserveSample(metrics.SampleSingularity)
		if l.cfg.Tracker != nil {
			l.cfg.Tracker.CountSingularity()
		}
		return convErr
	}

	l.cfg.Metrics.ObserveSample(metrics.SampleOK)
	l.cfg.Metrics.ObserveReading(reading.TemperatureC, reading.Lux, reading.LightRaw)
	if l.cfg.Tracker != nil {
		l.cfg.Tracker.SetReading(reading)
	}

	return l.publish(reading)
}

func (l *Loop) read() (tempRaw, lightRaw int, err error) {
	tempRaw, err = l.cfg.Reader.ReadChannel(logic.ChannelTemperature)
	if err != nil {
		return 0, 0, fmt.Errorf("read temperature channel: %w", err)
	}
	lightRaw, err = l.cfg.Reader.ReadChannel(logic.ChannelLight)
	if err != nil {
		return 0, 0, fmt.Errorf("read light channel: %w", err)
	}
	if lightRaw < 0 || lightRaw > logic.RawMax {
		return 0, 0, fmt.Errorf("light channel %d: %w", lightRaw, logic.ErrRawOutOfRange)
	}
	return tempRaw, lightRaw, nil
}

func (l *Loop) publish(r logic.Reading) error {
	payload, err := mqtt.FormatTelemetry(r)
	if err == nil {
		err = l.cfg.Publisher.Publish(l.cfg.Topic, mqtt.QoSAtLeastOnce, payload)
	}

	l.cfg.Metrics.ObservePublish(err)
	if l.cfg.Tracker != nil {
		l.cfg.Tracker.CountPublish(err)
	}
	if err != nil {
		// Don't crash on publish failure
		l.cfg.Logger.Error().Err(err).Str("topic", l.cfg.Topic).Msg("publish error")
		return fmt.Errorf("publish telemetry: %w", err)
	}

	l.cfg.Logger.Debug().
		Float64("temperature", r.TemperatureC).
		Float64("lux", r.Lux).
		Msg("published telemetry")
	return nil
}

func (l *Loop) refreshConnection() {
	if l.cfg.Connection == nil {
		return
	}
	connected := l.cfg.Connection.IsConnected()
	l.cfg.Metrics.SetMQTTConnected(connected)
	if l.cfg.Tracker != nil {
		l.cfg.Tracker.SetMQTTConnected(connected)
	}
}
