// Command champlain-agent samples a thermistor and a photoresistor through an
// ADC0832, drives an LED from the light level and publishes telemetry to MQTT.
// Inbound commands on the command topic switch the LED by temperature.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/sweeney/champlain-agent/internal/actuator"
	"github.com/sweeney/champlain-agent/internal/adc"
	"github.com/sweeney/champlain-agent/internal/agent"
	"github.com/sweeney/champlain-agent/internal/config"
	"github.com/sweeney/champlain-agent/internal/gpio"
	"github.com/sweeney/champlain-agent/internal/logic"
	"github.com/sweeney/champlain-agent/internal/metrics"
	"github.com/sweeney/champlain-agent/internal/mqtt"
	"github.com/sweeney/champlain-agent/internal/status"
	"github.com/sweeney/champlain-agent/internal/web"
)

func main() {
	configPath := flag.String("config", "", "Config file (default: search ./champlain.yaml, ~/.config/champlain, /etc/champlain)")
	printReading := flag.Bool("print-reading", false, "Print one sensor reading and exit")

	flag.Parse()

	log := newLogger(os.Stderr)
	if err := run(*configPath, *printReading, log); err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()
}

func run(configPath string, printOnly bool, log zerolog.Logger) error {
	cfg, err := loadConfig(configPath, printOnly)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log = log.Level(level)

	// Initialize ADC
	reader := adc.NewADC0832(cfg.GPIO.Chip, cfg.GPIO.ADCCS, cfg.GPIO.ADCCLK, cfg.GPIO.ADCDIO)
	if err := reader.Init(); err != nil {
		return fmt.Errorf("init adc: %w", err)
	}
	defer reader.Close()

	// Print reading mode
	if printOnly {
		return printReading(os.Stdout, reader, time.Now())
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	tracker := status.NewTracker(time.Now(), statusConfig(cfg))

	// Initialize LED
	led, err := gpio.NewRealLED(cfg.GPIO.Chip, cfg.GPIO.LEDPin, cfg.GPIO.PWMFrequency)
	if err != nil {
		return fmt.Errorf("init led: %w", err)
	}
	ctrl, err := actuator.New(led, component(log, "actuator"),
		actuator.WithMetrics(m),
		actuator.WithTracker(tracker),
	)
	if err != nil {
		led.Close()
		return fmt.Errorf("init actuator: %w", err)
	}
	defer ctrl.Close()

	// Initialize MQTT
	client, err := mqtt.NewRealClient(cfg.MQTT.ClientOptions(), component(log, "mqtt"))
	if err != nil {
		return fmt.Errorf("connect mqtt: %w", err)
	}
	defer client.Close()

	handler := agent.NewHandler(ctrl, component(log, "handler"),
		agent.WithHandlerMetrics(m),
		agent.WithHandlerTracker(tracker),
	)
	if err := client.Subscribe(cfg.MQTT.CommandTopic, mqtt.QoSAtLeastOnce, handler.Callback()); err != nil {
		return err
	}

	// Start HTTP status server
	if cfg.HTTP.Listen != "" {
		srv := web.New(cfg.HTTP.Listen, tracker, reg, component(log, "http"))
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("http server error")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info().Str("addr", cfg.HTTP.Listen).Msg("http status server listening")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(cfg.Sampling.Period)
	defer ticker.Stop()

	loop := agent.NewLoop(agent.LoopConfig{
		Reader:     reader,
		Actuator:   ctrl,
		Publisher:  client,
		Connection: client,
		Topic:      cfg.MQTT.TelemetryTopic,
		Tracker:    tracker,
		Metrics:    m,
		Logger:     component(log, "loop"),
	})

	log.Info().
		Str("broker", cfg.MQTT.BrokerURL()).
		Str("client_id", cfg.MQTT.ClientID).
		Dur("period", cfg.Sampling.Period).
		Str("telemetry_topic", cfg.MQTT.TelemetryTopic).
		Str("command_topic", cfg.MQTT.CommandTopic).
		Msg("started")

	err = loop.Run(ctx, ticker.C)
	log.Info().Msg("shutting down")
	return err
}

// loadConfig finds and loads the config file. Print mode only touches the
// ADC, so it falls back to defaults when no file exists.
func loadConfig(path string, printOnly bool) (*config.Config, error) {
	found, err := config.FindConfig(path)
	if err != nil {
		if printOnly && path == "" {
			return config.Default(), nil
		}
		return nil, err
	}
	return config.Load(found)
}

func statusConfig(cfg *config.Config) status.Config {
	return status.Config{
		PeriodMs:       cfg.Sampling.Period.Milliseconds(),
		Broker:         cfg.MQTT.BrokerURL(),
		ClientID:       cfg.MQTT.ClientID,
		TelemetryTopic: cfg.MQTT.TelemetryTopic,
		CommandTopic:   cfg.MQTT.CommandTopic,
		HTTPAddr:       cfg.HTTP.Listen,
	}
}

func component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// printReading samples both channels once and writes the derived values.
func printReading(w io.Writer, r adc.Reader, now time.Time) error {
	tempRaw, err := r.ReadChannel(logic.ChannelTemperature)
	if err != nil {
		return fmt.Errorf("read temperature channel: %w", err)
	}
	lightRaw, err := r.ReadChannel(logic.ChannelLight)
	if err != nil {
		return fmt.Errorf("read light channel: %w", err)
	}

	reading, err := logic.NewReading(tempRaw, lightRaw, now)
	switch {
	case errors.Is(err, logic.ErrDivisionSingularity):
		fmt.Fprintf(w, "Temperature: unavailable (raw %d)\n", tempRaw)
	case err != nil:
		return err
	default:
		fmt.Fprintf(w, "Temperature: %.2f C (raw %d)\n", reading.TemperatureC, tempRaw)
	}

	dark := ""
	if logic.IsDark(lightRaw) {
		dark = ", dark"
	}
	fmt.Fprintf(w, "Light: %.1f lux (raw %d, %.2f V%s)\n", reading.Lux, lightRaw, reading.Voltage, dark)
	fmt.Fprintf(w, "LED: %s\n", logic.SwitchForLight(lightRaw))
	return nil
}
