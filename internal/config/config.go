// Package config handles agent configuration loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/sweeney/champlain-agent/internal/adc"
	"github.com/sweeney/champlain-agent/internal/gpio"
	"github.com/sweeney/champlain-agent/internal/mqtt"
)

// Defaults.
const (
	DefaultPortTLS          = 8883
	DefaultPortPlain        = 1883
	DefaultConnectTimeout   = 10 * time.Second
	DefaultOperationTimeout = 5 * time.Second
	DefaultPeriod           = 10 * time.Second
	DefaultLogLevel         = "info"
)

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag) is checked first.
// Then: ./champlain.yaml, ~/.config/champlain/champlain.yaml, /etc/champlain/champlain.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"champlain.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "champlain", "champlain.yaml"))
	}

	paths = append(paths, "/etc/champlain/champlain.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Config holds all agent configuration.
type Config struct {
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Sampling SamplingConfig `yaml:"sampling"`
	GPIO     GPIOConfig     `yaml:"gpio"`
	HTTP     HTTPConfig     `yaml:"http"`
	LogLevel string         `yaml:"log_level"`
}

// MQTTConfig defines the broker connection. Setting RootCA or ClientCert
// switches the connection to TLS.
type MQTTConfig struct {
	Endpoint         string        `yaml:"endpoint"`
	Port             int           `yaml:"port"`
	ClientID         string        `yaml:"client_id"`
	RootCA           string        `yaml:"root_ca"`
	PrivateKey       string        `yaml:"private_key"`
	ClientCert       string        `yaml:"client_cert"`
	ConnectTimeout   time.Duration `yaml:"connect_timeout"`
	OperationTimeout time.Duration `yaml:"operation_timeout"`
	TelemetryTopic   string        `yaml:"telemetry_topic"`
	CommandTopic     string        `yaml:"command_topic"`
}

// SamplingConfig defines the sampling loop.
type SamplingConfig struct {
	Period time.Duration `yaml:"period"`
}

// GPIOConfig defines the chip and BCM pin numbers.
type GPIOConfig struct {
	Chip         string  `yaml:"chip"`
	LEDPin       int     `yaml:"led_pin"`
	PWMFrequency float64 `yaml:"pwm_frequency"`
	ADCCS        int     `yaml:"adc_cs"`
	ADCCLK       int     `yaml:"adc_clk"`
	ADCDIO       int     `yaml:"adc_dio"`
}

// HTTPConfig defines the status server. An empty Listen disables it.
type HTTPConfig struct {
	Listen string `yaml:"listen"`
}

// Load reads configuration from a YAML file, applies defaults and validates it.
// Environment variables in the file are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns a configuration with the static defaults. The port and
// client ID depend on other fields and are filled in by Load.
func Default() *Config {
	return &Config{
		MQTT: MQTTConfig{
			ConnectTimeout:   DefaultConnectTimeout,
			OperationTimeout: DefaultOperationTimeout,
			TelemetryTopic:   mqtt.DefaultTelemetryTopic,
			CommandTopic:     mqtt.DefaultCommandTopic,
		},
		Sampling: SamplingConfig{Period: DefaultPeriod},
		GPIO: GPIOConfig{
			Chip:         gpio.DefaultChip,
			LEDPin:       gpio.DefaultPinLED,
			PWMFrequency: gpio.DefaultPWMFreq,
			ADCCS:        adc.DefaultPinCS,
			ADCCLK:       adc.DefaultPinCLK,
			ADCDIO:       adc.DefaultPinDIO,
		},
		LogLevel: DefaultLogLevel,
	}
}

// applyDefaults fills in values that depend on other fields or that the file
// set to empty.
func (c *Config) applyDefaults() {
	if c.MQTT.Port == 0 {
		if c.MQTT.UsesTLS() {
			c.MQTT.Port = DefaultPortTLS
		} else {
			c.MQTT.Port = DefaultPortPlain
		}
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "champlain-" + uuid.NewString()
	}
	if c.MQTT.TelemetryTopic == "" {
		c.MQTT.TelemetryTopic = mqtt.DefaultTelemetryTopic
	}
	if c.MQTT.CommandTopic == "" {
		c.MQTT.CommandTopic = mqtt.DefaultCommandTopic
	}
	if c.GPIO.Chip == "" {
		c.GPIO.Chip = gpio.DefaultChip
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate checks the configuration for values the agent cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.MQTT.Endpoint == "" {
		errs = append(errs, errors.New("mqtt.endpoint is required"))
	}
	if c.MQTT.Port < 1 || c.MQTT.Port > 65535 {
		errs = append(errs, fmt.Errorf("mqtt.port %d out of range", c.MQTT.Port))
	}
	if (c.MQTT.ClientCert == "") != (c.MQTT.PrivateKey == "") {
		errs = append(errs, errors.New("mqtt.client_cert and mqtt.private_key must be set together"))
	}
	if c.MQTT.ConnectTimeout <= 0 {
		errs = append(errs, errors.New("mqtt.connect_timeout must be positive"))
	}
	if c.MQTT.OperationTimeout <= 0 {
		errs = append(errs, errors.New("mqtt.operation_timeout must be positive"))
	}
	if c.Sampling.Period <= 0 {
		errs = append(errs, errors.New("sampling.period must be positive"))
	}
	if c.GPIO.PWMFrequency <= 0 {
		errs = append(errs, errors.New("gpio.pwm_frequency must be positive"))
	}

	pins := map[string]int{
		"gpio.led_pin": c.GPIO.LEDPin,
		"gpio.adc_cs":  c.GPIO.ADCCS,
		"gpio.adc_clk": c.GPIO.ADCCLK,
		"gpio.adc_dio": c.GPIO.ADCDIO,
	}
	seen := make(map[int]string)
	for _, name := range []string{"gpio.led_pin", "gpio.adc_cs", "gpio.adc_clk", "gpio.adc_dio"} {
		pin := pins[name]
		if pin < 0 {
			errs = append(errs, fmt.Errorf("%s %d is negative", name, pin))
			continue
		}
		if other, ok := seen[pin]; ok {
			errs = append(errs, fmt.Errorf("%s and %s share pin %d", other, name, pin))
		}
		seen[pin] = name
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}

	return errors.Join(errs...)
}

// UsesTLS reports whether certificates are configured.
func (m MQTTConfig) UsesTLS() bool {
	return m.RootCA != "" || m.ClientCert != ""
}

// BrokerURL returns the paho broker address, e.g. ssl://host:8883.
func (m MQTTConfig) BrokerURL() string {
	scheme := "tcp"
	if m.UsesTLS() {
		scheme = "ssl"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, m.Endpoint, m.Port)
}

// ClientOptions converts the section to bus client options.
func (m MQTTConfig) ClientOptions() mqtt.Options {
	return mqtt.Options{
		Broker:           m.BrokerURL(),
		ClientID:         m.ClientID,
		RootCA:           m.RootCA,
		ClientCert:       m.ClientCert,
		PrivateKey:       m.PrivateKey,
		ConnectTimeout:   m.ConnectTimeout,
		OperationTimeout: m.OperationTimeout,
	}
}
