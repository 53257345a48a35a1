package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

// Options configures a RealClient.
type Options struct {
	Broker           string // e.g. ssl://xxxx-ats.iot.us-east-1.amazonaws.com:8883
	ClientID         string
	RootCA           string // PEM file; empty for plain TCP
	ClientCert       string // PEM file
	PrivateKey       string // PEM file
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
}

type subscription struct {
	qos     byte
	handler MessageHandler
}

// RealClient talks to an actual MQTT broker. Reconnection is paho's
// auto-reconnect; subscriptions are re-established on every connect.
type RealClient struct {
	client paho.Client
	opts   Options
	log    zerolog.Logger

	mu   sync.Mutex
	subs map[string]subscription
}

// NewRealClient creates a client and connects to the broker. A failed or
// timed-out initial connection is returned as an error.
func NewRealClient(opts Options, log zerolog.Logger) (*RealClient, error) {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	if opts.OperationTimeout <= 0 {
		opts.OperationTimeout = 5 * time.Second
	}

	c := &RealClient{
		opts: opts,
		log:  log,
		subs: make(map[string]subscription),
	}

	po, err := c.clientOptions()
	if err != nil {
		return nil, err
	}

	c.client = paho.NewClient(po)
	token := c.client.Connect()
	if !token.WaitTimeout(opts.ConnectTimeout) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return c, nil
}

// clientOptions builds the paho options. Messages are delivered to handlers
// one at a time in arrival order, so the latest command is applied last.
func (c *RealClient) clientOptions() (*paho.ClientOptions, error) {
	po := paho.NewClientOptions().
		AddBroker(c.opts.Broker).
		SetClientID(c.opts.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(false).
		SetConnectTimeout(c.opts.ConnectTimeout).
		SetWriteTimeout(c.opts.OperationTimeout).
		SetOnConnectHandler(c.onConnect).
		SetConnectionLostHandler(c.onConnectionLost)

	if c.opts.RootCA != "" || c.opts.ClientCert != "" {
		tlsCfg, err := TLSConfig(c.opts.RootCA, c.opts.ClientCert, c.opts.PrivateKey)
		if err != nil {
			return nil, err
		}
		po.SetTLSConfig(tlsCfg)
	}
	return po, nil
}

// TLSConfig builds the mutual-TLS configuration used by AWS IoT style brokers.
// rootCA may be empty to use the system pool; cert and key must be given together.
func TLSConfig(rootCA, certFile, keyFile string) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if rootCA != "" {
		pem, err := os.ReadFile(rootCA)
		if err != nil {
			return nil, fmt.Errorf("read root CA: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("root CA %s: no certificates found", rootCA)
		}
		cfg.RootCAs = pool
	}

	if (certFile == "") != (keyFile == "") {
		return nil, errors.New("client certificate and private key must be set together")
	}
	if certFile != "" {
		cert, err := tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}

// Publish sends payload to topic and waits for the broker up to the operation timeout.
func (c *RealClient) Publish(topic string, qos byte, payload []byte) error {
	token := c.client.Publish(topic, qos, false, payload)
	if !token.WaitTimeout(c.opts.OperationTimeout) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Subscribe registers handler for topic. The subscription is remembered and
// restored after reconnects.
func (c *RealClient) Subscribe(topic string, qos byte, handler MessageHandler) error {
	c.mu.Lock()
	c.subs[topic] = subscription{qos: qos, handler: handler}
	c.mu.Unlock()

	return c.subscribe(topic, qos, handler)
}

func (c *RealClient) subscribe(topic string, qos byte, handler MessageHandler) error {
	token := c.client.Subscribe(topic, qos, func(_ paho.Client, msg paho.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	if !token.WaitTimeout(c.opts.OperationTimeout) {
		return fmt.Errorf("subscribe %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return nil
}

func (c *RealClient) onConnect(_ paho.Client) {
	c.log.Info().Str("broker", c.opts.Broker).Msg("mqtt connected")

	c.mu.Lock()
	subs := make(map[string]subscription, len(c.subs))
	for k, v := range c.subs {
		subs[k] = v
	}
	c.mu.Unlock()

	// Runs on paho's connect goroutine; waiting here would stall the client.
	for topic, s := range subs {
		topic, s := topic, s
		go func() {
			if err := c.subscribe(topic, s.qos, s.handler); err != nil {
				c.log.Error().Err(err).Msg("mqtt resubscribe failed")
			}
		}()
	}
}

func (c *RealClient) onConnectionLost(_ paho.Client, err error) {
	c.log.Warn().Err(err).Msg("mqtt connection lost")
}

// IsConnected reports whether the client currently has a broker connection.
func (c *RealClient) IsConnected() bool {
	return c.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (c *RealClient) Close() error {
	c.client.Disconnect(1000) // 1 second timeout
	return nil
}
