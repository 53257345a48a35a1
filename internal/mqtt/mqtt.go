// Package mqtt provides the message bus client with abstraction for testing.
package mqtt

// Default topics of the reference deployment.
const (
	DefaultTelemetryTopic = "champlain/sensors"
	DefaultCommandTopic   = "champlain/republish"
)

// QoS levels.
const (
	QoSAtMostOnce  byte = 0
	QoSAtLeastOnce byte = 1
	QoSExactlyOnce byte = 2
)

// MessageHandler is called for each message received on a subscribed topic.
// Implementations must be safe for concurrent use.
type MessageHandler func(topic string, payload []byte)

// Publisher publishes payloads to the broker.
type Publisher interface {
	// Publish sends payload to topic. Returns error if publishing fails
	// (should not crash the process).
	Publish(topic string, qos byte, payload []byte) error
}

// Subscriber registers handlers for inbound messages.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler MessageHandler) error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Client is the full bus client used by the agent.
type Client interface {
	Publisher
	Subscriber
	ConnectionStatus

	// Close disconnects from the broker.
	Close() error
}
