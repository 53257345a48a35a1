package mqtt

import "sync"

// Message is a published message recorded by FakeClient.
type Message struct {
	Topic   string
	QoS     byte
	Payload []byte
}

// FakeClient records published messages and lets tests deliver inbound
// messages to subscribed handlers. Safe for concurrent use.
type FakeClient struct {
	mu sync.Mutex

	// Published contains all messages that were published.
	Published []Message

	// PublishError, if set, will be returned by Publish.
	PublishError error

	// SubscribeError, if set, will be returned by Subscribe.
	SubscribeError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool

	subs map[string]MessageHandler
	qos  map[string]byte
}

// NewFakeClient creates a connected FakeClient for testing.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		Connected: true,
		subs:      make(map[string]MessageHandler),
		qos:       make(map[string]byte),
	}
}

// Publish records the message.
func (f *FakeClient) Publish(topic string, qos byte, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	p := make([]byte, len(payload))
	copy(p, payload)
	f.Published = append(f.Published, Message{Topic: topic, QoS: qos, Payload: p})
	return nil
}

// Subscribe records the handler for topic.
func (f *FakeClient) Subscribe(topic string, qos byte, handler MessageHandler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SubscribeError != nil {
		return f.SubscribeError
	}
	f.subs[topic] = handler
	f.qos[topic] = qos
	return nil
}

// Deliver invokes the handler subscribed to topic on the calling goroutine.
// Returns false if nothing is subscribed.
func (f *FakeClient) Deliver(topic string, payload []byte) bool {
	f.mu.Lock()
	h, ok := f.subs[topic]
	f.mu.Unlock()
	if !ok {
		return false
	}
	h(topic, payload)
	return true
}

// SubscribedQoS returns the QoS of the subscription to topic.
func (f *FakeClient) SubscribedQoS(topic string) (byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.qos[topic]
	return q, ok
}

// Messages returns a copy of the published messages.
func (f *FakeClient) Messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Message, len(f.Published))
	copy(out, f.Published)
	return out
}

// Close marks the client as closed.
func (f *FakeClient) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.Connected = false
	f.mu.Unlock()
	return nil
}

// IsConnected reports whether the fake client is "connected".
func (f *FakeClient) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}

// Reset clears recorded messages and injected errors. Subscriptions are kept.
func (f *FakeClient) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Published = nil
	f.PublishError = nil
	f.SubscribeError = nil
	f.Closed = false
	f.Connected = true
}
