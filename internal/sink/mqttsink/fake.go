package mqttsink

import (
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// FakeMessage records one published message.
type FakeMessage struct {
	Topic   string
	Payload []byte
}

// FakeClient is an in-memory client for tests. It records every publish
// and can be told to fail.
type FakeClient struct {
	mu        sync.Mutex
	Messages  []FakeMessage
	FailAfter int // fail publishes after this many succeeded; -1 = never
	connected bool
	err       error
}

// NewFakeClient creates a connected fake that never fails.
func NewFakeClient() *FakeClient {
	return &FakeClient{FailAfter: -1, connected: true}
}

// NewPublisherWithClient builds a Publisher around any client; used by tests.
func NewPublisherWithClient(c client) *Publisher {
	return &Publisher{client: c, qos: defaultQoS}
}

func (f *FakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailAfter >= 0 && len(f.Messages) >= f.FailAfter {
		return &fakeToken{err: errPublishFailed}
	}

	f.Messages = append(f.Messages, FakeMessage{Topic: topic, Payload: append([]byte(nil), payload.([]byte)...)})
	return &fakeToken{}
}

func (f *FakeClient) Disconnect(quiesce uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
}

func (f *FakeClient) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

var errPublishFailed = errFake("publish failed")

type errFake string

func (e errFake) Error() string { return string(e) }

// fakeToken is an already-completed mqtt.Token.
type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                       { return true }
func (t *fakeToken) WaitTimeout(_ time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }
