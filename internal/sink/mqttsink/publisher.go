// Package mqttsink publishes aggregated runs to an MQTT broker, one message
// per window row followed by a completion sentinel.
package mqttsink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/plantops/greenhouse-data-sim/internal/plant"
)

const (
	defaultQoS     = 1
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// client is the subset of the paho API the publisher uses; paho's
// mqtt.Client satisfies it and tests inject a fake.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
	IsConnected() bool
}

// Publisher implements plant.Sink over MQTT.
type Publisher struct {
	client client
	qos    byte
}

// Connect dials the broker and returns a ready Publisher.
func Connect(brokerURL, clientID string) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetConnectTimeout(connectTimeout).
		SetAutoReconnect(true)

	c := mqtt.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, errors.New("mqtt connect timed out")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}

	return &Publisher{client: c, qos: defaultQoS}, nil
}

func (p *Publisher) Name() string {
	return "mqtt"
}

// Topic returns the stats topic for a plant.
func Topic(plantID string) string {
	return "greenhouse/" + plantID + "/stats"
}

// PublishRun sends the run's row messages in index order, then the sentinel.
// Publishing stops at the first failure so the broker never sees a gap in
// the middle of a sequence.
func (p *Publisher) PublishRun(ctx context.Context, run plant.Run) error {
	topic := Topic(run.PlantID)

	for _, msg := range plant.Messages(run.Table) {
		if err := p.publish(ctx, topic, msg); err != nil {
			return fmt.Errorf("row %d: %w", msg.Index, err)
		}
	}

	if err := p.publish(ctx, topic, plant.EndOfStream()); err != nil {
		return fmt.Errorf("sentinel: %w", err)
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, topic string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	token := p.client.Publish(topic, p.qos, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return errors.New("publish timed out")
	}
	return token.Error()
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
