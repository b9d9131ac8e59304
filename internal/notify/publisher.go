// Package notify pushes digests of due maintenance to an MQTT broker.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

const connectTimeout = 10 * time.Second

// ErrNotConnected is returned when publishing on a closed connection.
var ErrNotConnected = errors.New("mqtt client not connected")

// Publisher delivers a payload to subscribers.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
	Close()
}

// NopPublisher drops every payload. The server uses it when no broker is
// configured, so a digest can still be built on demand.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, []byte) error { return nil }
func (NopPublisher) Close()                                {}

// MQTTPublisher publishes to one topic.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
	qos    byte
}

// NewMQTTPublisher connects to broker and returns a publisher for topic.
func NewMQTTPublisher(broker, clientID, topic string, logger log.FieldLogger) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.WithError(err).Warn("MQTT connection lost")
	})
	opts.SetOnConnectHandler(func(mqtt.Client) {
		logger.WithField("broker", broker).Info("MQTT connected")
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s: timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", broker, err)
	}
	return NewMQTTPublisherWithClient(client, topic, 1), nil
}

// NewMQTTPublisherWithClient wraps an existing client.
func NewMQTTPublisherWithClient(client mqtt.Client, topic string, qos byte) *MQTTPublisher {
	return &MQTTPublisher{client: client, topic: topic, qos: qos}
}

// Publish sends payload and waits for the broker or ctx.
func (p *MQTTPublisher) Publish(ctx context.Context, payload []byte) error {
	if !p.client.IsConnectionOpen() {
		return ErrNotConnected
	}
	token := p.client.Publish(p.topic, p.qos, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects, allowing in-flight messages a short grace period.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
