// Package listener forwards controller events to MQTT brokers.
package listener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/autopeer-io/rover/internal/pkg/metrics"
	"github.com/autopeer-io/rover/internal/pkg/mqtt/paths"
	"github.com/autopeer-io/rover/internal/rover/brain"
	"github.com/autopeer-io/rover/internal/rover/core"
	"github.com/autopeer-io/rover/pkg/log"
	"github.com/autopeer-io/rover/pkg/mqtt"
	"github.com/autopeer-io/rover/pkg/mqtt/topic"
)

const (
	payloadOnline  = "online"
	payloadOffline = "offline"
)

// Config describes one listener endpoint.
type Config struct {
	// Client is the connection to the endpoint broker. Its will is set by the listener.
	Client mqtt.ClientConfig
	// TopicRoot namespaces every topic the listener publishes.
	TopicRoot string
	// QoS of the event messages.
	QoS int
	// OutboxSize bounds the events waiting to be published.
	OutboxSize int
}

// Listener publishes every controller event to <root>/controller/<event> on its broker.
type Listener struct {
	cfg    Config
	topics *topic.Builder

	// newClient is swapped in tests.
	newClient func(cfg *mqtt.ClientConfig) (mqtt.Client, error)

	client mqtt.Client
	outbox *mqtt.Outbox
}

var _ brain.Listener = (*Listener)(nil)

// New returns a disconnected listener.
func New(cfg Config) *Listener {
	return &Listener{
		cfg:       cfg,
		topics:    topic.NewBuilder(cfg.TopicRoot),
		newClient: mqtt.NewClient,
	}
}

// Name is the broker URL.
func (l *Listener) Name() string {
	return l.cfg.Client.BrokerURL
}

// Connect starts the MQTT client and waits, bounded by the connect timeout, for the broker
// to accept it. The returned observer never blocks the controller.
func (l *Listener) Connect(ctx context.Context) (core.Observer, error) {
	if l.client != nil {
		return nil, errors.New("listener already connected")
	}

	cfg := l.cfg.Client
	cfg.WillTopic = l.topics.Build(paths.Status)
	cfg.WillPayload = []byte(payloadOffline)
	cfg.WillQoS = 1
	cfg.WillRetain = true

	client, err := l.newClient(&cfg)
	if err != nil {
		return nil, err
	}
	// The connection outlives ctx so Disconnect can still flush the offline status.
	if err := client.Start(context.WithoutCancel(ctx)); err != nil {
		return nil, fmt.Errorf("failed to start mqtt client: %w", err)
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	awaitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.AwaitConnection(awaitCtx); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("broker %s did not accept the connection: %w", l.Name(), err)
	}

	if err := client.Publish(ctx, cfg.WillTopic, 1, true, []byte(payloadOnline)); err != nil {
		log.Warn("Failed to publish listener presence", "broker", l.Name(), "error", err)
	}

	outbox := mqtt.NewOutbox(client, mqtt.OutboxOptions{
		Size: l.cfg.OutboxSize,
		OnError: func(msg mqtt.Message, err error) {
			metrics.PublishFailures.WithLabelValues("listener").Inc()
			log.Warn("Failed to publish controller event", "topic", msg.Topic, "error", err)
		},
	})
	l.client, l.outbox = client, outbox

	log.Info("Listener connected", "broker", l.Name(), "root", l.topics.Root())
	// Events that arrive after Disconnect hit a closed outbox and are dropped.
	return core.ObserverFunc(func(e core.Event) { l.observe(outbox, e) }), nil
}

// Disconnect marks the listener offline, drains pending events and closes the connection.
func (l *Listener) Disconnect(ctx context.Context) error {
	if l.client == nil {
		return nil
	}

	if err := l.outbox.Enqueue(mqtt.Message{
		Topic:   l.topics.Build(paths.Status),
		QoS:     1,
		Retain:  true,
		Payload: []byte(payloadOffline),
	}); err != nil {
		log.Warn("Failed to queue listener offline status", "broker", l.Name(), "error", err)
	}
	l.outbox.Close(ctx)

	l.client, l.outbox = nil, nil
	log.Info("Listener disconnected", "broker", l.Name())
	return nil
}

func (l *Listener) observe(outbox *mqtt.Outbox, e core.Event) {
	payload, err := EncodeEvent(e)
	if err != nil {
		log.Error(err, "Failed to encode controller event", "event", e.Type)
		return
	}

	msg := mqtt.Message{
		Topic:   l.topics.Build(paths.Controller, string(e.Type)),
		QoS:     l.cfg.QoS,
		Payload: payload,
	}
	if err := outbox.Enqueue(msg); err != nil {
		metrics.PublishFailures.WithLabelValues("listener").Inc()
		log.Warn("Dropped controller event", "topic", msg.Topic, "error", err)
	}
}
