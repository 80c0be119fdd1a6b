package mqtt

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/autopeer-io/rover/pkg/log"
)

// ErrOutboxFull is returned by Enqueue when the buffer is saturated and the message was dropped.
var ErrOutboxFull = errors.New("mqtt outbox full")

// ErrOutboxClosed is returned by Enqueue after Close.
var ErrOutboxClosed = errors.New("mqtt outbox closed")

// Message is a single queued publication.
type Message struct {
	Topic   string
	QoS     int
	Retain  bool
	Payload []byte
}

// OutboxOptions tunes an Outbox.
type OutboxOptions struct {
	// Size is the number of messages buffered before Enqueue starts dropping.
	Size int
	// PublishTimeout bounds a single Publish call.
	PublishTimeout time.Duration
	// OnError is called, from the outbox goroutine, for every failed publish.
	OnError func(msg Message, err error)
}

// Outbox publishes messages in order on a single goroutine so that callers never block on
// the network. Messages that do not fit in the buffer are dropped.
type Outbox struct {
	pub  Publisher
	opts OutboxOptions

	mu     sync.RWMutex
	closed bool
	queue  chan Message
	done   chan struct{}
}

// NewOutbox starts the publishing goroutine for pub.
func NewOutbox(pub Publisher, opts OutboxOptions) *Outbox {
	if opts.Size <= 0 {
		opts.Size = 256
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = 2 * time.Second
	}

	o := &Outbox{
		pub:   pub,
		opts:  opts,
		queue: make(chan Message, opts.Size),
		done:  make(chan struct{}),
	}
	go o.loop()
	return o
}

// Enqueue hands msg to the publishing goroutine without blocking.
func (o *Outbox) Enqueue(msg Message) error {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		return ErrOutboxClosed
	}

	select {
	case o.queue <- msg:
		return nil
	default:
		return ErrOutboxFull
	}
}

// Close stops accepting messages, waits for the queue to drain (bounded by ctx) and then
// disconnects the publisher. Calling Close more than once is a no-op.
func (o *Outbox) Close(ctx context.Context) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	close(o.queue)
	o.mu.Unlock()

	select {
	case <-o.done:
	case <-ctx.Done():
		log.Warn("Outbox drain interrupted, pending messages discarded", "error", ctx.Err())
	}

	o.pub.Disconnect(ctx)
}

func (o *Outbox) loop() {
	defer close(o.done)

	for msg := range o.queue {
		ctx, cancel := context.WithTimeout(context.Background(), o.opts.PublishTimeout)
		err := o.pub.Publish(ctx, msg.Topic, msg.QoS, msg.Retain, msg.Payload)
		cancel()

		if err != nil && o.opts.OnError != nil {
			o.opts.OnError(msg, err)
		}
	}
}
