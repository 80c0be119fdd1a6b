package core

import (
	"context"
	"time"
)

// EventType names a single controller call as seen by observers.
type EventType string

const (
	EventMoveForward EventType = "move.forward"
	EventMoveBack    EventType = "move.back"
	EventTurnLeft    EventType = "turn.left"
	EventTurnRight   EventType = "turn.right"
	EventStop        EventType = "stop"
	EventPingLeft    EventType = "ping.left"
	EventPingRight   EventType = "ping.right"
	EventPingForward EventType = "ping.forward"
)

// Event is emitted to every observer after the controller completes a call.
// Value carries the commanded magnitude (cm or degrees) or the ping reading in cm.
type Event struct {
	Type      EventType
	Value     int64
	Timestamp time.Time
}

// Observer receives controller events. Observe must not block.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) {
	f(e)
}

// Controller is the physical motion controller.
// Every call blocks until the hardware accepted the command.
type Controller interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error

	// Forward and Back move by cm centimetres.
	Forward(ctx context.Context, cm int64) error
	Back(ctx context.Context, cm int64) error
	// Left and Right rotate in place by deg degrees.
	Left(ctx context.Context, deg int64) error
	Right(ctx context.Context, deg int64) error
	// Stop halts the motors; ms is the time the controller should stay halted.
	Stop(ctx context.Context, ms int64) error

	// Ping* return the distance in cm to the nearest obstacle on that side.
	PingLeft(ctx context.Context) (int64, error)
	PingRight(ctx context.Context) (int64, error)
	PingForward(ctx context.Context) (int64, error)

	AddObserver(o Observer)
	DeleteObservers()
}
