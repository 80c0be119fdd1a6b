// Package brain turns distance readings into movement commands.
//
// A Brain wraps a core.Controller with movement primitives that are mirrored to the flight
// recorder, composes them into patrol scripts, and replays recordings with recording
// switched off. A Brain is driven from a single goroutine.
package brain

import (
	"context"
	"fmt"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/utils/clock"

	"github.com/autopeer-io/rover/internal/rover/core"
	"github.com/autopeer-io/rover/internal/rover/recorder"
	"github.com/autopeer-io/rover/pkg/log"
)

// Recorder is the part of the flight recorder the brain writes to.
// *recorder.Recorder satisfies it.
type Recorder interface {
	RecordAction(action recorder.Action, speed int) error
	RecordDuration(ms int64) error
	Recording() []recorder.Movement
	Home() []recorder.Movement
}

// Listener forwards controller events somewhere else, typically an MQTT broker.
type Listener interface {
	Name() string
	// Connect returns the observer to register on the controller.
	Connect(ctx context.Context) (core.Observer, error)
	Disconnect(ctx context.Context) error
}

// Option configures a Brain.
type Option func(*Brain)

// WithListeners sets the listeners connected, in order, by Connect.
func WithListeners(listeners ...Listener) Option {
	return func(b *Brain) {
		b.listeners = append(b.listeners, listeners...)
	}
}

// WithSpeed sets the speed recorded with every movement.
func WithSpeed(speed int) Option {
	return func(b *Brain) {
		if speed > 0 {
			b.speed = speed
		}
	}
}

// WithClock replaces the clock holds wait on.
func WithClock(c clock.Clock) Option {
	return func(b *Brain) {
		b.clock = c
	}
}

// Brain issues movement decisions to a controller and mirrors them to the flight recorder
// while recording is enabled.
type Brain struct {
	controller core.Controller
	recorder   Recorder
	listeners  []Listener
	speed      int
	clock      clock.Clock
	state      *stateMachine
}

// New returns a brain with recording enabled.
func New(controller core.Controller, rec Recorder, opts ...Option) *Brain {
	b := &Brain{
		controller: controller,
		recorder:   rec,
		speed:      recorder.DefaultSpeed,
		clock:      clock.RealClock{},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.state = newStateMachine()
	return b
}

// Recording reports whether primitives are currently mirrored to the recorder.
func (b *Brain) Recording() bool {
	return b.state.Current() == StateRecording
}

// Speed is the speed recorded with every movement.
func (b *Brain) Speed() int {
	return b.speed
}

// Connect connects the controller and then every listener in order, registering each
// listener's observer on the controller. On failure everything connected so far is torn
// down again and the error is returned.
func (b *Brain) Connect(ctx context.Context) error {
	if err := b.controller.Connect(ctx); err != nil {
		log.Error(err, "Failed to connect controller")
		return fmt.Errorf("failed to connect controller: %w", err)
	}

	for i, l := range b.listeners {
		observer, err := l.Connect(ctx)
		if err != nil {
			log.Error(err, "Failed to connect listener, rolling back", "listener", l.Name())
			if rerr := b.teardown(ctx, b.listeners[:i]); rerr != nil {
				log.Error(rerr, "Rollback after failed connect was incomplete")
			}
			return fmt.Errorf("failed to connect listener %s: %w", l.Name(), err)
		}
		b.controller.AddObserver(observer)
		log.Info("Listener connected", "listener", l.Name())
	}

	log.Info("Brain connected", "listeners", len(b.listeners))
	return nil
}

// Disconnect disconnects the listeners, drops their observers and then disconnects the
// controller.
func (b *Brain) Disconnect(ctx context.Context) error {
	err := b.teardown(ctx, b.listeners)
	log.Info("Brain disconnected")
	return err
}

func (b *Brain) teardown(ctx context.Context, listeners []Listener) error {
	var errs []error
	for _, l := range listeners {
		if err := l.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("listener %s: %w", l.Name(), err))
		}
	}
	b.controller.DeleteObservers()
	if err := b.controller.Disconnect(ctx); err != nil {
		errs = append(errs, fmt.Errorf("controller: %w", err))
	}
	return utilerrors.NewAggregate(errs)
}
