package brain

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/autopeer-io/rover/internal/pkg/metrics"
	"github.com/autopeer-io/rover/internal/rover/recorder"
	"github.com/autopeer-io/rover/pkg/log"
)

// Direction steers the patrol decisions.
type Direction int

const (
	DirectionLeft Direction = iota
	DirectionRight
	DirectionForward
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "LEFT"
	case DirectionRight:
		return "RIGHT"
	case DirectionForward:
		return "FORWARD"
	}
	return "UNKNOWN"
}

// ParseDirection is the case-insensitive inverse of String.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LEFT":
		return DirectionLeft, nil
	case "RIGHT":
		return DirectionRight, nil
	case "FORWARD":
		return DirectionForward, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Forward records FORWARD and moves forward cm centimetres.
func (b *Brain) Forward(ctx context.Context, cm int64) error {
	log.Debug("Brain.forward", "cm", cm)
	if err := b.record(recorder.Forward); err != nil {
		return err
	}
	return b.controller.Forward(ctx, cm)
}

// Backward records BACKWARD and moves back cm centimetres.
func (b *Brain) Backward(ctx context.Context, cm int64) error {
	log.Debug("Brain.backward", "cm", cm)
	if err := b.record(recorder.Backward); err != nil {
		return err
	}
	return b.controller.Back(ctx, cm)
}

// Left records LEFT and turns left by deg degrees.
func (b *Brain) Left(ctx context.Context, deg int64) error {
	log.Debug("Brain.left", "degrees", deg)
	if err := b.record(recorder.Left); err != nil {
		return err
	}
	return b.controller.Left(ctx, deg)
}

// Right records RIGHT and turns right by deg degrees.
func (b *Brain) Right(ctx context.Context, deg int64) error {
	log.Debug("Brain.right", "degrees", deg)
	if err := b.record(recorder.Right); err != nil {
		return err
	}
	return b.controller.Right(ctx, deg)
}

// Stay records STAY and stops the motors.
func (b *Brain) Stay(ctx context.Context) error {
	log.Debug("Brain.stay")
	if err := b.record(recorder.Stay); err != nil {
		return err
	}
	return b.controller.Stop(ctx, 0)
}

// MaxHoldMillis is the longest hold a time.Duration can express.
const MaxHoldMillis = math.MaxInt64 / int64(time.Millisecond)

// Hold blocks for ms milliseconds. When recording, the duration is then written to the last
// recorded movement. A hold cut short by ctx returns ctx.Err() and patches nothing.
func (b *Brain) Hold(ctx context.Context, ms int64) error {
	log.Debug("Brain.hold", "ms", ms)
	if ms < 0 {
		return fmt.Errorf("hold duration must not be negative, got %d", ms)
	}
	if ms > MaxHoldMillis {
		return fmt.Errorf("hold duration must not exceed %d ms, got %d", MaxHoldMillis, ms)
	}

	timer := b.clock.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-timer.C():
	case <-ctx.Done():
		log.Error(ctx.Err(), "Hold interrupted", "ms", ms)
		return ctx.Err()
	}
	metrics.HoldSeconds.Observe(float64(ms) / 1000)

	if !b.Recording() {
		return nil
	}
	if err := b.recorder.RecordDuration(ms); err != nil {
		return fmt.Errorf("failed to record hold duration: %w", err)
	}
	return nil
}

// DoFor is Hold under the name that reads better after a movement.
func (b *Brain) DoFor(ctx context.Context, ms int64) error {
	return b.Hold(ctx, ms)
}

// turn rotates toward dir. FORWARD needs no rotation.
// turn turns left for DirectionLeft and right for anything else.
func (b *Brain) turn(ctx context.Context, dir Direction, deg int64) error {
	if dir == DirectionLeft {
		return b.Left(ctx, deg)
	}
	return b.Right(ctx, deg)
}

func (b *Brain) record(action recorder.Action) error {
	if !b.Recording() {
		return nil
	}
	if err := b.recorder.RecordAction(action, b.speed); err != nil {
		return fmt.Errorf("failed to record %s: %w", action, err)
	}
	return nil
}
