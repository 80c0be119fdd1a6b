package brain

import (
	"context"

	"github.com/autopeer-io/rover/internal/pkg/metrics"
	"github.com/autopeer-io/rover/pkg/log"
)

const (
	// perimeterStop is how close PatrolPerimeter drives to each wall, in cm.
	perimeterStop = 40
	// blanketStop is how close PatrolBlanket drives to each wall, in cm.
	blanketStop = 50

	rightAngle = 90
	aboutFace  = 180
)

// readings are the three distance probes in the order they are taken.
type readings struct {
	left, right, forward int64
}

func (b *Brain) ping(ctx context.Context) (readings, error) {
	var r readings
	var err error
	if r.left, err = b.controller.PingLeft(ctx); err != nil {
		return r, err
	}
	if r.right, err = b.controller.PingRight(ctx); err != nil {
		return r, err
	}
	if r.forward, err = b.controller.PingForward(ctx); err != nil {
		return r, err
	}
	return r, nil
}

// Patrol drives back and forth: four legs of 20 cm, each followed by an about-face toward the
// nearer side wall.
func (b *Brain) Patrol(ctx context.Context) error {
	metrics.PatrolRuns.WithLabelValues("patrol").Inc()

	start, err := b.ping(ctx)
	if err != nil {
		return err
	}
	log.Info("Patrol started", "left", start.left, "right", start.right, "forward", start.forward)

	for i := 0; i < 4; i++ {
		if err := b.Forward(ctx, 20); err != nil {
			return err
		}
		r, err := b.ping(ctx)
		if err != nil {
			return err
		}
		if err := b.turn(ctx, nearer(r), aboutFace); err != nil {
			return err
		}
	}
	return nil
}

// PatrolPerimeter follows the walls of the room around, turning toward the nearer side wall
// at each corner, and finishes at its starting offset from the first wall.
func (b *Brain) PatrolPerimeter(ctx context.Context) error {
	metrics.PatrolRuns.WithLabelValues("perimeter").Inc()

	r, err := b.ping(ctx)
	if err != nil {
		return err
	}

	turnDir := nearer(r)
	startDir := turnDir
	if r.forward < min(r.left, r.right) {
		startDir = DirectionForward
	}
	log.Info("Perimeter patrol started", "turn", turnDir, "start", startDir)

	if startDir != DirectionForward {
		if err := b.turn(ctx, turnDir, rightAngle); err != nil {
			return err
		}
	}

	leg := func(stop int64) (int64, error) {
		d, err := b.pingMove(ctx, stop)
		if err != nil {
			return 0, err
		}
		return d, b.turn(ctx, turnDir, rightAngle)
	}

	distFromWall, err := leg(perimeterStop)
	if err != nil {
		return err
	}
	distToCorner, err := leg(perimeterStop)
	if err != nil {
		return err
	}
	for i := 0; i < 3; i++ {
		if _, err := leg(perimeterStop); err != nil {
			return err
		}
	}
	if _, err := leg(distToCorner); err != nil {
		return err
	}
	// The last turn of this leg restores the initial bearing.
	if _, err := leg(distFromWall); err != nil {
		return err
	}

	if startDir == DirectionForward {
		return b.turn(ctx, turnDir, rightAngle)
	}
	return nil
}

// PatrolBlanket sweeps the room in five steps, always heading for the most open space and
// turning about when boxed in.
func (b *Brain) PatrolBlanket(ctx context.Context) error {
	metrics.PatrolRuns.WithLabelValues("blanket").Inc()

	for i := 0; i < 5; i++ {
		r, err := b.ping(ctx)
		if err != nil {
			return err
		}

		dir := farther(r)
		if max(r.forward, r.left, r.right) < blanketStop {
			log.Debug("Boxed in, turning about", "left", r.left, "right", r.right, "forward", r.forward)
			if err := b.turn(ctx, dir, aboutFace); err != nil {
				return err
			}
			continue
		}

		if r.forward > max(r.left, r.right) {
			dir = DirectionForward
		}
		if dir != DirectionForward {
			if err := b.turn(ctx, dir, rightAngle); err != nil {
				return err
			}
		}
		if _, err := b.pingMove(ctx, blanketStop); err != nil {
			return err
		}
	}
	return nil
}

// DoBox traces a square of side cm centred on the start position, turning toward dir at
// every corner, and returns to the start and original bearing. Any dir other than
// DirectionLeft turns right.
func (b *Brain) DoBox(ctx context.Context, dir Direction, cm int64) error {
	metrics.PatrolRuns.WithLabelValues("box").Inc()

	half := cm / 2
	legs := []int64{half, half, cm, cm, cm, half, half}
	for _, d := range legs {
		if err := b.Forward(ctx, d); err != nil {
			return err
		}
		if err := b.turn(ctx, dir, rightAngle); err != nil {
			return err
		}
	}
	// One more turn completes 720 degrees and restores the original bearing.
	return b.turn(ctx, dir, rightAngle)
}

// pingMove drives forward until stop cm from the obstacle ahead and returns the distance
// measured before moving.
func (b *Brain) pingMove(ctx context.Context, stop int64) (int64, error) {
	d, err := b.controller.PingForward(ctx)
	if err != nil {
		return 0, err
	}
	return d, b.Forward(ctx, max(0, d-stop))
}

// nearer picks the side with the strictly shorter reading; ties go RIGHT.
func nearer(r readings) Direction {
	if r.left < r.right {
		return DirectionLeft
	}
	return DirectionRight
}

// farther picks the side with the strictly longer reading; ties go RIGHT.
func farther(r readings) Direction {
	if r.left > r.right {
		return DirectionLeft
	}
	return DirectionRight
}
