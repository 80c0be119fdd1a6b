package brain

import (
	"context"
	"fmt"

	"github.com/autopeer-io/rover/internal/rover/recorder"
	"github.com/autopeer-io/rover/pkg/log"
)

// ProcessRecordedMovements executes moves in order with recording switched off, holding each
// for its recorded duration. Recording is switched back on however the replay ends. The
// first failing step aborts the replay.
//
// Every step is replayed with a magnitude of 0: a movement only records how long it lasted.
func (b *Brain) ProcessRecordedMovements(ctx context.Context, moves []recorder.Movement) (err error) {
	if err := b.state.Event(ctx, EventReplay); err != nil {
		return fmt.Errorf("failed to start replay: %w", err)
	}
	defer func() {
		if rerr := b.state.Event(context.Background(), EventResume); rerr != nil {
			log.Error(rerr, "Failed to resume recording after replay")
			if err == nil {
				err = rerr
			}
		}
	}()

	log.Info("Replay started", "movements", len(moves))
	for i, m := range moves {
		if err := b.replayStep(ctx, m); err != nil {
			return fmt.Errorf("replay step %d %s: %w", i, m.Entry(), err)
		}
		log.Debug("Replayed", "movement", m.String())
	}
	log.Info("Replay finished", "movements", len(moves))
	return nil
}

func (b *Brain) replayStep(ctx context.Context, m recorder.Movement) error {
	var err error
	switch m.Action {
	case recorder.Forward:
		err = b.Forward(ctx, 0)
	case recorder.Backward:
		err = b.Backward(ctx, 0)
	case recorder.Right:
		err = b.Right(ctx, 0)
	case recorder.Left:
		err = b.Left(ctx, 0)
	case recorder.Stay:
		err = b.Stay(ctx)
	default:
		log.Debug("No ground primitive, holding only", "action", m.Action)
	}
	if err != nil {
		return err
	}
	return b.Hold(ctx, m.Duration)
}

// GoHome replays the movements that bring the vehicle back to where recording started.
func (b *Brain) GoHome(ctx context.Context) error {
	return b.ProcessRecordedMovements(ctx, b.recorder.Home())
}

// Replay replays everything recorded so far.
func (b *Brain) Replay(ctx context.Context) error {
	return b.ProcessRecordedMovements(ctx, b.recorder.Recording())
}
