package brain

import (
	"context"

	"github.com/looplab/fsm"

	fsmutil "github.com/autopeer-io/rover/internal/pkg/util/fsm"
	"github.com/autopeer-io/rover/pkg/log"
)

const (
	// StateRecording mirrors every primitive to the recorder.
	StateRecording = "recording"
	// StateReplaying executes primitives without recording them.
	StateReplaying = "replaying"

	// EventReplay starts a replay.
	EventReplay = "replay"
	// EventResume ends a replay.
	EventResume = "resume"
)

type stateMachine struct {
	*fsm.FSM
}

func newStateMachine() *stateMachine {
	m := &stateMachine{}

	events := fsm.Events{
		{Name: EventReplay, Src: []string{StateRecording}, Dst: StateReplaying},
		{Name: EventResume, Src: []string{StateReplaying}, Dst: StateRecording},
	}

	callbacks := fsm.Callbacks{
		// Guards
		"before_" + EventReplay: fsmutil.WrapEvent(m.guardReplay),

		// Side-Effects
		"enter_state": fsmutil.WrapEvent(m.actionEnterState),
	}

	m.FSM = fsm.NewFSM(StateRecording, events, callbacks)
	return m
}

// guardReplay refuses to start a replay on a context that is already done.
func (m *stateMachine) guardReplay(ctx context.Context, e *fsm.Event) error {
	return ctx.Err()
}

func (m *stateMachine) actionEnterState(ctx context.Context, e *fsm.Event) error {
	log.Debug("Recording state changed", "event", e.Event, "from", e.Src, "to", e.Dst)
	return nil
}
