package brain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/autopeer-io/rover/internal/rover/core"
	"github.com/autopeer-io/rover/internal/rover/recorder"
)

// fakeController logs every call as "<name> <value>" and answers pings from fixed readings
// unless a per-call sequence is queued.
type fakeController struct {
	calls     []string
	left      []int64
	right     []int64
	forward   []int64
	observers []core.Observer
	connected bool

	connectErr error
	failOn     string
}

func (c *fakeController) Connect(ctx context.Context) error {
	c.calls = append(c.calls, "connect")
	if c.connectErr != nil {
		return c.connectErr
	}
	c.connected = true
	return nil
}

func (c *fakeController) Disconnect(ctx context.Context) error {
	c.calls = append(c.calls, "disconnect")
	c.connected = false
	return nil
}

func (c *fakeController) move(name string, v int64) error {
	call := fmt.Sprintf("%s %d", name, v)
	c.calls = append(c.calls, call)
	if c.failOn == name {
		return errors.New("motor fault")
	}
	return nil
}

func (c *fakeController) Forward(ctx context.Context, cm int64) error { return c.move("forward", cm) }
func (c *fakeController) Back(ctx context.Context, cm int64) error    { return c.move("back", cm) }
func (c *fakeController) Left(ctx context.Context, deg int64) error   { return c.move("left", deg) }
func (c *fakeController) Right(ctx context.Context, deg int64) error  { return c.move("right", deg) }
func (c *fakeController) Stop(ctx context.Context, ms int64) error    { return c.move("stop", ms) }

func (c *fakeController) pop(name string, q *[]int64) (int64, error) {
	c.calls = append(c.calls, name)
	if c.failOn == name {
		return 0, errors.New("sensor fault")
	}
	if len(*q) == 0 {
		return 0, fmt.Errorf("no reading queued for %s", name)
	}
	v := (*q)[0]
	if len(*q) > 1 {
		*q = (*q)[1:]
	}
	return v, nil
}

func (c *fakeController) PingLeft(ctx context.Context) (int64, error) {
	return c.pop("ping.left", &c.left)
}

func (c *fakeController) PingRight(ctx context.Context) (int64, error) {
	return c.pop("ping.right", &c.right)
}

func (c *fakeController) PingForward(ctx context.Context) (int64, error) {
	return c.pop("ping.forward", &c.forward)
}

func (c *fakeController) AddObserver(o core.Observer) { c.observers = append(c.observers, o) }
func (c *fakeController) DeleteObservers()            { c.observers = nil }

// moves returns the motion calls only, dropping pings and lifecycle calls.
func (c *fakeController) moves() []string {
	var out []string
	for _, call := range c.calls {
		switch call {
		case "connect", "disconnect", "ping.left", "ping.right", "ping.forward":
			continue
		}
		out = append(out, call)
	}
	return out
}

// fakeRecorder keeps movements in memory.
type fakeRecorder struct {
	moves []recorder.Movement
	err   error
}

func (r *fakeRecorder) RecordAction(action recorder.Action, speed int) error {
	if r.err != nil {
		return r.err
	}
	r.moves = append(r.moves, recorder.Movement{Action: action, Speed: speed})
	return nil
}

func (r *fakeRecorder) RecordDuration(ms int64) error {
	if len(r.moves) == 0 {
		return recorder.ErrEmptyRecording
	}
	r.moves[len(r.moves)-1].Duration = ms
	return nil
}

func (r *fakeRecorder) Recording() []recorder.Movement {
	return append([]recorder.Movement(nil), r.moves...)
}

func (r *fakeRecorder) Home() []recorder.Movement {
	return []recorder.Movement{
		{Action: recorder.Backward, Speed: recorder.DefaultSpeed, Duration: 1},
		{Action: recorder.Left, Speed: recorder.DefaultSpeed, Duration: 2},
	}
}

type fakeListener struct {
	name       string
	connectErr error
	events     *[]string
}

func (l *fakeListener) Name() string { return l.name }

func (l *fakeListener) Connect(ctx context.Context) (core.Observer, error) {
	*l.events = append(*l.events, "connect "+l.name)
	if l.connectErr != nil {
		return nil, l.connectErr
	}
	return core.ObserverFunc(func(core.Event) {}), nil
}

func (l *fakeListener) Disconnect(ctx context.Context) error {
	*l.events = append(*l.events, "disconnect "+l.name)
	return nil
}

func assertCalls(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d calls %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %q, want %q (all: %v)", i, got[i], want[i], got)
		}
	}
}
