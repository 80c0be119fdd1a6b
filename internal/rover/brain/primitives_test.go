package brain

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	testingclock "k8s.io/utils/clock/testing"

	"github.com/autopeer-io/rover/internal/rover/recorder"
)

func TestPrimitivesRecordThenMove(t *testing.T) {
	ctrl := &fakeController{}
	rec := &fakeRecorder{}
	b := New(ctrl, rec, WithSpeed(35))
	ctx := context.Background()

	steps := []func() error{
		func() error { return b.Forward(ctx, 10) },
		func() error { return b.Backward(ctx, 20) },
		func() error { return b.Left(ctx, 90) },
		func() error { return b.Right(ctx, 45) },
		func() error { return b.Stay(ctx) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			t.Fatal(err)
		}
	}

	assertCalls(t, ctrl.moves(), []string{"forward 10", "back 20", "left 90", "right 45", "stop 0"})

	wantActions := []recorder.Action{recorder.Forward, recorder.Backward, recorder.Left, recorder.Right, recorder.Stay}
	if len(rec.moves) != len(wantActions) {
		t.Fatalf("recorded %d movements, want %d", len(rec.moves), len(wantActions))
	}
	for i, a := range wantActions {
		if rec.moves[i].Action != a || rec.moves[i].Speed != 35 || rec.moves[i].Duration != 0 {
			t.Errorf("movement %d = %+v, want %s at 35", i, rec.moves[i], a)
		}
	}
}

func TestPrimitiveRecordFailureSkipsMove(t *testing.T) {
	ctrl := &fakeController{}
	b := New(ctrl, &fakeRecorder{err: recorder.ErrRecorderClosed})

	err := b.Forward(context.Background(), 10)
	if !errors.Is(err, recorder.ErrRecorderClosed) {
		t.Fatalf("Forward() error = %v, want ErrRecorderClosed", err)
	}
	if len(ctrl.calls) != 0 {
		t.Errorf("controller was called: %v", ctrl.calls)
	}
}

func TestHoldPatchesLastMovement(t *testing.T) {
	rec := &fakeRecorder{}
	b := New(&fakeController{}, rec)
	ctx := context.Background()

	_ = b.Forward(ctx, 10)
	_ = b.Right(ctx, 90)
	if err := b.Hold(ctx, 5); err != nil {
		t.Fatal(err)
	}
	if rec.moves[0].Duration != 0 || rec.moves[1].Duration != 5 {
		t.Fatalf("durations = %d, %d; want 0, 5", rec.moves[0].Duration, rec.moves[1].Duration)
	}

	if err := b.DoFor(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if rec.moves[1].Duration != 7 {
		t.Errorf("DoFor(7) left duration %d", rec.moves[1].Duration)
	}
	if len(rec.moves) != 2 {
		t.Errorf("holds changed the recording length to %d", len(rec.moves))
	}
}

func TestHoldInterrupted(t *testing.T) {
	rec := &fakeRecorder{}
	b := New(&fakeController{}, rec)

	_ = b.Forward(context.Background(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Hold(ctx, 60_000); !errors.Is(err, context.Canceled) {
		t.Fatalf("Hold() error = %v, want context.Canceled", err)
	}
	if rec.moves[0].Duration != 0 {
		t.Errorf("interrupted hold patched duration to %d", rec.moves[0].Duration)
	}
}

func TestHoldWaitsOnClock(t *testing.T) {
	fc := testingclock.NewFakeClock(time.Now())
	rec := &fakeRecorder{}
	b := New(&fakeController{}, rec, WithClock(fc))

	_ = b.Forward(context.Background(), 10)

	done := make(chan error, 1)
	go func() { done <- b.Hold(context.Background(), 90_000) }()

	deadline := time.Now().Add(5 * time.Second)
	for !fc.HasWaiters() {
		if time.Now().After(deadline) {
			t.Fatal("Hold never started waiting")
		}
		time.Sleep(time.Millisecond)
	}

	fc.Step(89 * time.Second)
	select {
	case err := <-done:
		t.Fatalf("Hold returned early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	fc.Step(time.Second)
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Hold did not return after the clock advanced")
	}
	if rec.moves[0].Duration != 90_000 {
		t.Errorf("duration = %d, want 90000", rec.moves[0].Duration)
	}
}

func TestHoldPreconditions(t *testing.T) {
	b := New(&fakeController{}, &fakeRecorder{})

	if err := b.Hold(context.Background(), 1); !errors.Is(err, recorder.ErrEmptyRecording) {
		t.Errorf("Hold() on empty recording error = %v, want ErrEmptyRecording", err)
	}
	if err := b.Hold(context.Background(), -1); err == nil {
		t.Error("Hold(-1) expected an error")
	}
}

func TestHoldRejectsOverflow(t *testing.T) {
	rec := &fakeRecorder{}
	b := New(&fakeController{}, rec)
	_ = b.Forward(context.Background(), 10)

	for _, ms := range []int64{MaxHoldMillis + 1, math.MaxInt64} {
		if err := b.Hold(context.Background(), ms); err == nil {
			t.Errorf("Hold(%d) expected an error", ms)
		}
	}
	if rec.moves[0].Duration != 0 {
		t.Errorf("rejected hold recorded duration %d", rec.moves[0].Duration)
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range []Direction{DirectionLeft, DirectionRight, DirectionForward} {
		got, err := ParseDirection(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDirection(%q) = %v, %v", d, got, err)
		}
	}
	if _, err := ParseDirection("up"); err == nil {
		t.Error("ParseDirection(up) expected an error")
	}
}
