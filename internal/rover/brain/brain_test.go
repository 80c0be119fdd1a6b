package brain

import (
	"context"
	"errors"
	"testing"
)

func TestConnectDisconnectOrder(t *testing.T) {
	ctrl := &fakeController{}
	b := New(ctrl, &fakeRecorder{}, WithListeners(
		&fakeListener{name: "local", events: &ctrl.calls},
		&fakeListener{name: "remote", events: &ctrl.calls},
	))
	ctx := context.Background()

	if err := b.Connect(ctx); err != nil {
		t.Fatal(err)
	}
	if len(ctrl.observers) != 2 {
		t.Errorf("observers = %d, want 2", len(ctrl.observers))
	}

	if err := b.Disconnect(ctx); err != nil {
		t.Fatal(err)
	}
	if len(ctrl.observers) != 0 {
		t.Errorf("observers = %d after Disconnect, want 0", len(ctrl.observers))
	}

	assertCalls(t, ctrl.calls, []string{
		"connect", "connect local", "connect remote",
		"disconnect local", "disconnect remote", "disconnect",
	})
}

func TestConnectListenerFailureRollsBack(t *testing.T) {
	ctrl := &fakeController{}
	fault := errors.New("broker unreachable")
	b := New(ctrl, &fakeRecorder{}, WithListeners(
		&fakeListener{name: "local", events: &ctrl.calls},
		&fakeListener{name: "remote", events: &ctrl.calls, connectErr: fault},
		&fakeListener{name: "never", events: &ctrl.calls},
	))

	err := b.Connect(context.Background())
	if !errors.Is(err, fault) {
		t.Fatalf("Connect() error = %v, want %v", err, fault)
	}
	if len(ctrl.observers) != 0 {
		t.Errorf("observers = %d after failed Connect, want 0", len(ctrl.observers))
	}
	if ctrl.connected {
		t.Error("controller left connected after failed Connect")
	}

	assertCalls(t, ctrl.calls, []string{
		"connect", "connect local", "connect remote", "disconnect local", "disconnect",
	})
}

func TestConnectControllerFailure(t *testing.T) {
	ctrl := &fakeController{connectErr: errors.New("no serial port")}
	b := New(ctrl, &fakeRecorder{}, WithListeners(&fakeListener{name: "local", events: &ctrl.calls}))

	if err := b.Connect(context.Background()); err == nil {
		t.Fatal("Connect() expected an error")
	}
	assertCalls(t, ctrl.calls, []string{"connect"})
}

func TestNewDefaults(t *testing.T) {
	b := New(&fakeController{}, &fakeRecorder{}, WithSpeed(0))

	if !b.Recording() {
		t.Error("new brain is not recording")
	}
	if b.Speed() != 20 {
		t.Errorf("Speed() = %d, want 20", b.Speed())
	}
}
