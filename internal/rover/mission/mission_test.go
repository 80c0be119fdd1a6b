package mission

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/autopeer-io/rover/internal/rover/brain"
)

type fakeBrain struct {
	calls []string
}

func (b *fakeBrain) call(format string, args ...any) error {
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
	return nil
}

func (b *fakeBrain) Patrol(ctx context.Context) error          { return b.call("patrol") }
func (b *fakeBrain) PatrolPerimeter(ctx context.Context) error { return b.call("perimeter") }
func (b *fakeBrain) PatrolBlanket(ctx context.Context) error   { return b.call("blanket") }
func (b *fakeBrain) DoBox(ctx context.Context, dir brain.Direction, cm int64) error {
	return b.call("box %s %d", dir, cm)
}
func (b *fakeBrain) GoHome(ctx context.Context) error             { return b.call("home") }
func (b *fakeBrain) Replay(ctx context.Context) error             { return b.call("replay") }
func (b *fakeBrain) Forward(ctx context.Context, cm int64) error  { return b.call("forward %d", cm) }
func (b *fakeBrain) Backward(ctx context.Context, cm int64) error { return b.call("backward %d", cm) }
func (b *fakeBrain) Left(ctx context.Context, deg int64) error    { return b.call("left %d", deg) }
func (b *fakeBrain) Right(ctx context.Context, deg int64) error   { return b.call("right %d", deg) }
func (b *fakeBrain) Stay(ctx context.Context) error               { return b.call("stay") }
func (b *fakeBrain) Hold(ctx context.Context, ms int64) error     { return b.call("hold %d", ms) }

const lobby = `
name: lobby
steps:
  - command: patrol
  - command: patrol-perimeter
  - command: patrol-blanket
  - command: box
    arg: 120
    dir: left
  - command: forward
    arg: 30
  - command: hold
    arg: 500
  - command: backward
    arg: 10
  - command: left
    arg: 90
  - command: right
    arg: 45
  - command: stay
  - command: replay
  - command: home
`

func TestParseAndRun(t *testing.T) {
	m, err := Parse([]byte(lobby))
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "lobby" || len(m.Steps) != 12 {
		t.Fatalf("got %q with %d steps", m.Name, len(m.Steps))
	}

	b := &fakeBrain{}
	for _, s := range m.Steps {
		if err := s.Run(context.Background(), b); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
	}

	want := []string{
		"patrol", "perimeter", "blanket", "box LEFT 120", "forward 30", "hold 500",
		"backward 10", "left 90", "right 45", "stay", "replay", "home",
	}
	if len(b.calls) != len(want) {
		t.Fatalf("calls = %v", b.calls)
	}
	for i := range want {
		if b.calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, b.calls[i], want[i])
		}
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		unknown bool
	}{
		{"unknown command", "steps:\n  - command: fly\n", true},
		{"unknown key", "steps:\n  - command: patrol\n    speed: 3\n", false},
		{"negative move", "steps:\n  - command: forward\n    arg: -5\n", false},
		{"box without dir", "steps:\n  - command: box\n    arg: 10\n", false},
		{"box forward", "steps:\n  - command: box\n    arg: 10\n    dir: forward\n", false},
		{"box without size", "steps:\n  - command: box\n    dir: right\n", false},
		{"not yaml", "steps: [", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() expected an error")
			}
			if got := errors.Is(err, ErrUnknownCommand); got != tt.unknown {
				t.Errorf("errors.Is(err, ErrUnknownCommand) = %v, want %v (err: %v)", got, tt.unknown, err)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	m, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Steps) != 0 {
		t.Errorf("got %d steps", len(m.Steps))
	}
}

func TestValidateHoldBounds(t *testing.T) {
	tests := []struct {
		arg     int64
		wantErr bool
	}{
		{0, false},
		{brain.MaxHoldMillis, false},
		{brain.MaxHoldMillis + 1, true},
		{-1, true},
	}

	for _, tt := range tests {
		err := Step{Command: CommandHold, Arg: tt.arg}.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(hold %d) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
		}
	}
}

func TestRunValidates(t *testing.T) {
	b := &fakeBrain{}
	err := Step{Command: "jump"}.Run(context.Background(), b)
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Run() error = %v, want ErrUnknownCommand", err)
	}
	if len(b.calls) != 0 {
		t.Errorf("brain was called: %v", b.calls)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.yaml")
	if err := os.WriteFile(path, []byte("steps:\n  - command: box\n    arg: 50\n    dir: right\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != path || m.Steps[0].String() != "box 50 right" {
		t.Errorf("got %+v", m)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file expected an error")
	}
}
