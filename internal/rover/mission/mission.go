// Package mission parses and runs scripted sequences of brain commands.
//
// A mission file is YAML:
//
//	name: lobby
//	steps:
//	  - command: patrol-perimeter
//	  - command: box
//	    arg: 120
//	    dir: left
//	  - command: home
package mission

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/autopeer-io/rover/internal/rover/brain"
)

// ErrUnknownCommand is returned for a step whose command is not one of the Command constants.
var ErrUnknownCommand = errors.New("unknown command")

// Command names a brain operation.
type Command string

const (
	CommandPatrol          Command = "patrol"
	CommandPatrolPerimeter Command = "patrol-perimeter"
	CommandPatrolBlanket   Command = "patrol-blanket"
	CommandBox             Command = "box"
	CommandHome            Command = "home"
	CommandReplay          Command = "replay"
	CommandForward         Command = "forward"
	CommandBackward        Command = "backward"
	CommandLeft            Command = "left"
	CommandRight           Command = "right"
	CommandStay            Command = "stay"
	CommandHold            Command = "hold"
)

// Step is one command with its argument: cm for moves and box, degrees for turns, ms for hold.
// Dir is only used by box.
type Step struct {
	Command Command `yaml:"command" json:"command"`
	Arg     int64   `yaml:"arg,omitempty" json:"arg,omitempty"`
	Dir     string  `yaml:"dir,omitempty" json:"dir,omitempty"`
}

// Mission is a named list of steps.
type Mission struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Brain is what a step runs against. *brain.Brain satisfies it.
type Brain interface {
	Patrol(ctx context.Context) error
	PatrolPerimeter(ctx context.Context) error
	PatrolBlanket(ctx context.Context) error
	DoBox(ctx context.Context, dir brain.Direction, cm int64) error
	GoHome(ctx context.Context) error
	Replay(ctx context.Context) error
	Forward(ctx context.Context, cm int64) error
	Backward(ctx context.Context, cm int64) error
	Left(ctx context.Context, deg int64) error
	Right(ctx context.Context, deg int64) error
	Stay(ctx context.Context) error
	Hold(ctx context.Context, ms int64) error
}

func (s Step) String() string {
	switch {
	case s.Dir != "":
		return fmt.Sprintf("%s %d %s", s.Command, s.Arg, s.Dir)
	case s.Arg != 0:
		return fmt.Sprintf("%s %d", s.Command, s.Arg)
	}
	return string(s.Command)
}

// Validate checks the command and its arguments.
func (s Step) Validate() error {
	switch s.Command {
	case CommandPatrol, CommandPatrolPerimeter, CommandPatrolBlanket, CommandHome, CommandReplay, CommandStay:
		return nil
	case CommandForward, CommandBackward, CommandLeft, CommandRight:
		if s.Arg < 0 {
			return fmt.Errorf("%s: arg must not be negative, got %d", s.Command, s.Arg)
		}
		return nil
	case CommandHold:
		if s.Arg < 0 || s.Arg > brain.MaxHoldMillis {
			return fmt.Errorf("hold: arg must be between 0 and %d ms, got %d", brain.MaxHoldMillis, s.Arg)
		}
		return nil
	case CommandBox:
		if s.Arg <= 0 {
			return fmt.Errorf("box: arg must be positive, got %d", s.Arg)
		}
		dir, err := brain.ParseDirection(s.Dir)
		if err != nil {
			return fmt.Errorf("box: %w", err)
		}
		if dir == brain.DirectionForward {
			return errors.New("box: dir must be left or right")
		}
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownCommand, s.Command)
}

// Run executes the step on b.
func (s Step) Run(ctx context.Context, b Brain) error {
	if err := s.Validate(); err != nil {
		return err
	}

	switch s.Command {
	case CommandPatrol:
		return b.Patrol(ctx)
	case CommandPatrolPerimeter:
		return b.PatrolPerimeter(ctx)
	case CommandPatrolBlanket:
		return b.PatrolBlanket(ctx)
	case CommandBox:
		dir, _ := brain.ParseDirection(s.Dir)
		return b.DoBox(ctx, dir, s.Arg)
	case CommandHome:
		return b.GoHome(ctx)
	case CommandReplay:
		return b.Replay(ctx)
	case CommandForward:
		return b.Forward(ctx, s.Arg)
	case CommandBackward:
		return b.Backward(ctx, s.Arg)
	case CommandLeft:
		return b.Left(ctx, s.Arg)
	case CommandRight:
		return b.Right(ctx, s.Arg)
	case CommandStay:
		return b.Stay(ctx)
	case CommandHold:
		return b.Hold(ctx, s.Arg)
	}
	return fmt.Errorf("%w %q", ErrUnknownCommand, s.Command)
}

// Parse decodes a mission and validates every step. Unknown keys are rejected.
func Parse(data []byte) (*Mission, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Mission
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode mission: %w", err)
	}

	for i, s := range m.Steps {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}
	return &m, nil
}

// Load reads and parses a mission file.
func Load(path string) (*Mission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if m.Name == "" {
		m.Name = path
	}
	return m, nil
}
