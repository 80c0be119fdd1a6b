package recorder

import (
	"fmt"
	"strings"
)

// Action is a single commanded motion.
//
// The set is shared with the aerial variants of the vehicle: the ground brain only emits
// FORWARD, BACKWARD, LEFT, RIGHT and STAY. UP, DOWN, TAKEOFF, LAND and LIGHTS are never
// emitted by this core but still parse, print and take part in Home.
type Action int

const (
	Forward Action = iota
	Backward
	Left
	Right
	Up
	Down
	Stay
	Takeoff
	Land
	Lights
)

var actionNames = [...]string{
	Forward:  "FORWARD",
	Backward: "BACKWARD",
	Left:     "LEFT",
	Right:    "RIGHT",
	Up:       "UP",
	Down:     "DOWN",
	Stay:     "STAY",
	Takeoff:  "TAKEOFF",
	Land:     "LAND",
	Lights:   "LIGHTS",
}

// Actions lists every action in declaration order.
func Actions() []Action {
	return []Action{Forward, Backward, Left, Right, Up, Down, Stay, Takeoff, Land, Lights}
}

// String returns the upper-case wire name, or "UNKNOWN" for values outside the enumeration.
func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "UNKNOWN"
	}
	return actionNames[a]
}

// Ground reports whether the ground brain has a primitive for a.
func (a Action) Ground() bool {
	switch a {
	case Forward, Backward, Left, Right, Stay:
		return true
	}
	return false
}

// ParseAction is the inverse of String. Matching is case-insensitive.
func ParseAction(s string) (Action, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	v, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
