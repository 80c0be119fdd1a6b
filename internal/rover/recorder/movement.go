package recorder

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultSpeed is the speed recorded when the caller does not give one, and the speed of
// every movement returned by Home.
const DefaultSpeed = 20

// Movement is one entry of a flight recording. Duration is in milliseconds.
type Movement struct {
	Action   Action `json:"action"`
	Speed    int    `json:"speed"`
	Duration int64  `json:"duration"`
}

// NewMovement returns a movement at DefaultSpeed with no duration.
func NewMovement(action Action) Movement {
	return Movement{Action: action, Speed: DefaultSpeed}
}

// Entry formats m as a flight log line: {ACTION,speed,duration}.
func (m Movement) Entry() string {
	return "{" + m.Action.String() + "," + strconv.Itoa(m.Speed) + "," + strconv.FormatInt(m.Duration, 10) + "}"
}

// Payload is the telemetry message published for m: ACTION,speed.
func (m Movement) Payload() []byte {
	return []byte(m.Action.String() + "," + strconv.Itoa(m.Speed))
}

func (m Movement) String() string {
	return fmt.Sprintf("Movement\tAction(%s)\tSpeed(%d)\tDuration(%d)", m.Action, m.Speed, m.Duration)
}

// ParseEntry parses a single flight log line.
func ParseEntry(line string) (Movement, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
		return Movement{}, fmt.Errorf("malformed entry %q: missing braces", line)
	}

	fields := strings.Split(line[1:len(line)-1], ",")
	if len(fields) != 3 {
		return Movement{}, fmt.Errorf("malformed entry %q: want 3 fields, got %d", line, len(fields))
	}

	action, err := ParseAction(fields[0])
	if err != nil {
		return Movement{}, fmt.Errorf("malformed entry %q: %w", line, err)
	}
	speed, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return Movement{}, fmt.Errorf("malformed entry %q: speed: %w", line, err)
	}
	duration, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
	if err != nil {
		return Movement{}, fmt.Errorf("malformed entry %q: duration: %w", line, err)
	}

	return Movement{Action: action, Speed: speed, Duration: duration}, nil
}

// ReadLog parses every non-blank line of a flight log.
func ReadLog(r io.Reader) ([]Movement, error) {
	var moves []Movement

	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		m, err := ParseEntry(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		moves = append(moves, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return moves, nil
}

// WriteLog writes moves in flight log format, one entry per line.
func WriteLog(w io.Writer, moves []Movement) error {
	bw := bufio.NewWriter(w)
	for _, m := range moves {
		if _, err := bw.WriteString(m.Entry() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
