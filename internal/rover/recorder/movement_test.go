package recorder

import (
	"bytes"
	"strings"
	"testing"
)

func TestMovementEntry(t *testing.T) {
	m := Movement{Action: Forward, Speed: 20, Duration: 500}
	if got := m.Entry(); got != "{FORWARD,20,500}" {
		t.Errorf("Entry() = %q", got)
	}
	if got := string(m.Payload()); got != "FORWARD,20" {
		t.Errorf("Payload() = %q", got)
	}
	if got := NewMovement(Stay); got != (Movement{Action: Stay, Speed: DefaultSpeed}) {
		t.Errorf("NewMovement(Stay) = %+v", got)
	}
}

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Movement
		wantErr bool
	}{
		{name: "valid", line: "{RIGHT,20,1500}", want: Movement{Action: Right, Speed: 20, Duration: 1500}},
		{name: "surrounding space", line: "  {LAND,0,0}\r", want: Movement{Action: Land}},
		{name: "no braces", line: "RIGHT,20,1500", wantErr: true},
		{name: "too few fields", line: "{RIGHT,20}", wantErr: true},
		{name: "bad action", line: "{HOVER,20,0}", wantErr: true},
		{name: "bad speed", line: "{LEFT,fast,0}", wantErr: true},
		{name: "bad duration", line: "{LEFT,20,1.5}", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntry(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEntry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseEntry() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReadWriteLog(t *testing.T) {
	moves := []Movement{
		{Action: Forward, Speed: 20, Duration: 500},
		{Action: Left, Speed: 20, Duration: 0},
		{Action: Stay, Speed: 20, Duration: 1000},
	}

	var buf bytes.Buffer
	if err := WriteLog(&buf, moves); err != nil {
		t.Fatal(err)
	}
	if want := "{FORWARD,20,500}\n{LEFT,20,0}\n{STAY,20,1000}\n"; buf.String() != want {
		t.Errorf("WriteLog() wrote %q, want %q", buf.String(), want)
	}

	got, err := ReadLog(strings.NewReader(buf.String() + "\n\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(moves) {
		t.Fatalf("ReadLog() returned %d moves, want %d", len(got), len(moves))
	}
	for i := range moves {
		if got[i] != moves[i] {
			t.Errorf("move %d = %+v, want %+v", i, got[i], moves[i])
		}
	}
}

func TestReadLogReportsLine(t *testing.T) {
	_, err := ReadLog(strings.NewReader("{FORWARD,20,0}\nbroken\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("ReadLog() error = %v, want a line 2 error", err)
	}
}
