package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/autopeer-io/rover/internal/rover/core"
	"github.com/autopeer-io/rover/internal/rover/listener"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "LastFlight.afr")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewFlightLogCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestShow(t *testing.T) {
	path := writeLog(t, "{FORWARD,20,500}\n{LEFT,20,250}\n")

	out, err := execute(t, "show", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"ACTION", "FORWARD", "LEFT", "2 movements, 750 ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestShowMalformed(t *testing.T) {
	path := writeLog(t, "{FORWARD,20,500}\nnot an entry\n")

	if _, err := execute(t, "show", path); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error = %v, want one naming line 2", err)
	}
}

func TestHome(t *testing.T) {
	path := writeLog(t, "{FORWARD,20,500}\n{RIGHT,20,250}\n")

	out, err := execute(t, "home", path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{BACKWARD,20,500}\n{LEFT,20,250}\n"
	if out != want {
		t.Errorf("home output = %q, want %q", out, want)
	}
}

func TestHomeMissingFile(t *testing.T) {
	if _, err := execute(t, "home", filepath.Join(t.TempDir(), "missing.afr")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestDescribe(t *testing.T) {
	event, err := listener.EncodeEvent(core.Event{
		Type:      core.EventMoveForward,
		Value:     40,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		root    string
		topic   string
		payload []byte
		want    string
	}{
		{"movement", "a4jflight", "a4jflight/movement", []byte("FORWARD,20"), "movement   FORWARD,20"},
		{"status", "a4jland", "a4jland/status", []byte("online"), "status     a4jland online"},
		{"controller", "a4jland", "a4jland/controller/move.forward", event, "controller 2026-01-02T03:04:05Z move.forward 40"},
		{"nested root", "fleet/r1", "fleet/r1/movement", []byte("LEFT,20"), "movement   LEFT,20"},
		{"undecodable", "a4jland", "a4jland/controller/x", []byte("{"), "controller a4jland/controller/x undecodable"},
		{"unknown", "a4jflight", "a4jflight/other", []byte("x"), "?          a4jflight/other x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describe(tt.root, tt.topic, tt.payload); !strings.HasPrefix(got, tt.want) {
				t.Errorf("describe() = %q, want prefix %q", got, tt.want)
			}
		})
	}
}
