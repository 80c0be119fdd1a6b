// Package recorder implements the flight recorder: an ordered log of every commanded
// movement, mirrored to an in-progress journal and to MQTT, from which the return-to-origin
// path is computed.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/autopeer-io/rover/internal/pkg/metrics"
	"github.com/autopeer-io/rover/internal/pkg/mqtt/paths"
	"github.com/autopeer-io/rover/pkg/log"
	"github.com/autopeer-io/rover/pkg/mqtt"
	"github.com/autopeer-io/rover/pkg/mqtt/topic"
)

var (
	// ErrEmptyRecording is returned by RecordDuration when nothing has been recorded yet.
	ErrEmptyRecording = errors.New("recording is empty")
	// ErrRecorderClosed is returned by RecordAction after Shutdown.
	ErrRecorderClosed = errors.New("recorder is shut down")
)

// Outbox is the non-blocking publisher the recorder mirrors movements to.
// *mqtt.Outbox satisfies it.
type Outbox interface {
	Enqueue(msg mqtt.Message) error
	Close(ctx context.Context)
}

// Config holds the recorder settings.
type Config struct {
	// Dir is where both flight logs are written. It is created if missing.
	Dir string
	// InProgressFile is the journal appended to on every RecordAction.
	InProgressFile string
	// LastFlightFile is the complete recording, written on Shutdown.
	LastFlightFile string
	// TopLevelTopic is the MQTT namespace; movements go to <TopLevelTopic>/movement.
	TopLevelTopic string
}

// Recorder is the flight recorder. It is safe for concurrent use, although the brain
// drives it from a single goroutine.
type Recorder struct {
	cfg      Config
	flightID string
	outbox   Outbox
	topic    string

	mu         sync.Mutex
	recording  []Movement
	inProgress *os.File
	closed     bool
}

// New opens the in-progress journal, truncating a previous one. outbox may be nil, in
// which case nothing is published.
func New(cfg Config, outbox Outbox) (*Recorder, error) {
	if cfg.InProgressFile == "" {
		cfg.InProgressFile = "InProgress.afr"
	}
	if cfg.LastFlightFile == "" {
		cfg.LastFlightFile = "LastFlight.afr"
	}
	if cfg.TopLevelTopic == "" {
		cfg.TopLevelTopic = "a4jflight"
	}

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create flight log directory: %w", err)
		}
	}

	f, err := os.Create(filepath.Join(cfg.Dir, cfg.InProgressFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open in-progress log: %w", err)
	}

	r := &Recorder{
		cfg:        cfg,
		flightID:   uuid.NewString(),
		outbox:     outbox,
		topic:      topic.NewBuilder(cfg.TopLevelTopic).Build(paths.Movement),
		inProgress: f,
	}
	log.Info("Flight recorder started", "flightID", r.flightID, "journal", f.Name())
	return r, nil
}

// FlightID identifies this recording; the archive uses it as the object key prefix.
func (r *Recorder) FlightID() string {
	return r.flightID
}

// TopLevelTopic is the MQTT namespace movements are published under.
func (r *Recorder) TopLevelTopic() string {
	return r.cfg.TopLevelTopic
}

// LastFlightPath is where Shutdown writes the complete recording.
func (r *Recorder) LastFlightPath() string {
	return filepath.Join(r.cfg.Dir, r.cfg.LastFlightFile)
}

// RecordDefault records action at DefaultSpeed.
func (r *Recorder) RecordDefault(action Action) error {
	return r.RecordAction(action, DefaultSpeed)
}

// RecordAction appends {action, speed, 0}, journals it and publishes ACTION,speed.
// Journal and publish failures are logged; they never fail the call.
func (r *Recorder) RecordAction(action Action, speed int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRecorderClosed
	}

	m := Movement{Action: action, Speed: speed}
	r.recording = append(r.recording, m)
	metrics.MovementsRecorded.WithLabelValues(action.String()).Inc()

	if _, err := fmt.Fprintln(r.inProgress, m.Entry()); err != nil {
		log.Error(err, "Failed to write in-progress log", "entry", m.Entry())
	}
	r.publish(m)

	log.Debug("Recorded movement", "action", action, "speed", speed, "index", len(r.recording)-1)
	return nil
}

// RecordDuration sets the duration of the last recorded movement.
func (r *Recorder) RecordDuration(ms int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.recording) == 0 {
		return ErrEmptyRecording
	}
	r.recording[len(r.recording)-1].Duration = ms
	return nil
}

// Recording returns a copy of the sequence.
func (r *Recorder) Recording() []Movement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Movement(nil), r.recording...)
}

// Len returns the number of recorded movements.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.recording)
}

// Shutdown closes the journal and the outbox, then writes the whole recording to the
// last-flight log. Only the first call closes; every call rewrites the last-flight log.
func (r *Recorder) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	if !r.closed {
		r.closed = true
		if err := r.inProgress.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close in-progress log: %w", err))
		}
		if r.outbox != nil {
			r.outbox.Close(ctx)
		}
	}

	if err := r.writeLastFlight(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		log.Info("Flight recorder shut down", "flightID", r.flightID, "movements", len(r.recording), "log", r.LastFlightPath())
	}
	return utilerrors.NewAggregate(errs)
}

func (r *Recorder) writeLastFlight() error {
	f, err := os.Create(r.LastFlightPath())
	if err != nil {
		return fmt.Errorf("failed to open last-flight log: %w", err)
	}
	if err := WriteLog(f, r.recording); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write last-flight log: %w", err)
	}
	return f.Close()
}

// publish must be called with r.mu held.
func (r *Recorder) publish(m Movement) {
	if r.outbox == nil {
		return
	}
	err := r.outbox.Enqueue(mqtt.Message{Topic: r.topic, QoS: 0, Payload: m.Payload()})
	if err != nil {
		metrics.PublishFailures.WithLabelValues("recorder").Inc()
		log.Warn("Dropped movement telemetry", "topic", r.topic, "error", err)
	}
}
