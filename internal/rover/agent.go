// Package rover wires the brain, the flight recorder and the control API into a running agent.
package rover

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/autopeer-io/rover/internal/pkg/metrics"
	"github.com/autopeer-io/rover/internal/rover/archive"
	"github.com/autopeer-io/rover/internal/rover/brain"
	"github.com/autopeer-io/rover/internal/rover/mission"
	"github.com/autopeer-io/rover/internal/rover/recorder"
	roverhttp "github.com/autopeer-io/rover/internal/rover/server/http"
	"github.com/autopeer-io/rover/pkg/log"
	"github.com/autopeer-io/rover/pkg/mqtt"
	"github.com/autopeer-io/rover/pkg/options"
)

var (
	// ErrQueueFull is returned by Submit when the control loop is saturated.
	ErrQueueFull = errors.New("command queue full")
	// ErrStopping is returned by Submit once the agent has started shutting down.
	ErrStopping = errors.New("agent is stopping")
)

// Agent owns the single control goroutine. Every brain call runs on it, one step at a time.
type Agent struct {
	brain     *brain.Brain
	recorder  *recorder.Recorder
	publisher mqtt.Client
	archive   *archive.Archive
	mission   *mission.Mission
	server    *roverhttp.Server

	shutdownTimeout time.Duration

	mu       sync.RWMutex
	stopping bool
	steps    chan mission.Step
	ready    atomic.Bool
}

var _ roverhttp.Dispatcher = (*Agent)(nil)

// NewAgent assembles an agent. publisher, arch and m may be nil.
func NewAgent(b *brain.Brain, rec *recorder.Recorder, publisher mqtt.Client, arch *archive.Archive, m *mission.Mission, opts *options.MissionOptions) *Agent {
	return &Agent{
		brain:           b,
		recorder:        rec,
		publisher:       publisher,
		archive:         arch,
		mission:         m,
		shutdownTimeout: opts.ShutdownTimeout,
		steps:           make(chan mission.Step, opts.QueueSize),
	}
}

// Submit queues step for the control loop without blocking.
func (a *Agent) Submit(step mission.Step) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.stopping {
		return ErrStopping
	}

	select {
	case a.steps <- step:
		metrics.CommandQueueDepth.Inc()
		return nil
	default:
		return ErrQueueFull
	}
}

// Ready reports whether the brain is connected.
func (a *Agent) Ready() bool {
	return a.ready.Load()
}

// Run connects the brain, runs the startup mission and then executes submitted steps until
// ctx is done. The recording is always flushed before Run returns.
func (a *Agent) Run(ctx context.Context) error {
	log.Info("Starting rover-brain", "flightID", a.recorder.FlightID())

	if a.publisher != nil {
		// The publisher outlives ctx so the outbox can drain during shutdown.
		if err := a.publisher.Start(context.WithoutCancel(ctx)); err != nil {
			return utilerrors.NewAggregate([]error{
				fmt.Errorf("failed to start movement publisher: %w", err),
				a.shutdown(),
			})
		}
	}

	if err := a.brain.Connect(ctx); err != nil {
		return utilerrors.NewAggregate([]error{err, a.shutdown()})
	}
	a.ready.Store(true)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.control(gctx)
	})
	if a.server != nil {
		g.Go(func() error {
			return a.server.Start(gctx)
		})
	}

	err := g.Wait()
	log.Info("Agent shutting down...")

	return utilerrors.NewAggregate([]error{err, a.shutdown()})
}

func (a *Agent) control(ctx context.Context) error {
	if a.mission != nil {
		a.runMission(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case step := <-a.steps:
			metrics.CommandQueueDepth.Dec()
			a.runStep(ctx, step)
		}
	}
}

// runMission stops at the first failing step; the agent keeps serving submitted steps.
func (a *Agent) runMission(ctx context.Context) {
	log.Info("Running mission", "name", a.mission.Name, "steps", len(a.mission.Steps))

	for i, step := range a.mission.Steps {
		if err := a.runStep(ctx, step); err != nil {
			log.Warn("Mission aborted", "name", a.mission.Name, "step", i)
			return
		}
	}

	log.Info("Mission complete", "name", a.mission.Name)
}

func (a *Agent) runStep(ctx context.Context, step mission.Step) error {
	log.Debug("Running step", "step", step.String())

	if err := step.Run(ctx, a.brain); err != nil {
		log.Error(err, "Step failed", "step", step.String())
		return err
	}
	return nil
}

// shutdown disconnects the brain, flushes the recorder and archives the last flight.
func (a *Agent) shutdown() error {
	a.mu.Lock()
	a.stopping = true
	a.mu.Unlock()
	a.ready.Store(false)

	// Steps still queued are discarded.
	for len(a.steps) > 0 {
		<-a.steps
	}
	metrics.CommandQueueDepth.Set(0)

	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.brain.Disconnect(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.recorder.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.archive != nil {
		if _, err := a.archive.Store(ctx, a.recorder.FlightID(), a.recorder.LastFlightPath()); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		log.Info("rover-brain stopped gracefully", "movements", a.recorder.Len())
	}
	return utilerrors.NewAggregate(errs)
}
