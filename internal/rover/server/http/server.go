// Package http serves the rover control API, health probes and metrics.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/autopeer-io/rover/internal/pkg/metrics"
	"github.com/autopeer-io/rover/internal/rover/mission"
	"github.com/autopeer-io/rover/internal/rover/recorder"
	"github.com/autopeer-io/rover/pkg/log"
	"github.com/autopeer-io/rover/pkg/options"
)

// Flight exposes the current recording. *recorder.Recorder satisfies it.
type Flight interface {
	FlightID() string
	Recording() []recorder.Movement
	Home() []recorder.Movement
}

// Dispatcher hands validated steps to the control loop.
type Dispatcher interface {
	// Submit queues step without blocking. An error means the step was not queued.
	Submit(step mission.Step) error
	// Ready reports whether the brain is connected and accepting steps.
	Ready() bool
}

type Server struct {
	server  *http.Server
	options *options.HttpOptions
}

// FlightResponse is the body of the recording and home endpoints.
type FlightResponse struct {
	FlightID  string              `json:"flightID"`
	Movements []recorder.Movement `json:"movements"`
}

func NewServer(opts *options.HttpOptions, flight Flight, dispatcher Dispatcher) *Server {
	return &Server{
		server: &http.Server{
			Addr:         opts.Addr,
			Handler:      NewRouter(flight, dispatcher),
			ReadTimeout:  opts.Timeout,
			WriteTimeout: opts.Timeout,
		},
		options: opts,
	}
}

// NewRouter builds the API routes.
func NewRouter(flight Flight, dispatcher Dispatcher) *mux.Router {
	r := mux.NewRouter()

	// Basic Liveness Probe
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	// Readiness Probe
	r.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if !dispatcher.Ready() {
			http.Error(w, "brain not connected", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/recording", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, FlightResponse{FlightID: flight.FlightID(), Movements: nonNil(flight.Recording())})
	}).Methods(http.MethodGet)
	api.HandleFunc("/home", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, FlightResponse{FlightID: flight.FlightID(), Movements: flight.Home()})
	}).Methods(http.MethodGet)
	api.HandleFunc("/commands", submitHandler(dispatcher)).Methods(http.MethodPost)

	return r
}

func submitHandler(dispatcher Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var step mission.Step
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&step); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid step: %w", err))
			return
		}
		if err := step.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		if err := dispatcher.Submit(step); err != nil {
			log.Warn("Rejected command", "step", step.String(), "error", err)
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}

		log.Info("Accepted command", "step", step.String())
		writeJSON(w, http.StatusAccepted, map[string]string{"accepted": step.String()})
	}
}

func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen(s.options.Network, s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	log.Info("Starting HTTP Server", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("Stopping HTTP Server")
		return s.server.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(err, "Failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func nonNil(moves []recorder.Movement) []recorder.Movement {
	if moves == nil {
		return []recorder.Movement{}
	}
	return moves
}
