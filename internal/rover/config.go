package rover

import (
	"fmt"

	"github.com/autopeer-io/rover/internal/pkg/metrics"
	"github.com/autopeer-io/rover/internal/rover/archive"
	"github.com/autopeer-io/rover/internal/rover/brain"
	"github.com/autopeer-io/rover/internal/rover/hal"
	"github.com/autopeer-io/rover/internal/rover/listener"
	"github.com/autopeer-io/rover/internal/rover/mission"
	"github.com/autopeer-io/rover/internal/rover/recorder"
	roverhttp "github.com/autopeer-io/rover/internal/rover/server/http"
	"github.com/autopeer-io/rover/pkg/log"
	"github.com/autopeer-io/rover/pkg/mqtt"
	"github.com/autopeer-io/rover/pkg/options"
)

type Config struct {
	RecorderOptions  *options.RecorderOptions
	BrainOptions     *options.BrainOptions
	SimulatorOptions *options.SimulatorOptions
	MqttOptions      *options.MqttOptions
	ListenerOptions  *options.ListenerOptions
	HttpOptions      *options.HttpOptions
	S3Options        *options.S3Options
	MissionOptions   *options.MissionOptions
}

// NewAgent wires the simulated controller, the flight recorder, the listeners and the brain.
// Nothing connects until Run.
func (cfg *Config) NewAgent() (*Agent, error) {
	publisher, outbox, err := cfg.initRecorderOutbox()
	if err != nil {
		return nil, fmt.Errorf("failed to init movement publisher: %w", err)
	}

	rec, err := recorder.New(recorder.Config{
		Dir:            cfg.RecorderOptions.Dir,
		InProgressFile: cfg.RecorderOptions.InProgressFile,
		LastFlightFile: cfg.RecorderOptions.LastFlightFile,
		TopLevelTopic:  cfg.MqttOptions.TopicRoot,
	}, outbox)
	if err != nil {
		return nil, err
	}

	sim, err := hal.NewSimulator(
		hal.Room{Width: cfg.SimulatorOptions.Width, Depth: cfg.SimulatorOptions.Depth},
		hal.Pose{X: cfg.SimulatorOptions.StartX, Y: cfg.SimulatorOptions.StartY, Heading: cfg.SimulatorOptions.Heading},
		cfg.SimulatorOptions.Latency,
	)
	if err != nil {
		return nil, err
	}

	b := brain.New(sim, rec,
		brain.WithListeners(cfg.initListeners()...),
		brain.WithSpeed(cfg.BrainOptions.Speed),
	)

	var arch *archive.Archive
	if cfg.S3Options.Enabled {
		provider, err := archive.NewMinIOProvider(cfg.S3Options)
		if err != nil {
			return nil, err
		}
		arch = archive.New(provider)
	}

	var m *mission.Mission
	if cfg.MissionOptions.File != "" {
		if m, err = mission.Load(cfg.MissionOptions.File); err != nil {
			return nil, err
		}
	}

	a := NewAgent(b, rec, publisher, arch, m, cfg.MissionOptions)
	if cfg.HttpOptions.Enabled {
		a.server = roverhttp.NewServer(cfg.HttpOptions, rec, a)
	}

	return a, nil
}

// initRecorderOutbox returns nil values when movement publishing is disabled.
func (cfg *Config) initRecorderOutbox() (mqtt.Client, recorder.Outbox, error) {
	if cfg.MqttOptions.Broker == "" {
		log.Info("No MQTT broker configured, movements are only journaled")
		return nil, nil, nil
	}

	client, err := mqtt.NewClient(cfg.MqttOptions.ToClientConfig())
	if err != nil {
		return nil, nil, err
	}

	outbox := mqtt.NewOutbox(client, mqtt.OutboxOptions{
		Size: cfg.MqttOptions.OutboxSize,
		OnError: func(msg mqtt.Message, err error) {
			metrics.PublishFailures.WithLabelValues("recorder").Inc()
			log.Warn("Failed to publish movement", "topic", msg.Topic, "error", err)
		},
	})

	return client, outbox, nil
}

func (cfg *Config) initListeners() []brain.Listener {
	opts := cfg.ListenerOptions

	listeners := make([]brain.Listener, 0, len(opts.Endpoints))
	for i := range opts.Endpoints {
		listeners = append(listeners, listener.New(listener.Config{
			Client:     *opts.ToClientConfig(i),
			TopicRoot:  opts.TopicRoot,
			QoS:        opts.QoS,
			OutboxSize: opts.OutboxSize,
		}))
	}
	return listeners
}
