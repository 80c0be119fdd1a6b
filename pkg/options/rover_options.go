package options

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var (
	_ IOptions = (*RecorderOptions)(nil)
	_ IOptions = (*BrainOptions)(nil)
	_ IOptions = (*SimulatorOptions)(nil)
	_ IOptions = (*MissionOptions)(nil)
)

// RecorderOptions configures where flight logs are written.
type RecorderOptions struct {
	Dir            string `json:"dir" mapstructure:"dir"`
	InProgressFile string `json:"in-progress-file" mapstructure:"in-progress-file"`
	LastFlightFile string `json:"last-flight-file" mapstructure:"last-flight-file"`
}

func NewRecorderOptions() *RecorderOptions {
	return &RecorderOptions{
		Dir:            ".",
		InProgressFile: "InProgress.afr",
		LastFlightFile: "LastFlight.afr",
	}
}

func (o *RecorderOptions) Validate() []error {
	errs := []error{}
	if o.InProgressFile == "" || o.LastFlightFile == "" {
		errs = append(errs, errors.New("flight log file names must not be empty"))
	}
	if o.InProgressFile == o.LastFlightFile {
		errs = append(errs, fmt.Errorf("in-progress and last-flight logs must differ, both are %q", o.InProgressFile))
	}
	return errs
}

func (o *RecorderOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Dir, "recorder.dir", o.Dir, "Directory flight logs are written to.")
	fs.StringVar(&o.InProgressFile, "recorder.in-progress-file", o.InProgressFile, "Journal appended on every recorded movement.")
	fs.StringVar(&o.LastFlightFile, "recorder.last-flight-file", o.LastFlightFile, "Complete recording written on shutdown.")
}

// BrainOptions configures the brain.
type BrainOptions struct {
	// Speed is recorded with every movement.
	Speed int `json:"speed" mapstructure:"speed"`
}

func NewBrainOptions() *BrainOptions {
	return &BrainOptions{Speed: 20}
}

func (o *BrainOptions) Validate() []error {
	if o.Speed <= 0 {
		return []error{fmt.Errorf("--brain.speed must be positive, got %d", o.Speed)}
	}
	return nil
}

func (o *BrainOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.IntVar(&o.Speed, "brain.speed", o.Speed, "Speed recorded with every movement.")
}

// SimulatorOptions configures the simulated controller used when no hardware is attached.
type SimulatorOptions struct {
	Width   float64       `json:"width" mapstructure:"width"`
	Depth   float64       `json:"depth" mapstructure:"depth"`
	StartX  float64       `json:"start-x" mapstructure:"start-x"`
	StartY  float64       `json:"start-y" mapstructure:"start-y"`
	Heading float64       `json:"heading" mapstructure:"heading"`
	Latency time.Duration `json:"latency" mapstructure:"latency"`
}

func NewSimulatorOptions() *SimulatorOptions {
	return &SimulatorOptions{
		Width:  400,
		Depth:  300,
		StartX: 200,
		StartY: 150,
	}
}

func (o *SimulatorOptions) Validate() []error {
	errs := []error{}
	if o.Width <= 0 || o.Depth <= 0 {
		errs = append(errs, fmt.Errorf("--simulator room must have a positive size, got %vx%v", o.Width, o.Depth))
	}
	if o.StartX < 0 || o.StartX > o.Width || o.StartY < 0 || o.StartY > o.Depth {
		errs = append(errs, fmt.Errorf("--simulator start (%v,%v) is outside the room", o.StartX, o.StartY))
	}
	if o.Latency < 0 {
		errs = append(errs, errors.New("--simulator.latency must not be negative"))
	}
	return errs
}

func (o *SimulatorOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.Float64Var(&o.Width, "simulator.width", o.Width, "Width of the simulated room in cm.")
	fs.Float64Var(&o.Depth, "simulator.depth", o.Depth, "Depth of the simulated room in cm.")
	fs.Float64Var(&o.StartX, "simulator.start-x", o.StartX, "Start position along the width in cm.")
	fs.Float64Var(&o.StartY, "simulator.start-y", o.StartY, "Start position along the depth in cm.")
	fs.Float64Var(&o.Heading, "simulator.heading", o.Heading, "Start heading in degrees, 0 faces the far wall, clockwise.")
	fs.DurationVar(&o.Latency, "simulator.latency", o.Latency, "Delay added to every controller call.")
}

// MissionOptions configures what the agent runs.
type MissionOptions struct {
	// File is a mission script run once at startup.
	File string `json:"file" mapstructure:"file"`
	// QueueSize bounds the steps waiting for the control loop.
	QueueSize int `json:"queue-size" mapstructure:"queue-size"`
	// ShutdownTimeout bounds disconnecting and flushing logs on exit.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

func NewMissionOptions() *MissionOptions {
	return &MissionOptions{
		QueueSize:       16,
		ShutdownTimeout: 10 * time.Second,
	}
}

func (o *MissionOptions) Validate() []error {
	errs := []error{}
	if o.QueueSize <= 0 {
		errs = append(errs, errors.New("--mission.queue-size must be positive"))
	}
	if o.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("--mission.shutdown-timeout must be positive"))
	}
	return errs
}

func (o *MissionOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.File, "mission.file", o.File, "Mission script (YAML) executed once at startup.")
	fs.IntVar(&o.QueueSize, "mission.queue-size", o.QueueSize, "Mission steps queued before the control API answers 503.")
	fs.DurationVar(&o.ShutdownTimeout, "mission.shutdown-timeout", o.ShutdownTimeout, "Time allowed for disconnecting and flushing flight logs on exit.")
}
