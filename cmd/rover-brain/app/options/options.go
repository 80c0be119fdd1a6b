package options

import (
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/autopeer-io/rover/internal/rover"
	"github.com/autopeer-io/rover/pkg/app"
	"github.com/autopeer-io/rover/pkg/log"
	"github.com/autopeer-io/rover/pkg/options"
)

type RoverOptions struct {
	RecorderOptions  *options.RecorderOptions  `json:"recorder" mapstructure:"recorder"`
	BrainOptions     *options.BrainOptions     `json:"brain" mapstructure:"brain"`
	SimulatorOptions *options.SimulatorOptions `json:"simulator" mapstructure:"simulator"`
	MqttOptions      *options.MqttOptions      `json:"mqtt" mapstructure:"mqtt"`
	ListenerOptions  *options.ListenerOptions  `json:"listener" mapstructure:"listener"`
	HttpOptions      *options.HttpOptions      `json:"http" mapstructure:"http"`
	S3Options        *options.S3Options        `json:"s3" mapstructure:"s3"`
	MissionOptions   *options.MissionOptions   `json:"mission" mapstructure:"mission"`
	Log              *log.Options              `json:"log" mapstructure:"log"`
}

var (
	_ app.NamedFlagSetOptions = (*RoverOptions)(nil)
	_ app.LogOptionsProvider  = (*RoverOptions)(nil)
)

func NewRoverOptions() *RoverOptions {
	o := &RoverOptions{
		RecorderOptions:  options.NewRecorderOptions(),
		BrainOptions:     options.NewBrainOptions(),
		SimulatorOptions: options.NewSimulatorOptions(),
		MqttOptions:      options.NewMqttOptions(),
		ListenerOptions:  options.NewListenerOptions(),
		HttpOptions:      options.NewHttpOptions(),
		S3Options:        options.NewS3Options(),
		MissionOptions:   options.NewMissionOptions(),
		Log:              log.NewOptions(),
	}

	return o
}

func (o *RoverOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	o.RecorderOptions.AddFlags(fss.FlagSet("recorder"))
	o.BrainOptions.AddFlags(fss.FlagSet("brain"))
	o.SimulatorOptions.AddFlags(fss.FlagSet("simulator"))
	o.MqttOptions.AddFlags(fss.FlagSet("mqtt"))
	o.ListenerOptions.AddFlags(fss.FlagSet("listener"))
	o.HttpOptions.AddFlags(fss.FlagSet("http"))
	o.S3Options.AddFlags(fss.FlagSet("s3"))
	o.MissionOptions.AddFlags(fss.FlagSet("mission"))
	o.Log.AddFlags(fss.FlagSet("Log"))
	return fss
}

func (o *RoverOptions) Complete() error {
	return nil
}

func (o *RoverOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.RecorderOptions.Validate()...)
	errs = append(errs, o.BrainOptions.Validate()...)
	errs = append(errs, o.SimulatorOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.ListenerOptions.Validate()...)
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.S3Options.Validate()...)
	errs = append(errs, o.MissionOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return utilerrors.NewAggregate(errs)
}

func (o *RoverOptions) LogOptions() *log.Options {
	return o.Log
}

func (o *RoverOptions) Config() (*rover.Config, error) {
	return &rover.Config{
		RecorderOptions:  o.RecorderOptions,
		BrainOptions:     o.BrainOptions,
		SimulatorOptions: o.SimulatorOptions,
		MqttOptions:      o.MqttOptions,
		ListenerOptions:  o.ListenerOptions,
		HttpOptions:      o.HttpOptions,
		S3Options:        o.S3Options,
		MissionOptions:   o.MissionOptions,
	}, nil
}
