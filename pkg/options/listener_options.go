package options

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/autopeer-io/rover/pkg/mqtt"
)

var _ IOptions = (*ListenerOptions)(nil)

// ListenerOptions configures the brokers controller events are forwarded to.
type ListenerOptions struct {
	// Endpoints are connected in order when the brain connects.
	Endpoints      []string      `json:"endpoints" mapstructure:"endpoints"`
	Username       string        `json:"username" mapstructure:"username"`
	Password       string        `json:"password" mapstructure:"password"`
	ClientIDPrefix string        `json:"client-id-prefix" mapstructure:"client-id-prefix"`
	TopicRoot      string        `json:"topic-root" mapstructure:"topic-root"`
	QoS            int           `json:"qos" mapstructure:"qos"`
	OutboxSize     int           `json:"outbox-size" mapstructure:"outbox-size"`
	ConnectTimeout time.Duration `json:"connect-timeout" mapstructure:"connect-timeout"`
}

func NewListenerOptions() *ListenerOptions {
	return &ListenerOptions{
		ClientIDPrefix: "a4jlandlistener",
		TopicRoot:      "a4jland",
		QoS:            0,
		OutboxSize:     256,
		ConnectTimeout: 5 * time.Second,
	}
}

func (o *ListenerOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errs := []error{}

	for i := range o.Endpoints {
		if err := o.ToClientConfig(i).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("--listener.endpoints[%d]: %w", i, err))
		}
	}
	if o.QoS < 0 || o.QoS > 2 {
		errs = append(errs, fmt.Errorf("--listener.qos must be 0, 1 or 2, got %d", o.QoS))
	}
	if len(o.Endpoints) > 0 && o.TopicRoot == "" {
		errs = append(errs, errors.New("--listener.topic-root must not be empty"))
	}
	if o.OutboxSize <= 0 {
		errs = append(errs, errors.New("--listener.outbox-size must be positive"))
	}

	return errs
}

func (o *ListenerOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringSliceVar(&o.Endpoints, "listener.endpoints", o.Endpoints, "Broker URLs controller events are forwarded to, connected in order (e.g. tcp://localhost:1883).")
	fs.StringVar(&o.Username, "listener.username", o.Username, "Username for every listener broker.")
	fs.StringVar(&o.Password, "listener.password", o.Password, "Password for every listener broker.")
	fs.StringVar(&o.ClientIDPrefix, "listener.client-id-prefix", o.ClientIDPrefix, "Listener client IDs are <prefix>-<index>.")
	fs.StringVar(&o.TopicRoot, "listener.topic-root", o.TopicRoot, "Top-level topic controller events are published under.")
	fs.IntVar(&o.QoS, "listener.qos", o.QoS, "QoS of controller event messages.")
	fs.IntVar(&o.OutboxSize, "listener.outbox-size", o.OutboxSize, "Events buffered per listener before publishing starts dropping.")
	fs.DurationVar(&o.ConnectTimeout, "listener.connect-timeout", o.ConnectTimeout, "How long Connect waits for each broker.")
}

// ToClientConfig returns the MQTT client configuration of the i-th endpoint.
func (o *ListenerOptions) ToClientConfig(i int) *mqtt.ClientConfig {
	return &mqtt.ClientConfig{
		BrokerURL:      o.Endpoints[i],
		ClientID:       fmt.Sprintf("%s-%d", o.ClientIDPrefix, i),
		Username:       o.Username,
		Password:       o.Password,
		ConnectTimeout: o.ConnectTimeout,
		CleanStart:     true,
	}
}
