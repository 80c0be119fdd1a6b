package options

import (
	"strings"
	"testing"
)

func TestDefaultsValidate(t *testing.T) {
	if err := NewRoverOptions().Validate(); err != nil {
		t.Errorf("default options do not validate: %v", err)
	}
}

func TestValidateAggregates(t *testing.T) {
	o := NewRoverOptions()
	o.BrainOptions.Speed = 0
	o.MissionOptions.QueueSize = 0

	err := o.Validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, want := range []string{"brain.speed", "mission.queue-size"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestFlagSetsCoverEveryGroup(t *testing.T) {
	fss := NewRoverOptions().Flags()
	for _, name := range []string{"recorder", "brain", "simulator", "mqtt", "listener", "http", "s3", "mission", "Log"} {
		if _, ok := fss.FlagSets[name]; !ok {
			t.Errorf("missing flag set %q", name)
		}
	}
	if fss.FlagSet("mqtt").Lookup("mqtt.broker") == nil {
		t.Error("mqtt.broker flag not registered")
	}
}

func TestConfig(t *testing.T) {
	o := NewRoverOptions()
	cfg, err := o.Config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MqttOptions != o.MqttOptions || cfg.MissionOptions != o.MissionOptions {
		t.Error("Config does not share the option structs")
	}
}
