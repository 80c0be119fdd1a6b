package app

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/autopeer-io/rover/pkg/log"
)

const configFlagName = "config"

var configFile string

func addConfigFlag(basename string, fs *pflag.FlagSet) {
	fs.StringVarP(&configFile, configFlagName, "c", configFile,
		fmt.Sprintf("Read configuration from the specified file (YAML, JSON or TOML). Environment variables with the %s_ prefix override it.", envPrefix(basename)))
}

// envPrefix turns "rover-brain" into "ROVER_BRAIN".
func envPrefix(basename string) string {
	return strings.ToUpper(strings.ReplaceAll(basename, "-", "_"))
}

// loadConfig layers flags, environment and the optional config file into v.
// Flag names double as config keys: --mqtt.broker is mqtt.broker in the file and
// ROVER_BRAIN_MQTT_BROKER in the environment.
func loadConfig(v *viper.Viper, basename string, fs *pflag.FlagSet) error {
	v.SetEnvPrefix(envPrefix(basename))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	if configFile == "" {
		return nil
	}

	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", configFile, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, restart to apply", "file", e.Name, "op", e.Op.String())
	})
	v.WatchConfig()

	return nil
}
