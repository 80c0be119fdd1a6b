package app

import (
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/autopeer-io/rover/pkg/log"
)

// NamedFlagSetOptions is implemented by a command's options. Flags are grouped into named
// sets for the help output; Complete fills derived values before Validate runs.
type NamedFlagSetOptions interface {
	Flags() cliflag.NamedFlagSets
	Complete() error
	Validate() error
}

// LogOptionsProvider is implemented by options that carry logger settings. The logger is
// initialized from them before RunFunc is called.
type LogOptionsProvider interface {
	LogOptions() *log.Options
}
