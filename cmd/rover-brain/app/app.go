package app

import (
	"fmt"

	genericapiserver "k8s.io/apiserver/pkg/server"

	"github.com/autopeer-io/rover/cmd/rover-brain/app/options"
	"github.com/autopeer-io/rover/pkg/app"
)

const (
	commandName = "rover-brain"
	commandDesc = `The rover brain drives a land rover through scripted patrols, records every
commanded movement to the flight log and can retrace the recording or return home.
Controller events are forwarded to the configured listener brokers.`
)

func NewApp() *app.App {
	opts := options.NewRoverOptions()
	application := app.NewApp(
		commandName,
		"Launch the rover brain",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
	)
	return application
}

func run(opts *options.RoverOptions) app.RunFunc {
	return func() error {
		ctx := genericapiserver.SetupSignalContext()

		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		agent, err := cfg.NewAgent()
		if err != nil {
			return fmt.Errorf("failed to create agent: %w", err)
		}

		return agent.Run(ctx)
	}
}
