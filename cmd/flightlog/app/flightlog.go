// Package app implements the flightlog command: inspecting flight logs written by the rover
// brain and following its live telemetry.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autopeer-io/rover/internal/rover/recorder"
)

func NewFlightLogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "flightlog",
		Short:         "Inspect rover flight logs and telemetry",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(
		newShowCommand(),
		newHomeCommand(),
		newWatchCommand(),
	)
	return cmd
}

func readLogFile(path string) ([]recorder.Movement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	moves, err := recorder.ReadLog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return moves, nil
}
