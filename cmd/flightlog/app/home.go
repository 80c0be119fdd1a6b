package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autopeer-io/rover/internal/rover/recorder"
)

func newHomeCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "home FILE",
		Short: "Print the movements that return a recorded flight to its origin",
		Long: `Print, in flight log format, the movements that return the vehicle of a recorded
flight to where the recording started.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			moves, err := readLogFile(args[0])
			if err != nil {
				return err
			}

			if verbose {
				x, y, z := recorder.Displacement(moves)
				fmt.Fprintf(cmd.ErrOrStderr(), "displacement x=%d y=%d z=%d\n", x, y, z)
			}

			return recorder.WriteLog(cmd.OutOrStdout(), recorder.HomeOf(moves))
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print the per-axis displacement to stderr.")
	return cmd
}
