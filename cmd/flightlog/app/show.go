package app

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Print a flight log as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			moves, err := readLogFile(args[0])
			if err != nil {
				return err
			}

			table := uitable.New()
			table.MaxColWidth = 40
			table.AddRow("#", "ACTION", "SPEED", "DURATION(ms)")

			var total int64
			for i, m := range moves {
				table.AddRow(i+1, m.Action, m.Speed, m.Duration)
				total += m.Duration
			}

			fmt.Fprintln(cmd.OutOrStdout(), table)
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d movements, %d ms\n", len(moves), total)
			return nil
		},
	}
}
