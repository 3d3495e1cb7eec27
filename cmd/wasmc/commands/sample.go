package commands

import (
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/wasmc/internal/app"
)

func (c *CLI) newSampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Print a sample program that reads a name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), app.SampleProgram)
			return err
		},
	}
}
