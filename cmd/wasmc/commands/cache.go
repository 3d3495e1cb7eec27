package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the module cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.ClearCache(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete KEY",
		Short: "Remove one cached module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.DeleteModule(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether the module cache is active",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			status := c.app.CacheStatus()
			state := "disabled"
			if status.Supported {
				state = "enabled"
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "cache:   %s\n", state)
			_, _ = fmt.Fprintf(out, "backend: %s\n", status.Backend)
			_, _ = fmt.Fprintf(out, "dir:     %s\n", status.Dir)
		},
	})

	return cmd
}
