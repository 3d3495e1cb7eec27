// Package commands implements the CLI commands for wasmc.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/wasmc/internal/app"
	"go.trai.ch/wasmc/internal/build"
)

// CLI represents the command line interface for wasmc.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "wasmc",
		Short:         "Compile and run C programs as WebAssembly with a module cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newSampleCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetIO redirects the standard streams of every command. Used for testing.
func (c *CLI) SetIO(in io.Reader, out io.Writer) {
	c.rootCmd.SetIn(in)
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(out)
}
