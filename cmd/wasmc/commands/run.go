package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/wasmc/internal/app"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [FILE|-]",
		Short: "Compile and execute a C program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}

			source, err := readSource(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			stdin, err := readInput(cmd)
			if err != nil {
				return err
			}
			repeat, _ := cmd.Flags().GetInt("repeat")
			parallel, _ := cmd.Flags().GetBool("parallel")

			records, err := c.app.RunMany(cmd.Context(), source, stdin, app.RunOptions{
				Repeat:   repeat,
				Parallel: parallel,
			})
			if err != nil {
				return err
			}

			failed := false
			for i, rec := range records {
				if i > 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				}
				writeRecord(cmd.OutOrStdout(), rec)
				failed = failed || rec.Failed()
			}
			if failed {
				return domain.ErrRunFailed
			}
			return nil
		},
	}
	cmd.Flags().String("input", "", "Text passed to the program on standard input")
	cmd.Flags().String("input-file", "", "File whose content is passed to the program on standard input")
	cmd.Flags().IntP("repeat", "r", 1, "Number of times to run the program")
	cmd.Flags().BoolP("parallel", "p", false, "Start repeated runs concurrently")
	cmd.MarkFlagsMutuallyExclusive("input", "input-file")
	return cmd
}

func readSource(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to read source"), "path", path)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", zerr.With(zerr.Wrap(domain.ErrNoSource, "empty program"), "path", path)
	}
	return string(data), nil
}

func readInput(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("input-file")
	if path == "" {
		input, _ := cmd.Flags().GetString("input")
		return input, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to read input file"), "path", path)
	}
	return string(data), nil
}

func writeRecord(w io.Writer, rec domain.RunRecord) {
	header := fmt.Sprintf("Run #%d %s", rec.RunNumber, rec.State)
	if rec.Cached {
		header += " (cached)"
	}
	_, _ = fmt.Fprintln(w, header)

	p := rec.Phases()
	_, _ = fmt.Fprintf(w, "  acquire  %s\n", millis(rec.AcquireTime, p.Acquire))
	_, _ = fmt.Fprintf(w, "  compile  %s\n", millis(rec.CompileTime, p.Compile))
	_, _ = fmt.Fprintf(w, "  execute  %s\n", millis(rec.ExecuteTime, p.Execute))
	_, _ = fmt.Fprintf(w, "  total    %s\n", millis(rec.TotalTime, p.Total))

	if rec.Output == "" {
		return
	}
	_, _ = io.WriteString(w, rec.Output)
	if !strings.HasSuffix(rec.Output, "\n") {
		_, _ = fmt.Fprintln(w)
	}
}

// millis formats d in milliseconds, or a dash when the phase never finished.
func millis(stamp *time.Duration, d time.Duration) string {
	if stamp == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f ms", float64(d)/float64(time.Millisecond))
}
