package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/repostat/internal/stats"
)

// NewValidateCommand creates the validate subcommand.
func NewValidateCommand() *cobra.Command {
	var nocolor bool

	cmd := &cobra.Command{
		Use:   "validate <stats-file>",
		Short: "Validate a statistics snapshot against the snapshot schema",
		Long: `Validate a statistics snapshot (.json, .yaml or .yml, optionally .lz4
compressed) against the embedded JSON schema and the cross-field rules.

Exit status is 2 when the snapshot is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if nocolor {
				color.NoColor = true //nolint:reassign // intentional override of library global
			}

			return runValidate(cmd.OutOrStdout(), args[0])
		},
	}

	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")

	return cmd
}

func runValidate(out io.Writer, path string) error {
	data, format, err := stats.ReadFile(path)
	if err != nil {
		if errors.Is(err, stats.ErrInvalidSnapshot) {
			return fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}

		return err
	}

	problems, err := stats.Validate(data, format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	if len(problems) > 0 {
		color.New(color.FgRed).Fprintf(out, "Snapshot is invalid (%s)\n", path)
		fmt.Fprintf(out, "\nErrors:\n")

		for _, p := range problems {
			color.New(color.FgRed).Fprintf(out, "  - %s\n", p)
		}

		return ErrValidationFailed
	}

	snapshot, err := stats.Parse(data, format)
	if err != nil {
		color.New(color.FgRed).Fprintf(out, "Snapshot is invalid (%s)\n", path)
		color.New(color.FgRed).Fprintf(out, "  - %v\n", err)

		return ErrValidationFailed
	}

	color.New(color.FgGreen).Fprintf(out, "Snapshot is valid (%s)\n", path)
	fmt.Fprintf(out, "  Repository: %s (%s)\n", snapshot.Repository.Name, snapshot.Repository.Branch)
	fmt.Fprintf(out, "  Commits: %d, authors: %d, tags: %d\n",
		snapshot.Totals.Commits, len(snapshot.Authors), len(snapshot.Tags))

	return nil
}
