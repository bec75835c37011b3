package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/repostat/internal/artifact"
)

const (
	compareArgCount = 2
	missingDigest   = "-"

	statusSame    = "same"
	statusDiffers = "differs"
	statusMissing = "missing"
)

// tableComparison is the outcome for one tabular artifact.
type tableComparison struct {
	name   string
	left   []byte
	right  []byte
	status string
}

// NewCompareCommand creates the compare subcommand.
func NewCompareCommand() *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "compare <report-dir-a> <report-dir-b>",
		Short: "Compare the data tables of two generated reports",
		Long: `Compare the tabular artifacts of two report directories by content digest
and print line differences for tables that changed. Regenerating a report
from the same snapshot must produce identical tables.`,
		Args: cobra.ExactArgs(compareArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.OutOrStdout(), args[0], args[1], showDiff)
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", true, "print line differences of changed tables")

	return cmd
}

func runCompare(out io.Writer, leftDir, rightDir string, showDiff bool) error {
	comparisons := make([]tableComparison, 0, len(artifact.Tables()))

	for _, name := range artifact.Tables() {
		c, err := compareTable(name, leftDir, rightDir)
		if err != nil {
			return err
		}

		if c != nil {
			comparisons = append(comparisons, *c)
		}
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Artifact", "Digest A", "Digest B", "Status"})

	differing := 0

	for _, c := range comparisons {
		if c.status != statusSame {
			differing++
		}

		tbl.AppendRow(table.Row{c.name, digest(c.left), digest(c.right), c.status})
	}

	tbl.AppendFooter(table.Row{"", "", "Differing", differing})
	fmt.Fprintln(out, tbl.Render())

	if differing == 0 {
		color.New(color.FgGreen).Fprintf(out, "Reports carry identical data tables\n")

		return nil
	}

	if showDiff {
		for _, c := range comparisons {
			if c.status == statusDiffers {
				writeLineDiff(out, c)
			}
		}
	}

	return fmt.Errorf("%w: %d of %d tables", ErrReportsDiffer, differing, len(comparisons))
}

// compareTable returns nil when the table is absent from both reports.
func compareTable(name, leftDir, rightDir string) (*tableComparison, error) {
	left, leftOK, err := readOptional(filepath.Join(leftDir, name))
	if err != nil {
		return nil, err
	}

	right, rightOK, err := readOptional(filepath.Join(rightDir, name))
	if err != nil {
		return nil, err
	}

	c := &tableComparison{name: name, left: left, right: right}

	switch {
	case !leftOK && !rightOK:
		return nil, nil
	case leftOK != rightOK:
		c.status = statusMissing
	case xxhash.Sum64(left) == xxhash.Sum64(right):
		c.status = statusSame
	default:
		c.status = statusDiffers
	}

	return c, nil
}

func readOptional(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}

	return data, true, nil
}

func digest(data []byte) string {
	if data == nil {
		return missingDigest
	}

	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

// writeLineDiff prints the changed lines of one table, "-" for the first
// report and "+" for the second.
func writeLineDiff(out io.Writer, c tableComparison) {
	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToRunes(string(c.left), string(c.right))
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(src, dst, false), lines)

	fmt.Fprintf(out, "\n--- a/%s\n+++ b/%s\n", c.name, c.name)

	for _, d := range diffs {
		var prefix string

		var paint *color.Color

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix, paint = "-", color.New(color.FgRed)
		case diffmatchpatch.DiffInsert:
			prefix, paint = "+", color.New(color.FgGreen)
		case diffmatchpatch.DiffEqual:
			continue
		}

		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}

			paint.Fprintf(out, "%s%s\n", prefix, strings.TrimSuffix(line, "\n"))
		}
	}
}
