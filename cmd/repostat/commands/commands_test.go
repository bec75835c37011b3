package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/repostat/cmd/repostat/commands"
	"github.com/Sumatoshi-tech/repostat/internal/artifact"
	"github.com/Sumatoshi-tech/repostat/internal/stats/statstest"
)

// writeSnapshot stores the sample snapshot as JSON and returns its path.
func writeSnapshot(t *testing.T) string {
	t.Helper()

	data, err := json.Marshal(statstest.Sample())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())

	return out.String(), err
}

func TestRender_RequiresOutput(t *testing.T) {
	t.Parallel()

	_, err := execute(t, commands.NewRenderCommand(), writeSnapshot(t))
	assert.ErrorIs(t, err, commands.ErrNoOutputDir)
}

func TestRender_WritesReport(t *testing.T) {
	t.Parallel()

	outDir := filepath.Join(t.TempDir(), "report")
	metricsFile := filepath.Join(t.TempDir(), "repostat.prom")

	out, err := execute(t, commands.NewRenderCommand(),
		writeSnapshot(t), "-o", outDir, "--no-charts", "--relocatable", "--metrics-file", metricsFile)
	require.NoError(t, err)

	assert.Contains(t, out, artifact.GeneralPage)
	assert.Contains(t, out, artifact.CommitsByAuthor)
	assert.Contains(t, out, "Charts skipped")
	assert.FileExists(t, filepath.Join(outDir, artifact.AuthorsPage))
	assert.FileExists(t, filepath.Join(outDir, "assets", "repostat.css"))

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "repostat_report_artifacts")
}

func TestRender_MissingSnapshot(t *testing.T) {
	t.Parallel()

	_, err := execute(t, commands.NewRenderCommand(),
		filepath.Join(t.TempDir(), "missing.yaml"), "-o", t.TempDir(), "--no-charts", "-q")
	require.Error(t, err)
	assert.Equal(t, 1, commands.ExitCode(err))
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()

	out, err := execute(t, commands.NewValidateCommand(), writeSnapshot(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Snapshot is valid")
	assert.Contains(t, out, "widget (main)")
	assert.Contains(t, out, "Commits: 15, authors: 4, tags: 3")
}

func TestValidate_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stats.yaml")
	require.NoError(t, os.WriteFile(path, []byte("repository:\n  name: widget\n"), 0o600))

	out, err := execute(t, commands.NewValidateCommand(), path)
	require.ErrorIs(t, err, commands.ErrValidationFailed)

	assert.Equal(t, 2, commands.ExitCode(err))
	assert.Contains(t, out, "Snapshot is invalid")
	assert.Contains(t, out, "first_commit")
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := execute(t, commands.NewValidateCommand(), path)
	assert.ErrorIs(t, err, commands.ErrValidationFailed)
}

func renderReport(t *testing.T, snapshot string) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "report")

	_, err := execute(t, commands.NewRenderCommand(), snapshot, "-o", dir, "--no-charts", "-q")
	require.NoError(t, err)

	return dir
}

func TestCompare_Identical(t *testing.T) {
	t.Parallel()

	snapshot := writeSnapshot(t)

	out, err := execute(t, commands.NewCompareCommand(), renderReport(t, snapshot), renderReport(t, snapshot))
	require.NoError(t, err)

	assert.Contains(t, out, "identical data tables")
	assert.Contains(t, out, artifact.Domains)
}

func TestCompare_Differs(t *testing.T) {
	t.Parallel()

	snapshot := writeSnapshot(t)
	left, right := renderReport(t, snapshot), renderReport(t, snapshot)

	require.NoError(t, os.WriteFile(filepath.Join(right, artifact.CommitsByYear), []byte("2024\t16\n"), 0o600))
	require.NoError(t, os.Remove(filepath.Join(right, artifact.Domains)))

	out, err := execute(t, commands.NewCompareCommand(), left, right)
	require.ErrorIs(t, err, commands.ErrReportsDiffer)

	assert.Equal(t, 1, commands.ExitCode(err))
	assert.Contains(t, out, "differs")
	assert.Contains(t, out, "missing")
	assert.Contains(t, out, "-2024\t15")
	assert.Contains(t, out, "+2024\t16")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := execute(t, commands.NewVersionCommand())
	require.NoError(t, err)

	assert.Contains(t, out, "repostat ")
	assert.Contains(t, out, "commit:")
}
