// Package chart hands the tabular report artifacts to gnuplot, one
// subprocess per plot script.
package chart

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Sumatoshi-tech/repostat/internal/reporterr"
)

// ScriptExt is the suffix of gnuplot scripts.
const ScriptExt = ".plot"

const (
	scriptPerm      = 0o644
	tempDirPattern  = "repostat-gnuplot-"
	defaultScripts  = "gnuplot"
	versionArgument = "--version"
)

//go:embed gnuplot/*.plot
var embeddedScripts embed.FS

// Sentinel errors.
var (
	// ErrScriptFailed is returned for a plot script that gnuplot rejected.
	ErrScriptFailed = fmt.Errorf("%w: plot script failed", reporterr.ErrExternalTool)
	// ErrVersionProbe is returned when the chart engine does not report a version.
	ErrVersionProbe = fmt.Errorf("%w: chart engine version", reporterr.ErrExternalTool)
)

// Runner starts one subprocess in dir and returns its combined output.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs real subprocesses.
type ExecRunner struct{}

// Run implements [Runner].
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	return cmd.CombinedOutput()
}

// Failure is one script that did not render.
type Failure struct {
	Script string
	Err    error
}

// Result is the outcome of one rendering pass.
type Result struct {
	Rendered []string
	Failures []Failure
}

// Err joins the failures, or returns nil when every script rendered.
func (r Result) Err() error {
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f.Err
	}

	return errors.Join(errs...)
}

// Invoker runs every plot script against an output directory.
type Invoker struct {
	// Executable is the gnuplot binary, looked up in PATH when not absolute.
	Executable string
	// ScriptsDir holds the *.plot scripts; empty uses the embedded set.
	ScriptsDir string
	Runner     Runner
	Logger     *slog.Logger
	// Progress, when set, is called after each script with the number of
	// scripts processed so far and the total.
	Progress func(done, total int)
}

// NewInvoker returns an invoker running executable as a real subprocess.
func NewInvoker(executable, scriptsDir string, logger *slog.Logger) *Invoker {
	return &Invoker{
		Executable: executable,
		ScriptsDir: scriptsDir,
		Runner:     ExecRunner{},
		Logger:     logger,
	}
}

// RenderAll runs each script, sorted by name, with outputDir as working
// directory and data folder. A failing script is recorded in the result and
// the remaining scripts still run. The error reports problems locating the
// scripts only.
func (inv *Invoker) RenderAll(ctx context.Context, outputDir string) (Result, error) {
	dataDir, err := filepath.Abs(outputDir)
	if err != nil {
		return Result{}, fmt.Errorf("%w: resolve output dir: %w", reporterr.ErrIO, err)
	}

	scriptsDir := inv.ScriptsDir

	if scriptsDir == "" {
		tmp, matErr := materialize(embeddedScripts, defaultScripts)
		if matErr != nil {
			return Result{}, matErr
		}

		defer os.RemoveAll(tmp)

		scriptsDir = tmp
	}

	scripts, err := listScripts(scriptsDir)
	if err != nil {
		return Result{}, err
	}

	var result Result

	for i, script := range scripts {
		runErr := inv.run(ctx, dataDir, script)
		if runErr != nil {
			inv.logger().Error("chart script failed", "script", filepath.Base(script), "error", runErr)
			result.Failures = append(result.Failures, Failure{Script: filepath.Base(script), Err: runErr})
		} else {
			result.Rendered = append(result.Rendered, filepath.Base(script))
		}

		if inv.Progress != nil {
			inv.Progress(i+1, len(scripts))
		}
	}

	return result, nil
}

func (inv *Invoker) run(ctx context.Context, dataDir, script string) error {
	out, err := inv.Runner.Run(ctx, dataDir, inv.Executable, "-e", dataFolderExpr(dataDir), script)

	if text := strings.TrimSpace(string(out)); text != "" {
		inv.logger().Info("gnuplot output", "script", filepath.Base(script), "output", text)
	}

	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrScriptFailed, filepath.Base(script), err)
	}

	return nil
}

// dataFolderExpr assigns dir to the data_folder variable as a gnuplot
// single-quoted string, where a quote is written twice.
func dataFolderExpr(dir string) string {
	return "data_folder='" + strings.ReplaceAll(dir, "'", "''") + "'"
}

// Version returns the first line gnuplot prints for --version.
func (inv *Invoker) Version(ctx context.Context) (string, error) {
	out, err := inv.Runner.Run(ctx, "", inv.Executable, versionArgument)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrVersionProbe, err)
	}

	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	if line == "" {
		return "", ErrVersionProbe
	}

	return line, nil
}

func (inv *Invoker) logger() *slog.Logger {
	if inv.Logger == nil {
		return slog.Default()
	}

	return inv.Logger
}

// Scripts lists the names of the embedded plot scripts.
func Scripts() []string {
	entries, err := fs.ReadDir(embeddedScripts, defaultScripts)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	return names
}

func listScripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list plot scripts: %w", reporterr.ErrIO, err)
	}

	scripts := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ScriptExt {
			continue
		}

		path, absErr := filepath.Abs(filepath.Join(dir, e.Name()))
		if absErr != nil {
			return nil, fmt.Errorf("%w: resolve plot script: %w", reporterr.ErrIO, absErr)
		}

		scripts = append(scripts, path)
	}

	sort.Strings(scripts)

	return scripts, nil
}

// materialize copies the scripts under root of src into a fresh temp dir.
func materialize(src fs.FS, root string) (string, error) {
	tmp, err := os.MkdirTemp("", tempDirPattern)
	if err != nil {
		return "", fmt.Errorf("%w: create scripts dir: %w", reporterr.ErrIO, err)
	}

	entries, err := fs.ReadDir(src, root)
	if err != nil {
		os.RemoveAll(tmp)

		return "", fmt.Errorf("%w: read embedded scripts: %w", reporterr.ErrIO, err)
	}

	for _, e := range entries {
		data, readErr := fs.ReadFile(src, root+"/"+e.Name())
		if readErr != nil {
			os.RemoveAll(tmp)

			return "", fmt.Errorf("%w: read embedded script: %w", reporterr.ErrIO, readErr)
		}

		writeErr := os.WriteFile(filepath.Join(tmp, e.Name()), data, scriptPerm)
		if writeErr != nil {
			os.RemoveAll(tmp)

			return "", fmt.Errorf("%w: write script: %w", reporterr.ErrIO, writeErr)
		}
	}

	return tmp, nil
}
