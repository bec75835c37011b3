package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/repostat/internal/chart"
	"github.com/Sumatoshi-tech/repostat/internal/config"
	"github.com/Sumatoshi-tech/repostat/internal/observability"
	"github.com/Sumatoshi-tech/repostat/internal/report"
	"github.com/Sumatoshi-tech/repostat/internal/stats"
	"github.com/Sumatoshi-tech/repostat/pkg/safeconv"
	"github.com/Sumatoshi-tech/repostat/pkg/version"
)

const (
	renderCmdUse      = "render <stats-file>"
	renderCmdShort    = "Generate the HTML report from a statistics snapshot"
	renderArgCount    = 1
	renderOutputFlag  = "output"
	renderOutputShort = "o"
	renderOutputUsage = "output directory for the report"
	progressWidth     = 30
)

// ErrNoOutputDir is returned when the --output flag is not set.
var ErrNoOutputDir = errors.New("output directory is required (use --output)")

type renderOptions struct {
	configPath  string
	outputDir   string
	metricsFile string
	relocatable bool
	noCharts    bool
	quiet       bool
}

// NewRenderCommand creates the render subcommand.
func NewRenderCommand() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   renderCmdUse,
		Short: renderCmdShort,
		Long: `Generate the static report for a statistics snapshot: HTML pages, data
tables for gnuplot and, unless disabled, the chart images.

Examples:
  repostat render stats.yaml -o report
  repostat render stats.json.lz4 -o report --relocatable --no-charts`,
		Args: cobra.ExactArgs(renderArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.outputDir == "" {
				return ErrNoOutputDir
			}

			return runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to config file (default: .repostat.yaml)")
	cmd.Flags().StringVarP(&opts.outputDir, renderOutputFlag, renderOutputShort, "", renderOutputUsage)
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")
	cmd.Flags().BoolVar(&opts.relocatable, "relocatable", false, "copy assets into the report so it can be moved")
	cmd.Flags().BoolVar(&opts.noCharts, "no-charts", false, "skip gnuplot chart rendering")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress the summary and progress output")

	return cmd
}

// loadRenderConfig reads the configuration file and applies flag overrides.
func loadRenderConfig(opts renderOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if opts.relocatable {
		cfg.Report.Relocatable = true
	}

	if opts.noCharts {
		cfg.Chart.Enabled = false
	}

	if opts.metricsFile != "" {
		cfg.Telemetry.MetricsFile = opts.metricsFile
	}

	return cfg, nil
}

func initRenderObservability(ctx context.Context, cfg *config.Config, logOut io.Writer) (observability.Providers, error) {
	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return observability.Providers{}, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.RunID = uuid.NewString()
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.MetricsFile = cfg.Telemetry.MetricsFile
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.JSON
	obsCfg.LogOutput = logOut

	return observability.Init(ctx, obsCfg)
}

func runRender(ctx context.Context, out, errOut io.Writer, statsPath string, opts renderOptions) (err error) {
	cfg, err := loadRenderConfig(opts)
	if err != nil {
		return err
	}

	providers, err := initRenderObservability(ctx, cfg, errOut)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.WithoutCancel(ctx))
		if shutdownErr != nil {
			err = errors.Join(err, fmt.Errorf("observability shutdown: %w", shutdownErr))
		}
	}()

	logger := providers.Logger

	model, err := stats.Load(statsPath)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	metrics, err := observability.NewReportMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	pipelineOpts := []report.Option{
		report.WithTracer(providers.Tracer),
		report.WithMetrics(metrics),
		report.WithLogger(logger),
	}

	var bar *progressbar.ProgressBar

	if cfg.Chart.Enabled {
		invoker := chart.NewInvoker(cfg.Chart.Executable, cfg.Chart.ScriptsDir, logger)

		if !opts.quiet {
			bar = newChartProgress(errOut)
			invoker.Progress = func(done, total int) {
				bar.ChangeMax(total)
				_ = bar.Set(done)
			}
		}

		pipelineOpts = append(pipelineOpts, report.WithCharts(invoker))
	}

	pipeline, err := report.New(model, cfg.Report, pipelineOpts...)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "generating report", "snapshot", statsPath, "output_dir", opts.outputDir)

	summary, err := pipeline.Create(ctx, opts.outputDir)

	if bar != nil {
		_ = bar.Finish()
		_ = bar.Clear()
	}

	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	if !opts.quiet {
		printSummary(out, summary)
	}

	return nil
}

func newChartProgress(w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(len(chart.Scripts()),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(progressWidth),
		progressbar.OptionSetDescription("Rendering charts"),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func printSummary(out io.Writer, summary *report.Summary) {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Artifact", "Kind", "Size"})

	var total int64

	for _, rec := range summary.Artifacts {
		total += rec.Size
		tbl.AppendRow(table.Row{rec.Name, string(rec.Kind), humanize.IBytes(safeconv.ClampToUint64(rec.Size))})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d", len(summary.Artifacts)), "", humanize.IBytes(safeconv.ClampToUint64(total))})
	fmt.Fprintln(out, tbl.Render())

	color.New(color.FgGreen).Fprintf(out, "Report written to %s in %s\n", summary.OutputDir, summary.Duration.Round(time.Millisecond))

	if !summary.ChartsEnabled {
		color.New(color.FgYellow).Fprintf(out, "Charts skipped\n")

		return
	}

	fmt.Fprintf(out, "Charts rendered: %d\n", len(summary.Charts.Rendered))

	for _, f := range summary.Charts.Failures {
		color.New(color.FgYellow).Fprintf(out, "  chart %s failed: %v\n", f.Script, f.Err)
	}
}
