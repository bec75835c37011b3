// Package report runs the report generation pipeline: page models are
// assembled from a statistics snapshot, rendered to HTML, written with their
// data tables into an output directory, and handed to the chart engine.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/repostat/internal/artifact"
	"github.com/Sumatoshi-tech/repostat/internal/assets"
	"github.com/Sumatoshi-tech/repostat/internal/chart"
	"github.com/Sumatoshi-tech/repostat/internal/colormap"
	"github.com/Sumatoshi-tech/repostat/internal/config"
	"github.com/Sumatoshi-tech/repostat/internal/observability"
	"github.com/Sumatoshi-tech/repostat/internal/pages"
	"github.com/Sumatoshi-tech/repostat/internal/render"
	"github.com/Sumatoshi-tech/repostat/internal/reporterr"
	"github.com/Sumatoshi-tech/repostat/internal/stats"
	"github.com/Sumatoshi-tech/repostat/pkg/version"
)

// Pipeline step names, used for spans and metrics.
const (
	StepPrepare  = "prepare"
	StepGeneral  = "general"
	StepActivity = "activity"
	StepAuthors  = "authors"
	StepFiles    = "files"
	StepTags     = "tags"
	StepAbout    = "about"
	StepCharts   = "charts"
)

const (
	outputDirPerm = 0o755
	spanPrefix    = "repostat.report."
	tracerName    = "github.com/Sumatoshi-tech/repostat/internal/report"
	chartToolName = "gnuplot"
)

// ChartRenderer renders images from the tabular artifacts of a report.
type ChartRenderer interface {
	RenderAll(ctx context.Context, outputDir string) (chart.Result, error)
	Version(ctx context.Context) (string, error)
}

// Summary describes one completed run.
type Summary struct {
	OutputDir  string
	AssetsPath string
	Artifacts  []artifact.Record
	// Charts is empty when charts were disabled.
	Charts        chart.Result
	ChartsEnabled bool
	Duration      time.Duration
}

// Option configures a [Pipeline].
type Option func(*Pipeline)

// WithCharts enables chart rendering through r.
func WithCharts(r ChartRenderer) Option {
	return func(p *Pipeline) { p.charts = r }
}

// WithTracer sets the tracer used for step spans.
func WithTracer(t trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = t }
}

// WithMetrics sets the run metrics sink.
func WithMetrics(m *observability.ReportMetrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithClock sets the source of the generation time shown on pages and used
// to pick the current year and the recent activity window.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// Pipeline generates one report from one snapshot. It is not safe for
// concurrent use.
type Pipeline struct {
	model *stats.Snapshot
	cfg   config.ReportConfig

	palette colormap.Palette
	charts  ChartRenderer
	tracer  trace.Tracer
	metrics *observability.ReportMetrics
	logger  *slog.Logger
	now     func() time.Time
}

// New returns a pipeline for model. The limits in cfg must be non-negative
// and the colormap it names must exist.
func New(model *stats.Snapshot, cfg config.ReportConfig, opts ...Option) (*Pipeline, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("report config: %w", err)
	}

	palette, err := colormap.Lookup(cfg.Colormap)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		model:   model,
		cfg:     cfg,
		palette: palette,
		tracer:  noop.NewTracerProvider().Tracer(tracerName),
		logger:  slog.Default(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// run carries the state of one Create call.
type run struct {
	now       time.Time
	writer    *artifact.Writer
	assembler *pages.Assembler
	summary   *Summary
}

// Create writes the full report into outputPath, creating it when missing.
// Chart script failures are logged and listed in the summary; any other
// failure aborts the run.
func (p *Pipeline) Create(ctx context.Context, outputPath string) (*Summary, error) {
	ctx, span := p.tracer.Start(ctx, spanPrefix+"create")
	defer span.End()

	started := time.Now()

	dir, err := filepath.Abs(outputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve output path: %w", reporterr.ErrIO, err)
	}

	span.SetAttributes(attribute.String("output_dir", dir))

	r := &run{
		now:     p.now(),
		writer:  artifact.NewWriter(dir),
		summary: &Summary{OutputDir: dir, ChartsEnabled: p.charts != nil},
	}

	steps := []struct {
		name string
		fn   func(context.Context, *run) error
	}{
		{StepPrepare, p.prepare},
		{StepGeneral, p.general},
		{StepActivity, p.activity},
		{StepAuthors, p.authors},
		{StepFiles, p.files},
		{StepTags, p.tags},
		{StepAbout, p.about},
		{StepCharts, p.renderCharts},
	}

	for _, s := range steps {
		stepErr := p.step(ctx, s.name, func(stepCtx context.Context) error { return s.fn(stepCtx, r) })
		if stepErr != nil {
			span.RecordError(stepErr)
			span.SetStatus(codes.Error, stepErr.Error())

			return nil, stepErr
		}
	}

	r.summary.Artifacts = r.writer.Records()
	for _, rec := range r.summary.Artifacts {
		p.metrics.RecordArtifact(ctx, string(rec.Kind), rec.Size)
	}

	r.summary.Duration = time.Since(started)
	p.metrics.RecordRun(ctx, r.summary.Duration)

	p.logger.InfoContext(ctx, "report created",
		"output_dir", dir,
		"artifacts", len(r.summary.Artifacts),
		"chart_failures", len(r.summary.Charts.Failures),
		"duration", r.summary.Duration)

	return r.summary, nil
}

// step runs fn inside its own span and records its duration.
func (p *Pipeline) step(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := p.tracer.Start(observability.WithStep(ctx, name), spanPrefix+name)
	defer span.End()

	started := time.Now()
	err := fn(ctx)
	p.metrics.RecordStep(ctx, name, time.Since(started))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return fmt.Errorf("%s step: %w", name, err)
	}

	p.logger.DebugContext(ctx, "report step done", "step", name)

	return nil
}

func (p *Pipeline) prepare(_ context.Context, r *run) error {
	mkErr := os.MkdirAll(r.writer.Dir(), outputDirPerm)
	if mkErr != nil {
		return fmt.Errorf("%w: create output dir: %w", reporterr.ErrIO, mkErr)
	}

	src, srcPath := assets.Default(), ""
	if p.cfg.AssetsDir != "" {
		src, srcPath = os.DirFS(p.cfg.AssetsDir), p.cfg.AssetsDir
	}

	base, err := assets.Stage(src, srcPath, r.writer.Dir(), p.cfg.Relocatable)
	if err != nil {
		return err
	}

	r.summary.AssetsPath = base

	limits := pages.Limits{
		MaxAuthors:         p.cfg.MaxAuthors,
		AuthorsTop:         p.cfg.AuthorsTop,
		MaxAuthorsOfMonths: p.cfg.MaxAuthorsOfMonths,
		MaxDomains:         p.cfg.MaxDomains,
		MaxRecentTags:      p.cfg.MaxRecentTags,
	}

	r.assembler = pages.NewAssembler(p.model, pages.NewSettings(p.palette, limits, base, p.cfg.ProcessTags))

	return nil
}

func (p *Pipeline) general(_ context.Context, r *run) error {
	html, err := render.General(r.assembler.General(r.now))
	if err != nil {
		return err
	}

	err = r.writer.Write(artifact.GeneralPage, html)
	if err != nil {
		return err
	}

	return r.writer.Alias(artifact.IndexPage, artifact.GeneralPage)
}

func (p *Pipeline) activity(_ context.Context, r *run) error {
	page := r.assembler.Activity(r.now)

	html, err := render.Activity(page)
	if err != nil {
		return err
	}

	err = r.writer.Write(artifact.ActivityPage, html)
	if err != nil {
		return err
	}

	err = r.writer.WriteTable(artifact.RecentActivity, artifact.Space, recentActivityRows(page.RecentWeeks))
	if err != nil {
		return err
	}

	err = r.writer.WriteTable(artifact.CommitsByYearMonth, artifact.Tab, periodRows(page.CurrentYearMonths))
	if err != nil {
		return err
	}

	return r.writer.WriteTable(artifact.CommitsByYear, artifact.Tab, periodRows(page.Years))
}

func (p *Pipeline) authors(_ context.Context, r *run) error {
	page, err := r.assembler.Authors()
	if err != nil {
		return err
	}

	html, err := render.Authors(page)
	if err != nil {
		return err
	}

	err = r.writer.Write(artifact.AuthorsPage, html)
	if err != nil {
		return err
	}

	err = r.writer.WriteTable(artifact.CommitsByAuthor, artifact.Tab, authorSeriesRows(page.Commits))
	if err != nil {
		return err
	}

	err = r.writer.WriteTable(artifact.LinesOfCodeByAuthor, artifact.Tab, authorSeriesRows(page.Insertions))
	if err != nil {
		return err
	}

	return r.writer.WriteTable(artifact.Domains, artifact.Space, domainRows(page.Domains))
}

func (p *Pipeline) files(_ context.Context, r *run) error {
	html, err := render.Files(r.assembler.Files())
	if err != nil {
		return err
	}

	err = r.writer.Write(artifact.FilesPage, html)
	if err != nil {
		return err
	}

	err = r.writer.WriteTable(artifact.FilesByDate, artifact.Space, stampRows(p.model.FileCountHistory))
	if err != nil {
		return err
	}

	return r.writer.WriteTable(artifact.LinesOfCode, artifact.Space, stampRows(p.model.LineCountHistory))
}

func (p *Pipeline) tags(_ context.Context, r *run) error {
	if !p.cfg.ProcessTags {
		return nil
	}

	html, err := render.Tags(r.assembler.Tags())
	if err != nil {
		return err
	}

	return r.writer.Write(artifact.TagsPage, html)
}

func (p *Pipeline) about(ctx context.Context, r *run) error {
	info := pages.AboutInfo{
		Version:      version.String(),
		Tools:        []string{"Go " + runtime.Version()},
		Contributors: version.Contributors,
	}

	if p.charts != nil {
		tool, err := p.charts.Version(ctx)
		if err != nil {
			p.logger.WarnContext(ctx, "chart engine version unavailable", "error", err)

			tool = chartToolName
		}

		info.Tools = append(info.Tools, tool)
	}

	html, err := render.About(r.assembler.About(info))
	if err != nil {
		return err
	}

	return r.writer.Write(artifact.AboutPage, html)
}

func (p *Pipeline) renderCharts(ctx context.Context, r *run) error {
	if p.charts == nil {
		return nil
	}

	result, err := p.charts.RenderAll(ctx, r.writer.Dir())
	if err != nil {
		return err
	}

	for range result.Rendered {
		p.metrics.RecordChart(ctx, true)
	}

	for _, f := range result.Failures {
		p.metrics.RecordChart(ctx, false)
		p.logger.WarnContext(ctx, "chart not rendered", "script", f.Script, "error", f.Err)
	}

	r.summary.Charts = result

	return nil
}
