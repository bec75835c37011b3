package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/repostat/internal/pages"
)

const (
	chartWidth  = "100%"
	chartHeight = "420px"

	// Stable element ids keep regenerated pages identical.
	hoursChartID   = "activityHours"
	commitsChartID = "authorsCommits"

	dataZoomEnd = 100
	styleTagLen = len("</style>")
)

// Renderable is a go-echarts chart.
type Renderable interface {
	Render(w io.Writer) error
}

func baseOptions(id, yName string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight, ChartID: id}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
		charts.WithGridOpts(opts.Grid{Left: "5%", Right: "5%", Top: "40", Bottom: "15%", ContainLabel: opts.Bool(true)}),
	}
}

// hoursChart plots commits per hour of the day.
func hoursChart(hours []pages.HourCount) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(baseOptions(hoursChartID, "Commits")...)

	labels := make([]string, len(hours))
	data := make([]opts.BarData, len(hours))

	for i, h := range hours {
		labels[i] = strconv.Itoa(h.Hour)
		data[i] = opts.BarData{
			Value:     h.Commits,
			ItemStyle: &opts.ItemStyle{Color: "rgb(" + h.Color.String() + ")"},
		}
	}

	bar.SetXAxis(labels)
	bar.AddSeries("Commits", data)

	return bar
}

// commitsChart plots the running commit totals of the top authors and Others.
func commitsChart(series pages.AuthorSeries) *charts.Line {
	line := charts.NewLine()

	globals := baseOptions(commitsChartID, "Commits")
	globals = append(globals,
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "0"}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "slider", Start: 0, End: dataZoomEnd},
			opts.DataZoom{Type: "inside"},
		),
	)
	line.SetGlobalOptions(globals...)
	line.SetXAxis(series.Labels)

	for i, name := range series.Columns() {
		values := series.Others
		if i < len(series.Cumulative) {
			values = series.Cumulative[i]
		}

		data := make([]opts.LineData, len(values))
		for j, v := range values {
			data[j] = opts.LineData{Value: v}
		}

		line.AddSeries(name, data)
	}

	return line
}

// chartHTML renders a chart and keeps only its element and script.
func chartHTML(chart Renderable) (template.HTML, error) {
	var buf bytes.Buffer

	err := chart.Render(&buf)
	if err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}

	return template.HTML(extractChartContent(buf.String())), nil
}

// extractChartContent cuts the chart container and script out of a full
// go-echarts page, dropping its inline styles.
func extractChartContent(html string) string {
	trimmed := strings.TrimSpace(html)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		return html
	}

	start := strings.Index(html, `<div class="container">`)
	if start == -1 {
		return html
	}

	end := strings.Index(html, `</body>`)
	if end == -1 {
		return html
	}

	content := html[start:end]
	content = strings.ReplaceAll(content, `class="container"`, `class="echart-box"`)

	return removeStyleTags(content)
}

func removeStyleTags(content string) string {
	for {
		i := strings.Index(content, `<style>`)
		if i == -1 {
			break
		}

		j := strings.Index(content[i:], `</style>`)
		if j == -1 {
			break
		}

		content = content[:i] + content[i+j+styleTagLen:]
	}

	return content
}
