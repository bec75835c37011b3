// Package render turns page models into HTML documents using embedded
// templates and inline go-echarts fragments.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sync"

	"github.com/Sumatoshi-tech/repostat/internal/colormap"
	"github.com/Sumatoshi-tech/repostat/internal/pages"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names, one per page.
const (
	generalTemplate  = "general.html"
	activityTemplate = "activity.html"
	authorsTemplate  = "authors.html"
	filesTemplate    = "files.html"
	tagsTemplate     = "tags.html"
	aboutTemplate    = "about.html"
)

var (
	templates     *template.Template
	templatesOnce sync.Once
	errTemplates  error
)

var funcMap = template.FuncMap{
	"rgb": func(c colormap.RGB) template.CSS {
		return template.CSS("rgb(" + c.String() + ")")
	},
	"pct": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"num": func(v float64) string {
		return fmt.Sprintf("%.1f", v)
	},
}

// getTemplates returns the parsed templates, loading them once.
func getTemplates() (*template.Template, error) {
	templatesOnce.Do(func() {
		var parseErr error

		templates, parseErr = template.New("").
			Funcs(funcMap).
			ParseFS(templateFS, "templates/*.html")
		if parseErr != nil {
			errTemplates = fmt.Errorf("parsing templates: %w", parseErr)
		}
	})

	return templates, errTemplates
}

// renderTemplate renders a named template with the given data.
func renderTemplate(name string, data any) ([]byte, error) {
	tmpl, err := getTemplates()
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	var buf bytes.Buffer

	err = tmpl.ExecuteTemplate(&buf, name, data)
	if err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}

	return buf.Bytes(), nil
}

// activityData is the activity page plus its inline hourly chart.
type activityData struct {
	pages.ActivityPage

	HoursChart template.HTML
}

// authorsData is the authors page plus its inline cumulative commits chart.
type authorsData struct {
	pages.AuthorsPage

	CommitsChart template.HTML
}

// General renders the overview page.
func General(page pages.GeneralPage) ([]byte, error) {
	return renderTemplate(generalTemplate, page)
}

// Activity renders the activity page.
func Activity(page pages.ActivityPage) ([]byte, error) {
	chart, err := chartHTML(hoursChart(page.Hours))
	if err != nil {
		return nil, err
	}

	return renderTemplate(activityTemplate, activityData{ActivityPage: page, HoursChart: chart})
}

// Authors renders the authors page.
func Authors(page pages.AuthorsPage) ([]byte, error) {
	chart, err := chartHTML(commitsChart(page.Commits))
	if err != nil {
		return nil, err
	}

	return renderTemplate(authorsTemplate, authorsData{AuthorsPage: page, CommitsChart: chart})
}

// Files renders the files page.
func Files(page pages.FilesPage) ([]byte, error) {
	return renderTemplate(filesTemplate, page)
}

// Tags renders the tags page.
func Tags(page pages.TagsPage) ([]byte, error) {
	return renderTemplate(tagsTemplate, page)
}

// About renders the about page.
func About(page pages.AboutPage) ([]byte, error) {
	return renderTemplate(aboutTemplate, page)
}
