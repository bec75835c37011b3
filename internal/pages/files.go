package pages

import (
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/repostat/pkg/safeconv"
)

// unknownLanguage labels extensions enry cannot classify.
const unknownLanguage = "-"

// ExtensionRow is the file and line count of one extension.
type ExtensionRow struct {
	Extension  string
	Language   string
	Files      int
	FilesRatio float64
	Lines      int
	LinesRatio float64
	// LinesPerFile is the average file length.
	LinesPerFile int
}

// FilesPage summarizes the current tree.
type FilesPage struct {
	Common

	Files        int
	Lines        int
	TreeSize     int64
	TreeSizeText string
	AverageSize  string

	Extensions []ExtensionRow
}

// Files builds the files page. Extensions are listed in ascending order.
func (a *Assembler) Files() FilesPage {
	m := a.model

	page := FilesPage{
		Common:       a.settings.common(TitleFiles),
		Files:        m.Totals.Files,
		Lines:        m.Totals.Lines,
		TreeSize:     m.Totals.TreeSize,
		TreeSizeText: humanize.IBytes(safeconv.ClampToUint64(m.Totals.TreeSize)),
	}

	if page.Files > 0 {
		page.AverageSize = humanize.IBytes(safeconv.ClampToUint64(m.Totals.TreeSize) / safeconv.MustIntToUint64(page.Files))
	}

	exts := make([]string, 0, len(m.Extensions))
	for ext := range m.Extensions {
		exts = append(exts, ext)
	}

	sort.Strings(exts)

	for _, ext := range exts {
		stat := m.Extensions[ext]

		row := ExtensionRow{
			Extension:  ext,
			Language:   languageOf(ext),
			Files:      stat.Files,
			FilesRatio: Ratio(stat.Files, page.Files),
			Lines:      stat.Lines,
			LinesRatio: Ratio(stat.Lines, page.Lines),
		}

		if stat.Files > 0 {
			row.LinesPerFile = stat.Lines / stat.Files
		}

		page.Extensions = append(page.Extensions, row)
	}

	return page
}

// languageOf resolves a bare extension ("go", "py") to a language name.
func languageOf(ext string) string {
	if ext == "" {
		return unknownLanguage
	}

	lang := enry.GetLanguage("file."+ext, nil)
	if lang == "" {
		return unknownLanguage
	}

	return lang
}
