// Package artifact writes the named files of a report into its output directory.
package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Sumatoshi-tech/repostat/internal/reporterr"
)

// Report artifact names.
const (
	GeneralPage  = "general.html"
	ActivityPage = "activity.html"
	AuthorsPage  = "authors.html"
	FilesPage    = "files.html"
	TagsPage     = "tags.html"
	AboutPage    = "about.html"
	IndexPage    = "index.html"

	RecentActivity      = "recent_activity.dat"
	CommitsByYearMonth  = "commits_by_year_month.dat"
	CommitsByYear       = "commits_by_year.dat"
	CommitsByAuthor     = "commits_by_author.dat"
	LinesOfCodeByAuthor = "lines_of_code_by_author.dat"
	Domains             = "domains.dat"
	FilesByDate         = "files_by_date.dat"
	LinesOfCode         = "lines_of_code.dat"
)

// Tables lists the tabular artifacts of a report in generation order.
func Tables() []string {
	return []string{
		RecentActivity,
		CommitsByYearMonth,
		CommitsByYear,
		CommitsByAuthor,
		LinesOfCodeByAuthor,
		Domains,
		FilesByDate,
		LinesOfCode,
	}
}

// Field separators for tabular artifacts.
const (
	Tab   = "\t"
	Space = " "
)

const (
	filePerm = 0o644
	tmpExt   = ".tmp"
)

// ErrInvalidName is returned for an artifact name that is empty or leaves the output directory.
var ErrInvalidName = fmt.Errorf("%w: artifact name", reporterr.ErrInvalidArgument)

// Kind classifies an artifact by how it was produced.
type Kind string

// Artifact kinds.
const (
	KindPage  Kind = "page"
	KindTable Kind = "table"
	KindAlias Kind = "alias"
)

// Record describes one artifact written during a run.
type Record struct {
	Name string
	Kind Kind
	Size int64
}

// Writer places artifacts into one output directory.
// Writing the same name twice replaces the earlier content.
type Writer struct {
	dir     string
	records map[string]Record
}

// NewWriter returns a writer targeting dir. The directory must exist.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, records: make(map[string]Record)}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Path returns the absolute location of the named artifact.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// Write stores content under name, replacing any previous file.
func (w *Writer) Write(name string, content []byte) error {
	return w.write(name, KindPage, content)
}

// WriteTable stores rows as lines of fields joined by sep. Fields are written
// verbatim; no quoting or escaping is applied.
func (w *Writer) WriteTable(name, sep string, rows [][]string) error {
	var sb strings.Builder

	for _, row := range rows {
		sb.WriteString(strings.Join(row, sep))
		sb.WriteByte('\n')
	}

	return w.write(name, KindTable, []byte(sb.String()))
}

// Alias makes name a relative symbolic link to target within the output
// directory. An existing entry named name is left untouched.
func (w *Writer) Alias(name, target string) error {
	nameErr := checkName(name)
	if nameErr != nil {
		return nameErr
	}

	linkErr := os.Symlink(target, w.Path(name))
	if linkErr != nil && !errors.Is(linkErr, fs.ErrExist) {
		return fmt.Errorf("link %s: %w: %w", name, reporterr.ErrIO, linkErr)
	}

	w.records[name] = Record{Name: name, Kind: KindAlias}

	return nil
}

// Records returns the artifacts written so far, sorted by name.
func (w *Writer) Records() []Record {
	records := make([]Record, 0, len(w.records))
	for _, r := range w.records {
		records = append(records, r)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })

	return records
}

func (w *Writer) write(name string, kind Kind, content []byte) error {
	nameErr := checkName(name)
	if nameErr != nil {
		return nameErr
	}

	path := w.Path(name)
	tmp := path + tmpExt

	writeErr := os.WriteFile(tmp, content, filePerm)
	if writeErr != nil {
		return fmt.Errorf("write %s: %w: %w", name, reporterr.ErrIO, writeErr)
	}

	renameErr := os.Rename(tmp, path)
	if renameErr != nil {
		_ = os.Remove(tmp)

		return fmt.Errorf("rename %s: %w: %w", name, reporterr.ErrIO, renameErr)
	}

	w.records[name] = Record{Name: name, Kind: kind, Size: int64(len(content))}

	return nil
}

func checkName(name string) error {
	if name == "" || !filepath.IsLocal(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return nil
}
