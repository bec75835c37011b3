// Package stats holds the pre-computed repository statistics model the report
// is generated from. The model is produced by an external collector and is
// read-only once loaded.
package stats

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/Sumatoshi-tech/repostat/internal/reporterr"
)

// Matrix dimensions of the weekday × hour distribution.
const (
	DaysPerWeek  = 7
	HoursPerDay  = 24
	MonthsInYear = 12
)

// ErrAuthorNotFound is returned when a requested author is absent from the model.
var ErrAuthorNotFound = fmt.Errorf("%w: author", reporterr.ErrNotFound)

// Repository identifies the analysed repository.
type Repository struct {
	Name   string `json:"name" yaml:"name"`
	Branch string `json:"branch" yaml:"branch"`
}

// Totals holds repository-wide counters.
type Totals struct {
	Commits      int   `json:"commits" yaml:"commits"`
	Files        int   `json:"files" yaml:"files"`
	Lines        int   `json:"lines" yaml:"lines"`
	LinesAdded   int   `json:"lines_added" yaml:"lines_added"`
	LinesRemoved int   `json:"lines_removed" yaml:"lines_removed"`
	TreeSize     int64 `json:"tree_size" yaml:"tree_size"`
}

// Author is the per-author activity record.
type Author struct {
	Name            string    `json:"name" yaml:"name"`
	Commits         int       `json:"commits" yaml:"commits"`
	LinesAdded      int       `json:"lines_added" yaml:"lines_added"`
	LinesRemoved    int       `json:"lines_removed" yaml:"lines_removed"`
	FirstCommit     time.Time `json:"first_commit" yaml:"first_commit"`
	LatestCommit    time.Time `json:"latest_commit" yaml:"latest_commit"`
	ActiveDays      int       `json:"active_days" yaml:"active_days"`
	ContributedDays int       `json:"contributed_days" yaml:"contributed_days"`
}

// DailyCount is the number of commits made on one calendar day.
type DailyCount struct {
	Date    time.Time `json:"date" yaml:"date"`
	Commits int       `json:"commits" yaml:"commits"`
}

// AuthorHistory is the per-author weekly activity history.
// Every series is aligned with Weeks; shorter series are zero-padded.
type AuthorHistory struct {
	Weeks      []time.Time      `json:"weeks,omitempty" yaml:"weeks"`
	Commits    map[string][]int `json:"commits,omitempty" yaml:"commits"`
	Insertions map[string][]int `json:"insertions,omitempty" yaml:"insertions"`
}

// AuthorCount pairs an author with a commit count.
type AuthorCount struct {
	Name    string `json:"name" yaml:"name"`
	Commits int    `json:"commits" yaml:"commits"`
}

// PeriodRanking lists authors active in one period, ranked upstream.
type PeriodRanking struct {
	Period  string        `json:"period" yaml:"period"`
	Authors []AuthorCount `json:"authors,omitempty" yaml:"authors"`
}

// AuthorRankings holds the monthly ("2006-01") and yearly ("2006") rankings.
type AuthorRankings struct {
	Monthly []PeriodRanking `json:"monthly,omitempty" yaml:"monthly"`
	Yearly  []PeriodRanking `json:"yearly,omitempty" yaml:"yearly"`
}

// ExtensionStat counts files and lines for one file extension.
type ExtensionStat struct {
	Files int `json:"files" yaml:"files"`
	Lines int `json:"lines" yaml:"lines"`
}

// Tag is one repository tag. A tag without Authors has no commits of its own.
type Tag struct {
	Name    string        `json:"name" yaml:"name"`
	Date    time.Time     `json:"date" yaml:"date"`
	Commits int           `json:"commits" yaml:"commits"`
	Authors []AuthorCount `json:"authors,omitempty" yaml:"authors"`
}

// HasCommits reports whether the tag carries per-author commit counts.
func (t Tag) HasCommits() bool {
	return len(t.Authors) > 0
}

// StampCount is a value observed at a Unix timestamp.
type StampCount struct {
	Timestamp int64 `json:"timestamp" yaml:"timestamp"`
	Count     int   `json:"count" yaml:"count"`
}

// Snapshot is the complete statistics model of one repository.
type Snapshot struct {
	Repository       Repository               `json:"repository" yaml:"repository"`
	CreatedAt        time.Time                `json:"created_at" yaml:"created_at"`
	FirstCommit      time.Time                `json:"first_commit" yaml:"first_commit"`
	LastCommit       time.Time                `json:"last_commit" yaml:"last_commit"`
	ActiveDaysCount  int                      `json:"active_days_count" yaml:"active_days_count"`
	Totals           Totals                   `json:"totals" yaml:"totals"`
	Authors          []Author                 `json:"authors" yaml:"authors"`
	DailyCommits     []DailyCount             `json:"daily_commits,omitempty" yaml:"daily_commits"`
	AuthorHistory    AuthorHistory            `json:"author_history" yaml:"author_history"`
	AuthorRankings   AuthorRankings           `json:"author_rankings" yaml:"author_rankings"`
	Timezones        map[string]int           `json:"timezones,omitempty" yaml:"timezones"`
	WeekdayHour      [][]int                  `json:"weekday_hour,omitempty" yaml:"weekday_hour"`
	Extensions       map[string]ExtensionStat `json:"extensions,omitempty" yaml:"extensions"`
	Tags             []Tag                    `json:"tags,omitempty" yaml:"tags"`
	Domains          map[string]int           `json:"domains,omitempty" yaml:"domains"`
	Contribution     map[string]float64       `json:"contribution,omitempty" yaml:"contribution"`
	FileCountHistory []StampCount             `json:"file_count_history,omitempty" yaml:"file_count_history"`
	LineCountHistory []StampCount             `json:"line_count_history,omitempty" yaml:"line_count_history"`
}

// RankedAuthors returns the authors ordered by commit count, descending.
// The sort is stable: equal counts keep the order the collector supplied.
func (s *Snapshot) RankedAuthors() []Author {
	authors := slices.Clone(s.Authors)
	sort.SliceStable(authors, func(i, j int) bool {
		return authors[i].Commits > authors[j].Commits
	})

	return authors
}

// AuthorNames returns author names in [Snapshot.RankedAuthors] order.
func (s *Snapshot) AuthorNames() []string {
	ranked := s.RankedAuthors()

	names := make([]string, len(ranked))
	for i, a := range ranked {
		names[i] = a.Name
	}

	return names
}

// Author returns the named author's record.
func (s *Snapshot) Author(name string) (Author, error) {
	for _, a := range s.Authors {
		if a.Name == name {
			return a, nil
		}
	}

	return Author{}, fmt.Errorf("%w: %q", ErrAuthorNotFound, name)
}

// WeekdayHourMatrix returns the weekday × hour commit distribution with row 0
// being Monday. Cells missing from the model are zero.
func (s *Snapshot) WeekdayHourMatrix() [DaysPerWeek][HoursPerDay]int {
	var matrix [DaysPerWeek][HoursPerDay]int

	for day := range min(len(s.WeekdayHour), DaysPerWeek) {
		row := s.WeekdayHour[day]
		for hour := range min(len(row), HoursPerDay) {
			matrix[day][hour] = row[hour]
		}
	}

	return matrix
}

// MonthOfYear returns commit counts per calendar month (index 0 = January)
// summed across all years.
func (s *Snapshot) MonthOfYear() [MonthsInYear]int {
	var months [MonthsInYear]int

	for _, d := range s.DailyCommits {
		months[d.Date.Month()-1] += d.Commits
	}

	return months
}

// TagsByDate returns the tags ordered by date, newest first.
// Tags sharing a date keep their model order.
func (s *Snapshot) TagsByDate() []Tag {
	tags := slices.Clone(s.Tags)
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].Date.After(tags[j].Date)
	})

	return tags
}
