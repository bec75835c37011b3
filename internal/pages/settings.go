// Package pages turns the statistics model into typed page models, one per
// report page. Page models hold display-ready values and carry no HTML.
package pages

import (
	"slices"
	"time"

	"github.com/Sumatoshi-tech/repostat/internal/colormap"
)

// Page titles.
const (
	TitleGeneral  = "General"
	TitleActivity = "Activity"
	TitleAuthors  = "Authors"
	TitleFiles    = "Files"
	TitleTags     = "Tags"
	TitleAbout    = "About"
)

// Display formats.
const (
	DateTimeFormat = "2006-01-02 15:04"
	DateFormat     = "2006-01-02"
	MonthFormat    = "2006-01"
	YearFormat     = "2006"
)

// RecentWeeks is the length of the recent activity window.
const RecentWeeks = 32

// Limits bounds the size of page sections.
type Limits struct {
	// MaxAuthors is how many authors get a detailed row and an individual
	// series in the per-author history.
	MaxAuthors int
	// AuthorsTop is how many runners-up the yearly leaderboard lists.
	AuthorsTop int
	// MaxAuthorsOfMonths is how many months the monthly leaderboard shows.
	MaxAuthorsOfMonths int
	// MaxDomains is how many e-mail domains are listed.
	MaxDomains int
	// MaxRecentTags caps the tags page; zero lists every tag.
	MaxRecentTags int
}

// Settings is the immutable presentation configuration of one report run.
type Settings struct {
	palette     colormap.Palette
	limits      Limits
	assetsPath  string
	hasTagsPage bool
}

// NewSettings builds the settings for a run. The palette is copied.
func NewSettings(palette colormap.Palette, limits Limits, assetsPath string, hasTagsPage bool) Settings {
	return Settings{
		palette:     slices.Clone(palette),
		limits:      limits,
		assetsPath:  assetsPath,
		hasTagsPage: hasTagsPage,
	}
}

// Limits returns the section limits.
func (s Settings) Limits() Limits {
	return s.limits
}

// HasTagsPage reports whether the report includes a tags page.
func (s Settings) HasTagsPage() bool {
	return s.hasTagsPage
}

// HeatColor maps a count to its heat-map color relative to maxCount.
func (s Settings) HeatColor(count, maxCount int) colormap.RGB {
	return colormap.ColorFor(float64(count), float64(maxCount), s.palette)
}

// common returns the shared fields for a page with the given title.
func (s Settings) common(title string) Common {
	return Common{Title: title, AssetsPath: s.assetsPath, HasTagsPage: s.hasTagsPage}
}

// WeekdayName returns the full English name of weekday index i, Monday being 0.
func WeekdayName(i int) string {
	return time.Weekday((i + 1) % 7).String()
}

// MonthAbbr returns the three-letter English abbreviation of m.
func MonthAbbr(m time.Month) string {
	return m.String()[:3]
}

// Common carries the fields every page template needs.
type Common struct {
	Title       string
	AssetsPath  string
	HasTagsPage bool
}

// Ratio returns part/whole as a percentage, or 0 when whole is zero.
func Ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}

	return 100 * float64(part) / float64(whole)
}
