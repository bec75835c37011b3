package pages_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/repostat/internal/colormap"
	"github.com/Sumatoshi-tech/repostat/internal/pages"
	"github.com/Sumatoshi-tech/repostat/internal/reporterr"
	"github.com/Sumatoshi-tech/repostat/internal/rollup"
	"github.com/Sumatoshi-tech/repostat/internal/stats"
	"github.com/Sumatoshi-tech/repostat/internal/stats/statstest"
)

func testLimits() pages.Limits {
	return pages.Limits{
		MaxAuthors:         2,
		AuthorsTop:         2,
		MaxAuthorsOfMonths: 2,
		MaxDomains:         2,
	}
}

func newAssembler(t *testing.T, model *stats.Snapshot, limits pages.Limits) *pages.Assembler {
	t.Helper()

	palette, err := colormap.Lookup(colormap.DefaultPalette)
	require.NoError(t, err)

	return pages.NewAssembler(model, pages.NewSettings(palette, limits, "assets", true))
}

func TestGeneral(t *testing.T) {
	t.Parallel()

	page := newAssembler(t, statstest.Sample(), testLimits()).General(statstest.Now)

	assert.Equal(t, pages.TitleGeneral, page.Title)
	assert.Equal(t, "assets", page.AssetsPath)
	assert.True(t, page.HasTagsPage)
	assert.Equal(t, "widget", page.ProjectName)
	assert.Equal(t, "main", page.Branch)
	assert.Equal(t, 155, page.AgeDays)
	assert.Equal(t, 5, page.ActiveDays)
	assert.Equal(t, 4, page.Authors)
	assert.Equal(t, "2024-01-02 09:30", page.FirstCommit)
	assert.Equal(t, "2024-06-05 17:45", page.LastCommit)
	assert.Equal(t, "2024-06-10 12:00", page.GeneratedAt)
	assert.Equal(t, "1.500", page.GenerationDuration)
	assert.InDelta(t, 3.0, page.CommitsPerActiveDay, 1e-9)
	assert.InDelta(t, 3.75, page.CommitsPerAuthor, 1e-9)
}

func TestGeneral_NoCollectionStart(t *testing.T) {
	t.Parallel()

	model := statstest.Sample()
	model.CreatedAt = time.Time{}

	page := newAssembler(t, model, testLimits()).General(statstest.Now)
	assert.Equal(t, "0.000", page.GenerationDuration)
}

func TestActivity_RecentWeeks(t *testing.T) {
	t.Parallel()

	page := newAssembler(t, statstest.Sample(), testLimits()).Activity(statstest.Now)

	require.Len(t, page.RecentWeeks, pages.RecentWeeks)
	assert.Equal(t, 31, page.RecentWeeks[0].WeeksAgo)
	assert.Equal(t, pages.WeekCount{WeeksAgo: 0, Commits: 0}, page.RecentWeeks[31])
	assert.Equal(t, pages.WeekCount{WeeksAgo: 1, Commits: 6}, page.RecentWeeks[30])
	assert.Equal(t, 2, page.RecentWeeks[28].Commits)
	assert.Equal(t, 2, page.RecentWeeks[17].Commits)
	assert.Equal(t, 2, page.RecentWeeks[14].Commits)
	assert.Equal(t, 3, page.RecentWeeks[8].Commits)

	total := 0
	for _, w := range page.RecentWeeks {
		total += w.Commits
	}

	assert.Equal(t, 15, total)
}

func TestActivity_HeatMap(t *testing.T) {
	t.Parallel()

	palette, err := colormap.Lookup(colormap.DefaultPalette)
	require.NoError(t, err)

	page := newAssembler(t, statstest.Sample(), testLimits()).Activity(statstest.Now)

	assert.Equal(t, 5, page.HeatMax)
	assert.Equal(t, 15, page.HeatTotal)
	require.Len(t, page.Weekdays, 7)
	assert.Equal(t, "Monday", page.Weekdays[0].Name)
	assert.Equal(t, "Sunday", page.Weekdays[6].Name)
	assert.Equal(t, 6, page.Weekdays[0].Commits)
	assert.InDelta(t, 40.0, page.Weekdays[0].Ratio, 1e-9)

	assert.Equal(t, palette[5], page.Weekdays[0].Cells[9].Color)
	assert.Equal(t, palette[len(palette)-1], page.Weekdays[2].Cells[17].Color)
	assert.Equal(t, palette[0], page.Weekdays[1].Cells[0].Color)

	require.Len(t, page.Hours, 24)
	assert.Equal(t, 5, page.Hours[17].Commits)
	assert.Equal(t, 4, page.Hours[23].Commits)
}

func TestActivity_Periods(t *testing.T) {
	t.Parallel()

	page := newAssembler(t, statstest.Sample(), testLimits()).Activity(statstest.Now)

	require.Len(t, page.MonthOfYear, 12)
	assert.Equal(t, "Jan", page.MonthOfYear[0].Label)
	assert.Equal(t, 6, page.MonthOfYear[5].Commits)
	assert.InDelta(t, 40.0, page.MonthOfYear[5].Ratio, 1e-9)

	labels := make([]string, len(page.CurrentYearMonths))
	for i, m := range page.CurrentYearMonths {
		labels[i] = m.Label
	}

	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03", "2024-04", "2024-05", "2024-06"}, labels)
	assert.Equal(t, 0, page.CurrentYearMonths[3].Commits)

	require.Len(t, page.Years, 1)
	assert.Equal(t, pages.PeriodCount{Label: "2024", Commits: 15, Ratio: 100}, page.Years[0])

	assert.Equal(t, []pages.TimezoneCount{
		{Offset: "-0500", Commits: 4},
		{Offset: "+0000", Commits: 2},
		{Offset: "+0100", Commits: 9},
	}, page.Timezones)
}

func TestActivity_NoCurrentYearHistory(t *testing.T) {
	t.Parallel()

	page := newAssembler(t, statstest.Sample(), testLimits()).Activity(statstest.Now.AddDate(1, 0, 0))

	assert.Empty(t, page.CurrentYearMonths)
	assert.Len(t, page.Years, 1)
}

func TestAuthors_TopAndRest(t *testing.T) {
	t.Parallel()

	page, err := newAssembler(t, statstest.Sample(), testLimits()).Authors()
	require.NoError(t, err)

	require.Len(t, page.Top, 2)
	assert.Equal(t, "alice", page.Top[0].Name)
	assert.Equal(t, "bob", page.Top[1].Name, "ties keep the collector order")
	assert.Equal(t, []string{"carl", "dave"}, page.NonTopAuthors)
	assert.InDelta(t, 40.0, page.Top[0].CommitsRatio, 1e-9)
	assert.Equal(t, "2024-01-02", page.Top[0].FirstCommit)
	assert.Nil(t, page.Top[0].Contribution)
}

func TestAuthors_Contribution(t *testing.T) {
	t.Parallel()

	model := statstest.Sample()
	model.Contribution = map[string]float64{"alice": 62.5}

	page, err := newAssembler(t, model, testLimits()).Authors()
	require.NoError(t, err)

	require.NotNil(t, page.Top[0].Contribution)
	assert.InDelta(t, 62.5, *page.Top[0].Contribution, 1e-9)
	require.NotNil(t, page.Top[1].Contribution)
	assert.Zero(t, *page.Top[1].Contribution)
}

func TestAuthors_Leaderboards(t *testing.T) {
	t.Parallel()

	page, err := newAssembler(t, statstest.Sample(), testLimits()).Authors()
	require.NoError(t, err)

	assert.Equal(t, []pages.LeaderboardRow{
		{Period: "2024-06", Leader: "alice", LeaderCommits: 3, RunnersUp: "carl, bob, dave", Commits: 7, Authors: 4},
		{Period: "2024-03", Leader: "carl", LeaderCommits: 2, Commits: 2, Authors: 1},
	}, page.Monthly)

	assert.Equal(t, []pages.LeaderboardRow{
		{Period: "2024", Leader: "alice", LeaderCommits: 6, RunnersUp: "bob, carl", Commits: 15, Authors: 4},
	}, page.Yearly)
}

func TestAuthors_CommitsRollup(t *testing.T) {
	t.Parallel()

	page, err := newAssembler(t, statstest.Sample(), testLimits()).Authors()
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-01", "2024-03-04", "2024-05-20", "2024-06-03"}, page.Commits.Labels)
	assert.Equal(t, []string{"alice", "bob", rollup.OthersName}, page.Commits.Columns())
	assert.Equal(t, [][]int{{3, 3, 3, 6}, {0, 0, 2, 4}}, page.Commits.Cumulative)
	assert.Equal(t, []int{0, 2, 2, 5}, page.Commits.Others)
	assert.Equal(t, 15, page.Commits.Total(3))

	assert.Equal(t, []int{0, 100, 100, 200}, page.Insertions.Others)
}

func TestAuthors_ShortHistoryCoversEveryWeek(t *testing.T) {
	t.Parallel()

	model := statstest.Sample()
	model.AuthorHistory.Commits = map[string][]int{"alice": {3}, "bob": {0, 2}}
	model.AuthorHistory.Insertions = nil

	page, err := newAssembler(t, model, testLimits()).Authors()
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-01", "2024-03-04", "2024-05-20", "2024-06-03"}, page.Commits.Labels)
	assert.Equal(t, [][]int{{3, 3, 3, 3}, {0, 2, 2, 2}}, page.Commits.Cumulative)
	assert.Equal(t, 4, page.Insertions.Len())
	assert.Equal(t, []int{0, 0, 0, 0}, page.Insertions.Others)
}

func TestAuthors_NegativeMaxAuthors(t *testing.T) {
	t.Parallel()

	limits := testLimits()
	limits.MaxAuthors = -1

	_, err := newAssembler(t, statstest.Sample(), limits).Authors()
	require.ErrorIs(t, err, rollup.ErrNegativeTopK)
	assert.ErrorIs(t, err, reporterr.ErrInvalidArgument)
}

func TestAuthors_NegativeMaxDomains(t *testing.T) {
	t.Parallel()

	limits := testLimits()
	limits.MaxDomains = -1

	page, err := newAssembler(t, statstest.Sample(), limits).Authors()
	require.NoError(t, err)
	assert.Empty(t, page.Domains)
}

func TestAuthors_Domains(t *testing.T) {
	t.Parallel()

	page, err := newAssembler(t, statstest.Sample(), testLimits()).Authors()
	require.NoError(t, err)

	require.Len(t, page.Domains, 2)
	assert.Equal(t, "example.com", page.Domains[0].Domain)
	assert.Equal(t, 0, page.Domains[0].Rank)
	assert.Equal(t, "corp.example", page.Domains[1].Domain)
	assert.Equal(t, 1, page.Domains[1].Rank)
}

func TestAuthors_MissingLeader(t *testing.T) {
	t.Parallel()

	model := statstest.Sample()
	model.AuthorRankings.Yearly[0].Authors[0].Name = "zed"

	_, err := newAssembler(t, model, testLimits()).Authors()
	require.ErrorIs(t, err, stats.ErrAuthorNotFound)
	assert.ErrorIs(t, err, reporterr.ErrNotFound)
}

func TestFiles(t *testing.T) {
	t.Parallel()

	page := newAssembler(t, statstest.Sample(), testLimits()).Files()

	assert.Equal(t, 4, page.Files)
	assert.Equal(t, 900, page.Lines)
	assert.Equal(t, "1.5 MiB", page.TreeSizeText)
	assert.Equal(t, "375 KiB", page.AverageSize)

	require.Len(t, page.Extensions, 3)
	assert.Equal(t, "go", page.Extensions[0].Extension)
	assert.Equal(t, "Go", page.Extensions[0].Language)
	assert.Equal(t, 400, page.Extensions[0].LinesPerFile)
	assert.Equal(t, "md", page.Extensions[1].Extension)
	assert.Equal(t, "Markdown", page.Extensions[1].Language)
	assert.Equal(t, "py", page.Extensions[2].Extension)
	assert.Equal(t, "Python", page.Extensions[2].Language)
}

func TestTags(t *testing.T) {
	t.Parallel()

	page := newAssembler(t, statstest.Sample(), testLimits()).Tags()

	assert.Equal(t, 3, page.TagsCount)
	assert.Equal(t, []pages.TagRow{
		{Name: "v0.2.0", Date: "2024-06-05", Commits: 10, Authors: "dave (1), bob (2), alice (3), carl (3)"},
		{Name: "v0.1.0", Date: "2024-02-12", Commits: 5, Authors: "bob (2), alice (3)"},
	}, page.Tags)
}

func TestTags_RecentCap(t *testing.T) {
	t.Parallel()

	limits := testLimits()
	limits.MaxRecentTags = 1

	page := newAssembler(t, statstest.Sample(), limits).Tags()

	require.Len(t, page.Tags, 1)
	assert.Equal(t, "v0.2.0", page.Tags[0].Name)
}

func TestAbout(t *testing.T) {
	t.Parallel()

	info := pages.AboutInfo{Version: "v1.0.0", Tools: []string{"gnuplot 5.4"}, Contributors: []string{"alice"}}
	page := newAssembler(t, statstest.Sample(), testLimits()).About(info)

	assert.Equal(t, pages.TitleAbout, page.Title)
	assert.Equal(t, info, page.AboutInfo)
}

func TestWeekdayAndMonthNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Monday", pages.WeekdayName(0))
	assert.Equal(t, "Saturday", pages.WeekdayName(5))
	assert.Equal(t, "Sunday", pages.WeekdayName(6))
	assert.Equal(t, "Sep", pages.MonthAbbr(9))
}
