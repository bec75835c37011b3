package pages

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/repostat/internal/rollup"
	"github.com/Sumatoshi-tech/repostat/internal/stats"
)

// monthlyRunnersUp is how many authors after the leader a month lists.
const monthlyRunnersUp = 4

const nameSeparator = ", "

// AuthorRow is the detail line of one top author.
type AuthorRow struct {
	Name            string
	Commits         int
	CommitsRatio    float64
	LinesAdded      int
	LinesRemoved    int
	FirstCommit     string
	LatestCommit    string
	ContributedDays int
	ActiveDays      int
	// Contribution is the author's share of the current tree in percent.
	// Nil when the model carries no contribution data.
	Contribution *float64
}

// LeaderboardRow summarizes one month or year.
type LeaderboardRow struct {
	Period        string
	Leader        string
	LeaderCommits int
	// RunnersUp lists the following authors by rank, joined by ", ".
	RunnersUp string
	Commits   int
	Authors   int
}

// DomainRow is one e-mail domain ranked by commits.
type DomainRow struct {
	Domain  string
	Rank    int
	Commits int
	Ratio   float64
}

// AuthorSeries is a per-author history squashed to the top authors plus
// Others, as running totals, with one label per bucket.
type AuthorSeries struct {
	Labels []string
	rollup.Result
}

// AuthorsPage lists authors and their activity.
type AuthorsPage struct {
	Common

	TotalCommits int
	TotalLines   int
	AuthorsTop   int

	Top           []AuthorRow
	NonTopAuthors []string

	Monthly []LeaderboardRow
	Yearly  []LeaderboardRow

	Commits    AuthorSeries
	Insertions AuthorSeries

	Domains []DomainRow
}

// Authors builds the authors page. It fails when a ranked author or period
// leader is absent from the author records.
func (a *Assembler) Authors() (AuthorsPage, error) {
	m := a.model
	limits := a.settings.Limits()

	page := AuthorsPage{
		Common:       a.settings.common(TitleAuthors),
		TotalCommits: m.Totals.Commits,
		TotalLines:   m.Totals.Lines,
		AuthorsTop:   limits.AuthorsTop,
	}

	names := m.AuthorNames()

	var err error

	page.Commits, err = a.authorSeries(names, m.AuthorHistory.Commits)
	if err != nil {
		return AuthorsPage{}, err
	}

	page.Insertions, err = a.authorSeries(names, m.AuthorHistory.Insertions)
	if err != nil {
		return AuthorsPage{}, err
	}

	top := names[:min(limits.MaxAuthors, len(names))]

	if len(names) > limits.MaxAuthors {
		page.NonTopAuthors = names[limits.MaxAuthors:]
	}

	for _, name := range top {
		author, authorErr := m.Author(name)
		if authorErr != nil {
			return AuthorsPage{}, authorErr
		}

		page.Top = append(page.Top, a.authorRow(author))
	}

	page.Monthly, err = a.leaderboard(m.AuthorRankings.Monthly, limits.MaxAuthorsOfMonths, monthlyRunnersUp)
	if err != nil {
		return AuthorsPage{}, fmt.Errorf("monthly leaderboard: %w", err)
	}

	page.Yearly, err = a.leaderboard(m.AuthorRankings.Yearly, -1, limits.AuthorsTop)
	if err != nil {
		return AuthorsPage{}, fmt.Errorf("yearly leaderboard: %w", err)
	}

	page.Domains = a.domains()

	return page, nil
}

func (a *Assembler) authorRow(author stats.Author) AuthorRow {
	row := AuthorRow{
		Name:            author.Name,
		Commits:         author.Commits,
		CommitsRatio:    Ratio(author.Commits, a.model.Totals.Commits),
		LinesAdded:      author.LinesAdded,
		LinesRemoved:    author.LinesRemoved,
		FirstCommit:     author.FirstCommit.Format(DateFormat),
		LatestCommit:    author.LatestCommit.Format(DateFormat),
		ContributedDays: author.ContributedDays,
		ActiveDays:      author.ActiveDays,
	}

	if a.model.Contribution != nil {
		share := a.model.Contribution[author.Name]
		row.Contribution = &share
	}

	return row
}

// leaderboard summarizes rankings most recent period first. maxPeriods < 0
// keeps every period; runnersUp is how many authors follow the leader.
func (a *Assembler) leaderboard(rankings []stats.PeriodRanking, maxPeriods, runnersUp int) ([]LeaderboardRow, error) {
	ordered := make([]stats.PeriodRanking, 0, len(rankings))
	for _, r := range rankings {
		if len(r.Authors) > 0 {
			ordered = append(ordered, r)
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Period > ordered[j].Period })

	if maxPeriods >= 0 && len(ordered) > maxPeriods {
		ordered = ordered[:maxPeriods]
	}

	rows := make([]LeaderboardRow, 0, len(ordered))

	for _, r := range ordered {
		leader := r.Authors[0]

		_, err := a.model.Author(leader.Name)
		if err != nil {
			return nil, fmt.Errorf("period %s: %w", r.Period, err)
		}

		row := LeaderboardRow{
			Period:        r.Period,
			Leader:        leader.Name,
			LeaderCommits: leader.Commits,
			Authors:       len(r.Authors),
		}

		var next []string

		for i, ac := range r.Authors {
			row.Commits += ac.Commits

			if i > 0 && i <= runnersUp {
				next = append(next, ac.Name)
			}
		}

		row.RunnersUp = strings.Join(next, nameSeparator)
		rows = append(rows, row)
	}

	return rows, nil
}

func (a *Assembler) authorSeries(ranking []string, values map[string][]int) (AuthorSeries, error) {
	weeks := a.model.AuthorHistory.Weeks
	series := rollup.Series{Names: ranking, Values: values, Buckets: len(weeks)}

	result, err := rollup.Rollup(series, a.settings.Limits().MaxAuthors)
	if err != nil {
		return AuthorSeries{}, fmt.Errorf("squash author history: %w", err)
	}

	labels := make([]string, result.Len())

	for i := range labels {
		labels[i] = weekLabel(weeks, i)
	}

	return AuthorSeries{Labels: labels, Result: result}, nil
}

func weekLabel(weeks []time.Time, i int) string {
	if i < len(weeks) {
		return weeks[i].Format(DateFormat)
	}

	return ""
}

// domains ranks e-mail domains by commits, descending; ties by name.
func (a *Assembler) domains() []DomainRow {
	rows := make([]DomainRow, 0, len(a.model.Domains))
	for domain, commits := range a.model.Domains {
		rows = append(rows, DomainRow{Domain: domain, Commits: commits})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Commits != rows[j].Commits {
			return rows[i].Commits > rows[j].Commits
		}

		return rows[i].Domain < rows[j].Domain
	})

	rows = rows[:max(min(a.settings.Limits().MaxDomains, len(rows)), 0)]

	for i := range rows {
		rows[i].Rank = i
		rows[i].Ratio = Ratio(rows[i].Commits, a.model.Totals.Commits)
	}

	return rows
}
