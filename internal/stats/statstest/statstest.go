// Package statstest provides a small deterministic statistics snapshot for tests.
package statstest

import (
	"time"

	"github.com/Sumatoshi-tech/repostat/internal/stats"
)

// Now is the generation time matching [Sample].
var Now = time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 0, 0, 0, 0, time.UTC)
}

// Sample returns a fresh snapshot of a four-author repository. bob and carl
// share a commit count and are listed bob first.
func Sample() *stats.Snapshot {
	weekday := make([][]int, stats.DaysPerWeek)
	for i := range weekday {
		weekday[i] = make([]int, stats.HoursPerDay)
	}

	weekday[0][9] = 4
	weekday[0][10] = 2
	weekday[2][17] = 5
	weekday[4][23] = 4

	return &stats.Snapshot{
		Repository:      stats.Repository{Name: "widget", Branch: "main"},
		CreatedAt:       Now.Add(-1500 * time.Millisecond),
		FirstCommit:     time.Date(2024, time.January, 2, 9, 30, 0, 0, time.UTC),
		LastCommit:      time.Date(2024, time.June, 5, 17, 45, 0, 0, time.UTC),
		ActiveDaysCount: 5,
		Totals: stats.Totals{
			Commits: 15, Files: 4, Lines: 900,
			LinesAdded: 1000, LinesRemoved: 100, TreeSize: 1536000,
		},
		Authors: []stats.Author{
			{
				Name: "alice", Commits: 6, LinesAdded: 600, LinesRemoved: 40,
				FirstCommit: day(time.January, 2), LatestCommit: day(time.June, 5),
				ActiveDays: 3, ContributedDays: 155,
			},
			{
				Name: "bob", Commits: 4, LinesAdded: 200, LinesRemoved: 30,
				FirstCommit: day(time.February, 12), LatestCommit: day(time.May, 20),
				ActiveDays: 2, ContributedDays: 98,
			},
			{
				Name: "carl", Commits: 4, LinesAdded: 150, LinesRemoved: 20,
				FirstCommit: day(time.March, 4), LatestCommit: day(time.June, 3),
				ActiveDays: 2, ContributedDays: 91,
			},
			{
				Name: "dave", Commits: 1, LinesAdded: 50, LinesRemoved: 10,
				FirstCommit: day(time.June, 3), LatestCommit: day(time.June, 3),
				ActiveDays: 1, ContributedDays: 1,
			},
		},
		DailyCommits: []stats.DailyCount{
			{Date: day(time.January, 2), Commits: 3},
			{Date: day(time.February, 12), Commits: 2},
			{Date: day(time.March, 4), Commits: 2},
			{Date: day(time.May, 20), Commits: 2},
			{Date: day(time.June, 3), Commits: 3},
			{Date: day(time.June, 5), Commits: 3},
		},
		AuthorHistory: stats.AuthorHistory{
			Weeks: []time.Time{day(time.January, 1), day(time.March, 4), day(time.May, 20), day(time.June, 3)},
			Commits: map[string][]int{
				"alice": {3, 0, 0, 3},
				"bob":   {0, 0, 2, 2},
				"carl":  {0, 2, 0, 2},
				"dave":  {0, 0, 0, 1},
			},
			Insertions: map[string][]int{
				"alice": {300, 0, 0, 300},
				"bob":   {0, 0, 100, 100},
				"carl":  {0, 100, 0, 50},
				"dave":  {0, 0, 0, 50},
			},
		},
		AuthorRankings: stats.AuthorRankings{
			Monthly: []stats.PeriodRanking{
				{Period: "2024-01", Authors: []stats.AuthorCount{{Name: "alice", Commits: 3}}},
				{Period: "2024-06", Authors: []stats.AuthorCount{
					{Name: "alice", Commits: 3}, {Name: "carl", Commits: 2},
					{Name: "bob", Commits: 1}, {Name: "dave", Commits: 1},
				}},
				{Period: "2024-03", Authors: []stats.AuthorCount{{Name: "carl", Commits: 2}}},
			},
			Yearly: []stats.PeriodRanking{
				{Period: "2024", Authors: []stats.AuthorCount{
					{Name: "alice", Commits: 6}, {Name: "bob", Commits: 4},
					{Name: "carl", Commits: 4}, {Name: "dave", Commits: 1},
				}},
			},
		},
		Timezones:   map[string]int{"+0100": 9, "-0500": 4, "+0000": 2},
		WeekdayHour: weekday,
		Extensions: map[string]stats.ExtensionStat{
			"go": {Files: 2, Lines: 800},
			"md": {Files: 1, Lines: 60},
			"py": {Files: 1, Lines: 40},
		},
		Tags: []stats.Tag{
			{Name: "v0.1.0", Date: day(time.February, 12), Commits: 5, Authors: []stats.AuthorCount{
				{Name: "alice", Commits: 3}, {Name: "bob", Commits: 2},
			}},
			{Name: "v0.1.1", Date: day(time.February, 13)},
			{Name: "v0.2.0", Date: day(time.June, 5), Commits: 10, Authors: []stats.AuthorCount{
				{Name: "alice", Commits: 3}, {Name: "carl", Commits: 3},
				{Name: "bob", Commits: 2}, {Name: "dave", Commits: 1},
			}},
		},
		Domains: map[string]int{"example.com": 10, "corp.example": 4, "mail.example": 1},
		FileCountHistory: []stats.StampCount{
			{Timestamp: 1704187800, Count: 2},
			{Timestamp: 1717609500, Count: 4},
		},
		LineCountHistory: []stats.StampCount{
			{Timestamp: 1704187800, Count: 300},
			{Timestamp: 1717609500, Count: 900},
		},
	}
}
