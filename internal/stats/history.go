package stats

import (
	"sort"
	"time"
)

// Granularity selects the bucket width of a commit history.
type Granularity int

// Supported granularities.
const (
	Day Granularity = iota
	Week
	Month
	Year
)

const daysPerWeekDur = DaysPerWeek * 24 * time.Hour

// Bucket is the commit count of one period starting at Start (UTC midnight).
type Bucket struct {
	Start   time.Time
	Commits int
}

// History returns the commit history at the given granularity, oldest first.
// Periods between the first and last active period are present with zero
// commits. Weeks start on Monday.
func (s *Snapshot) History(g Granularity) []Bucket {
	if len(s.DailyCommits) == 0 {
		return nil
	}

	counts := make(map[time.Time]int)
	for _, d := range s.DailyCommits {
		counts[PeriodStart(d.Date, g)] += d.Commits
	}

	starts := make([]time.Time, 0, len(counts))
	for start := range counts {
		starts = append(starts, start)
	}

	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	first, last := starts[0], starts[len(starts)-1]

	var buckets []Bucket
	for start := first; !start.After(last); start = nextPeriod(start, g) {
		buckets = append(buckets, Bucket{Start: start, Commits: counts[start]})
	}

	return buckets
}

// PeriodStart returns the UTC midnight starting the period containing t.
// The calendar day is taken in t's own location.
func PeriodStart(t time.Time, g Granularity) time.Time {
	year, month, day := t.Date()
	dayStart := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	switch g {
	case Week:
		return dayStart.AddDate(0, 0, -mondayOffset(dayStart.Weekday()))
	case Month:
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	case Year:
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	case Day:
		return dayStart
	}

	return dayStart
}

func nextPeriod(start time.Time, g Granularity) time.Time {
	switch g {
	case Week:
		return start.AddDate(0, 0, DaysPerWeek)
	case Month:
		return start.AddDate(0, 1, 0)
	case Year:
		return start.AddDate(1, 0, 0)
	case Day:
		return start.AddDate(0, 0, 1)
	}

	return start.AddDate(0, 0, 1)
}

// mondayOffset returns how many days lie between the preceding Monday and wd.
func mondayOffset(wd time.Weekday) int {
	return (int(wd) + DaysPerWeek - 1) % DaysPerWeek
}

// RecentWeeklyActivity returns commit counts for the weeks weeks ending with
// the week containing now, oldest first. Index weeks-1 is the current week.
func (s *Snapshot) RecentWeeklyActivity(now time.Time, weeks int) []int {
	if weeks <= 0 {
		return nil
	}

	activity := make([]int, weeks)
	current := PeriodStart(now, Week)

	for _, d := range s.DailyCommits {
		ago := int(current.Sub(PeriodStart(d.Date, Week)) / daysPerWeekDur)
		if ago < 0 || ago >= weeks {
			continue
		}

		activity[weeks-1-ago] += d.Commits
	}

	return activity
}

// AgeDays returns the number of whole days between the first and last commit.
func (s *Snapshot) AgeDays() int {
	if s.LastCommit.Before(s.FirstCommit) {
		return 0
	}

	return int(s.LastCommit.Sub(s.FirstCommit) / (24 * time.Hour))
}
