package pages

import (
	"sort"
	"strconv"
	"time"

	"github.com/Sumatoshi-tech/repostat/internal/colormap"
	"github.com/Sumatoshi-tech/repostat/internal/stats"
)

// minOffset orders unparsable timezone offsets before every real one.
const minOffset = -1 << 31

// WeekCount is the commit count of one week in the recent activity window.
type WeekCount struct {
	// WeeksAgo is 0 for the current week.
	WeeksAgo int
	Commits  int
}

// HeatCell is one weekday × hour cell of the heat map.
type HeatCell struct {
	Commits int
	Color   colormap.RGB
}

// WeekdayRow is one heat-map row.
type WeekdayRow struct {
	Name    string
	Cells   [stats.HoursPerDay]HeatCell
	Commits int
	Ratio   float64
}

// HourCount is the commit count of one hour of the day over all weekdays.
type HourCount struct {
	Hour    int
	Commits int
	Ratio   float64
	Color   colormap.RGB
}

// PeriodCount is the commit count of a month, year or calendar month.
type PeriodCount struct {
	Label   string
	Commits int
	Ratio   float64
}

// TimezoneCount is the number of commits authored in one UTC offset.
type TimezoneCount struct {
	Offset  string
	Commits int
}

// ActivityPage shows when commits were made.
type ActivityPage struct {
	Common

	// RecentWeeks is the recent activity window, oldest first.
	RecentWeeks []WeekCount

	Weekdays    []WeekdayRow
	Hours       []HourCount
	HeatMax     int
	HeatTotal   int
	MonthOfYear []PeriodCount

	// CurrentYearMonths covers the months of the generation year, oldest first.
	CurrentYearMonths []PeriodCount
	// Years covers every year of history, oldest first.
	Years []PeriodCount

	Timezones []TimezoneCount
}

// Activity builds the activity page relative to the generation time now.
func (a *Assembler) Activity(now time.Time) ActivityPage {
	page := ActivityPage{Common: a.settings.common(TitleActivity)}

	recent := a.model.RecentWeeklyActivity(now, RecentWeeks)
	page.RecentWeeks = make([]WeekCount, len(recent))

	for i, commits := range recent {
		page.RecentWeeks[i] = WeekCount{WeeksAgo: len(recent) - i - 1, Commits: commits}
	}

	a.fillHeatMap(&page)

	months := a.model.MonthOfYear()
	monthsTotal := 0

	for _, c := range months {
		monthsTotal += c
	}

	page.MonthOfYear = make([]PeriodCount, stats.MonthsInYear)
	for i, c := range months {
		page.MonthOfYear[i] = PeriodCount{
			Label:   MonthAbbr(time.Month(i + 1)),
			Commits: c,
			Ratio:   Ratio(c, monthsTotal),
		}
	}

	for _, b := range a.model.History(stats.Month) {
		if b.Start.Year() == now.Year() {
			page.CurrentYearMonths = append(page.CurrentYearMonths, PeriodCount{
				Label:   b.Start.Format(MonthFormat),
				Commits: b.Commits,
				Ratio:   Ratio(b.Commits, a.model.Totals.Commits),
			})
		}
	}

	for _, b := range a.model.History(stats.Year) {
		page.Years = append(page.Years, PeriodCount{
			Label:   b.Start.Format(YearFormat),
			Commits: b.Commits,
			Ratio:   Ratio(b.Commits, a.model.Totals.Commits),
		})
	}

	page.Timezones = sortedTimezones(a.model.Timezones)

	return page
}

func (a *Assembler) fillHeatMap(page *ActivityPage) {
	matrix := a.model.WeekdayHourMatrix()

	var hours [stats.HoursPerDay]int

	for day := range stats.DaysPerWeek {
		for hour := range stats.HoursPerDay {
			c := matrix[day][hour]
			page.HeatMax = max(page.HeatMax, c)
			page.HeatTotal += c
			hours[hour] += c
		}
	}

	hoursMax := 0
	for _, c := range hours {
		hoursMax = max(hoursMax, c)
	}

	page.Weekdays = make([]WeekdayRow, stats.DaysPerWeek)

	for day := range stats.DaysPerWeek {
		row := WeekdayRow{Name: WeekdayName(day)}

		for hour := range stats.HoursPerDay {
			c := matrix[day][hour]
			row.Cells[hour] = HeatCell{Commits: c, Color: a.settings.HeatColor(c, page.HeatMax)}
			row.Commits += c
		}

		row.Ratio = Ratio(row.Commits, page.HeatTotal)
		page.Weekdays[day] = row
	}

	page.Hours = make([]HourCount, stats.HoursPerDay)
	for hour, c := range hours {
		page.Hours[hour] = HourCount{
			Hour:    hour,
			Commits: c,
			Ratio:   Ratio(c, page.HeatTotal),
			Color:   a.settings.HeatColor(c, hoursMax),
		}
	}
}

// sortedTimezones orders UTC offsets numerically, "-0500" before "+0100".
func sortedTimezones(zones map[string]int) []TimezoneCount {
	out := make([]TimezoneCount, 0, len(zones))
	for offset, commits := range zones {
		out = append(out, TimezoneCount{Offset: offset, Commits: commits})
	}

	sort.Slice(out, func(i, j int) bool {
		oi, oj := offsetValue(out[i].Offset), offsetValue(out[j].Offset)
		if oi != oj {
			return oi < oj
		}

		return out[i].Offset < out[j].Offset
	})

	return out
}

// offsetValue parses "+hhmm"/"-hhmm" as a signed integer; unparsable offsets sort first.
func offsetValue(offset string) int {
	v, err := strconv.Atoi(offset)
	if err != nil {
		return minOffset
	}

	return v
}
