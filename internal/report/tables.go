package report

import (
	"sort"
	"strconv"

	"github.com/Sumatoshi-tech/repostat/internal/pages"
	"github.com/Sumatoshi-tech/repostat/internal/stats"
)

// headerDate labels the first column of the per-author tables.
const headerDate = "date"

// recentActivityRows renders "weeks_ago commits" lines, oldest week first.
func recentActivityRows(weeks []pages.WeekCount) [][]string {
	rows := make([][]string, len(weeks))
	for i, w := range weeks {
		rows[i] = []string{strconv.Itoa(w.WeeksAgo), strconv.Itoa(w.Commits)}
	}

	return rows
}

// periodRows renders "label commits" lines.
func periodRows(periods []pages.PeriodCount) [][]string {
	rows := make([][]string, len(periods))
	for i, p := range periods {
		rows[i] = []string{p.Label, strconv.Itoa(p.Commits)}
	}

	return rows
}

// authorSeriesRows renders a header of quoted column names followed by one
// line per bucket: the bucket date and every cumulative value.
func authorSeriesRows(series pages.AuthorSeries) [][]string {
	columns := series.Columns()

	header := make([]string, 0, len(columns)+1)
	header = append(header, headerDate)

	for _, name := range columns {
		header = append(header, strconv.Quote(name))
	}

	rows := make([][]string, 0, series.Len()+1)
	rows = append(rows, header)

	for t := range series.Len() {
		values := series.Row(t)

		row := make([]string, 0, len(values)+1)
		row = append(row, series.Labels[t])

		for _, v := range values {
			row = append(row, strconv.Itoa(v))
		}

		rows = append(rows, row)
	}

	return rows
}

// domainRows renders "domain rank commits" lines.
func domainRows(domains []pages.DomainRow) [][]string {
	rows := make([][]string, len(domains))
	for i, d := range domains {
		rows[i] = []string{d.Domain, strconv.Itoa(d.Rank), strconv.Itoa(d.Commits)}
	}

	return rows
}

// stampRows renders "timestamp count" lines, one per distinct timestamp in
// ascending order. A repeated timestamp keeps its last count.
func stampRows(history []stats.StampCount) [][]string {
	ordered := make([]stats.StampCount, len(history))
	copy(ordered, history)

	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Timestamp < ordered[j].Timestamp })

	rows := make([][]string, 0, len(ordered))

	for i, s := range ordered {
		if i+1 < len(ordered) && ordered[i+1].Timestamp == s.Timestamp {
			continue
		}

		rows = append(rows, []string{strconv.FormatInt(s.Timestamp, 10), strconv.Itoa(s.Count)})
	}

	return rows
}
