// Package rollup reduces a wide per-contributor time series into the top-K
// contributors plus one synthetic "Others" bucket, all as running totals.
package rollup

import (
	"fmt"
	"slices"
	"sort"

	"github.com/Sumatoshi-tech/repostat/internal/reporterr"
)

// OthersName labels the synthetic bucket holding every non-top contributor.
const OthersName = "Others"

// ErrNegativeTopK is returned when the top-K bound is negative.
var ErrNegativeTopK = fmt.Errorf("%w: top-k must be non-negative", reporterr.ErrInvalidArgument)

// Series is a per-contributor time series.
type Series struct {
	// Names is the externally established ranking, most productive first.
	// Ties were already broken upstream; the order is taken as-is.
	Names []string

	// Values maps a contributor name to its per-bucket values in
	// chronological order. Missing buckets count as zero.
	Values map[string][]int

	// Buckets is the minimum number of time buckets. Shorter value
	// sequences are padded up to it.
	Buckets int
}

// Len returns the number of time buckets: Buckets or the longest value
// sequence, whichever is larger.
func (s Series) Len() int {
	n := max(s.Buckets, 0)
	for _, v := range s.Values {
		n = max(n, len(v))
	}

	return n
}

// Result holds the cumulative top-K series and the cumulative Others series.
type Result struct {
	// Names are the retained contributors in ranking order.
	Names []string

	// Cumulative[i] is the running total of Names[i].
	Cumulative [][]int

	// Others is the running total of the summed remainder.
	Others []int
}

// Len returns the number of time buckets.
func (r Result) Len() int {
	return len(r.Others)
}

// Total returns the sum of all cumulative values at bucket t.
// It equals the running total of the whole original series at t.
func (r Result) Total(t int) int {
	total := r.Others[t]
	for _, c := range r.Cumulative {
		total += c[t]
	}

	return total
}

// Columns returns the column labels: retained names followed by [OthersName].
func (r Result) Columns() []string {
	return append(slices.Clone(r.Names), OthersName)
}

// Row returns the values at bucket t in [Result.Columns] order.
func (r Result) Row(t int) []int {
	row := make([]int, 0, len(r.Cumulative)+1)
	for _, c := range r.Cumulative {
		row = append(row, c[t])
	}

	return append(row, r.Others[t])
}

// Rollup keeps the first topK ranked contributors individually and folds the
// rest into [OthersName]. Every output series is a running cumulative sum.
//
// Contributors present in Values but missing from Names belong to the
// remainder. With topK >= the number of ranked names the Others bucket is
// still present and all zero.
func Rollup(series Series, topK int) (Result, error) {
	if topK < 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrNegativeTopK, topK)
	}

	n := series.Len()
	ranked := dedupe(series.Names)
	split := min(topK, len(ranked))

	top := ranked[:split]
	rest := append(slices.Clone(ranked[split:]), unranked(series, ranked)...)

	result := Result{
		Names:      slices.Clone(top),
		Cumulative: make([][]int, len(top)),
		Others:     make([]int, n),
	}

	for i, name := range top {
		result.Cumulative[i] = cumulate(series.Values[name], n)
	}

	combined := make([]int, n)

	for _, name := range rest {
		for t, v := range series.Values[name] {
			combined[t] += v
		}
	}

	result.Others = cumulate(combined, n)

	return result, nil
}

// cumulate returns the running total of values padded with zeros to n buckets.
func cumulate(values []int, n int) []int {
	out := make([]int, n)
	running := 0

	for t := range n {
		if t < len(values) {
			running += values[t]
		}

		out[t] = running
	}

	return out
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))

	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}

		seen[name] = struct{}{}
		out = append(out, name)
	}

	return out
}

func unranked(series Series, ranked []string) []string {
	known := make(map[string]struct{}, len(ranked))
	for _, name := range ranked {
		known[name] = struct{}{}
	}

	var extra []string

	for name := range series.Values {
		if _, ok := known[name]; !ok {
			extra = append(extra, name)
		}
	}

	sort.Strings(extra)

	return extra
}
