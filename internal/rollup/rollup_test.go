package rollup_test

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/repostat/internal/reporterr"
	"github.com/Sumatoshi-tech/repostat/internal/rollup"
)

func exampleSeries() rollup.Series {
	return rollup.Series{
		Names: []string{"alice", "bob", "carl"},
		Values: map[string][]int{
			"alice": {1, 2, 3},
			"bob":   {0, 1, 1},
			"carl":  {2, 0, 0},
		},
	}
}

func TestRollup_Example(t *testing.T) {
	t.Parallel()

	result, err := rollup.Rollup(exampleSeries(), 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"alice"}, result.Names)
	assert.Equal(t, [][]int{{1, 3, 6}}, result.Cumulative)
	assert.Equal(t, []int{2, 3, 4}, result.Others)

	// Combined original series is [3, 3, 4]; its running total is [3, 6, 10].
	assert.Equal(t, 3, result.Total(0))
	assert.Equal(t, 6, result.Total(1))
	assert.Equal(t, 10, result.Total(2))
}

func TestRollup_TopKCoversEveryone(t *testing.T) {
	t.Parallel()

	for _, k := range []int{3, 4, 100} {
		result, err := rollup.Rollup(exampleSeries(), k)
		require.NoError(t, err)

		assert.Equal(t, []string{"alice", "bob", "carl"}, result.Names)
		assert.Equal(t, []int{0, 0, 0}, result.Others)
		assert.Equal(t, []string{"alice", "bob", "carl", rollup.OthersName}, result.Columns())
	}
}

func TestRollup_ZeroTopK(t *testing.T) {
	t.Parallel()

	result, err := rollup.Rollup(exampleSeries(), 0)
	require.NoError(t, err)

	assert.Empty(t, result.Names)
	assert.Equal(t, []int{3, 6, 10}, result.Others)
	assert.Equal(t, []string{rollup.OthersName}, result.Columns())
}

func TestRollup_Empty(t *testing.T) {
	t.Parallel()

	result, err := rollup.Rollup(rollup.Series{}, 5)
	require.NoError(t, err)

	assert.Empty(t, result.Names)
	assert.Empty(t, result.Others)
	assert.Equal(t, 0, result.Len())
}

func TestRollup_NegativeTopK(t *testing.T) {
	t.Parallel()

	_, err := rollup.Rollup(exampleSeries(), -1)
	require.ErrorIs(t, err, rollup.ErrNegativeTopK)
	require.ErrorIs(t, err, reporterr.ErrInvalidArgument)
}

func TestRollup_MissingBucketsAreZero(t *testing.T) {
	t.Parallel()

	series := rollup.Series{
		Names: []string{"alice", "bob", "ghost"},
		Values: map[string][]int{
			"alice": {5},
			"bob":   {1, 1, 1, 1},
		},
	}

	result, err := rollup.Rollup(series, 2)
	require.NoError(t, err)

	assert.Equal(t, [][]int{{5, 5, 5, 5}, {1, 2, 3, 4}}, result.Cumulative)
	assert.Equal(t, []int{0, 0, 0, 0}, result.Others)
}

func TestRollup_PadsToBuckets(t *testing.T) {
	t.Parallel()

	series := rollup.Series{
		Names:   []string{"alice", "bob"},
		Values:  map[string][]int{"alice": {2}, "bob": {1, 1}},
		Buckets: 4,
	}

	result, err := rollup.Rollup(series, 1)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Len())
	assert.Equal(t, [][]int{{2, 2, 2, 2}}, result.Cumulative)
	assert.Equal(t, []int{1, 2, 2, 2}, result.Others)
}

func TestRollup_BucketsWithoutValues(t *testing.T) {
	t.Parallel()

	result, err := rollup.Rollup(rollup.Series{Buckets: 3}, 2)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 0}, result.Others)
	assert.Equal(t, []int{0}, result.Row(2))
}

func TestRollup_LongerValuesExceedBuckets(t *testing.T) {
	t.Parallel()

	series := rollup.Series{Values: map[string][]int{"alice": {1, 1, 1}}, Buckets: 2}

	result, err := rollup.Rollup(series, 0)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, result.Others)
}

func TestRollup_UnrankedNamesFallIntoOthers(t *testing.T) {
	t.Parallel()

	series := rollup.Series{
		Names: []string{"alice"},
		Values: map[string][]int{
			"alice": {1, 1},
			"zed":   {2, 0},
			"yan":   {0, 3},
		},
	}

	result, err := rollup.Rollup(series, 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"alice"}, result.Names)
	assert.Equal(t, []int{2, 5}, result.Others)
}

func TestRollup_KeepsRankingOrderOnTies(t *testing.T) {
	t.Parallel()

	series := rollup.Series{
		Names: []string{"zoe", "adam"},
		Values: map[string][]int{
			"adam": {1},
			"zoe":  {1},
		},
	}

	result, err := rollup.Rollup(series, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"zoe"}, result.Names)
}

func TestRollup_Row(t *testing.T) {
	t.Parallel()

	result, err := rollup.Rollup(exampleSeries(), 2)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 0, 2}, result.Row(0))
	assert.Equal(t, []int{6, 2, 2}, result.Row(2))
}

func TestRollup_SumInvariant(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 11))

	for iteration := range 50 {
		contributors := rng.IntN(8)
		buckets := rng.IntN(12)

		series := rollup.Series{Values: map[string][]int{}}

		for c := range contributors {
			name := "dev" + strconv.Itoa(c)
			length := rng.IntN(buckets + 1)

			values := make([]int, length)
			for i := range values {
				values[i] = rng.IntN(20)
			}

			series.Names = append(series.Names, name)
			series.Values[name] = values
		}

		expected := make([]int, buckets)
		running := 0

		for idx := range buckets {
			for _, values := range series.Values {
				if idx < len(values) {
					running += values[idx]
				}
			}

			expected[idx] = running
		}

		for k := 0; k <= contributors+1; k++ {
			result, err := rollup.Rollup(series, k)
			require.NoError(t, err)

			for idx := range result.Len() {
				assert.Equal(t, expected[idx], result.Total(idx), "iteration %d k=%d t=%d", iteration, k, idx)
			}

			if k >= contributors {
				for _, v := range result.Others {
					assert.Zero(t, v)
				}
			}
		}
	}
}
