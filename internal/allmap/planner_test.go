package allmap

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// plannedWindow records one window comparison the planner requested.
type plannedWindow struct {
	ranges     []ReadRange
	matchPoint int
}

// countingRun simulates an index builder over a collection of totalReads
// reads: each call reports how many of the requested read positions exist,
// recording the comparison as it goes.
func countingRun(totalReads int, windows *[]plannedWindow) WindowFunc {
	return func(ranges []ReadRange, matchPoint int) (int, error) {
		recorded := make([]ReadRange, len(ranges))
		copy(recorded, ranges)
		*windows = append(*windows, plannedWindow{ranges: recorded, matchPoint: matchPoint})

		numReads := 0
		for _, r := range ranges {
			if r.Start >= totalReads {
				continue
			}
			end := r.End
			if end > totalReads {
				end = totalReads
			}
			numReads += end - r.Start
		}
		return numReads, nil
	}
}

// pairCoverage counts how many comparisons covered each unordered read pair
// (i, j) with i <= j: a self-comparison window covers every pair within its
// range, a query-target window covers every cross pair.
func pairCoverage(windows []plannedWindow, totalReads int) map[[2]int]int {
	clip := func(r ReadRange) (int, int) {
		start, end := r.Start, r.End
		if end > totalReads {
			end = totalReads
		}
		if start > end {
			start = end
		}
		return start, end
	}

	counts := make(map[[2]int]int)
	for _, w := range windows {
		if w.matchPoint == 0 {
			start, end := clip(w.ranges[0])
			for i := start; i < end; i++ {
				for j := i; j < end; j++ {
					counts[[2]int{i, j}]++
				}
			}
			continue
		}

		queryStart, queryEnd := clip(w.ranges[0])
		targetStart, targetEnd := clip(w.ranges[1])
		for i := queryStart; i < queryEnd; i++ {
			for j := targetStart; j < targetEnd; j++ {
				counts[[2]int{i, j}]++
			}
		}
	}
	return counts
}

func TestPlanner_Coverage(t *testing.T) {
	tests := []struct {
		name       string
		totalReads int
		indexSize  int
	}{
		{"single partial window", 3, 5},
		{"single full window", 10, 10},
		{"exact multiple", 20, 10},
		{"partial final window", 25, 10},
		{"many small windows", 17, 3},
		{"window of one", 5, 1},
		{"one read", 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var windows []plannedWindow
			planner := &Planner{IndexSize: tt.indexSize}

			err := planner.PlanAndRun(countingRun(tt.totalReads, &windows))
			require.NoError(t, err)

			counts := pairCoverage(windows, tt.totalReads)
			for i := 0; i < tt.totalReads; i++ {
				for j := i; j < tt.totalReads; j++ {
					require.Equal(t, 1, counts[[2]int{i, j}],
						"read pair (%d, %d) coverage", i, j)
				}
			}
			require.Len(t, counts, tt.totalReads*(tt.totalReads+1)/2)
		})
	}
}

func TestPlanner_Termination(t *testing.T) {
	// an exact multiple of the window size is the worst case: the planner
	// only learns the collection ended by seeing an under-filled window
	var windows []plannedWindow
	planner := &Planner{IndexSize: 10}

	err := planner.PlanAndRun(countingRun(20, &windows))
	require.NoError(t, err)

	want := []plannedWindow{
		{[]ReadRange{{0, 10}}, 0},
		{[]ReadRange{{0, 10}, {10, 20}}, 10},
		{[]ReadRange{{0, 10}, {20, 30}}, 10},
		{[]ReadRange{{10, 20}}, 0},
	}
	require.Equal(t, want, windows)

	// no comparison may be requested once every range it would cover is
	// known to be past the end of the collection
	for _, w := range windows {
		require.Less(t, w.ranges[0].Start, 20, "window %v starts past the end", w)
	}
}

func TestPlanner_PartialWindowProcessedOnce(t *testing.T) {
	var windows []plannedWindow
	planner := &Planner{IndexSize: 10}

	err := planner.PlanAndRun(countingRun(25, &windows))
	require.NoError(t, err)

	selfCompares := 0
	pairedWithFinal := 0
	for _, w := range windows {
		if w.matchPoint == 0 && w.ranges[0].Start == 20 {
			selfCompares++
		}
		if w.matchPoint > 0 && w.ranges[1].Start == 20 {
			pairedWithFinal++
		}
	}

	// the undersized window [20, 30) is self-compared exactly once and
	// paired exactly once with each of the two full query windows
	require.Equal(t, 1, selfCompares)
	require.Equal(t, 2, pairedWithFinal)
}

func TestPlanner_FatalErrorStopsRun(t *testing.T) {
	fatal := errors.New("index build failed")

	calls := 0
	failOnThird := func(ranges []ReadRange, matchPoint int) (int, error) {
		calls++
		if calls == 3 {
			return 0, fatal
		}
		return 20, nil
	}

	planner := &Planner{IndexSize: 10}
	err := planner.PlanAndRun(failOnThird)

	require.Equal(t, fatal, err)
	require.Equal(t, 3, calls, "no window may run after a fatal error")
}

func TestPlanner_SeamOffsetSkipsReads(t *testing.T) {
	// the historical +1 seam advance leaves a one-read gap at every window
	// boundary; the planner preserves that behavior when asked for it
	var windows []plannedWindow
	planner := &Planner{IndexSize: 3, SeamOffset: 1}

	err := planner.PlanAndRun(countingRun(7, &windows))
	require.NoError(t, err)

	counts := pairCoverage(windows, 7)
	require.Zero(t, counts[[2]int{3, 3}], "the seam read is skipped under SeamOffset 1")
	require.Equal(t, 1, counts[[2]int{2, 4}], "reads around the seam are still compared")
}

func TestPlanner_InvalidIndexSize(t *testing.T) {
	planner := &Planner{IndexSize: 0}
	err := planner.PlanAndRun(func([]ReadRange, int) (int, error) {
		t.Fatal("no window should run")
		return 0, nil
	})
	require.Error(t, err)
}
