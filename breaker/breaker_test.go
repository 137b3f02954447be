package breaker

import (
	"math"
	"testing"
)

func equalSizes(n int, w float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = w
	}
	return s
}

func defaultCosts() Costs {
	return Costs{
		StretchPenalty: 100,
		CompressPenalty: 300,
		ShortPenalty:   10,
		LongPenalty:    10,
		MinCount:       1,
		MaxCount:       0,
		Bonus:          1,
		LargeBonus:     1000,
		LargePenalty:   1000,
	}
}

func checkPartition(t *testing.T, runs []Run, n int) {
	t.Helper()
	if len(runs) == 0 {
		t.Fatal("empty partition")
	}
	if runs[0].Start != 0 {
		t.Errorf("first run does not start at 0: %+v", runs[0])
	}
	if runs[len(runs)-1].End != n {
		t.Errorf("last run does not end at %d: %+v", n, runs[len(runs)-1])
	}
	for i := 1; i < len(runs); i++ {
		if runs[i].Start != runs[i-1].End {
			t.Errorf("runs %d and %d are not contiguous: %+v, %+v", i-1, i, runs[i-1], runs[i])
		}
	}
}

func TestCapacityFeasibility(t *testing.T) {
	sizes := equalSizes(20, 10)
	capacity := 35.0
	runs := BreakWithHints(sizes, capacity, defaultCosts(), nil)
	checkPartition(t, runs, len(sizes))
	for _, r := range runs {
		count := r.End - r.Start
		natural := 0.0
		for _, s := range sizes[r.Start:r.End] {
			natural += s
		}
		if count > 1 && natural > capacity {
			t.Errorf("run %+v exceeds capacity %v with natural width %v", r, capacity, natural)
		}
	}
}

func TestDPAtLeastAsGoodAsGreedy(t *testing.T) {
	sizes := []float64{12, 8, 15, 7, 9, 20, 3, 11, 14, 6, 10, 10, 10, 30, 2, 8, 9}
	capacity := 35.0
	costs := defaultCosts()
	dpRuns := BreakWithHints(sizes, capacity, costs, nil)
	greedyRuns := Greedy(sizes, capacity, costs)
	checkPartition(t, dpRuns, len(sizes))
	checkPartition(t, greedyRuns, len(sizes))
	if TotalCost(dpRuns) > TotalCost(greedyRuns)+1e-9 {
		t.Errorf("DP cost %v exceeds greedy cost %v", TotalCost(dpRuns), TotalCost(greedyRuns))
	}
}

func TestRequiredBreakHonoured(t *testing.T) {
	sizes := equalSizes(20, 10)
	capacity := 85.0 // 8*measure_width + slack
	costs := defaultCosts()
	hints := []Hint{{Index: 6, Kind: HintRequired}} // required break after item 7 (0-indexed 6)
	runs := BreakWithHints(sizes, capacity, costs, hints)
	checkPartition(t, runs, len(sizes))
	found := false
	for _, r := range runs {
		if r.End == 7 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a run ending at index 7 (after measure 7), got %+v", runs)
	}
}

func TestForbiddenBreakHonoured(t *testing.T) {
	sizes := equalSizes(20, 10)
	capacity := 85.0
	costs := defaultCosts()
	// A large forbidden penalty at index 7 (ends a run there) should push
	// the optimum away from breaking exactly after item 8, given a
	// feasible alternative exists.
	hints := []Hint{{Index: 7, Kind: HintForbidden}}
	runs := BreakWithHints(sizes, capacity, costs, hints)
	checkPartition(t, runs, len(sizes))
	for _, r := range runs {
		if r.End == 8 {
			t.Errorf("did not expect a run ending at index 8, got %+v", runs)
		}
	}
}

func TestGreedyProducesValidPartition(t *testing.T) {
	sizes := []float64{5, 5, 5, 100, 5, 5}
	runs := Greedy(sizes, 20, defaultCosts())
	checkPartition(t, runs, len(sizes))
}

func TestDeterministicTieBreak(t *testing.T) {
	sizes := equalSizes(8, 10)
	costs := defaultCosts()
	runs1 := BreakWithHints(sizes, 40, costs, nil)
	runs2 := BreakWithHints(sizes, 40, costs, nil)
	if len(runs1) != len(runs2) {
		t.Fatalf("non-deterministic run counts: %d vs %d", len(runs1), len(runs2))
	}
	for i := range runs1 {
		if runs1[i] != runs2[i] {
			t.Errorf("non-deterministic result at run %d: %+v vs %+v", i, runs1[i], runs2[i])
		}
	}
}

func TestAdjustForFirstSystemS4(t *testing.T) {
	// 8 equal-width measures that exactly fill the capacity without a
	// prefix; adding a 50pt prefix forces a one-measure shrink (the
	// measure width is chosen equal to the prefix so shrinking by
	// exactly one measure exactly absorbs it, per spec.md scenario S4).
	w := 50.0
	capacity := 8 * w
	sizes := equalSizes(8, w)
	costs := defaultCosts()
	costs.MaxCount = 0
	runs := []Run{{Start: 0, End: 8}}
	adjusted, ok := AdjustForFirstSystem(runs, sizes, capacity, costs, 50)
	if !ok {
		t.Fatal("expected adjustment to succeed")
	}
	if len(adjusted) != 2 {
		t.Fatalf("expected 2 runs after adjustment, got %d: %+v", len(adjusted), adjusted)
	}
	if adjusted[0].Start != 0 || adjusted[0].End != 7 {
		t.Errorf("first run = %+v, want [0,7)", adjusted[0])
	}
	if adjusted[1].Start != 7 || adjusted[1].End != 8 {
		t.Errorf("second run = %+v, want [7,8)", adjusted[1])
	}
}

func TestAdjustForFirstSystemNoop(t *testing.T) {
	sizes := equalSizes(4, 10)
	runs := []Run{{Start: 0, End: 4}}
	costs := defaultCosts()
	adjusted, ok := AdjustForFirstSystem(runs, sizes, 1000, costs, 5)
	if !ok {
		t.Fatal("expected success")
	}
	if len(adjusted) != 1 {
		t.Errorf("expected no split when capacity has headroom, got %+v", adjusted)
	}
}

func TestPageBreakingUnderfillCost(t *testing.T) {
	// Page breaking uses the identical DP with an underfill-penalty cost
	// function; verify the generic DP handles a height-oriented cost the
	// same way as a width-oriented one.
	heights := []float64{100, 100, 100, 100, 100}
	pageHeight := 300.0
	costs := Costs{
		StretchPenalty: 50,
		CompressPenalty: 200,
		ShortPenalty:   5,
		MinCount:       1,
	}
	runs := BreakWithHints(heights, pageHeight, costs, nil)
	checkPartition(t, runs, len(heights))
	for _, r := range runs {
		total := 0.0
		for _, h := range heights[r.Start:r.End] {
			total += h
		}
		if total > pageHeight+1e-9 && r.End-r.Start > 1 {
			t.Errorf("run %+v overflows page height: %v > %v", r, total, pageHeight)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	if runs := BreakWithHints(nil, 100, defaultCosts(), nil); runs != nil {
		t.Errorf("expected nil runs for empty input, got %+v", runs)
	}
	if runs := Greedy(nil, 100, defaultCosts()); runs != nil {
		t.Errorf("expected nil runs for empty input, got %+v", runs)
	}
}

func TestSingleOversizedItemIsPlaced(t *testing.T) {
	sizes := []float64{1000}
	runs := BreakWithHints(sizes, 10, defaultCosts(), nil)
	checkPartition(t, runs, 1)
	if runs[0].Start != 0 || runs[0].End != 1 {
		t.Errorf("single oversized item not placed as its own run: %+v", runs)
	}
}

func TestCostIsFinite(t *testing.T) {
	sizes := equalSizes(10, 10)
	runs := BreakWithHints(sizes, 35, defaultCosts(), nil)
	for _, r := range runs {
		if math.IsInf(r.Cost, 0) || math.IsNaN(r.Cost) {
			t.Errorf("run %+v has non-finite cost", r)
		}
	}
}
