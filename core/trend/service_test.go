package trend

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestClassify(t *testing.T) {
	const tolerance = 1.5

	tests := []struct {
		name       string
		values     []float64
		want       Direction
		wantChange float64
	}{
		{"steady climb", []float64{60, 63, 66, 69}, Increasing, 9},
		{"steady decline", []float64{70, 68, 66}, Decreasing, -4},
		{"within tolerance", []float64{65, 65.5, 66}, Stable, 1},
		{"flat", []float64{70, 70, 70}, Stable, 0},
		{"noisy but trending up", []float64{60, 70, 62, 74}, Increasing, 10.2},
		{"single period", []float64{70}, Stable, 0},
		{"empty", nil, Stable, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(Series{Code: "CO1", Values: tt.values}, tolerance)
			if got.Direction != tt.want {
				t.Errorf("Direction = %v, want %v", got.Direction, tt.want)
			}
			if !almostEqual(got.Change, tt.wantChange) {
				t.Errorf("Change = %v, want %v", got.Change, tt.wantChange)
			}
			if got.Periods != len(tt.values) {
				t.Errorf("Periods = %d, want %d", got.Periods, len(tt.values))
			}
		})
	}
}

func TestRank(t *testing.T) {
	entries := []Entry{
		{ID: "MECH", Metric: 74, Secondary: 88},
		{ID: "CSE", Metric: 81, Secondary: 92},
		{ID: "ECE", Metric: 74, Secondary: 90},
		{ID: "CIVIL", Metric: 74, Secondary: 88},
	}
	rankings := Rank(entries)

	wantOrder := []string{"CSE", "ECE", "CIVIL", "MECH"}
	wantRanks := []int{1, 2, 3, 3}
	for i, r := range rankings {
		if r.ID != wantOrder[i] {
			t.Errorf("rankings[%d].ID = %s, want %s", i, r.ID, wantOrder[i])
		}
		if r.Rank != wantRanks[i] {
			t.Errorf("rankings[%d].Rank = %d, want %d", i, r.Rank, wantRanks[i])
		}
	}

	// input order must not matter
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	again := Rank(entries)
	for i := range rankings {
		if again[i] != rankings[i] {
			t.Fatalf("Rank() depends on input order: %+v vs %+v", again[i], rankings[i])
		}
	}
}
