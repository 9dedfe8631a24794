package trend

import "sort"

// Classify fits a simple least-squares line through the series (period index
// against value) and labels the direction from the change implied over the
// whole window. Changes within the tolerance band, in percentage points, read
// as stable, as does any series too short to move.
func Classify(s Series, tolerance float64) Trend {
	t := Trend{
		Code:      s.Code,
		Direction: Stable,
		Periods:   len(s.Values),
	}
	if len(s.Values) == 0 {
		return t
	}
	t.Latest = s.Values[len(s.Values)-1]
	if len(s.Values) < 2 {
		return t
	}

	n := float64(len(s.Values))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range s.Values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	t.Slope = (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	t.Change = t.Slope * (n - 1)

	switch {
	case t.Change > tolerance:
		t.Direction = Increasing
	case t.Change < -tolerance:
		t.Direction = Decreasing
	}
	return t
}

// ClassifyAll classifies every series, preserving input order.
func ClassifyAll(series []Series, tolerance float64) []Trend {
	trends := make([]Trend, 0, len(series))
	for _, s := range series {
		trends = append(trends, Classify(s, tolerance))
	}
	return trends
}

// Rank orders peer entries descending by Metric, breaking ties by Secondary
// descending and then by ID ascending so the ordering is deterministic.
// Entries equal on both metrics share a rank; the next distinct entry takes
// the position after the tied group, competition style.
func Rank(entries []Entry) []Ranking {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Metric != sorted[j].Metric {
			return sorted[i].Metric > sorted[j].Metric
		}
		if sorted[i].Secondary != sorted[j].Secondary {
			return sorted[i].Secondary > sorted[j].Secondary
		}
		return sorted[i].ID < sorted[j].ID
	})

	rankings := make([]Ranking, len(sorted))
	for i, e := range sorted {
		rank := i + 1
		if i > 0 && e.Metric == sorted[i-1].Metric && e.Secondary == sorted[i-1].Secondary {
			rank = rankings[i-1].Rank
		}
		rankings[i] = Ranking{Entry: e, Rank: rank}
	}
	return rankings
}
