package marks

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/attainly/attainment/core"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestResolve(t *testing.T) {
	questions := []Question{
		{ID: "Q1", MaxMarks: 10, Weights: []COWeight{{CO: "CO1", WeightPct: 60}, {CO: "CO2", WeightPct: 40}}},
		{ID: "Q2", MaxMarks: 5, Weights: []COWeight{{CO: "CO2", WeightPct: 100}}},
		{ID: "Q3", MaxMarks: 20}, // unmapped; must not touch any CO
	}
	mks := []Mark{
		{Student: "S1", Question: "Q1", Obtained: 8},
		{Student: "S1", Question: "Q2", Obtained: 3},
		{Student: "S1", Question: "Q3", Obtained: 20},
		{Student: "S2", Question: "Q1", Obtained: 5},
		// S2 has no mark for Q2: excluded from Q2's contribution only
	}

	sheet, err := Resolve(questions, mks)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}

	tests := []struct {
		student, co     string
		scored, maximum float64
	}{
		{"S1", "CO1", 4.8, 6},
		{"S1", "CO2", 6.2, 9}, // 8*0.4 + 3*1.0 vs 10*0.4 + 5*1.0
		{"S2", "CO1", 3, 6},
		{"S2", "CO2", 2, 4},
	}
	for _, tt := range tests {
		c, ok := sheet[tt.student][tt.co]
		if !ok {
			t.Fatalf("sheet missing %s/%s", tt.student, tt.co)
		}
		if !almostEqual(c.Scored, tt.scored) || !almostEqual(c.Maximum, tt.maximum) {
			t.Errorf("%s/%s = %+v, want scored %v maximum %v", tt.student, tt.co, c, tt.scored, tt.maximum)
		}
	}

	if cos := sheet.COs(); len(cos) != 2 || cos[0] != "CO1" || cos[1] != "CO2" {
		t.Errorf("COs() = %v, want [CO1 CO2]", cos)
	}
	if students := sheet.Students(); len(students) != 2 || students[0] != "S1" {
		t.Errorf("Students() = %v, want [S1 S2]", students)
	}
}

// The sum of a student's per-CO contributions for one question equals the
// obtained marks scaled by the total mapped weight.
func TestResolveWeightConservation(t *testing.T) {
	tests := []struct {
		name     string
		weights  []COWeight
		obtained float64
		wantSum  float64
	}{
		{"full split", []COWeight{{CO: "CO1", WeightPct: 70}, {CO: "CO2", WeightPct: 30}}, 8, 8},
		{"partial split", []COWeight{{CO: "CO1", WeightPct: 50}}, 8, 4},
		{"no split", nil, 8, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions := []Question{{ID: "Q1", MaxMarks: 10, Weights: tt.weights}}
			sheet, err := Resolve(questions, []Mark{{Student: "S1", Question: "Q1", Obtained: tt.obtained}})
			if err != nil {
				t.Fatalf("Resolve() failed: %v", err)
			}
			var sum float64
			for _, c := range sheet["S1"] {
				sum += c.Scored
			}
			if !almostEqual(sum, tt.wantSum) {
				t.Errorf("contribution sum = %v, want %v", sum, tt.wantSum)
			}
		})
	}
}

func TestResolveRejectsBadInput(t *testing.T) {
	q := func(weights ...COWeight) []Question {
		return []Question{{ID: "Q1", MaxMarks: 10, Weights: weights}}
	}
	tests := []struct {
		name      string
		questions []Question
		mks       []Mark
		wantErr   error
	}{
		{
			name:      "weights over 100",
			questions: q(COWeight{CO: "CO1", WeightPct: 80}, COWeight{CO: "CO2", WeightPct: 30}),
		},
		{
			name:      "zero weight",
			questions: q(COWeight{CO: "CO1", WeightPct: 0}),
		},
		{
			name:      "zero max marks",
			questions: []Question{{ID: "Q1", MaxMarks: 0}},
		},
		{
			name:      "duplicate question",
			questions: []Question{{ID: "Q1", MaxMarks: 10}, {ID: "Q1", MaxMarks: 5}},
			wantErr:   ErrDuplicateQuestion,
		},
		{
			name:      "unknown question",
			questions: q(COWeight{CO: "CO1", WeightPct: 100}),
			mks:       []Mark{{Student: "S1", Question: "Q9", Obtained: 1}},
			wantErr:   ErrUnknownQuestion,
		},
		{
			name:      "duplicate mark",
			questions: q(COWeight{CO: "CO1", WeightPct: 100}),
			mks: []Mark{
				{Student: "S1", Question: "Q1", Obtained: 1},
				{Student: "S1", Question: "Q1", Obtained: 2},
			},
			wantErr: ErrDuplicateMark,
		},
		{
			name:      "mark over max",
			questions: q(COWeight{CO: "CO1", WeightPct: 100}),
			mks:       []Mark{{Student: "S1", Question: "Q1", Obtained: 11}},
			wantErr:   ErrMarkOutOfRange,
		},
		{
			name:      "negative mark",
			questions: q(COWeight{CO: "CO1", WeightPct: 100}),
			mks:       []Mark{{Student: "S1", Question: "Q1", Obtained: -1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.questions, tt.mks)
			if err == nil {
				t.Fatal("Resolve() expected error, got nil")
			}
			if !core.IsValidationError(err) {
				t.Errorf("Resolve() error = %v, want a ValidationError", err)
			}
			if tt.wantErr != nil {
				vErr, _ := errors.Cause(err).(*core.ValidationError)
				if vErr == nil || vErr.Err != tt.wantErr {
					t.Errorf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
			}
		})
	}
}

// Normalization of messy identifiers happens on copies: the caller's question
// and mark slices come back exactly as supplied.
func TestResolveLeavesInputsUntouched(t *testing.T) {
	questions := []Question{
		{ID: "  Q1  ", MaxMarks: 10, Weights: []COWeight{{CO: " co1 ", WeightPct: 100}}},
	}
	mks := []Mark{{Student: " s1 ", Question: " Q1 ", Obtained: 8}}

	sheet, err := Resolve(questions, mks)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}

	if questions[0].ID != "  Q1  " || questions[0].Weights[0].CO != " co1 " {
		t.Errorf("questions rewritten in place: %+v", questions[0])
	}
	if mks[0].Student != " s1 " || mks[0].Question != " Q1 " {
		t.Errorf("marks rewritten in place: %+v", mks[0])
	}
	if _, ok := sheet[" s1 "]; ok {
		t.Error("sheet keyed by the raw student identifier, want the cleaned one")
	}
	if c, ok := sheet["s1"]["CO1"]; !ok || !almostEqual(c.Scored, 8) {
		t.Errorf(`sheet["s1"]["CO1"] = %+v, want scored 8 under the cleaned keys`, c)
	}
}

// Raising a student's obtained marks never lowers any of their CO contributions.
func TestResolveMonotonic(t *testing.T) {
	questions := []Question{
		{ID: "Q1", MaxMarks: 10, Weights: []COWeight{{CO: "CO1", WeightPct: 60}, {CO: "CO2", WeightPct: 40}}},
	}
	lo, err := Resolve(questions, []Mark{{Student: "S1", Question: "Q1", Obtained: 5}})
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	hi, err := Resolve(questions, []Mark{{Student: "S1", Question: "Q1", Obtained: 6}})
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	for co, c := range hi["S1"] {
		if c.Scored < lo["S1"][co].Scored {
			t.Errorf("CO %s scored dropped from %v to %v", co, lo["S1"][co].Scored, c.Scored)
		}
		if !almostEqual(c.Maximum, lo["S1"][co].Maximum) {
			t.Errorf("CO %s maximum changed: %v vs %v", co, lo["S1"][co].Maximum, c.Maximum)
		}
	}
}
