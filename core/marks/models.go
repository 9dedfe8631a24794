package marks

import (
	"sort"

	"github.com/attainly/attainment/core"
)

// COWeight is one (course outcome, weight) split on a question.
// WeightPct is the share of the question's marks credited to the CO.
type COWeight struct {
	CO        string  `json:"co" validate:"required"`
	WeightPct float64 `json:"weight_pct" validate:"gt=0,lte=100"`
}

// Question is a single assessment question with its CO weight mapping.
// A question with no weights contributes to no CO.
type Question struct {
	ID       string     `json:"id" validate:"required"`
	MaxMarks float64    `json:"max_marks" validate:"gt=0"`
	Weights  []COWeight `json:"weights,omitempty" validate:"omitempty,dive"`
}

// Normalized returns a copy with the question id trimmed and CO codes
// uppercased. The receiver, including its weight slice, is left untouched.
func (q Question) Normalized() Question {
	q.ID = core.CleanString(q.ID)
	if len(q.Weights) > 0 {
		weights := make([]COWeight, len(q.Weights))
		for i, w := range q.Weights {
			w.CO = core.CleanString(w.CO, true /* upper */)
			weights[i] = w
		}
		q.Weights = weights
	}
	return q
}

func (q Question) Validate() error {
	return core.TranslateError(core.Validate.Struct(q))
}

// Mark is one student's obtained marks for one question.
type Mark struct {
	Student  string  `json:"student" validate:"required"`
	Question string  `json:"question" validate:"required"`
	Obtained float64 `json:"obtained" validate:"gte=0"`
}

// Normalized returns a copy with the student and question identifiers trimmed.
func (m Mark) Normalized() Mark {
	m.Student = core.CleanString(m.Student)
	m.Question = core.CleanString(m.Question)
	return m
}

func (m Mark) Validate() error {
	return core.TranslateError(core.Validate.Struct(m))
}

// Contribution accumulates a student's scored marks against the maximum
// achievable for one CO across every question they attempted.
type Contribution struct {
	Scored  float64 `json:"scored"`
	Maximum float64 `json:"maximum"`
}

// Sheet holds per-student, per-CO contributions: student -> CO code -> Contribution.
// A CO absent from a student's inner map is undefined for that student.
type Sheet map[string]map[string]Contribution

// Students returns the student identifiers present on the sheet, sorted.
func (s Sheet) Students() []string {
	students := make([]string, 0, len(s))
	for student := range s {
		students = append(students, student)
	}
	sort.Strings(students)
	return students
}

// COs returns every CO code touched by at least one student, sorted.
func (s Sheet) COs() []string {
	seen := make(map[string]struct{})
	for _, byCO := range s {
		for co := range byCO {
			seen[co] = struct{}{}
		}
	}
	cos := make([]string, 0, len(seen))
	for co := range seen {
		cos = append(cos, co)
	}
	sort.Strings(cos)
	return cos
}
