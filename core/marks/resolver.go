package marks

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/attainly/attainment/core"
)

var (
	// errors
	ErrDuplicateQuestion = errors.New("duplicate question id")
	ErrUnknownQuestion   = errors.New("mark references an unknown question")
	ErrDuplicateMark     = errors.New("duplicate mark for student and question")
	ErrMarkOutOfRange    = errors.New("marks obtained exceeds question max marks")
)

// Resolve maps every student's per-question marks onto CO-level contributions
// using each question's CO weight split.
//
// For each mark and each (CO, weight) pair on its question, the CO's scored
// accumulator grows by obtained*weight/100 and its maximum accumulator by
// max_marks*weight/100. Only questions a student actually has a mark for count
// towards that student's denominators, so a missing mark excludes the student
// from that question alone, never from the whole computation. Questions with
// no CO mapping contribute nothing and never deflate attainment.
//
// Identifiers are normalized onto copies; the caller's slices are never
// modified.
func Resolve(questions []Question, mks []Mark) (Sheet, error) {
	byID := make(map[string]Question, len(questions))
	for i := range questions {
		q := questions[i].Normalized()
		if err := q.Validate(); err != nil {
			return nil, errors.Wrapf(err, "question %q", q.ID)
		}
		if _, dup := byID[q.ID]; dup {
			return nil, core.NewValidationError(ErrDuplicateQuestion, core.FieldError{
				Field: fmt.Sprintf("questions[%d].id", i),
				Error: fmt.Sprintf("question %q appears more than once", q.ID),
			})
		}
		byID[q.ID] = q
	}

	sheet := make(Sheet)
	seen := make(map[string]struct{}, len(mks))
	for i := range mks {
		m := mks[i].Normalized()
		if err := m.Validate(); err != nil {
			return nil, errors.Wrapf(err, "mark for student %q", m.Student)
		}
		q, ok := byID[m.Question]
		if !ok {
			return nil, core.NewValidationError(ErrUnknownQuestion, core.FieldError{
				Field: fmt.Sprintf("marks[%d].question", i),
				Error: fmt.Sprintf("unknown question %q", m.Question),
			})
		}
		key := m.Student + "\x00" + m.Question
		if _, dup := seen[key]; dup {
			return nil, core.NewValidationError(ErrDuplicateMark, core.FieldError{
				Field: fmt.Sprintf("marks[%d]", i),
				Error: fmt.Sprintf("student %q already has a mark for question %q", m.Student, m.Question),
			})
		}
		seen[key] = struct{}{}
		if m.Obtained > q.MaxMarks {
			return nil, core.NewValidationError(ErrMarkOutOfRange, core.FieldError{
				Field: fmt.Sprintf("marks[%d].obtained", i),
				Error: fmt.Sprintf("%v exceeds max marks %v of question %q", m.Obtained, q.MaxMarks, q.ID),
			})
		}

		byCO := sheet[m.Student]
		if byCO == nil {
			byCO = make(map[string]Contribution)
			sheet[m.Student] = byCO
		}
		for _, w := range q.Weights {
			c := byCO[w.CO]
			c.Scored += m.Obtained * w.WeightPct / 100
			c.Maximum += q.MaxMarks * w.WeightPct / 100
			byCO[w.CO] = c
		}
	}
	return sheet, nil
}
