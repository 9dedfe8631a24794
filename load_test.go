package attainment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/attainly/attainment/core"
)

func TestLoadSnapshot(t *testing.T) {
	data := []byte(`{
		"questions": [{"id": "Q1", "max_marks": 10, "weights": [{"co": "CO1", "weight_pct": 100}]}],
		"marks": [{"student": "S1", "question": "Q1", "obtained": 8}],
		"course_outcomes": [{"code": "CO1", "target": 60, "l1_threshold": 40, "l2_threshold": 50, "l3_threshold": 60}],
		"program_outcomes": [{"code": "PO1", "target": 70, "type": "PO"}],
		"mappings": [{"co": "CO1", "po": "PO1", "strength": 3}],
		"indirect": {"PO1": [{"name": "exit survey", "value": 60, "weight": 1}]},
		"history": {"CO1": [60, 62]}
	}`)

	snap, err := LoadSnapshot(data)
	if err != nil {
		t.Fatalf("LoadSnapshot() failed: %v", err)
	}
	assert.Len(t, snap.Questions, 1)
	assert.Len(t, snap.Marks, 1)
	assert.Equal(t, "CO1", snap.CourseOutcomes[0].Code)
	assert.Nil(t, snap.Config)

	res, err := Evaluate(*snap)
	if err != nil {
		t.Fatalf("Evaluate() on loaded snapshot failed: %v", err)
	}
	assert.Len(t, res.COs, 1)
	assert.True(t, res.COs[0].Actual.Valid)
}

func TestLoadSnapshotRejectsMalformedShapes(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"questions": [`},
		{"top level array", `[]`},
		{"missing questions", `{"marks": [], "course_outcomes": []}`},
		{"marks not an array", `{"questions": [], "marks": {}, "course_outcomes": []}`},
		{"indirect not an object", `{"questions": [], "marks": [], "course_outcomes": [], "indirect": []}`},
		{"unknown key", `{"questions": [], "marks": [], "course_outcomes": [], "exam": "ESE"}`},
		{"wrong field type", `{"questions": [{"id": 1}], "marks": [], "course_outcomes": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := LoadSnapshot([]byte(tt.data))
			if err == nil {
				t.Fatalf("LoadSnapshot() = %+v, want error", snap)
			}
		})
	}
}

func TestLoadSnapshotNamesOffendingKeys(t *testing.T) {
	_, err := LoadSnapshot([]byte(`{"marks": {}, "course_outcomes": []}`))
	if !core.IsValidationError(err) {
		t.Fatalf("LoadSnapshot() error = %v, want a ValidationError", err)
	}
	vErr := err.(*core.ValidationError)
	fields := make(map[string]string, len(vErr.Fields))
	for _, f := range vErr.Fields {
		fields[f.Field] = f.Error
	}
	assert.Contains(t, fields, "questions")
	assert.Contains(t, fields, "marks")
}
