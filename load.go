package attainment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/attainly/attainment/core"
)

var ErrMalformedSnapshot = errors.New("malformed snapshot")

// snapshotShape lists every top-level key, whether it must be present and
// what JSON kind it must hold. Attainment figures feed accreditation
// decisions, so a misshapen bundle is rejected up front with the offending
// key named rather than half-decoded into a plausible-looking number.
var snapshotShape = []struct {
	key      string
	required bool
	array    bool
}{
	{key: "questions", required: true, array: true},
	{key: "marks", required: true, array: true},
	{key: "course_outcomes", required: true, array: true},
	{key: "program_outcomes", array: true},
	{key: "mappings", array: true},
	{key: "indirect"},
	{key: "history"},
	{key: "config"},
}

// LoadSnapshot decodes a snapshot bundle from raw JSON. The shape is checked
// with gjson before a strict decode (unknown fields rejected) fills the
// typed structs.
func LoadSnapshot(data []byte) (*Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrap(ErrMalformedSnapshot, "not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.Wrap(ErrMalformedSnapshot, "top level must be an object")
	}

	var flds []core.FieldError
	for _, shape := range snapshotShape {
		val := root.Get(shape.key)
		if !val.Exists() {
			if shape.required {
				flds = append(flds, core.FieldError{Field: shape.key, Error: "this key is required"})
			}
			continue
		}
		switch {
		case shape.array && !val.IsArray():
			flds = append(flds, core.FieldError{Field: shape.key, Error: "must be an array"})
		case !shape.array && !val.IsObject():
			flds = append(flds, core.FieldError{Field: shape.key, Error: "must be an object"})
		}
	}
	if len(flds) > 0 {
		return nil, core.NewValidationError(ErrMalformedSnapshot, flds...)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	snap := &Snapshot{}
	if err := dec.Decode(snap); err != nil {
		return nil, errors.Wrap(ErrMalformedSnapshot, err.Error())
	}
	return snap, nil
}

// LoadSnapshotFile reads and decodes a snapshot bundle from a JSON file.
func LoadSnapshotFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("reading snapshot %s", path))
	}
	return LoadSnapshot(data)
}
