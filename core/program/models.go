package program

import (
	"github.com/volatiletech/null/v8"

	"github.com/attainly/attainment/core"
)

// Outcome types
const (
	TypePO  = "PO"  // program outcome
	TypePSO = "PSO" // program-specific outcome
)

// ProgramOutcome is a department-level objective, measured through the COs
// mapped to it plus any configured indirect evidence.
type ProgramOutcome struct {
	Code       string  `json:"code" validate:"required"`
	Department string  `json:"department"`
	Target     float64 `json:"target" validate:"gte=0,lte=100"`
	Type       string  `json:"type" validate:"required,oneof=PO PSO"`
}

// Normalized returns a copy with the code and type uppercased and the
// department trimmed.
func (po ProgramOutcome) Normalized() ProgramOutcome {
	po.Code = core.CleanString(po.Code, true /* upper */)
	po.Department = core.CleanString(po.Department)
	po.Type = core.CleanString(po.Type, true /* upper */)
	return po
}

func (po ProgramOutcome) Validate() error {
	return core.TranslateError(core.Validate.Struct(po))
}

// Mapping links a CO to a PO with a contribution strength of 1 (weak) to 3 (strong).
type Mapping struct {
	CO       string `json:"co" validate:"required"`
	PO       string `json:"po" validate:"required"`
	Strength int    `json:"strength" validate:"min=1,max=3"`
}

// Normalized returns a copy with both codes uppercased.
func (m Mapping) Normalized() Mapping {
	m.CO = core.CleanString(m.CO, true /* upper */)
	m.PO = core.CleanString(m.PO, true /* upper */)
	return m
}

func (m Mapping) Validate() error {
	return core.TranslateError(core.Validate.Struct(m))
}

// IndirectSource is one piece of survey-style evidence for a PO.
// Weights need not sum to 1 across a PO's sources; they are normalized internally.
type IndirectSource struct {
	Name   string  `json:"name" validate:"required"`
	Value  float64 `json:"value" validate:"gte=0,lte=100"`
	Weight float64 `json:"weight" validate:"gte=0,lte=1"`
}

// Normalized returns a copy with the source name trimmed.
func (s IndirectSource) Normalized() IndirectSource {
	s.Name = core.CleanString(s.Name)
	return s
}

func (s IndirectSource) Validate() error {
	return core.TranslateError(core.Validate.Struct(s))
}

// COContribution is the diagnostic breakdown of one mapped CO's share of a
// PO's direct attainment. Highest/Lowest flag the extreme contributors.
type COContribution struct {
	CO         string  `json:"co"`
	Strength   int     `json:"strength"`
	Attainment float64 `json:"attainment"`
	Weighted   float64 `json:"weighted"`
	SharePct   float64 `json:"share_pct"`
	Highest    bool    `json:"highest,omitempty"`
	Lowest     bool    `json:"lowest,omitempty"`
}

// Result is the attainment figure for one PO. Direct, Indirect and Total are
// each null when the corresponding evidence could not be computed; a zero
// always means a computed 0%, never missing data.
type Result struct {
	PO            string           `json:"po"`
	Type          string           `json:"type"`
	Department    string           `json:"department,omitempty"`
	Direct        null.Float64     `json:"direct"`
	Indirect      null.Float64     `json:"indirect"`
	Total         null.Float64     `json:"total"`
	Target        float64          `json:"target"`
	TargetMet     bool             `json:"target_met"`
	Contributions []COContribution `json:"contributions,omitempty"`
}
