package outcome

import (
	"encoding/json"

	"github.com/volatiletech/null/v8"

	"github.com/attainly/attainment/core"
)

// Level is the discrete proficiency level achieved by a class for one CO.
type Level int

const (
	BelowL1 Level = iota
	L1
	L2
	L3
)

var levelNames = [...]string{"Below L1", "L1", "L2", "L3"}

func (l Level) String() string {
	if l < BelowL1 || l > L3 {
		return "unknown"
	}
	return levelNames[l]
}

func (l Level) MarshalJSON() ([]byte, error) { return json.Marshal(l.String()) }

// CourseOutcome is a learning objective for one subject, measured via the
// questions mapped to it. Thresholds are ascending percentages; a class
// achieves a level when enough students score at or above its threshold.
type CourseOutcome struct {
	Code    string  `json:"code" validate:"required"`
	Subject string  `json:"subject"`
	Target  float64 `json:"target" validate:"gte=0,lte=100"`
	L1      float64 `json:"l1_threshold" validate:"gte=0,lte=100,ltefield=L2"`
	L2      float64 `json:"l2_threshold" validate:"gte=0,lte=100,ltefield=L3"`
	L3      float64 `json:"l3_threshold" validate:"gte=0,lte=100"`
	// Bloom taxonomy tag; informational only, the engine never branches on it
	Bloom string `json:"bloom,omitempty"`
}

// Normalized returns a copy with the code uppercased and text fields trimmed.
func (co CourseOutcome) Normalized() CourseOutcome {
	co.Code = core.CleanString(co.Code, true /* upper */)
	co.Subject = core.CleanString(co.Subject)
	co.Bloom = core.CleanString(co.Bloom)
	return co
}

func (co CourseOutcome) Validate() error {
	return core.TranslateError(core.Validate.Struct(co))
}

// Thresholds returns the three level thresholds indexed L1..L3.
func (co CourseOutcome) Thresholds() [3]float64 { return [3]float64{co.L1, co.L2, co.L3} }

// StudentScore is one attempted student's percentage for a CO.
type StudentScore struct {
	Student string  `json:"student"`
	Percent float64 `json:"percent"`
}

// Result is the class-level attainment for one CO.
// Actual is invalid (null) when no student attempted the CO: the figure is
// undefined, which is never the same thing as a computed 0%.
type Result struct {
	CO             string         `json:"co"`
	Subject        string         `json:"subject,omitempty"`
	Attempted      int            `json:"attempted"`
	LevelFractions [3]float64     `json:"level_fractions"`
	Achieved       Level          `json:"achieved_level"`
	Actual         null.Float64   `json:"actual"`
	Target         float64        `json:"target"`
	TargetMet      bool           `json:"target_met"`
	Students       []StudentScore `json:"students,omitempty"`
}
