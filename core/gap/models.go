package gap

import "github.com/volatiletech/null/v8"

// Kind says whether a gap item concerns a course or a program outcome.
type Kind string

const (
	KindCO Kind = "CO"
	KindPO Kind = "PO"
)

// Status classifies the gap between actual and target attainment.
type Status string

const (
	StatusExceeds  Status = "exceeds"
	StatusMeets    Status = "meets"
	StatusBelow    Status = "below"
	StatusCritical Status = "critical"
	// StatusNoData marks outcomes whose attainment could not be computed at
	// all; it is deliberately distinct from a computed gap of any size.
	StatusNoData Status = "no data"
)

// Priority is the remediation priority derived from the gap status.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Item is the gap analysis for one CO or PO.
type Item struct {
	Code   string       `json:"code"`
	Kind   Kind         `json:"kind"`
	Actual null.Float64 `json:"actual"`
	Target float64      `json:"target"`
	Gap    null.Float64 `json:"gap"`
	GapPct null.Float64 `json:"gap_pct"`
	Status Status       `json:"status"`
	// Priority ranks remediation urgency: critical gaps first, then below-target ones
	Priority            Priority `json:"priority"`
	ImprovementRequired float64  `json:"improvement_required"`
}

// ComplianceStatus is the department-level accreditation judgment.
type ComplianceStatus string

const (
	Compliant          ComplianceStatus = "compliant"
	PartiallyCompliant ComplianceStatus = "partial"
	NonCompliant       ComplianceStatus = "non-compliant"
)

// Compliance is the NBA-style summary of how many outcomes met their targets.
type Compliance struct {
	COsMet   int              `json:"cos_met"`
	COsTotal int              `json:"cos_total"`
	CORate   float64          `json:"co_rate"`
	POsMet   int              `json:"pos_met"`
	POsTotal int              `json:"pos_total"`
	PORate   float64          `json:"po_rate"`
	Status   ComplianceStatus `json:"status"`
}

// IsCompliant reports full compliance only.
func (c Compliance) IsCompliant() bool { return c.Status == Compliant }
