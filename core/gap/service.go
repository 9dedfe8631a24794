package gap

import (
	"github.com/volatiletech/null/v8"

	"github.com/attainly/attainment/core"
)

// Classify places a computed gap (actual - target, in percentage points)
// into the configured bands. The critical boundary itself still reads
// "below": a gap of exactly -5pp is below, -5.01pp is critical.
func Classify(gap float64, bands core.GapBands) Status {
	switch {
	case gap >= bands.ExceedsAt:
		return StatusExceeds
	case gap >= 0:
		return StatusMeets
	case gap >= bands.CriticalBelow:
		return StatusBelow
	default:
		return StatusCritical
	}
}

// PriorityFor derives the remediation priority from a gap status.
// No-data outcomes rank high: an outcome that cannot demonstrate any
// attainment is at least as urgent as a critically missed one.
func PriorityFor(status Status) Priority {
	switch status {
	case StatusCritical, StatusNoData:
		return PriorityHigh
	case StatusBelow:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Evaluate produces the gap analysis for one outcome. An undefined actual
// propagates: the gap stays undefined and the status reads no-data, with the
// full target reported as outstanding improvement.
func Evaluate(code string, kind Kind, actual null.Float64, target float64, bands core.GapBands) Item {
	item := Item{
		Code:   code,
		Kind:   kind,
		Actual: actual,
		Target: target,
	}
	if !actual.Valid {
		item.Status = StatusNoData
		item.Priority = PriorityFor(StatusNoData)
		item.ImprovementRequired = target
		return item
	}

	g := actual.Float64 - target
	item.Gap = null.Float64From(g)
	if target != 0 {
		item.GapPct = null.Float64From(g / target * 100)
	}
	item.Status = Classify(g, bands)
	item.Priority = PriorityFor(item.Status)
	if g < 0 {
		item.ImprovementRequired = -g
	}
	return item
}

// Summarize rolls per-outcome target results into the department-level
// compliance judgment. Outcomes with undefined attainment count towards the
// totals but can never count as met.
func Summarize(cosMet, cosTotal, posMet, posTotal int, cfg core.Config) Compliance {
	c := Compliance{
		COsMet:   cosMet,
		COsTotal: cosTotal,
		POsMet:   posMet,
		POsTotal: posTotal,
	}
	// a kind with no outcomes defined is vacuously satisfied; only the
	// kinds actually present weigh on the judgment
	coFull, coPartial, poFull, poPartial := true, true, true, true
	if cosTotal > 0 {
		c.CORate = float64(cosMet) / float64(cosTotal)
		coFull = c.CORate >= cfg.ComplianceThreshold
		coPartial = c.CORate >= cfg.PartialComplianceThreshold
	}
	if posTotal > 0 {
		c.PORate = float64(posMet) / float64(posTotal)
		poFull = c.PORate >= cfg.ComplianceThreshold
		poPartial = c.PORate >= cfg.PartialComplianceThreshold
	}

	switch {
	case coFull && poFull:
		c.Status = Compliant
	case coPartial && poPartial:
		c.Status = PartiallyCompliant
	default:
		c.Status = NonCompliant
	}
	return c
}
