package program

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/attainly/attainment/core"
	"github.com/attainly/attainment/core/outcome"
)

var (
	// errors
	ErrDuplicatePO      = errors.New("duplicate program outcome code")
	ErrDuplicateMapping = errors.New("duplicate CO to PO mapping")
	ErrUnknownCO        = errors.New("mapping references an unknown course outcome")
	ErrUnknownPO        = errors.New("mapping references an unknown program outcome")
)

// Direct computes the strength-normalized weighted average of the mapped COs'
// actual attainment, together with the per-CO diagnostic breakdown.
//
// A CO with strength 3 counts three times as much as one with strength 1.
// Mapped COs whose attainment is undefined are excluded from both the
// numerator and the strength denominator, mirroring how partially missing
// marks are handled; when no mapped CO has a defined attainment the direct
// figure itself is undefined.
func Direct(poCode string, mappings []Mapping, actuals map[string]null.Float64) (null.Float64, []COContribution) {
	var strengthSum int
	var mapped []Mapping
	for _, m := range mappings {
		if m.PO != poCode {
			continue
		}
		actual, ok := actuals[m.CO]
		if !ok || !actual.Valid {
			continue
		}
		mapped = append(mapped, m)
		strengthSum += m.Strength
	}
	if strengthSum == 0 {
		return null.Float64{}, nil
	}

	var direct float64
	contributions := make([]COContribution, 0, len(mapped))
	for _, m := range mapped {
		attainment := actuals[m.CO].Float64
		weighted := attainment * float64(m.Strength) / float64(strengthSum)
		direct += weighted
		contributions = append(contributions, COContribution{
			CO:         m.CO,
			Strength:   m.Strength,
			Attainment: attainment,
			Weighted:   weighted,
		})
	}
	sort.Slice(contributions, func(i, j int) bool { return contributions[i].CO < contributions[j].CO })

	var max, min float64
	for i, c := range contributions {
		if direct != 0 {
			contributions[i].SharePct = c.Weighted / direct * 100
		}
		if i == 0 || c.Weighted > max {
			max = c.Weighted
		}
		if i == 0 || c.Weighted < min {
			min = c.Weighted
		}
	}
	for i := range contributions {
		contributions[i].Highest = contributions[i].Weighted == max
		contributions[i].Lowest = contributions[i].Weighted == min
	}

	return null.Float64From(direct), contributions
}

// IndirectFrom computes the normalized weighted average of the configured
// survey sources; undefined when there are no sources or no positive weight.
func IndirectFrom(sources []IndirectSource) null.Float64 {
	var valueSum, weightSum float64
	for _, s := range sources {
		valueSum += s.Value * s.Weight
		weightSum += s.Weight
	}
	if weightSum == 0 {
		return null.Float64{}
	}
	return null.Float64From(valueSum / weightSum)
}

// Assess blends direct and indirect evidence for one PO under the configured
// weight split. When one side is undefined the other stands alone; when both
// are undefined the total is undefined, never coerced to zero.
func Assess(po ProgramOutcome, mappings []Mapping, actuals map[string]null.Float64, sources []IndirectSource, cfg core.Config) Result {
	res := Result{
		PO:         po.Code,
		Type:       po.Type,
		Department: po.Department,
		Target:     po.Target,
	}
	res.Direct, res.Contributions = Direct(po.Code, mappings, actuals)
	res.Indirect = IndirectFrom(sources)

	switch {
	case res.Direct.Valid && res.Indirect.Valid:
		res.Total = null.Float64From(cfg.DirectWeight*res.Direct.Float64 + cfg.IndirectWeight*res.Indirect.Float64)
	case res.Direct.Valid:
		res.Total = res.Direct
	case res.Indirect.Valid:
		res.Total = res.Indirect
	}
	res.TargetMet = res.Total.Valid && res.Total.Float64 >= po.Target
	return res
}

// AssessAll validates definitions and mappings, cross-checks every mapping
// against the known CO and PO codes, and returns per-PO results sorted by code.
//
// Definitions, mappings and indirect sources are normalized onto copies; the
// caller's slices and map are never modified.
func AssessAll(pos []ProgramOutcome, mappings []Mapping, coResults []outcome.Result, indirect map[string][]IndirectSource, cfg core.Config) ([]Result, error) {
	actuals := make(map[string]null.Float64, len(coResults))
	for _, cr := range coResults {
		actuals[cr.CO] = cr.Actual
	}

	normPos := make([]ProgramOutcome, len(pos))
	known := make(map[string]struct{}, len(pos))
	for i := range pos {
		po := pos[i].Normalized()
		if err := po.Validate(); err != nil {
			return nil, errors.Wrapf(err, "program outcome %q", po.Code)
		}
		if _, dup := known[po.Code]; dup {
			return nil, core.NewValidationError(ErrDuplicatePO, core.FieldError{
				Field: fmt.Sprintf("program_outcomes[%d].code", i),
				Error: fmt.Sprintf("program outcome %q appears more than once", po.Code),
			})
		}
		known[po.Code] = struct{}{}
		normPos[i] = po
	}

	normMappings := make([]Mapping, len(mappings))
	seen := make(map[string]struct{}, len(mappings))
	for i := range mappings {
		m := mappings[i].Normalized()
		if err := m.Validate(); err != nil {
			return nil, errors.Wrapf(err, "mapping %q -> %q", m.CO, m.PO)
		}
		if _, ok := actuals[m.CO]; !ok {
			return nil, core.NewValidationError(ErrUnknownCO, core.FieldError{
				Field: fmt.Sprintf("mappings[%d].co", i),
				Error: fmt.Sprintf("unknown course outcome %q", m.CO),
			})
		}
		if _, ok := known[m.PO]; !ok {
			return nil, core.NewValidationError(ErrUnknownPO, core.FieldError{
				Field: fmt.Sprintf("mappings[%d].po", i),
				Error: fmt.Sprintf("unknown program outcome %q", m.PO),
			})
		}
		key := m.CO + "\x00" + m.PO
		if _, dup := seen[key]; dup {
			return nil, core.NewValidationError(ErrDuplicateMapping, core.FieldError{
				Field: fmt.Sprintf("mappings[%d]", i),
				Error: fmt.Sprintf("%q is already mapped to %q", m.CO, m.PO),
			})
		}
		seen[key] = struct{}{}
		normMappings[i] = m
	}

	codes := make([]string, 0, len(indirect))
	for code := range indirect {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	sources := make(map[string][]IndirectSource, len(indirect))
	for _, code := range codes {
		cleaned := core.CleanString(code, true /* upper */)
		if _, ok := known[cleaned]; !ok {
			return nil, core.NewValidationError(ErrUnknownPO, core.FieldError{
				Field: fmt.Sprintf("indirect[%s]", code),
				Error: fmt.Sprintf("unknown program outcome %q", code),
			})
		}
		if _, dup := sources[cleaned]; dup {
			return nil, core.NewValidationError(ErrDuplicatePO, core.FieldError{
				Field: fmt.Sprintf("indirect[%s]", code),
				Error: fmt.Sprintf("indirect evidence for %q supplied more than once", cleaned),
			})
		}
		srcs := make([]IndirectSource, len(indirect[code]))
		for j, raw := range indirect[code] {
			s := raw.Normalized()
			if err := s.Validate(); err != nil {
				return nil, errors.Wrapf(err, "indirect source %q for %q", s.Name, code)
			}
			srcs[j] = s
		}
		sources[cleaned] = srcs
	}

	results := make([]Result, 0, len(normPos))
	for _, po := range normPos {
		results = append(results, Assess(po, normMappings, actuals, sources[po.Code], cfg))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].PO < results[j].PO })
	return results, nil
}
