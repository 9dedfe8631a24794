package outcome

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/attainly/attainment/core"
	"github.com/attainly/attainment/core/marks"
)

var ErrDuplicateCO = errors.New("duplicate course outcome code")

// PercentFor converts a resolved contribution into a percentage.
// Undefined (null) when the maximum is zero, i.e. no mapped question was attempted.
func PercentFor(c marks.Contribution) null.Float64 {
	if c.Maximum == 0 {
		return null.Float64{}
	}
	return null.Float64From(100 * c.Scored / c.Maximum)
}

// Assess computes class-level attainment for one CO from a resolved sheet.
//
// Only students with a defined percentage for the CO ("attempted" students)
// count; for each level the fraction of attempted students at or above the
// level's threshold is taken, and the achieved level is the highest one whose
// fraction meets the configured pass fraction. The actual attainment reported
// is the fraction cleared at the achieved level, as a percentage. When no
// level qualifies the L1 fraction is reported, so the figure still reflects
// the weakest bar rather than collapsing to zero.
func Assess(co CourseOutcome, sheet marks.Sheet, cfg core.Config) (Result, error) {
	co = co.Normalized()
	if err := co.Validate(); err != nil {
		return Result{}, errors.Wrapf(err, "course outcome %q", co.Code)
	}

	res := Result{
		CO:      co.Code,
		Subject: co.Subject,
		Target:  co.Target,
	}

	for _, student := range sheet.Students() {
		c, ok := sheet[student][co.Code]
		if !ok {
			continue
		}
		pct := PercentFor(c)
		if !pct.Valid {
			continue
		}
		res.Students = append(res.Students, StudentScore{Student: student, Percent: pct.Float64})
	}
	res.Attempted = len(res.Students)
	if res.Attempted == 0 {
		// no mapped question was ever attempted: attainment is undefined
		return res, nil
	}

	thresholds := co.Thresholds()
	for lvl, threshold := range thresholds {
		var cleared int
		for _, s := range res.Students {
			if s.Percent >= threshold {
				cleared++
			}
		}
		res.LevelFractions[lvl] = float64(cleared) / float64(res.Attempted)
	}

	res.Achieved = BelowL1
	for lvl := len(thresholds) - 1; lvl >= 0; lvl-- {
		if res.LevelFractions[lvl] >= cfg.PassFractions[lvl] {
			res.Achieved = Level(lvl + 1)
			break
		}
	}

	achievedFraction := res.LevelFractions[0]
	if res.Achieved > BelowL1 {
		achievedFraction = res.LevelFractions[res.Achieved-1]
	}
	res.Actual = null.Float64From(100 * achievedFraction)
	res.TargetMet = res.Actual.Float64 >= co.Target
	return res, nil
}

// AssessAll runs Assess for every CO definition, rejecting duplicate codes,
// and returns results sorted by CO code.
func AssessAll(cos []CourseOutcome, sheet marks.Sheet, cfg core.Config) ([]Result, error) {
	seen := make(map[string]struct{}, len(cos))
	results := make([]Result, 0, len(cos))
	for i := range cos {
		res, err := Assess(cos[i], sheet, cfg)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[res.CO]; dup {
			return nil, core.NewValidationError(ErrDuplicateCO, core.FieldError{
				Field: fmt.Sprintf("course_outcomes[%d].code", i),
				Error: fmt.Sprintf("course outcome %q appears more than once", res.CO),
			})
		}
		seen[res.CO] = struct{}{}
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].CO < results[j].CO })
	return results, nil
}
