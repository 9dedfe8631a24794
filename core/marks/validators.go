package marks

import (
	"github.com/go-playground/validator/v10"

	"github.com/attainly/attainment/core"
)

var (
	coSplitTag  = "cosplit"
	coSplitText = "question CO weights must not sum to more than 100%"
)

func init() {
	core.Validate.RegisterStructValidation(questionStructValidation, Question{})
	core.RegisterCustomTranslation(coSplitTag, coSplitText)
}

// questionStructValidation rejects questions whose CO weight split exceeds 100%.
// Weights summing to less than 100% are allowed; the remainder is simply unmapped.
func questionStructValidation(sl validator.StructLevel) {
	q, ok := sl.Current().Interface().(Question)
	if !ok {
		return
	}
	var total float64
	for _, w := range q.Weights {
		total += w.WeightPct
	}
	if total > 100 {
		sl.ReportError(q.Weights, "weights", "Weights", coSplitTag, "")
	}
}
