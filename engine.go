// Package attainment turns raw per-question marks into course and program
// outcome attainment figures, gap and compliance analysis, and trend
// annotations. The engine is a pure function of an explicit input snapshot:
// it fetches nothing, stores nothing and keeps no state between invocations,
// so concurrent evaluations for different subjects or departments need no
// coordination.
package attainment

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/attainly/attainment/core"
	"github.com/attainly/attainment/core/gap"
	"github.com/attainly/attainment/core/marks"
	"github.com/attainly/attainment/core/outcome"
	"github.com/attainly/attainment/core/program"
	"github.com/attainly/attainment/core/trend"
)

// Snapshot is the immutable input bundle for one evaluation: already
// validated marks and definitions supplied by the calling layer, plus the
// policy configuration. A nil Config means the documented defaults.
type Snapshot struct {
	Questions       []marks.Question                    `json:"questions"`
	Marks           []marks.Mark                        `json:"marks"`
	CourseOutcomes  []outcome.CourseOutcome             `json:"course_outcomes"`
	ProgramOutcomes []program.ProgramOutcome            `json:"program_outcomes,omitempty"`
	Mappings        []program.Mapping                   `json:"mappings,omitempty"`
	Indirect        map[string][]program.IndirectSource `json:"indirect,omitempty"`
	// History holds prior-period attainment per CO/PO code, oldest first;
	// the current figure is appended before trend classification.
	History map[string][]float64 `json:"history,omitempty"`
	Config  *core.Config         `json:"config,omitempty"`
}

// StudentCO is one student's resolved standing on one CO.
type StudentCO struct {
	Student string  `json:"student"`
	CO      string  `json:"co"`
	Percent float64 `json:"percent"`
	Scored  float64 `json:"scored"`
	Maximum float64 `json:"maximum"`
}

// Result is the full output bundle of one evaluation. It is created per
// invocation and never retained by the engine; every slice is sorted so that
// identical snapshots marshal to byte-identical output.
type Result struct {
	Config        core.Config      `json:"config"`
	StudentScores []StudentCO      `json:"student_scores"`
	COs           []outcome.Result `json:"course_outcomes"`
	POs           []program.Result `json:"program_outcomes"`
	Gaps          []gap.Item       `json:"gaps"`
	Compliance    gap.Compliance   `json:"compliance"`
	Trends        []trend.Trend    `json:"trends,omitempty"`
	// Departments ranks peer departments by mean PO attainment,
	// ties broken by target-met rate and then department name
	Departments []trend.Ranking `json:"departments,omitempty"`
}

// Evaluate runs the whole pipeline over one snapshot: resolve mark
// contributions, assess CO then PO attainment, evaluate gaps and compliance,
// and annotate trends and peer rankings where history or multiple
// departments are present.
func Evaluate(snap Snapshot) (*Result, error) {
	cfg := core.DefaultConfig()
	if snap.Config != nil {
		cfg = *snap.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration")
	}

	sheet, err := marks.Resolve(snap.Questions, snap.Marks)
	if err != nil {
		return nil, err
	}
	coResults, err := outcome.AssessAll(snap.CourseOutcomes, sheet, cfg)
	if err != nil {
		return nil, err
	}
	poResults, err := program.AssessAll(snap.ProgramOutcomes, snap.Mappings, coResults, snap.Indirect, cfg)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Config:        cfg,
		StudentScores: studentScores(sheet),
		COs:           coResults,
		POs:           poResults,
	}

	var cosMet, posMet int
	for _, cr := range coResults {
		res.Gaps = append(res.Gaps, gap.Evaluate(cr.CO, gap.KindCO, cr.Actual, cr.Target, cfg.Bands))
		if cr.TargetMet {
			cosMet++
		}
	}
	for _, pr := range poResults {
		res.Gaps = append(res.Gaps, gap.Evaluate(pr.PO, gap.KindPO, pr.Total, pr.Target, cfg.Bands))
		if pr.TargetMet {
			posMet++
		}
	}
	res.Compliance = gap.Summarize(cosMet, len(coResults), posMet, len(poResults), cfg)

	res.Trends = trends(snap.History, coResults, poResults, cfg.TrendTolerance)
	res.Departments = departmentRanking(poResults)
	return res, nil
}

func studentScores(sheet marks.Sheet) []StudentCO {
	var scores []StudentCO
	for _, student := range sheet.Students() {
		byCO := sheet[student]
		cos := make([]string, 0, len(byCO))
		for co := range byCO {
			cos = append(cos, co)
		}
		sort.Strings(cos)
		for _, co := range cos {
			c := byCO[co]
			pct := outcome.PercentFor(c)
			if !pct.Valid {
				continue
			}
			scores = append(scores, StudentCO{
				Student: student,
				CO:      co,
				Percent: pct.Float64,
				Scored:  c.Scored,
				Maximum: c.Maximum,
			})
		}
	}
	return scores
}

// trends appends the freshly computed figure to each code's history, when
// the code resolves to a defined CO or PO result, and classifies the series.
func trends(history map[string][]float64, coResults []outcome.Result, poResults []program.Result, tolerance float64) []trend.Trend {
	if len(history) == 0 {
		return nil
	}
	current := make(map[string]null.Float64, len(coResults)+len(poResults))
	for _, cr := range coResults {
		current[cr.CO] = cr.Actual
	}
	for _, pr := range poResults {
		current[pr.PO] = pr.Total
	}

	codes := make([]string, 0, len(history))
	for code := range history {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	series := make([]trend.Series, 0, len(codes))
	for _, code := range codes {
		values := history[code]
		if v, ok := current[core.CleanString(code, true /* upper */)]; ok && v.Valid {
			values = append(append([]float64(nil), values...), v.Float64)
		}
		series = append(series, trend.Series{Code: code, Values: values})
	}
	return trend.ClassifyAll(series, tolerance)
}

// departmentRanking compares peer departments on their POs' mean total
// attainment; only POs with a defined total count. Needs at least two
// departments to be a comparison at all.
func departmentRanking(poResults []program.Result) []trend.Ranking {
	type acc struct {
		sum   float64
		count int
		met   int
		total int
	}
	byDept := make(map[string]*acc)
	for _, pr := range poResults {
		if pr.Department == "" {
			continue
		}
		a := byDept[pr.Department]
		if a == nil {
			a = &acc{}
			byDept[pr.Department] = a
		}
		a.total++
		if pr.TargetMet {
			a.met++
		}
		if pr.Total.Valid {
			a.sum += pr.Total.Float64
			a.count++
		}
	}
	if len(byDept) < 2 {
		return nil
	}

	names := make([]string, 0, len(byDept))
	for name := range byDept {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]trend.Entry, 0, len(names))
	for _, name := range names {
		a := byDept[name]
		e := trend.Entry{ID: name}
		if a.count > 0 {
			e.Metric = a.sum / float64(a.count)
		}
		if a.total > 0 {
			e.Secondary = float64(a.met) / float64(a.total)
		}
		entries = append(entries, e)
	}
	return trend.Rank(entries)
}
