package trend

// Direction classifies how an attainment series moves across periods.
type Direction string

const (
	Increasing Direction = "increasing"
	Decreasing Direction = "decreasing"
	Stable     Direction = "stable"
)

// Series is an ordered sequence of attainment values for one outcome,
// oldest period first.
type Series struct {
	Code   string    `json:"code"`
	Values []float64 `json:"values"`
}

// Trend is the classification of one series.
type Trend struct {
	Code      string    `json:"code"`
	Direction Direction `json:"direction"`
	// least-squares slope per period, and the resulting change over the window
	Slope   float64 `json:"slope"`
	Change  float64 `json:"change"`
	Latest  float64 `json:"latest"`
	Periods int     `json:"periods"`
}

// Entry is one competitor in a peer comparison, e.g. a department.
type Entry struct {
	ID        string  `json:"id"`
	Metric    float64 `json:"metric"`
	Secondary float64 `json:"secondary"`
}

// Ranking is an entry with its assigned rank; entries tied on both metrics
// share a rank.
type Ranking struct {
	Entry
	Rank int `json:"rank"`
}
