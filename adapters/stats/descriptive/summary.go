package descriptive

import (
	"gomediate/domain/core"

	"github.com/montanaflynn/stats"
)

// Summary holds per-group descriptive statistics for one variable.
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes descriptive statistics for a numeric vector.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, core.ErrEmptySample
	}
	mean, _ := stats.Mean(values)
	sd, _ := stats.StandardDeviation(values)
	median, _ := stats.Median(values)
	q25, _ := stats.Percentile(values, 25)
	q75, _ := stats.Percentile(values, 75)
	lo, _ := stats.Min(values)
	hi, _ := stats.Max(values)
	return Summary{
		N:      len(values),
		Mean:   mean,
		StdDev: sd,
		Median: median,
		Q25:    q25,
		Q75:    q75,
		Min:    lo,
		Max:    hi,
	}, nil
}

// GroupComparison is the treated-vs-control contrast for one variable.
type GroupComparison struct {
	Treated  Summary `json:"treated"`
	Control  Summary `json:"control"`
	MeanDiff float64 `json:"mean_diff"`
}

// SummarizeByTreatment splits values on a binary treatment indicator and
// summarizes each group. Treatment values other than exactly 1 count as
// control, matching the 0/1 indicator contract.
func SummarizeByTreatment(values, treatment []float64) (GroupComparison, error) {
	if len(values) != len(treatment) {
		return GroupComparison{}, core.NewDimensionError("treatment vector", len(values), len(treatment))
	}
	var treated, control []float64
	for i, v := range values {
		if treatment[i] == 1 {
			treated = append(treated, v)
		} else {
			control = append(control, v)
		}
	}
	ts, err := Summarize(treated)
	if err != nil {
		return GroupComparison{}, core.NewValidationError("treated group", "no observations")
	}
	cs, err := Summarize(control)
	if err != nil {
		return GroupComparison{}, core.NewValidationError("control group", "no observations")
	}
	return GroupComparison{Treated: ts, Control: cs, MeanDiff: ts.Mean - cs.Mean}, nil
}

// Frequencies counts occurrences of each distinct level of an ordinal vector.
func Frequencies(values []float64) map[float64]int {
	freq := make(map[float64]int, 8)
	for _, v := range values {
		freq[v]++
	}
	return freq
}
