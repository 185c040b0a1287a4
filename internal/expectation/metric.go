// Package expectation evaluates column map expectations: a per-value boolean
// metric over one column, with a "mostly" threshold deciding success.
package expectation

import "github.com/ethanolivertroy/dep-inventory/internal/spelling"

// CorrectSpellingMetric is the name of the spelling condition metric
const CorrectSpellingMetric = "column_values.correct_spelling"

// Metric computes one boolean per column value
type Metric interface {
	Name() string
	Condition(values []string) []bool
}

// CorrectSpelling marks values the checker knows
type CorrectSpelling struct {
	Checker spelling.Checker
}

// Name returns the metric name
func (m CorrectSpelling) Name() string {
	return CorrectSpellingMetric
}

// Condition reports, per value, whether it is spelt correctly. Each value is
// checked as a whole.
func (m CorrectSpelling) Condition(values []string) []bool {
	out := make([]bool, len(values))
	for i, v := range values {
		out[i] = m.Checker.Known(v)
	}
	return out
}
