package expectation

import (
	"math"

	"go.trai.ch/zerr"
)

// SpeltCorrectlyType names the spelling expectation
const SpeltCorrectlyType = "expect_column_values_to_be_spelt_correctly"

// partialUnexpectedLimit caps PartialUnexpectedList
const partialUnexpectedLimit = 20

// ErrInvalidConfiguration is returned for a configuration that cannot be evaluated.
var ErrInvalidConfiguration = zerr.New("invalid expectation configuration")

// Configuration holds the expectation arguments
type Configuration struct {
	Column string   `json:"column"`
	Mostly *float64 `json:"mostly,omitempty"`
}

// MostlyValue returns the threshold, defaulting to 1
func (c Configuration) MostlyValue() float64 {
	if c.Mostly == nil {
		return 1
	}
	return *c.Mostly
}

// Mostly returns a pointer to v for use in Configuration
func Mostly(v float64) *float64 {
	return &v
}

// Column is a named column of values; a nil entry is a null
type Column struct {
	Name   string
	Values []*string
}

// NewColumn builds a column without nulls
func NewColumn(name string, values ...string) Column {
	c := Column{Name: name, Values: make([]*string, len(values))}
	for i := range values {
		c.Values[i] = &values[i]
	}
	return c
}

// Result is the outcome of one evaluation
type Result struct {
	Success               bool     `json:"success"`
	ElementCount          int      `json:"element_count"`
	MissingCount          int      `json:"missing_count"`
	UnexpectedCount       int      `json:"unexpected_count"`
	UnexpectedPercent     float64  `json:"unexpected_percent"`
	PartialUnexpectedList []string `json:"partial_unexpected_list"`
	UnexpectedIndexList   []int    `json:"unexpected_index_list"`
}

// ColumnMapExpectation applies a metric to every non-null value of a column
type ColumnMapExpectation struct {
	Type   string
	Metric Metric
	Config Configuration
}

// NewSpeltCorrectly returns the spelling expectation for cfg
func NewSpeltCorrectly(metric CorrectSpelling, cfg Configuration) (*ColumnMapExpectation, error) {
	e := &ColumnMapExpectation{
		Type:   SpeltCorrectlyType,
		Metric: metric,
		Config: cfg,
	}
	if err := e.ValidateConfiguration(); err != nil {
		return nil, err
	}
	return e, nil
}

// ValidateConfiguration checks the column name and the mostly range
func (e *ColumnMapExpectation) ValidateConfiguration() error {
	if e.Config.Column == "" {
		return zerr.With(zerr.Wrap(ErrInvalidConfiguration, "column is required"), "expectation", e.Type)
	}
	if m := e.Config.Mostly; m != nil && (math.IsNaN(*m) || *m < 0 || *m > 1) {
		err := zerr.With(zerr.Wrap(ErrInvalidConfiguration, "mostly must be between 0 and 1"), "mostly", *m)
		return zerr.With(err, "expectation", e.Type)
	}
	return nil
}

// Validate evaluates the metric over column. Nulls are counted as missing and
// excluded from the success ratio; a column with no non-null values succeeds.
func (e *ColumnMapExpectation) Validate(column Column) (Result, error) {
	if column.Name != e.Config.Column {
		err := zerr.With(zerr.Wrap(ErrInvalidConfiguration, "column mismatch"), "column", column.Name)
		return Result{}, zerr.With(err, "expected", e.Config.Column)
	}

	values := make([]string, 0, len(column.Values))
	indexes := make([]int, 0, len(column.Values))
	for i, v := range column.Values {
		if v == nil {
			continue
		}
		values = append(values, *v)
		indexes = append(indexes, i)
	}

	res := Result{
		ElementCount:          len(column.Values),
		MissingCount:          len(column.Values) - len(values),
		PartialUnexpectedList: []string{},
		UnexpectedIndexList:   []int{},
	}

	for i, ok := range e.Metric.Condition(values) {
		if ok {
			continue
		}
		res.UnexpectedCount++
		res.UnexpectedIndexList = append(res.UnexpectedIndexList, indexes[i])
		if len(res.PartialUnexpectedList) < partialUnexpectedLimit {
			res.PartialUnexpectedList = append(res.PartialUnexpectedList, values[i])
		}
	}

	nonNull := len(values)
	if nonNull == 0 {
		res.Success = true
		return res, nil
	}
	res.UnexpectedPercent = float64(res.UnexpectedCount) / float64(nonNull) * 100
	res.Success = float64(nonNull-res.UnexpectedCount)/float64(nonNull) >= e.Config.MostlyValue()
	return res, nil
}
