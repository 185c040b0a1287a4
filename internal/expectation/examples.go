package expectation

import "github.com/ethanolivertroy/dep-inventory/internal/spelling"

// Example is one gallery case for an expectation
type Example struct {
	Title       string
	Data        map[string][]string
	Config      Configuration
	WantSuccess bool
	InGallery   bool
}

// ExampleOutcome pairs an example with its evaluation
type ExampleOutcome struct {
	Example Example
	Result  Result
	Passed  bool
}

// SpeltCorrectlyExamples are the gallery cases of the spelling expectation
func SpeltCorrectlyExamples() []Example {
	data := map[string][]string{
		"x": {"this", "sentence", "is", "spelt", "correctly"},
		"y": {"this", "sentnence", "not", "splet", "corectly"},
	}
	return []Example{
		{
			Title:       "basic_positive_test",
			Data:        data,
			Config:      Configuration{Column: "x"},
			WantSuccess: true,
			InGallery:   true,
		},
		{
			Title:       "basic_negative_test",
			Data:        data,
			Config:      Configuration{Column: "y", Mostly: Mostly(1)},
			WantSuccess: false,
			InGallery:   true,
		},
	}
}

// RunExamples evaluates every gallery case with checker
func RunExamples(checker spelling.Checker) ([]ExampleOutcome, error) {
	metric := CorrectSpelling{Checker: checker}

	var out []ExampleOutcome
	for _, ex := range SpeltCorrectlyExamples() {
		e, err := NewSpeltCorrectly(metric, ex.Config)
		if err != nil {
			return nil, err
		}
		res, err := e.Validate(NewColumn(ex.Config.Column, ex.Data[ex.Config.Column]...))
		if err != nil {
			return nil, err
		}
		out = append(out, ExampleOutcome{
			Example: ex,
			Result:  res,
			Passed:  res.Success == ex.WantSuccess,
		})
	}
	return out, nil
}
