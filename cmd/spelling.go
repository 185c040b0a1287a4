package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethanolivertroy/dep-inventory/internal/expectation"
	"github.com/ethanolivertroy/dep-inventory/internal/spelling"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

var (
	flagFile          string
	flagColumn        string
	flagMostly        float64
	flagDictionary    string
	flagCaseSensitive bool
	flagSpellingJSON  bool
)

var spellingCmd = &cobra.Command{
	Use:   "spelling",
	Short: "Expect the values of a CSV column to be spelt correctly",
	Long: `spelling checks every non-empty value of a CSV column against a word
list. Each value is looked up as a single word. The expectation succeeds when
the share of correctly spelt values is at least --mostly (default 1).`,
	RunE: runSpelling,
}

var spellingExamplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Run the built-in gallery examples of the spelling expectation",
	RunE:  runSpellingExamples,
}

func init() {
	spellingCmd.Flags().StringVar(&flagFile, "file", "", "CSV file with a header row")
	spellingCmd.Flags().StringVar(&flagColumn, "column", "", "Column to check")
	spellingCmd.Flags().Float64Var(&flagMostly, "mostly", 1, "Minimum share of correctly spelt values (0-1)")
	spellingCmd.Flags().StringVar(&flagDictionary, "dictionary", "", "Word list, one word per line (default: built-in English list)")
	spellingCmd.Flags().BoolVar(&flagCaseSensitive, "case-sensitive", false, "Do not fold case when looking up words")
	spellingCmd.Flags().BoolVar(&flagSpellingJSON, "json", false, "Print the result as JSON")
	_ = spellingCmd.MarkFlagRequired("file")
	_ = spellingCmd.MarkFlagRequired("column")

	spellingExamplesCmd.Flags().StringVar(&flagDictionary, "dictionary", "", "Word list, one word per line (default: built-in English list)")
	spellingCmd.AddCommand(spellingExamplesCmd)
	rootCmd.AddCommand(spellingCmd)
}

func loadDictionary() (*spelling.Dictionary, error) {
	var opts []spelling.Option
	if flagCaseSensitive {
		opts = append(opts, spelling.CaseSensitive())
	}
	if flagDictionary == "" {
		return spelling.Default(opts...), nil
	}
	return spelling.LoadFile(flagDictionary, opts...)
}

func runSpelling(cmd *cobra.Command, _ []string) error {
	dict, err := loadDictionary()
	if err != nil {
		return err
	}

	cfg := expectation.Configuration{Column: flagColumn}
	if cmd.Flags().Changed("mostly") {
		cfg.Mostly = expectation.Mostly(flagMostly)
	}
	e, err := expectation.NewSpeltCorrectly(expectation.CorrectSpelling{Checker: dict}, cfg)
	if err != nil {
		return err
	}

	column, err := expectation.ReadColumnFile(flagFile, flagColumn)
	if err != nil {
		return err
	}
	res, err := e.Validate(column)
	if err != nil {
		return err
	}

	if flagSpellingJSON {
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return zerr.Wrap(err, "failed to encode result")
		}
		if err := writeOutput(cmd, "", append(out, '\n')); err != nil {
			return err
		}
	} else {
		printSpellingResult(cmd, e, res)
	}

	if !res.Success {
		return errCheckFailed
	}
	return nil
}

func printSpellingResult(cmd *cobra.Command, e *expectation.ColumnMapExpectation, res expectation.Result) {
	out := cmd.OutOrStdout()
	status := "PASSED"
	if !res.Success {
		status = "FAILED"
	}
	fmt.Fprintf(out, "%s %s (column %q, mostly %.2f)\n", status, e.Type, e.Config.Column, e.Config.MostlyValue())
	fmt.Fprintf(out, "  %d values, %d null, %d misspelt (%.1f%%)\n",
		res.ElementCount, res.MissingCount, res.UnexpectedCount, res.UnexpectedPercent)
	if len(res.PartialUnexpectedList) > 0 {
		fmt.Fprintf(out, "  misspelt: %s\n", strings.Join(res.PartialUnexpectedList, ", "))
	}
}

func runSpellingExamples(cmd *cobra.Command, _ []string) error {
	dict, err := loadDictionary()
	if err != nil {
		return err
	}
	outcomes, err := expectation.RunExamples(dict)
	if err != nil {
		return err
	}

	failed := 0
	for _, o := range outcomes {
		mark := "ok  "
		if !o.Passed {
			mark = "FAIL"
			failed++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: success=%t (want %t)\n", mark, o.Example.Title, o.Result.Success, o.Example.WantSuccess)
	}
	if failed > 0 {
		return errCheckFailed
	}
	return nil
}
