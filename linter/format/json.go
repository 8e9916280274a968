package format

import (
	"encoding/json"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonOutput struct {
	Results  []jsonResult  `json:"results"`
	Failures []jsonFailure `json:"failures,omitempty"`
	Summary  jsonSummary   `json:"summary"`
}

type jsonResult struct {
	File      string       `json:"file"`
	Rule      string       `json:"rule"`
	Category  string       `json:"category"`
	Severity  string       `json:"severity"`
	Message   string       `json:"message"`
	Location  jsonLocation `json:"location"`
	Fixable   bool         `json:"fixable"`
	Corrected bool         `json:"corrected"`
}

type jsonLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

type jsonFailure struct {
	File    string `json:"file"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type jsonSummary struct {
	Total     int `json:"total"`
	Errors    int `json:"errors"`
	Warnings  int `json:"warnings"`
	Hints     int `json:"hints"`
	Corrected int `json:"corrected"`
	Failures  int `json:"failures"`
}

func (f *JSONFormatter) Format(report *Report) (string, error) {
	output := jsonOutput{
		Results: []jsonResult{},
	}

	for _, file := range report.Files {
		for _, v := range file.Violations {
			output.Results = append(output.Results, jsonResult{
				File:     file.Path,
				Rule:     v.Rule,
				Category: report.category(v.Rule),
				Severity: v.Severity.String(),
				Message:  v.Message,
				Location: jsonLocation{
					Line:   v.Line,
					Column: v.Column,
					Offset: v.Offset,
				},
				Fixable:   v.Autocorrectable,
				Corrected: v.Corrected,
			})
		}
		for _, p := range file.Problems {
			output.Failures = append(output.Failures, jsonFailure{File: file.Path, Kind: "error", Message: p.Error()})
		}
		for _, w := range file.Warnings {
			output.Failures = append(output.Failures, jsonFailure{File: file.Path, Kind: "warning", Message: w.Error()})
		}
	}

	t := report.totals()
	output.Summary = jsonSummary{
		Total:     t.total,
		Errors:    t.errors,
		Warnings:  t.warnings,
		Hints:     t.hints,
		Corrected: t.corrected,
		Failures:  t.problems,
	}

	bytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}
