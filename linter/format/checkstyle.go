package format

import (
	"encoding/xml"
	"fmt"
)

// CheckstyleFormatter renders the checkstyle XML format read by CI annotators.
type CheckstyleFormatter struct{}

func NewCheckstyleFormatter() *CheckstyleFormatter {
	return &CheckstyleFormatter{}
}

type checkstyleOutput struct {
	XMLName xml.Name         `xml:"checkstyle"`
	Version string           `xml:"version,attr"`
	Files   []checkstyleFile `xml:"file"`
}

type checkstyleFile struct {
	Name   string            `xml:"name,attr"`
	Errors []checkstyleError `xml:"error"`
}

type checkstyleError struct {
	Line     int    `xml:"line,attr"`
	Column   int    `xml:"column,attr,omitempty"`
	Severity string `xml:"severity,attr"`
	Message  string `xml:"message,attr"`
	Source   string `xml:"source,attr"`
}

func (f *CheckstyleFormatter) Format(report *Report) (string, error) {
	out := checkstyleOutput{Version: "8.0"}

	for _, file := range report.Files {
		cf := checkstyleFile{Name: file.Path}
		for _, v := range file.Violations {
			if v.Corrected {
				continue
			}
			severity := v.Severity.String()
			if severity == "hint" {
				severity = "info"
			}
			cf.Errors = append(cf.Errors, checkstyleError{
				Line:     v.Line,
				Column:   v.Column,
				Severity: severity,
				Message:  v.Message,
				Source:   "cstlint." + v.Rule,
			})
		}
		for _, p := range file.Problems {
			cf.Errors = append(cf.Errors, checkstyleError{
				Line:     1,
				Severity: "error",
				Message:  p.Error(),
				Source:   "cstlint.internal",
			})
		}
		if len(cf.Errors) > 0 {
			out.Files = append(out.Files, cf)
		}
	}

	data, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("checkstyle: %w", err)
	}
	return xml.Header + string(data) + "\n", nil
}
