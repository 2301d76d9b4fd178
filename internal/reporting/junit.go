package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/kaizenhq/kaizen/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one benchmark run.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one benchmark problem.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
}

// JUnitFailure carries the error text of a failed problem.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit maps a benchmark result to JUnit XML so CI systems can
// surface problem failures as test failures.
func ConvertToJUnit(result *models.BenchmarkResult) *JUnitTestSuites {
	var totalMs int64
	failures := 0
	cases := make([]JUnitTestCase, 0, len(result.Details.Problems))

	for _, p := range result.Details.Problems {
		totalMs += p.DurationMs
		tc := JUnitTestCase{
			Name:      p.ProblemID,
			Classname: result.BenchmarkType,
			Time:      float64(p.DurationMs) / 1000.0,
		}
		if !p.Passed {
			failures++
			tc.Failure = &JUnitFailure{
				Message: fmt.Sprintf("%s did not pass", p.ProblemID),
				Type:    "ProblemFailure",
				Body:    p.Error,
			}
		}
		cases = append(cases, tc)
	}

	durationSec := float64(totalMs) / 1000.0
	suite := JUnitTestSuite{
		Name:      result.BenchmarkType,
		Tests:     len(cases),
		Failures:  failures,
		Time:      durationSec,
		Timestamp: result.Timestamp.Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "agent", Value: result.AgentID},
			{Name: "score", Value: fmt.Sprintf("%.4f", result.Score)},
			{Name: "language", Value: result.Details.Language},
		},
		TestCases: cases,
	}

	return &JUnitTestSuites{
		Tests:      len(cases),
		Failures:   failures,
		Time:       durationSec,
		TestSuites: []JUnitTestSuite{suite},
	}
}

// WriteJUnitXML writes the result's JUnit XML report to path.
func WriteJUnitXML(result *models.BenchmarkResult, path string) error {
	suites := ConvertToJUnit(result)

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	output := append([]byte(xml.Header), data...)
	return os.WriteFile(path, output, 0644)
}
