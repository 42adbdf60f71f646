// Package report renders run results as JSON or YAML summaries.
package report

import (
	"encoding/json"
	"fmt"

	"fjacquet/levpartflip/internal/logging"
	"fjacquet/levpartflip/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Report is the serialized summary of one scenario run. Numbers are decimal
// strings rounded to the configured precision.
type Report struct {
	Scenario  string                       `json:"scenario" yaml:"scenario"`
	Mode      string                       `json:"mode" yaml:"mode"`
	Scalars   map[string]decimal.Decimal   `json:"scalars" yaml:"scalars"`
	Undefined []string                     `json:"undefined,omitempty" yaml:"undefined,omitempty"`
	Arrays    map[string][]decimal.Decimal `json:"arrays,omitempty" yaml:"arrays,omitempty"`
}

// Options control what a report carries.
type Options struct {
	Precision     int32
	IncludeArrays bool
}

// Build converts results into a report. Undefined scalars such as an IRR
// with no sign change are listed by name instead of being encoded.
func Build(scenario, mode string, res models.Results, opts Options) *Report {
	r := &Report{
		Scenario: scenario,
		Mode:     mode,
		Scalars:  make(map[string]decimal.Decimal, len(res.Scalars)),
	}
	finite := res.Finite()
	for _, name := range res.ScalarNames() {
		v, ok := finite[name]
		if !ok {
			r.Undefined = append(r.Undefined, name)
			continue
		}
		r.Scalars[name] = round(v, opts.Precision)
	}
	if opts.IncludeArrays {
		r.Arrays = make(map[string][]decimal.Decimal, len(res.Arrays))
		for _, name := range res.ArrayNames() {
			values, _ := res.Array(name)
			out := make([]decimal.Decimal, len(values))
			for i, v := range values {
				out[i] = round(v, opts.Precision)
			}
			r.Arrays[name] = out
		}
	}
	return r
}

func round(v float64, precision int32) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(precision)
}

// Generator encodes reports.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a Generator. A nil logger discards output.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Generator{logger: logger.WithField("component", "report")}
}

// Generate encodes report in the given format (json or yaml).
func (g *Generator) Generate(report *Report, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return g.generateJSON(report)
	case FormatYAML:
		return g.generateYAML(report)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) generateJSON(report *Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(data, '\n'), nil
}

func (g *Generator) generateYAML(report *Report) ([]byte, error) {
	data, err := yaml.Marshal(report)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for format.
func Extension(format string) string {
	if format == FormatYAML {
		return ".yaml"
	}
	return ".json"
}
