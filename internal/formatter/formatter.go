// Package formatter converts parsed values into output text using the
// configured output pattern, and renders per-file reports either through
// the template engine or with classic line-per-value formatting.
package formatter

import (
	"fmt"
	"strings"

	"github.com/nowwaveradio/datetime-normalizer/internal/chrono"
	"github.com/nowwaveradio/datetime-normalizer/internal/config"
	"github.com/nowwaveradio/datetime-normalizer/internal/formats"
	"github.com/nowwaveradio/datetime-normalizer/internal/pattern"
	"github.com/nowwaveradio/datetime-normalizer/internal/template"
)

// FormatterInterface defines the contract for output rendering
type FormatterInterface interface {
	FormatValue(v chrono.Value) (string, error)
	RenderReport(sourceName string, lines []template.FormattedLine) string
}

// Formatter renders normalized values through the configured output pattern
type Formatter struct {
	registry *formats.Registry
	engine   *template.Engine // Template-based report engine (nil if not configured)
	config   *config.Config
	output   *pattern.Pattern // Compiled output pattern
}

// NewFormatter creates a Formatter whose output pattern is resolved through
// the format registry. The output format may be a format key, an alias, or
// an inline pattern; when empty, the parsing default format is reused.
func NewFormatter(cfg *config.Config, registry *formats.Registry) (*Formatter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if registry == nil {
		return nil, fmt.Errorf("format registry cannot be nil")
	}

	outputFormat := cfg.Output.Format
	if outputFormat == "" {
		outputFormat = cfg.Parsing.DefaultFormat
	}

	compiled, err := registry.PatternFor(outputFormat)
	if err != nil {
		return nil, fmt.Errorf("resolving output format %q: %w", outputFormat, err)
	}

	f := &Formatter{
		registry: registry,
		config:   cfg,
		output:   compiled,
	}

	// Initialize the template engine if report templates are configured
	if len(cfg.Templates.Config) > 0 {
		engine := template.NewEngine(cfg)
		if err := engine.LoadTemplates(); err == nil {
			f.engine = engine
		}
		// If template loading fails, we'll fall back to classic rendering
	}

	return f, nil
}

// OutputPattern returns the symbolic text of the resolved output pattern
func (f *Formatter) OutputPattern() string {
	return f.output.String()
}

// FormatValue renders a resolved value through the output pattern
func (f *Formatter) FormatValue(v chrono.Value) (string, error) {
	return f.output.Format(v)
}

// Line builds the per-line record for one processed input. When parsing
// failed, the record carries the error; when the resolved value cannot be
// rendered by the output pattern (missing fields), that becomes the error
// instead.
func (f *Formatter) Line(index int, input string, v chrono.Value, formatKey string, parseErr error) template.FormattedLine {
	line := template.FormattedLine{
		Index:     index,
		Input:     input,
		FormatKey: formatKey,
	}

	if parseErr != nil {
		line.Error = parseErr.Error()
		return line
	}

	output, err := f.output.Format(v)
	if err != nil {
		line.Error = err.Error()
		return line
	}

	line.Output = output
	line.Valid = true
	return line
}

// RenderReport renders processed lines, preferring the configured template
// and falling back to classic rendering when templates are unavailable or
// fail to execute.
func (f *Formatter) RenderReport(sourceName string, lines []template.FormattedLine) string {
	if f.engine != nil {
		templateName := f.selectTemplate()
		if templateName != "classic" && f.engine.HasTemplate(templateName) {
			result, err := f.engine.Render(templateName, f.buildTemplateData(sourceName, lines, nil))
			if err == nil {
				return result
			}
			// Fall through to classic rendering on error
		}
	}

	return f.renderClassic(lines)
}

// RenderReportWithTemplate renders processed lines with a specific template,
// falling back to classic rendering when the template is missing or fails
func (f *Formatter) RenderReportWithTemplate(sourceName string, lines []template.FormattedLine, templateName string, custom map[string]interface{}) string {
	if f.engine == nil || !f.engine.HasTemplate(templateName) {
		return f.renderClassic(lines)
	}

	result, err := f.engine.Render(templateName, f.buildTemplateData(sourceName, lines, custom))
	if err != nil {
		return f.renderClassic(lines)
	}

	return result
}

// selectTemplate picks the report template: the output section's explicit
// choice wins, otherwise the templates section's default.
func (f *Formatter) selectTemplate() string {
	if f.config.Output.Template != "" {
		return f.config.Output.Template
	}
	return f.engine.GetDefaultTemplateName()
}

// buildTemplateData assembles the report data with valid/invalid counts
func (f *Formatter) buildTemplateData(sourceName string, lines []template.FormattedLine, custom map[string]interface{}) template.TemplateData {
	valid, invalid := CountResults(lines)
	return template.TemplateData{
		SourceName:   sourceName,
		LineCount:    len(lines),
		ValidCount:   valid,
		InvalidCount: invalid,
		Lines:        lines,
		Custom:       custom,
	}
}

// renderClassic emits one line per input. Valid lines show the normalized
// output; invalid lines pass through unchanged so the output keeps the
// input's shape.
func (f *Formatter) renderClassic(lines []template.FormattedLine) string {
	var out []string
	for _, line := range lines {
		if line.Valid {
			out = append(out, line.Output)
		} else {
			out = append(out, line.Input)
		}
	}
	return strings.Join(out, "\n")
}

// FormatCheckLine renders the check-mode verdict for one processed line
func (f *Formatter) FormatCheckLine(line template.FormattedLine) string {
	if line.Valid {
		if line.FormatKey != "" {
			return fmt.Sprintf("valid   %s -> %s (%s)", line.Input, line.Output, line.FormatKey)
		}
		return fmt.Sprintf("valid   %s -> %s", line.Input, line.Output)
	}
	return fmt.Sprintf("invalid %s: %s", line.Input, line.Error)
}

// RenderCheckReport renders verdicts for every processed line followed by
// a one-line summary
func (f *Formatter) RenderCheckReport(sourceName string, lines []template.FormattedLine) string {
	var result strings.Builder

	for _, line := range lines {
		result.WriteString(f.FormatCheckLine(line))
		result.WriteString("\n")
	}

	valid, invalid := CountResults(lines)
	result.WriteString(fmt.Sprintf("checked %d lines: %d valid, %d invalid", len(lines), valid, invalid))

	return result.String()
}

// CountResults returns the number of valid and invalid lines
func CountResults(lines []template.FormattedLine) (valid, invalid int) {
	for _, line := range lines {
		if line.Valid {
			valid++
		} else {
			invalid++
		}
	}
	return valid, invalid
}

// HasTemplateSupport returns true if report templates are loaded
func (f *Formatter) HasTemplateSupport() bool {
	return f.engine != nil
}

// ListAvailableTemplates returns the names of all loaded report templates
func (f *Formatter) ListAvailableTemplates() []string {
	if f.engine == nil {
		return []string{}
	}
	return f.engine.ListTemplates()
}

// HasTemplate checks if a specific report template is available
func (f *Formatter) HasTemplate(templateName string) bool {
	if f.engine == nil {
		return false
	}
	return f.engine.HasTemplate(templateName)
}

// GetDefaultTemplateName returns the configured default template name
func (f *Formatter) GetDefaultTemplateName() string {
	if f.engine == nil {
		return "classic"
	}
	return f.engine.GetDefaultTemplateName()
}

// ValidateTemplate validates a report template's syntax and execution
func (f *Formatter) ValidateTemplate(templateName string) error {
	if f.engine == nil {
		return fmt.Errorf("template support not enabled")
	}
	return f.engine.ValidateTemplate(templateName)
}
