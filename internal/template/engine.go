// Package template provides a flexible templating system for report output
// using Go's text/template package with custom functions and data structures.
package template

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/nowwaveradio/datetime-normalizer/internal/config"
)

// Engine provides template-based report formatting
type Engine struct {
	templates map[string]*template.Template
	config    *config.Config
}

// TemplateData represents the data structure passed to templates for execution
type TemplateData struct {
	SourceName   string                 `json:"source_name"`
	GeneratedAt  string                 `json:"generated_at"`
	LineCount    int                    `json:"line_count"`
	ValidCount   int                    `json:"valid_count"`
	InvalidCount int                    `json:"invalid_count"`
	Lines        []FormattedLine        `json:"lines"`
	Custom       map[string]interface{} `json:"custom"` // user-defined variables
}

// FormattedLine represents a single normalized line for template processing
type FormattedLine struct {
	Index     int    `json:"index"`
	Input     string `json:"input"`
	Output    string `json:"output"`
	FormatKey string `json:"format_key"`
	Valid     bool   `json:"valid"`
	Error     string `json:"error"`
}

// NewEngine creates a new template Engine
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		templates: make(map[string]*template.Template),
		config:    cfg,
	}
}

// LoadTemplates parses template definitions from config and registers custom functions
func (e *Engine) LoadTemplates() error {
	if e.config == nil {
		return fmt.Errorf("config is nil")
	}

	// Clear existing templates
	e.templates = make(map[string]*template.Template)

	// Create custom function map
	funcMap := template.FuncMap{
		"repeat": strings.Repeat,
		"upper":  strings.ToUpper,
		"lower":  strings.ToLower,
		"truncate": func(s string, n int) string {
			if len(s) <= n {
				return s
			}
			return s[:n] + "..."
		},
		"printf": fmt.Sprintf,
		"join": func(sep string, items []string) string {
			return strings.Join(items, sep)
		},
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"pad": func(s string, n int) string {
			if len(s) >= n {
				return s
			}
			return s + strings.Repeat(" ", n-len(s))
		},
	}

	// Load each template from config
	for name, templateConfig := range e.config.Templates.Config {
		if err := e.loadSingleTemplate(name, templateConfig, funcMap); err != nil {
			return fmt.Errorf("loading template %s: %w", name, err)
		}
	}

	return nil
}

// loadSingleTemplate loads and parses a single template configuration
func (e *Engine) loadSingleTemplate(name string, templateConfig config.TemplateConfig, funcMap template.FuncMap) error {
	// Create combined template text
	var templateText strings.Builder

	// Add header template
	if templateConfig.Header != "" {
		templateText.WriteString("{{define \"header\"}}")
		templateText.WriteString(templateConfig.Header)
		templateText.WriteString("{{end}}")
	}

	// Add line template (required)
	if templateConfig.Line == "" {
		return fmt.Errorf("line template is required")
	}
	templateText.WriteString("{{define \"line\"}}")
	templateText.WriteString(templateConfig.Line)
	templateText.WriteString("{{end}}")

	// Add footer template
	if templateConfig.Footer != "" {
		templateText.WriteString("{{define \"footer\"}}")
		templateText.WriteString(templateConfig.Footer)
		templateText.WriteString("{{end}}")
	}

	// Parse the combined template
	tmpl, err := template.New(name).Funcs(funcMap).Parse(templateText.String())
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}

	e.templates[name] = tmpl
	return nil
}

// Render executes a template with the given report data. The header and
// footer see the whole TemplateData; the line template runs once per line
// with that line as its data.
func (e *Engine) Render(templateName string, data TemplateData) (string, error) {
	// Check if template exists
	tmpl, exists := e.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	if data.GeneratedAt == "" {
		data.GeneratedAt = time.Now().Format("2006-01-02 15:04:05")
	}

	var result strings.Builder

	// Execute header template if it exists
	if tmpl.Lookup("header") != nil {
		var headerBuf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&headerBuf, "header", data); err != nil {
			return "", fmt.Errorf("executing header template: %w", err)
		}
		result.WriteString(headerBuf.String())
	}

	// Execute line template for each line
	if tmpl.Lookup("line") == nil {
		return "", fmt.Errorf("line template not found")
	}

	for _, line := range data.Lines {
		var lineBuf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&lineBuf, "line", line); err != nil {
			return "", fmt.Errorf("executing line template: %w", err)
		}
		result.WriteString(lineBuf.String())
	}

	// Execute footer template if it exists
	if footerTmpl := tmpl.Lookup("footer"); footerTmpl != nil {
		var footerBuf bytes.Buffer
		if err := footerTmpl.Execute(&footerBuf, data); err != nil {
			return "", fmt.Errorf("executing footer template: %w", err)
		}
		result.WriteString(footerBuf.String())
	}

	return result.String(), nil
}

// ValidateTemplate checks template syntax and required variables
func (e *Engine) ValidateTemplate(name string) error {
	tmpl, exists := e.templates[name]
	if !exists {
		return fmt.Errorf("template %s not found", name)
	}

	// Create test data to validate template execution
	testData := TemplateData{
		SourceName:   "test-input.txt",
		GeneratedAt:  "2022-09-30 12:00:00",
		LineCount:    1,
		ValidCount:   1,
		InvalidCount: 0,
		Lines: []FormattedLine{
			{
				Index:     1,
				Input:     "09/30/2022",
				Output:    "2022-09-30",
				FormatKey: "us-date",
				Valid:     true,
			},
		},
		Custom: map[string]interface{}{
			"test": "value",
		},
	}

	// Try to execute each template component
	if headerTmpl := tmpl.Lookup("header"); headerTmpl != nil {
		var buf bytes.Buffer
		if err := headerTmpl.Execute(&buf, testData); err != nil {
			return fmt.Errorf("header template validation failed: %w", err)
		}
	}

	if lineTmpl := tmpl.Lookup("line"); lineTmpl != nil {
		var buf bytes.Buffer
		if err := lineTmpl.Execute(&buf, testData.Lines[0]); err != nil {
			return fmt.Errorf("line template validation failed: %w", err)
		}
	} else {
		return fmt.Errorf("line template is required")
	}

	if footerTmpl := tmpl.Lookup("footer"); footerTmpl != nil {
		var buf bytes.Buffer
		if err := footerTmpl.Execute(&buf, testData); err != nil {
			return fmt.Errorf("footer template validation failed: %w", err)
		}
	}

	return nil
}

// ListTemplates returns the names of all loaded templates
func (e *Engine) ListTemplates() []string {
	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	return names
}

// HasTemplate checks if a template with the given name exists
func (e *Engine) HasTemplate(name string) bool {
	_, exists := e.templates[name]
	return exists
}

// GetDefaultTemplateName returns the configured default template name
func (e *Engine) GetDefaultTemplateName() string {
	if e.config != nil && e.config.Templates.Default != "" {
		return e.config.Templates.Default
	}
	return "classic" // fallback to classic formatting
}
