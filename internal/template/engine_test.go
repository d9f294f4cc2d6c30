package template

import (
	"strings"
	"testing"

	"github.com/nowwaveradio/datetime-normalizer/internal/config"
)

func engineConfig(templates map[string]config.TemplateConfig, defaultName string) *config.Config {
	return &config.Config{
		Templates: config.TemplatesConfig{
			Default: defaultName,
			Config:  templates,
		},
	}
}

func reportData() TemplateData {
	return TemplateData{
		SourceName:   "input.txt",
		GeneratedAt:  "2022-09-30 12:00:00",
		LineCount:    3,
		ValidCount:   2,
		InvalidCount: 1,
		Lines: []FormattedLine{
			{Index: 1, Input: "09/30/2022", Output: "2022-09-30", FormatKey: "us-date", Valid: true},
			{Index: 2, Input: "garbage", Output: "", FormatKey: "", Valid: false, Error: "no format matched"},
			{Index: 3, Input: "20221001", Output: "2022-10-01", FormatKey: "compact", Valid: true},
		},
	}
}

func TestNewEngine(t *testing.T) {
	cfg := &config.Config{}
	engine := NewEngine(cfg)

	if engine == nil {
		t.Fatal("NewEngine returned nil")
	}

	if engine.config != cfg {
		t.Error("Config not properly set")
	}

	if engine.templates == nil {
		t.Error("Templates map not initialized")
	}
}

func TestLoadTemplates(t *testing.T) {
	cfg := engineConfig(map[string]config.TemplateConfig{
		"minimal": {
			Header: "Normalized values:\n",
			Line:   "{{.Input}} -> {{.Output}}\n",
			Footer: "Total: {{.LineCount}} lines",
		},
		"detailed": {
			Header: "=== {{.SourceName}} ===\n",
			Line:   "[{{.Index}}] {{.Output}}{{if not .Valid}} (error: {{.Error}}){{end}}\n",
			Footer: "{{.ValidCount}} valid, {{.InvalidCount}} invalid",
		},
	}, "minimal")

	engine := NewEngine(cfg)
	err := engine.LoadTemplates()

	if err != nil {
		t.Fatalf("LoadTemplates failed: %v", err)
	}

	// Check that templates were loaded
	if len(engine.templates) != 2 {
		t.Errorf("Expected 2 templates, got %d", len(engine.templates))
	}

	if !engine.HasTemplate("minimal") {
		t.Error("Minimal template not loaded")
	}

	if !engine.HasTemplate("detailed") {
		t.Error("Detailed template not loaded")
	}
}

func TestLoadTemplatesWithMissingLine(t *testing.T) {
	cfg := engineConfig(map[string]config.TemplateConfig{
		"invalid": {
			Header: "Header only",
			Footer: "Footer only",
			// Missing Line template
		},
	}, "")

	engine := NewEngine(cfg)
	err := engine.LoadTemplates()

	if err == nil {
		t.Error("Expected error for missing line template")
	}

	if !strings.Contains(err.Error(), "line template is required") {
		t.Errorf("Expected 'line template is required' error, got: %v", err)
	}
}

func TestRender(t *testing.T) {
	cfg := engineConfig(map[string]config.TemplateConfig{
		"simple": {
			Header: "Report for {{.SourceName}}:\n",
			Line:   "{{.Input}} -> {{.Output}}\n",
			Footer: "Total: {{.LineCount}} lines",
		},
	}, "")

	engine := NewEngine(cfg)
	if err := engine.LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates failed: %v", err)
	}

	result, err := engine.Render("simple", reportData())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	expected := "Report for input.txt:\n" +
		"09/30/2022 -> 2022-09-30\n" +
		"garbage -> \n" +
		"20221001 -> 2022-10-01\n" +
		"Total: 3 lines"
	if result != expected {
		t.Errorf("Template output mismatch.\nExpected:\n%s\nGot:\n%s", expected, result)
	}
}

func TestRenderNonExistentTemplate(t *testing.T) {
	engine := NewEngine(&config.Config{})

	result, err := engine.Render("nonexistent", reportData())
	if err == nil {
		t.Error("Expected error for non-existent template")
	}

	if result != "" {
		t.Error("Expected empty result on error")
	}
}

func TestRenderFillsGeneratedAt(t *testing.T) {
	cfg := engineConfig(map[string]config.TemplateConfig{
		"stamped": {
			Header: "Generated {{.GeneratedAt}}\n",
			Line:   "{{.Output}}\n",
		},
	}, "")

	engine := NewEngine(cfg)
	if err := engine.LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates failed: %v", err)
	}

	data := reportData()
	data.GeneratedAt = ""

	result, err := engine.Render("stamped", data)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if strings.HasPrefix(result, "Generated \n") {
		t.Error("Render should fill GeneratedAt when empty")
	}
}

func TestValidateTemplate(t *testing.T) {
	cfg := engineConfig(map[string]config.TemplateConfig{
		"valid": {
			Header: "Header: {{.SourceName}}",
			Line:   "{{.Input}} -> {{.Output}}",
			Footer: "Footer: {{.LineCount}}",
		},
		"invalid": {
			Line: "{{.InvalidField}}", // This should cause validation to fail
		},
	}, "")

	engine := NewEngine(cfg)
	if err := engine.LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates failed: %v", err)
	}

	// Valid template should pass validation
	if err := engine.ValidateTemplate("valid"); err != nil {
		t.Errorf("Valid template failed validation: %v", err)
	}

	// Invalid template should fail validation
	if err := engine.ValidateTemplate("invalid"); err == nil {
		t.Error("Expected validation to fail for invalid template")
	}

	// Non-existent template should fail validation
	if err := engine.ValidateTemplate("missing"); err == nil {
		t.Error("Expected validation to fail for missing template")
	}
}

func TestTemplateFunctions(t *testing.T) {
	cfg := engineConfig(map[string]config.TemplateConfig{
		"functions": {
			Line: "{{upper .FormatKey}} {{lower .Input}} ({{truncate .Output 3}})",
		},
		"padding": {
			Line: "{{pad .Input 12}}|{{.Output}}",
		},
	}, "")

	engine := NewEngine(cfg)
	if err := engine.LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates failed: %v", err)
	}

	data := TemplateData{
		Lines: []FormattedLine{
			{Index: 1, Input: "09/30/2022", Output: "2022-09-30", FormatKey: "us-date", Valid: true},
		},
	}

	result, err := engine.Render("functions", data)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	expected := "US-DATE 09/30/2022 (202...)"
	if result != expected {
		t.Errorf("Function template output mismatch.\nExpected: %s\nGot: %s", expected, result)
	}

	result, err = engine.Render("padding", data)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	expected = "09/30/2022  |2022-09-30"
	if result != expected {
		t.Errorf("pad output mismatch.\nExpected: %s\nGot: %s", expected, result)
	}
}

func TestListTemplates(t *testing.T) {
	cfg := engineConfig(map[string]config.TemplateConfig{
		"template1": {Line: "{{.Input}}"},
		"template2": {Line: "{{.Output}}"},
	}, "")

	engine := NewEngine(cfg)
	if err := engine.LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates failed: %v", err)
	}

	templates := engine.ListTemplates()
	if len(templates) != 2 {
		t.Errorf("Expected 2 templates, got %d", len(templates))
	}

	// Check that both templates are present
	hasTemplate1 := false
	hasTemplate2 := false
	for _, name := range templates {
		if name == "template1" {
			hasTemplate1 = true
		}
		if name == "template2" {
			hasTemplate2 = true
		}
	}

	if !hasTemplate1 {
		t.Error("template1 not found in ListTemplates")
	}
	if !hasTemplate2 {
		t.Error("template2 not found in ListTemplates")
	}
}

func TestGetDefaultTemplateName(t *testing.T) {
	// Test with configured default
	cfg := engineConfig(nil, "custom_default")

	engine := NewEngine(cfg)
	defaultName := engine.GetDefaultTemplateName()
	if defaultName != "custom_default" {
		t.Errorf("Expected 'custom_default', got '%s'", defaultName)
	}

	// Test without configured default
	cfg.Templates.Default = ""
	defaultName = engine.GetDefaultTemplateName()
	if defaultName != "classic" {
		t.Errorf("Expected 'classic' fallback, got '%s'", defaultName)
	}
}
