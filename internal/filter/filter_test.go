package filter

import (
	"strings"
	"testing"

	"github.com/nowwaveradio/datetime-normalizer/internal/config"
)

func TestNewFilter(t *testing.T) {
	cfg := &config.Config{
		Filtering: config.FilteringConfig{
			CommentPrefixes:  []string{"#", "//"},
			ExcludedLines:    []string{"N/A", "unknown"},
			ExcludedPatterns: []string{`^draft-`},
		},
	}

	filter, err := NewFilter(cfg)
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}

	if len(filter.commentPrefixes) != 2 {
		t.Errorf("Expected 2 comment prefixes, got %d", len(filter.commentPrefixes))
	}
	if len(filter.excludedLines) != 2 {
		t.Errorf("Expected 2 excluded lines, got %d", len(filter.excludedLines))
	}
	if len(filter.excludedRegex) != 1 {
		t.Errorf("Expected 1 compiled pattern, got %d", len(filter.excludedRegex))
	}
}

func TestNewFilterNilConfig(t *testing.T) {
	_, err := NewFilter(nil)
	if err == nil {
		t.Error("NewFilter() should return error for nil config")
	}
}

func TestNewFilterInvalidRegex(t *testing.T) {
	cfg := &config.Config{
		Filtering: config.FilteringConfig{
			ExcludedPatterns: []string{`[unclosed`},
		},
	}

	_, err := NewFilter(cfg)
	if err == nil {
		t.Error("NewFilter() should return error for invalid regex pattern")
	}
	if err != nil && !strings.Contains(err.Error(), "invalid exclusion regex") {
		t.Errorf("Error should mention the invalid pattern, got: %v", err)
	}
}

func TestNewFilterDefaultCommentPrefix(t *testing.T) {
	filter, err := NewFilter(&config.Config{})
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}

	if filter.ShouldIncludeLine("# a comment") {
		t.Error("Default filter should exclude lines starting with #")
	}
	if !filter.ShouldIncludeLine("2022-09-30") {
		t.Error("Default filter should include value lines")
	}
}

func TestFilterLine(t *testing.T) {
	cfg := &config.Config{
		Filtering: config.FilteringConfig{
			CommentPrefixes:  []string{"#", ";"},
			ExcludedLines:    []string{"N/A", "TBD"},
			ExcludedPatterns: []string{`(?i)placeholder`},
		},
	}

	filter, err := NewFilter(cfg)
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}

	tests := []struct {
		name        string
		line        string
		wantInclude bool
		wantReason  string
	}{
		{"value line", "2022-09-30", true, ""},
		{"blank line", "", false, "blank_line"},
		{"whitespace only", "   \t ", false, "blank_line"},
		{"hash comment", "# generated on 2022-09-30", false, "comment"},
		{"semicolon comment", "; legacy comment", false, "comment"},
		{"indented comment", "   # indented", false, "comment"},
		{"excluded exact", "N/A", false, "excluded_line"},
		{"excluded exact case insensitive", "n/a", false, "excluded_line"},
		{"excluded with surrounding space", "  TBD  ", false, "excluded_line"},
		{"regex match", "PLACEHOLDER value", false, "excluded_pattern"},
		{"near miss is included", "NA", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.FilterLine(tt.line)

			if result.ShouldInclude != tt.wantInclude {
				t.Errorf("FilterLine(%q).ShouldInclude = %v, want %v", tt.line, result.ShouldInclude, tt.wantInclude)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("FilterLine(%q).Reason = %q, want %q", tt.line, result.Reason, tt.wantReason)
			}
		})
	}
}

func TestShouldIncludeLine(t *testing.T) {
	cfg := &config.Config{
		Filtering: config.FilteringConfig{
			CommentPrefixes: []string{"#"},
		},
	}

	filter, err := NewFilter(cfg)
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}

	if filter.ShouldIncludeLine("# comment") {
		t.Error("ShouldIncludeLine() should reject comments")
	}
	if !filter.ShouldIncludeLine("09/30/2022 12:00:00") {
		t.Error("ShouldIncludeLine() should accept value lines")
	}
}

func TestFilterStats(t *testing.T) {
	cfg := &config.Config{
		Filtering: config.FilteringConfig{
			CommentPrefixes: []string{"#"},
			ExcludedLines:   []string{"N/A"},
		},
	}

	filter, err := NewFilter(cfg)
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}

	stats := NewFilterStats()
	lines := []string{
		"2022-09-30",
		"# header",
		"",
		"N/A",
		"2022-10-01",
	}

	for _, line := range lines {
		stats.Record(filter.FilterLine(line))
	}

	if stats.LinesProcessed != 5 {
		t.Errorf("LinesProcessed = %d, want 5", stats.LinesProcessed)
	}
	if stats.LinesFiltered != 3 {
		t.Errorf("LinesFiltered = %d, want 3", stats.LinesFiltered)
	}
	if stats.FilterReasons["comment"] != 1 {
		t.Errorf("FilterReasons[comment] = %d, want 1", stats.FilterReasons["comment"])
	}
	if stats.FilterReasons["blank_line"] != 1 {
		t.Errorf("FilterReasons[blank_line] = %d, want 1", stats.FilterReasons["blank_line"])
	}
	if stats.FilterReasons["excluded_line"] != 1 {
		t.Errorf("FilterReasons[excluded_line] = %d, want 1", stats.FilterReasons["excluded_line"])
	}
}
