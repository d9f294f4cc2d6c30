// Package filter provides input line filtering to exclude comments, blank
// lines, and other non-value content from input files using string matching
// and regex patterns.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nowwaveradio/datetime-normalizer/internal/config"
)

// Filter represents the line filtering system
type Filter struct {
	commentPrefixes []string         // Line prefixes that mark comments
	excludedLines   []string         // Case-insensitive exact matches
	excludedRegex   []*regexp.Regexp // Compiled regex patterns
}

// FilterStats holds statistics about filtering operations
type FilterStats struct {
	LinesProcessed int            // Total lines processed
	LinesFiltered  int            // Total lines filtered out
	FilterReasons  map[string]int // Count of each filter reason
}

// NewFilterStats creates a new FilterStats instance
func NewFilterStats() *FilterStats {
	return &FilterStats{
		FilterReasons: make(map[string]int),
	}
}

// Record updates the statistics with one filtering result
func (s *FilterStats) Record(result FilterResult) {
	s.LinesProcessed++
	if !result.ShouldInclude {
		s.LinesFiltered++
		s.FilterReasons[result.Reason]++
	}
}

// FilterResult represents the result of filtering a line
type FilterResult struct {
	ShouldInclude bool   // Whether the line should be processed
	Reason        string // Reason for filtering (if filtered)
	MatchedValue  string // The value that matched the filter
}

// defaultCommentPrefixes mark comment lines when the config lists none.
var defaultCommentPrefixes = []string{"#"}

// NewFilter creates a new Filter instance from configuration. Regex patterns
// are compiled at initialization so malformed patterns fail up front.
func NewFilter(cfg *config.Config) (*Filter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	filter := &Filter{
		commentPrefixes: make([]string, 0),
		excludedLines:   make([]string, 0),
	}

	for _, prefix := range cfg.Filtering.CommentPrefixes {
		if strings.TrimSpace(prefix) != "" {
			filter.commentPrefixes = append(filter.commentPrefixes, strings.TrimSpace(prefix))
		}
	}
	if len(filter.commentPrefixes) == 0 && len(cfg.Filtering.CommentPrefixes) == 0 {
		filter.commentPrefixes = append(filter.commentPrefixes, defaultCommentPrefixes...)
	}

	// Excluded lines match exactly, case-insensitively
	for _, line := range cfg.Filtering.ExcludedLines {
		if strings.TrimSpace(line) != "" {
			filter.excludedLines = append(filter.excludedLines, strings.ToLower(strings.TrimSpace(line)))
		}
	}

	// Compile regex patterns
	filter.excludedRegex = make([]*regexp.Regexp, 0)
	for _, pattern := range cfg.Filtering.ExcludedPatterns {
		if strings.TrimSpace(pattern) != "" {
			compiled, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid exclusion regex pattern '%s': %w", pattern, err)
			}
			filter.excludedRegex = append(filter.excludedRegex, compiled)
		}
	}

	return filter, nil
}

// isComment checks whether a line starts with a configured comment prefix
func (f *Filter) isComment(line string) (bool, string) {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range f.commentPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true, prefix
		}
	}
	return false, ""
}

// isExcludedByString checks if a line is excluded by exact matching
func (f *Filter) isExcludedByString(line string) (bool, string) {
	lineLower := strings.ToLower(strings.TrimSpace(line))

	for _, excluded := range f.excludedLines {
		if lineLower == excluded {
			return true, excluded
		}
	}

	return false, ""
}

// isExcludedByRegex checks if a line matches any exclusion pattern
func (f *Filter) isExcludedByRegex(line string) (bool, string) {
	for _, pattern := range f.excludedRegex {
		if pattern != nil && pattern.MatchString(line) {
			return true, pattern.String()
		}
	}

	return false, ""
}

// ShouldIncludeLine determines if a line should be parsed as a value
func (f *Filter) ShouldIncludeLine(line string) bool {
	return f.FilterLine(line).ShouldInclude
}

// FilterLine returns detailed information about why a line was filtered
func (f *Filter) FilterLine(line string) FilterResult {
	if strings.TrimSpace(line) == "" {
		return FilterResult{
			ShouldInclude: false,
			Reason:        "blank_line",
			MatchedValue:  "",
		}
	}

	// Comment prefixes first (most common exclusion)
	if excluded, prefix := f.isComment(line); excluded {
		return FilterResult{
			ShouldInclude: false,
			Reason:        "comment",
			MatchedValue:  prefix,
		}
	}

	// Exact matches
	if excluded, matchedValue := f.isExcludedByString(line); excluded {
		return FilterResult{
			ShouldInclude: false,
			Reason:        "excluded_line",
			MatchedValue:  matchedValue,
		}
	}

	// Regex-based exclusions
	if excluded, pattern := f.isExcludedByRegex(line); excluded {
		return FilterResult{
			ShouldInclude: false,
			Reason:        "excluded_pattern",
			MatchedValue:  pattern,
		}
	}

	// Line passed all filters
	return FilterResult{
		ShouldInclude: true,
		Reason:        "",
		MatchedValue:  "",
	}
}
