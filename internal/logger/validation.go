// Filename pattern validation for cross-platform compatibility. This ensures
// configured log filename patterns compile and produce names that are safe on
// Windows, macOS, and Linux.
package logger

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/nowwaveradio/datetime-normalizer/internal/pattern"
)

// FilenameValidationError represents an error in filename pattern validation
type FilenameValidationError struct {
	Pattern      string
	InvalidChars []rune
	Platform     string
	Suggestion   string
}

func (e *FilenameValidationError) Error() string {
	charList := make([]string, len(e.InvalidChars))
	for i, char := range e.InvalidChars {
		charList[i] = fmt.Sprintf("'%c'", char)
	}

	msg := fmt.Sprintf("invalid filename pattern %q contains invalid characters: %s",
		e.Pattern, strings.Join(charList, ", "))

	if e.Platform != "all" {
		msg += fmt.Sprintf(" (invalid on %s)", e.Platform)
	}

	if e.Suggestion != "" {
		msg += fmt.Sprintf(". Suggestion: %s", e.Suggestion)
	}

	return msg
}

// ValidateFilenamePattern validates that a filename pattern compiles and is
// safe for the current platform. Field directives always render as digits or
// letters, so only the pattern's literal segments can carry unsafe characters.
func ValidateFilenamePattern(patternStr string) error {
	if patternStr == "" {
		return nil // Empty pattern uses default, which is safe
	}

	compiled, err := pattern.Compile(patternStr)
	if err != nil {
		return fmt.Errorf("invalid filename pattern: %w", err)
	}

	literals := strings.Join(compiled.Segments(), "")

	// Path separators in a log filename create subdirectories
	if strings.ContainsAny(literals, "/\\") {
		return &FilenameValidationError{
			Pattern:      patternStr,
			InvalidChars: []rune{'/', '\\'},
			Platform:     "all",
			Suggestion:   strings.ReplaceAll(strings.ReplaceAll(patternStr, "/", "-"), "\\", "-"),
		}
	}

	invalidChars := findInvalidCharsInFilename(literals)
	if len(invalidChars) > 0 {
		suggestion := getSuggestionForFilename(patternStr, invalidChars)
		platform := "all"
		if runtime.GOOS == "windows" {
			platform = "Windows"
		}

		return &FilenameValidationError{
			Pattern:      patternStr,
			InvalidChars: invalidChars,
			Platform:     platform,
			Suggestion:   suggestion,
		}
	}

	return nil
}

// findInvalidCharsInFilename returns invalid characters found in the literal text
func findInvalidCharsInFilename(filename string) []rune {
	var invalid []rune

	// Universal invalid characters
	filenameInvalid := []rune{'\x00'}

	// Windows-specific invalid characters in filenames
	windowsInvalid := []rune{'<', '>', ':', '"', '|', '?', '*'}

	// Check for null bytes
	for _, char := range filenameInvalid {
		if strings.ContainsRune(filename, char) {
			invalid = append(invalid, char)
		}
	}

	// Check Windows-specific chars if on Windows
	if runtime.GOOS == "windows" {
		for _, char := range windowsInvalid {
			if strings.ContainsRune(filename, char) {
				invalid = append(invalid, char)
			}
		}
	}

	return invalid
}

// getSuggestionForFilename provides a safe alternative pattern
func getSuggestionForFilename(patternStr string, invalidChars []rune) string {
	suggestion := patternStr

	// Replace common problematic characters with safe alternatives
	replacements := map[rune]string{
		'/':  "-", // MM/dd/uuuu -> MM-dd-uuuu
		'\\': "-", // Similar for backslash
		':':  "-", // HH:mm:ss -> HH-mm-ss
		'|':  "-",
		'*':  "X",
		'?':  "X",
		'<':  "",
		'>':  "",
		'"':  "",
	}

	for _, char := range invalidChars {
		if replacement, exists := replacements[char]; exists {
			suggestion = strings.ReplaceAll(suggestion, string(char), replacement)
		}
	}

	// Clean up multiple consecutive dashes
	for strings.Contains(suggestion, "--") {
		suggestion = strings.ReplaceAll(suggestion, "--", "-")
	}

	return suggestion
}

// GetSafeFilenamePatterns returns a list of recommended safe patterns
func GetSafeFilenamePatterns() []string {
	return []string{
		"'normalizer-'uuuuMMdd'.log'",          // Compact daily format
		"'normalizer-'uuuu-MM-dd'.log'",        // ISO format with dashes
		"'normalizer_'uuuu_MM_dd'.log'",        // Underscore format
		"'normalizer-'uuuuMMdd-HHmm'.log'",     // With time (compact)
		"'normalizer-'uuuu-MM-dd-HH-mm'.log'",  // With time (readable)
	}
}

// GetUnsafeFilenamePatterns returns examples of patterns to avoid
func GetUnsafeFilenamePatterns() map[string]string {
	return map[string]string{
		"'normalizer-'MM/dd/uuuu'.log'":  "Forward slashes create subdirectories",
		"'normalizer-'HH:mm:ss'.log'":    "Colons invalid on Windows",
		"'normalizer-'uuuu'|'MM'.log'":   "Pipes invalid on Windows",
		"'normalizer-*-'uuuuMMdd'.log'":  "Asterisks invalid on Windows",
		"'normalizer-?-'uuuuMMdd'.log'":  "Question marks invalid on Windows",
		"'normalizer-<'uuuu'>.log'":      "Angle brackets invalid on Windows",
		"'normalizer'\\uuuu\\MM'.log'":   "Backslashes create subdirectories",
	}
}
