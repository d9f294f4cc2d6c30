package formats

import (
	"fmt"
	"strings"

	"github.com/nowwaveradio/datetime-normalizer/internal/chrono"
)

// DetectionError reports that no enabled format could parse an input value.
type DetectionError struct {
	Input string
	Tried []string
}

func (e *DetectionError) Error() string {
	if len(e.Tried) == 0 {
		return fmt.Sprintf("cannot detect format of %q: no formats are enabled", e.Input)
	}
	return fmt.Sprintf("cannot detect format of %q: tried %s", e.Input, strings.Join(e.Tried, ", "))
}

// Detect parses text against every enabled format in priority order and
// returns the value and the key of the first format that succeeds. Equal
// priorities are broken by key order, so detection is deterministic even
// when more than one format matches.
func (r *Registry) Detect(text string, style chrono.ResolverStyle) (chrono.Value, string, error) {
	var tried []string

	for _, formatKey := range r.ListEnabledFormats(true) {
		compiled, err := r.PatternFor(formatKey)
		if err != nil {
			// Malformed configured patterns are caught by ValidateFormats;
			// skip them here rather than failing detection outright.
			continue
		}

		value, err := compiled.Parse(text, style)
		if err == nil {
			return value, formatKey, nil
		}
		tried = append(tried, formatKey)
	}

	return chrono.Value{}, "", &DetectionError{Input: text, Tried: tried}
}
