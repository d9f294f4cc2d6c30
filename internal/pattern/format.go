package pattern

import (
	"fmt"
	"strconv"

	"github.com/nowwaveradio/datetime-normalizer/internal/chrono"
)

// FormatError reports a value that cannot be rendered by a directive, either
// because a required field is unset or because a fixed-width directive cannot
// hold the field's value.
type FormatError struct {
	Field   chrono.Field
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot format %s field: %s", e.Field, e.Message)
}

// Format renders the value as text by walking the directive sequence: literal
// directives emit verbatim, field directives render with the same width and
// style rules used during decoding. Formatting never resolves or mutates the
// value; it is the syntactic inverse of the lexical parse phase only.
func (p *Pattern) Format(v chrono.Value) (string, error) {
	out, err := p.AppendFormat(nil, v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// AppendFormat appends the rendered value to b and returns the extended
// buffer, avoiding an allocation for callers that format repeatedly.
func (p *Pattern) AppendFormat(b []byte, v chrono.Value) ([]byte, error) {
	for _, d := range p.directives {
		if d.isLiteral() {
			b = append(b, d.literal...)
			continue
		}
		if !v.Has(d.field) {
			return nil, &FormatError{Field: d.field, Message: "field is not set on the value"}
		}

		n := v.Get(d.field)
		if d.style != TextNumeric {
			names := p.style.names(d.field, d.style)
			if n < 1 || n > len(names) {
				return nil, &FormatError{Field: d.field, Message: fmt.Sprintf("value %d has no name", n)}
			}
			b = append(b, names[n-1]...)
			continue
		}

		if d.field == chrono.FieldYear && d.width == 2 {
			n = n % 100
		}
		if n < 0 {
			return nil, &FormatError{Field: d.field, Message: fmt.Sprintf("negative value %d", n)}
		}
		if d.width >= 2 && digitCount(n) > d.width {
			return nil, &FormatError{Field: d.field,
				Message: fmt.Sprintf("value %d does not fit in %d digits", n, d.width)}
		}
		for pad := d.width - digitCount(n); pad > 0; pad-- {
			b = append(b, '0')
		}
		b = strconv.AppendInt(b, int64(n), 10)
	}
	return b, nil
}

func digitCount(n int) int {
	if n == 0 {
		return 1
	}
	count := 0
	for n > 0 {
		count++
		n /= 10
	}
	return count
}
