// Package pattern implements the symbolic date/time pattern engine: a
// compiler that turns pattern strings like "MM/dd/uuuu HH:mm:ss" into an
// immutable directive sequence, a two-phase parser that extracts and resolves
// field values from input text, and the inverse formatter.
//
// Pattern symbols: u and y select the year, M and L the month, d the
// day-of-month, E the weekday (text only), H the hour (0-23), m the minute,
// s the second, and n the nanosecond. A run of identical symbols forms one
// field directive whose width is the run length. Text between single quotes
// is literal; two single quotes produce one literal apostrophe.
package pattern

import (
	"fmt"
	"strings"

	"github.com/nowwaveradio/datetime-normalizer/internal/chrono"
	"github.com/nowwaveradio/datetime-normalizer/internal/constants"
)

// PatternError reports a malformed pattern string. It is raised only during
// compilation, never during parsing or formatting.
type PatternError struct {
	Pattern string
	Pos     int
	Symbol  rune
	Message string
}

func (e *PatternError) Error() string {
	if e.Symbol != 0 {
		return fmt.Sprintf("invalid pattern %q: %s at position %d ('%c')", e.Pattern, e.Message, e.Pos, e.Symbol)
	}
	return fmt.Sprintf("invalid pattern %q: %s at position %d", e.Pattern, e.Message, e.Pos)
}

// directive is one compiled unit of a pattern: either exact literal text or a
// typed field with a repetition width.
type directive struct {
	literal string       // non-empty for literal directives
	field   chrono.Field // valid when literal is empty
	width   int
	style   TextStyle
}

func (d directive) isLiteral() bool {
	return d.literal != ""
}

// Pattern is a compiled pattern: an ordered directive sequence plus the style
// table it was compiled against. It is immutable after Compile and safe for
// concurrent use by any number of Parse and Format calls.
type Pattern struct {
	src        string
	directives []directive
	style      *StyleTable
}

// String returns the source pattern string.
func (p *Pattern) String() string {
	return p.src
}

// Segments returns, in directive order, the literal text of each literal
// directive and an empty string for each field directive. Callers use it to
// derive field-agnostic shapes of a pattern, such as filename globs.
func (p *Pattern) Segments() []string {
	segs := make([]string, len(p.directives))
	for i, d := range p.directives {
		segs[i] = d.literal
	}
	return segs
}

// Fields returns the distinct fields the pattern references, in first
// appearance order.
func (p *Pattern) Fields() []chrono.Field {
	var seen uint16
	var fields []chrono.Field
	for _, d := range p.directives {
		if d.isLiteral() {
			continue
		}
		bit := uint16(1) << uint(d.field)
		if seen&bit == 0 {
			seen |= bit
			fields = append(fields, d.field)
		}
	}
	return fields
}

// symbolFields maps recognized pattern letters to their field kind.
var symbolFields = map[rune]chrono.Field{
	'u': chrono.FieldYear,
	'y': chrono.FieldYear,
	'M': chrono.FieldMonth,
	'L': chrono.FieldMonth,
	'd': chrono.FieldDay,
	'E': chrono.FieldWeekday,
	'H': chrono.FieldHour,
	'm': chrono.FieldMinute,
	's': chrono.FieldSecond,
	'n': chrono.FieldNano,
}

// Compile builds a Pattern from a symbolic pattern string using the default
// English style table. It is a pure function of its input: no side effects,
// no shared state.
func Compile(src string) (*Pattern, error) {
	return CompileWithStyle(src, DefaultStyle())
}

// CompileWithStyle compiles a pattern against a caller-supplied style table.
func CompileWithStyle(src string, style *StyleTable) (*Pattern, error) {
	if src == "" {
		return nil, &PatternError{Pattern: src, Message: "pattern is empty"}
	}
	if len(src) > constants.MaxPatternLength {
		return nil, &PatternError{Pattern: src, Message: fmt.Sprintf("pattern exceeds %d characters", constants.MaxPatternLength)}
	}
	if style == nil {
		style = DefaultStyle()
	}

	p := &Pattern{src: src, style: style}
	runes := []rune(src)
	var literal strings.Builder

	flushLiteral := func() {
		if literal.Len() > 0 {
			p.directives = append(p.directives, directive{literal: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == '\'':
			// Quoted literal section; '' is a literal apostrophe.
			if i+1 < len(runes) && runes[i+1] == '\'' {
				literal.WriteRune('\'')
				i += 2
				continue
			}
			j := i + 1
			closed := false
			for j < len(runes) {
				if runes[j] == '\'' {
					if j+1 < len(runes) && runes[j+1] == '\'' {
						literal.WriteRune('\'')
						j += 2
						continue
					}
					closed = true
					break
				}
				literal.WriteRune(runes[j])
				j++
			}
			if !closed {
				return nil, &PatternError{Pattern: src, Pos: i, Message: "unterminated quoted literal"}
			}
			i = j + 1

		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			field, ok := symbolFields[r]
			if !ok {
				return nil, &PatternError{Pattern: src, Pos: i, Symbol: r, Message: "unrecognized pattern symbol"}
			}
			width := 1
			for i+width < len(runes) && runes[i+width] == r {
				width++
			}
			d, err := fieldDirective(field, width, style)
			if err != nil {
				return nil, &PatternError{Pattern: src, Pos: i, Symbol: r, Message: err.Error()}
			}
			flushLiteral()
			p.directives = append(p.directives, d)
			i += width

		default:
			literal.WriteRune(r)
			i++
		}
	}
	flushLiteral()

	return p, nil
}

// MustCompile is Compile for package-level pattern variables; it panics on a
// malformed pattern.
func MustCompile(src string) *Pattern {
	p, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return p
}

// fieldDirective validates a symbol run and derives its rendering style.
func fieldDirective(field chrono.Field, width int, style *StyleTable) (directive, error) {
	d := directive{field: field, width: width, style: TextNumeric}

	switch field {
	case chrono.FieldMonth:
		d.style = style.monthStyle(width)
	case chrono.FieldWeekday:
		d.style = style.weekdayStyle(width)
	case chrono.FieldYear:
		if width != 1 && width != 2 && width != 4 {
			return d, fmt.Errorf("year symbol supports widths 1, 2, and 4, not %d", width)
		}
	case chrono.FieldNano:
		if width > constants.MaxFractionDigits {
			return d, fmt.Errorf("nanosecond symbol supports at most width %d, not %d", constants.MaxFractionDigits, width)
		}
	default:
		if width > 2 {
			return d, fmt.Errorf("numeric symbol supports at most width 2, not %d", width)
		}
	}
	return d, nil
}

// maxDigits returns how many digits a variable-width numeric directive may
// consume for its field.
func maxDigits(field chrono.Field) int {
	switch field {
	case chrono.FieldYear:
		return 4
	case chrono.FieldNano:
		return constants.MaxFractionDigits
	default:
		return 2
	}
}
