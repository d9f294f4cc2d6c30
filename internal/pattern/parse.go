package pattern

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/nowwaveradio/datetime-normalizer/internal/chrono"
	"github.com/nowwaveradio/datetime-normalizer/internal/constants"
)

// Sentinel causes for lexical parse failures, reachable through errors.Is.
var (
	ErrLiteralMismatch = errors.New("literal mismatch")
	ErrFieldConflict   = errors.New("field conflict")
	ErrLengthMismatch  = errors.New("length mismatch")
	ErrInvalidDigit    = errors.New("expected a digit")
	ErrUnknownName     = errors.New("no matching name")
)

// ParseError reports input text that does not lexically match the compiled
// pattern. It carries the byte position where matching stopped and, for field
// directives, the field kind being decoded.
type ParseError struct {
	Text  string
	Pos   int
	Field chrono.Field
	Cause error
	extra string
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("cannot parse %q: %v at position %d", e.Text, e.Cause, e.Pos)
	if e.Cause != ErrLiteralMismatch && e.Cause != ErrLengthMismatch {
		msg += fmt.Sprintf(" (%s field)", e.Field)
	}
	if e.extra != "" {
		msg += ": " + e.extra
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Parse matches text against the pattern and resolves the extracted fields
// into a Value under the given resolver style. Both phases are single-pass
// and stateless; identical (text, pattern) inputs always produce identical
// raw fields or an identical error.
func (p *Pattern) Parse(text string, style chrono.ResolverStyle) (chrono.Value, error) {
	raw, err := p.parseRaw(text)
	if err != nil {
		return chrono.Value{}, err
	}
	return chrono.Resolve(raw, style)
}

// parseRaw is phase 1: walk the directive sequence and the input in lockstep,
// recording decoded integers keyed by field kind.
func (p *Pattern) parseRaw(text string) (chrono.RawFields, error) {
	var raw chrono.RawFields
	if len(text) > constants.MaxInputLength {
		return raw, &ParseError{Text: text, Pos: constants.MaxInputLength, Cause: ErrLengthMismatch,
			extra: fmt.Sprintf("input exceeds %d bytes", constants.MaxInputLength)}
	}

	pos := 0
	for _, d := range p.directives {
		if pos >= len(text) {
			return raw, &ParseError{Text: text, Pos: pos, Cause: ErrLengthMismatch,
				extra: "input exhausted before the pattern"}
		}
		if d.isLiteral() {
			if len(text)-pos < len(d.literal) || text[pos:pos+len(d.literal)] != d.literal {
				return raw, &ParseError{Text: text, Pos: pos, Cause: ErrLiteralMismatch,
					extra: fmt.Sprintf("expected %q", d.literal)}
			}
			pos += len(d.literal)
			continue
		}

		var value, consumed int
		var err error
		if d.style == TextNumeric {
			value, consumed, err = p.parseNumber(text, pos, d)
		} else {
			value, consumed, err = p.parseName(text, pos, d)
		}
		if err != nil {
			return raw, err
		}
		pos += consumed

		if !raw.Record(d.field, value) {
			return raw, &ParseError{Text: text, Pos: pos, Field: d.field, Cause: ErrFieldConflict,
				extra: fmt.Sprintf("%s already parsed as %d", d.field, raw.Get(d.field))}
		}
	}

	if pos != len(text) {
		return raw, &ParseError{Text: text, Pos: pos, Cause: ErrLengthMismatch,
			extra: fmt.Sprintf("%d trailing bytes", len(text)-pos)}
	}
	return raw, nil
}

// parseNumber decodes a numeric field. Width >= 2 consumes exactly width
// digits; width 1 consumes the maximal digit run up to the field's cap.
func (p *Pattern) parseNumber(text string, pos int, d directive) (value, consumed int, err error) {
	want := d.width
	if want < 2 {
		want = maxDigits(d.field)
	}

	i := pos
	for i < len(text) && i-pos < want && text[i] >= '0' && text[i] <= '9' {
		value = value*10 + int(text[i]-'0')
		i++
	}
	consumed = i - pos

	if consumed == 0 || (d.width >= 2 && consumed < d.width) {
		return 0, 0, &ParseError{Text: text, Pos: i, Field: d.field, Cause: ErrInvalidDigit}
	}

	if d.field == chrono.FieldYear && d.width == 2 {
		// Two-digit years resolve through the pivot: 69 -> 2069, 70 -> 1970.
		if value < constants.TwoDigitYearPivot {
			value += 2000
		} else {
			value += 1900
		}
	}
	return value, consumed, nil
}

// parseName decodes a textual field by finding the longest name from the
// directive's name table that matches at the current position. Matching is
// case-insensitive and folds combining marks away, so "SEPTEMBER" and
// "Séptember" both decode as month 9.
func (p *Pattern) parseName(text string, pos int, d directive) (value, consumed int, err error) {
	names := p.style.names(d.field, d.style)
	best := -1
	for idx, name := range names {
		if n, ok := matchFolded(text[pos:], name); ok && n > consumed {
			consumed = n
			best = idx
		}
	}
	if best == -1 {
		return 0, 0, &ParseError{Text: text, Pos: pos, Field: d.field, Cause: ErrUnknownName}
	}
	return best + 1, consumed, nil
}

// matchFolded reports how many bytes at the start of input spell out name
// under case-insensitive, combining-mark-folded comparison.
func matchFolded(input, name string) (consumed int, ok bool) {
	i := 0
	for _, want := range name {
		r, size := decodeBase(input[i:])
		if r == utf8.RuneError {
			return 0, false
		}
		if unicode.ToLower(r) != unicode.ToLower(want) {
			return 0, false
		}
		i += size
	}
	return i, true
}

// decodeBase decodes the next rune, folding it to its base character and
// consuming any combining marks attached to it.
func decodeBase(s string) (rune, int) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return utf8.RuneError, 0
	}
	if base, ok := firstBaseRune(r); ok {
		r = base
	}
	for size < len(s) {
		next, n := utf8.DecodeRuneInString(s[size:])
		if !unicode.Is(unicode.Mn, next) {
			break
		}
		size += n
	}
	return r, size
}

// firstBaseRune returns the base character of a precomposed rune, dropping
// its combining marks after canonical decomposition.
func firstBaseRune(r rune) (rune, bool) {
	d := norm.NFD.String(string(r))
	base, _ := utf8.DecodeRuneInString(d)
	if base == utf8.RuneError || unicode.Is(unicode.Mn, base) {
		return r, false
	}
	return base, true
}
