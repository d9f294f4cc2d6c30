package pattern

import (
	"fmt"
	"strings"

	"github.com/nowwaveradio/datetime-normalizer/internal/chrono"
)

// GoLayout converts the compiled pattern into an equivalent Go time layout
// string where one exists. Not every directive is representable: the stdlib
// has no unpadded hour, no bare nanosecond count, and literal digits would be
// misread as layout elements. Callers that bridge to time.Parse should fall
// back to the engine itself when this returns an error.
func (p *Pattern) GoLayout() (string, error) {
	var layout strings.Builder
	for _, d := range p.directives {
		if d.isLiteral() {
			if strings.ContainsAny(d.literal, "0123456789") {
				return "", fmt.Errorf("literal %q contains digits and has no Go layout form", d.literal)
			}
			layout.WriteString(d.literal)
			continue
		}
		ref, err := goLayoutRef(d)
		if err != nil {
			return "", err
		}
		layout.WriteString(ref)
	}
	return layout.String(), nil
}

func goLayoutRef(d directive) (string, error) {
	switch d.field {
	case chrono.FieldYear:
		switch d.width {
		case 2:
			return "06", nil
		case 4:
			return "2006", nil
		}
	case chrono.FieldMonth:
		switch d.style {
		case TextShort:
			return "Jan", nil
		case TextFull:
			return "January", nil
		default:
			if d.width == 1 {
				return "1", nil
			}
			return "01", nil
		}
	case chrono.FieldDay:
		if d.width == 1 {
			return "2", nil
		}
		return "02", nil
	case chrono.FieldWeekday:
		if d.style == TextFull {
			return "Monday", nil
		}
		return "Mon", nil
	case chrono.FieldHour:
		if d.width == 2 {
			return "15", nil
		}
	case chrono.FieldMinute:
		if d.width == 1 {
			return "4", nil
		}
		return "04", nil
	case chrono.FieldSecond:
		if d.width == 1 {
			return "5", nil
		}
		return "05", nil
	}
	return "", fmt.Errorf("%s directive of width %d has no Go layout form", d.field, d.width)
}
