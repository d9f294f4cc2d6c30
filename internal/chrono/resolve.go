package chrono

import (
	"fmt"
	"strings"

	"github.com/nowwaveradio/datetime-normalizer/internal/constants"
)

// ResolverStyle controls how raw parsed fields become a calendar-valid Value.
type ResolverStyle int

const (
	// ResolverStrict requires every field to lie within its calendar-correct
	// range for the specific year/month combination present.
	ResolverStrict ResolverStyle = iota

	// ResolverSmart clamps a day-of-month that overshoots the month's length
	// down to the last valid day; everything else must be nominally valid.
	ResolverSmart

	// ResolverLenient normalizes out-of-range values by carrying the excess
	// into the next larger unit, smallest to largest.
	ResolverLenient
)

// String returns the lowercase style name used in config files and flags.
func (s ResolverStyle) String() string {
	switch s {
	case ResolverStrict:
		return "strict"
	case ResolverSmart:
		return "smart"
	case ResolverLenient:
		return "lenient"
	default:
		return "unknown"
	}
}

// ParseResolverStyle converts a config/flag string into a ResolverStyle.
func ParseResolverStyle(name string) (ResolverStyle, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "strict":
		return ResolverStrict, nil
	case "smart", "":
		return ResolverSmart, nil
	case "lenient":
		return ResolverLenient, nil
	default:
		return ResolverSmart, fmt.Errorf("unknown resolver style %q (expected strict, smart, or lenient)", name)
	}
}

// ResolutionError reports a lexically valid field value that does not form a
// valid calendar date/time under the active resolver style.
type ResolutionError struct {
	Field   Field
	Value   int
	Style   ResolverStyle
	Message string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("invalid %s value %d (%s resolution): %s", e.Field, e.Value, e.Style, e.Message)
}

func resolutionError(f Field, value int, style ResolverStyle, format string, args ...interface{}) error {
	return &ResolutionError{Field: f, Value: value, Style: style, Message: fmt.Sprintf(format, args...)}
}

// IsLeapYear reports whether the given proleptic Gregorian year is a leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var monthDays = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the number of days in the given month of the given year.
// Month must be in 1..12.
func DaysInMonth(year, month int) int {
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return monthDays[month]
}

// nominalRanges are the field ranges enforced before any calendar-specific
// day-of-month check. Day uses the widest possible month length here.
var nominalRanges = map[Field][2]int{
	FieldYear:    {constants.MinYear, constants.MaxYear},
	FieldMonth:   {1, 12},
	FieldDay:     {1, 31},
	FieldWeekday: {1, 7},
	FieldHour:    {0, 23},
	FieldMinute:  {0, 59},
	FieldSecond:  {0, 59},
	FieldNano:    {0, 999999999},
}

// Resolve converts raw parsed fields into a Value under the given style.
// Fields absent from raw stay absent on the returned Value; callers decide
// whether a date-only, time-only, or combined value was expected.
func Resolve(raw RawFields, style ResolverStyle) (Value, error) {
	switch style {
	case ResolverStrict, ResolverSmart:
		return resolveChecked(raw, style)
	case ResolverLenient:
		return resolveLenient(raw)
	default:
		return Value{}, fmt.Errorf("unknown resolver style %d", int(style))
	}
}

// resolveChecked implements the STRICT and SMART policies, which differ only
// in how a day-of-month beyond the month's length is treated.
func resolveChecked(raw RawFields, style ResolverStyle) (Value, error) {
	var v Value

	for _, f := range raw.Fields() {
		if f == FieldWeekday {
			continue // cross-checked after the date is assembled
		}
		n := raw.Get(f)
		r := nominalRanges[f]
		if n < r[0] || n > r[1] {
			return Value{}, resolutionError(f, n, style, "must be in range %d..%d", r[0], r[1])
		}
		v = v.With(f, n)
	}

	// Calendar-exact day check needs the full year/month context.
	if v.HasDate() {
		maxDay := DaysInMonth(v.year, v.month)
		if v.day > maxDay {
			if style == ResolverStrict {
				return Value{}, resolutionError(FieldDay, v.day, style,
					"%04d-%02d has only %d days", v.year, v.month, maxDay)
			}
			v = v.With(FieldDay, maxDay) // smart clamp
		}
	}

	if raw.Has(FieldWeekday) && style == ResolverStrict {
		if !v.HasDate() {
			return Value{}, resolutionError(FieldWeekday, raw.Get(FieldWeekday), style,
				"weekday cannot be verified without a complete date")
		}
		want := Weekday(v.year, v.month, v.day)
		if got := raw.Get(FieldWeekday); got != want {
			return Value{}, resolutionError(FieldWeekday, got, style,
				"date %04d-%02d-%02d falls on weekday %d", v.year, v.month, v.day, want)
		}
	}

	return v, nil
}

// resolveLenient normalizes out-of-range values by cascading carries upward:
// nanosecond into second, second into minute, minute into hour, hour into
// day, month into year, and finally day overflow walks forward month by month.
func resolveLenient(raw RawFields) (Value, error) {
	var v Value
	for _, f := range raw.Fields() {
		if f == FieldWeekday {
			continue // a mismatched weekday is ignored under lenient resolution
		}
		v = v.With(f, raw.Get(f))
	}

	dayCarry := 0
	if v.Has(FieldNano) && v.nano > 999999999 {
		carry := v.nano / 1000000000
		v.nano %= 1000000000
		v = v.With(FieldSecond, v.second+carry)
	}
	if v.Has(FieldSecond) && v.second > 59 {
		carry := v.second / 60
		v.second %= 60
		v = v.With(FieldMinute, v.minute+carry)
	}
	if v.Has(FieldMinute) && v.minute > 59 {
		carry := v.minute / 60
		v.minute %= 60
		v = v.With(FieldHour, v.hour+carry)
	}
	if v.Has(FieldHour) && v.hour > 23 {
		dayCarry = v.hour / 24
		v.hour %= 24
	}

	if dayCarry > 0 && !v.HasDate() {
		// No larger unit can absorb the carried days.
		return Value{}, resolutionError(FieldHour, raw.Get(FieldHour), ResolverLenient,
			"overflow cannot carry into an absent date")
	}

	if v.Has(FieldMonth) && v.month > 12 {
		if !v.Has(FieldYear) {
			return Value{}, resolutionError(FieldMonth, v.month, ResolverLenient,
				"overflow cannot carry into an absent year")
		}
		v.year += (v.month - 1) / 12
		v.month = (v.month-1)%12 + 1
	}

	if v.HasDate() {
		if v.day < 1 {
			return Value{}, resolutionError(FieldDay, v.day, ResolverLenient, "must be at least 1")
		}
		v.day += dayCarry
		for v.day > DaysInMonth(v.year, v.month) {
			v.day -= DaysInMonth(v.year, v.month)
			v.month++
			if v.month > 12 {
				v.month = 1
				v.year++
			}
		}
	}

	// Whatever lands outside the representable year range is still an error.
	if v.Has(FieldYear) && (v.year < constants.MinYear || v.year > constants.MaxYear) {
		return Value{}, resolutionError(FieldYear, v.year, ResolverLenient,
			"must be in range %d..%d", constants.MinYear, constants.MaxYear)
	}
	for _, f := range []Field{FieldMonth, FieldDay, FieldHour, FieldMinute, FieldSecond, FieldNano} {
		if !v.Has(f) {
			continue
		}
		r := nominalRanges[f]
		if n := v.Get(f); n < r[0] || n > r[1] {
			return Value{}, resolutionError(f, n, ResolverLenient, "must be in range %d..%d", r[0], r[1])
		}
	}

	return v, nil
}
