package chrono

import (
	"fmt"
	"strings"
)

// Value is a resolved, timezone-less date/time value. Fields are optional: a
// Value may represent a date only, a time only, or both, depending on which
// fields were present in the pattern that produced it. The zero Value has no
// fields set. Value is a plain value type and safe to copy and compare.
type Value struct {
	year    int
	month   int
	day     int
	hour    int
	minute  int
	second  int
	nano    int
	present uint16
}

// DateValue builds a date-only Value. It performs no range validation; use
// Resolve for calendar-checked construction.
func DateValue(year, month, day int) Value {
	var v Value
	v = v.With(FieldYear, year).With(FieldMonth, month).With(FieldDay, day)
	return v
}

// TimeValue builds a time-only Value without range validation.
func TimeValue(hour, minute, second, nano int) Value {
	var v Value
	v = v.With(FieldHour, hour).With(FieldMinute, minute)
	v = v.With(FieldSecond, second).With(FieldNano, nano)
	return v
}

// DateTimeValue builds a combined date-time Value without range validation.
func DateTimeValue(year, month, day, hour, minute, second, nano int) Value {
	v := DateValue(year, month, day)
	v = v.With(FieldHour, hour).With(FieldMinute, minute)
	v = v.With(FieldSecond, second).With(FieldNano, nano)
	return v
}

// With returns a copy of the value with the given field set. Setting
// FieldWeekday is a no-op: the weekday is always derived from the date.
func (v Value) With(f Field, n int) Value {
	switch f {
	case FieldYear:
		v.year = n
	case FieldMonth:
		v.month = n
	case FieldDay:
		v.day = n
	case FieldHour:
		v.hour = n
	case FieldMinute:
		v.minute = n
	case FieldSecond:
		v.second = n
	case FieldNano:
		v.nano = n
	default:
		return v
	}
	v.present |= uint16(1) << uint(f)
	return v
}

// Has reports whether the given field is set on the value.
func (v Value) Has(f Field) bool {
	if f == FieldWeekday {
		return v.HasDate()
	}
	return v.present&(uint16(1)<<uint(f)) != 0
}

// HasDate reports whether year, month, and day are all set.
func (v Value) HasDate() bool {
	return v.Has(FieldYear) && v.Has(FieldMonth) && v.Has(FieldDay)
}

// HasTime reports whether at least hour and minute are set.
func (v Value) HasTime() bool {
	return v.Has(FieldHour) && v.Has(FieldMinute)
}

// Get returns the value of the given field, or 0 if the field is unset.
// FieldWeekday is computed from the date (1 = Monday .. 7 = Sunday).
func (v Value) Get(f Field) int {
	switch f {
	case FieldYear:
		return v.year
	case FieldMonth:
		return v.month
	case FieldDay:
		return v.day
	case FieldWeekday:
		if !v.HasDate() {
			return 0
		}
		return Weekday(v.year, v.month, v.day)
	case FieldHour:
		return v.hour
	case FieldMinute:
		return v.minute
	case FieldSecond:
		return v.second
	case FieldNano:
		return v.nano
	default:
		return 0
	}
}

func (v Value) Year() int   { return v.year }
func (v Value) Month() int  { return v.month }
func (v Value) Day() int    { return v.day }
func (v Value) Hour() int   { return v.hour }
func (v Value) Minute() int { return v.minute }
func (v Value) Second() int { return v.second }
func (v Value) Nano() int   { return v.nano }

// IsZero reports whether no fields are set on the value.
func (v Value) IsZero() bool {
	return v.present == 0
}

// String renders the value in ISO-like form for diagnostics: a full date-time
// as "2022-09-30T12:00:00", a date-only value as "2022-09-30", a time-only
// value as "12:00:00". Partial values list their set fields explicitly.
func (v Value) String() string {
	switch {
	case v.HasDate() && v.HasTime():
		s := fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", v.year, v.month, v.day, v.hour, v.minute, v.second)
		if v.nano != 0 {
			s += strings.TrimRight(fmt.Sprintf(".%09d", v.nano), "0")
		}
		return s
	case v.HasDate():
		return fmt.Sprintf("%04d-%02d-%02d", v.year, v.month, v.day)
	case v.HasTime():
		s := fmt.Sprintf("%02d:%02d:%02d", v.hour, v.minute, v.second)
		if v.nano != 0 {
			s += strings.TrimRight(fmt.Sprintf(".%09d", v.nano), "0")
		}
		return s
	case v.IsZero():
		return "(empty)"
	default:
		var parts []string
		for f := Field(0); f < numFields; f++ {
			if f != FieldWeekday && v.Has(f) {
				parts = append(parts, fmt.Sprintf("%s=%d", f, v.Get(f)))
			}
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
}
