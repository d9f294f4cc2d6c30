// Package chrono provides the calendar value model for the datetime normalizer.
// It defines the field kinds extracted during parsing, the transient raw field
// set populated by a parse pass, the resolved date/time value, and the
// resolution policies that turn raw fields into calendar-valid values.
package chrono

// Field identifies one calendar or clock component.
type Field int

const (
	FieldYear Field = iota
	FieldMonth
	FieldDay
	FieldWeekday
	FieldHour
	FieldMinute
	FieldSecond
	FieldNano

	numFields
)

// String returns the lowercase field name used in error messages and logs.
func (f Field) String() string {
	switch f {
	case FieldYear:
		return "year"
	case FieldMonth:
		return "month"
	case FieldDay:
		return "day-of-month"
	case FieldWeekday:
		return "weekday"
	case FieldHour:
		return "hour"
	case FieldMinute:
		return "minute"
	case FieldSecond:
		return "second"
	case FieldNano:
		return "nanosecond"
	default:
		return "unknown"
	}
}

// RawFields holds the integer values extracted during the lexical parse phase.
// It is transient state local to a single parse call and is never shared.
type RawFields struct {
	values  [numFields]int
	present uint16
}

// Record stores a value for the given field. It returns false when the field
// was already recorded with a different value (a field conflict); recording
// the same value twice is allowed.
func (r *RawFields) Record(f Field, value int) bool {
	bit := uint16(1) << uint(f)
	if r.present&bit != 0 {
		return r.values[f] == value
	}
	r.values[f] = value
	r.present |= bit
	return true
}

// Has reports whether a value was recorded for the given field.
func (r *RawFields) Has(f Field) bool {
	return r.present&(uint16(1)<<uint(f)) != 0
}

// Get returns the recorded value for the given field, or 0 if absent.
func (r *RawFields) Get(f Field) int {
	if !r.Has(f) {
		return 0
	}
	return r.values[f]
}

// Fields returns the list of fields that have recorded values, in field order.
func (r *RawFields) Fields() []Field {
	var fields []Field
	for f := Field(0); f < numFields; f++ {
		if r.Has(f) {
			fields = append(fields, f)
		}
	}
	return fields
}
