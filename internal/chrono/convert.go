package chrono

import (
	"fmt"
	"time"
)

// Weekday returns the ISO weekday (1 = Monday .. 7 = Sunday) for the given
// proleptic Gregorian date. The date is not range-checked.
func Weekday(year, month, day int) int {
	wd := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Weekday()
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// FromTime converts a time.Time into a full date-time Value. The location and
// zone offset are discarded; values are plain wall-clock fields.
func FromTime(t time.Time) Value {
	return DateTimeValue(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond())
}

// Time converts the value to a time.Time in the given location. The value
// must carry a complete date; absent time fields default to zero. A nil
// location defaults to time.UTC.
func (v Value) Time(loc *time.Location) (time.Time, error) {
	if !v.HasDate() {
		return time.Time{}, fmt.Errorf("value %s has no complete date", v)
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(v.year, time.Month(v.month), v.day, v.hour, v.minute, v.second, v.nano, loc), nil
}
