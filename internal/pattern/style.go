package pattern

import "github.com/nowwaveradio/datetime-normalizer/internal/chrono"

// TextStyle selects how a field directive renders: as a number, as an
// abbreviated name, or as a full name.
type TextStyle int

const (
	TextNumeric TextStyle = iota
	TextShort
	TextFull
)

// StyleTable supplies the name tables and width thresholds used when a month
// or weekday directive renders as text. The thresholds are data, not
// hard-coded arithmetic, so callers can shift where abbreviated and full
// rendering begin. A StyleTable is immutable once handed to Compile.
type StyleTable struct {
	// MonthShort and MonthLong are indexed by month-1.
	MonthShort [12]string
	MonthLong  [12]string

	// WeekdayShort and WeekdayLong are indexed by ISO weekday-1 (Monday first).
	WeekdayShort [7]string
	WeekdayLong  [7]string

	// ShortTextMinWidth is the symbol run length at which a month directive
	// switches from numeric to abbreviated-name rendering.
	ShortTextMinWidth int

	// FullTextMinWidth is the run length at which month and weekday
	// directives switch to full-name rendering.
	FullTextMinWidth int
}

// DefaultStyle returns the English style table: months render numerically
// below width 3, abbreviated at widths 3-4, and in full from width 5 up.
// Weekdays are text at every width, abbreviated below width 5.
func DefaultStyle() *StyleTable {
	return &StyleTable{
		MonthShort: [12]string{
			"Jan", "Feb", "Mar", "Apr", "May", "Jun",
			"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
		},
		MonthLong: [12]string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
		WeekdayShort: [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		WeekdayLong: [7]string{
			"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
		},
		ShortTextMinWidth: 3,
		FullTextMinWidth:  5,
	}
}

// monthStyle maps a month symbol run length onto a rendering style.
func (st *StyleTable) monthStyle(width int) TextStyle {
	switch {
	case width >= st.FullTextMinWidth:
		return TextFull
	case width >= st.ShortTextMinWidth:
		return TextShort
	default:
		return TextNumeric
	}
}

// weekdayStyle maps a weekday symbol run length onto a rendering style.
// Weekday is a text-only field: there is no numeric rendering.
func (st *StyleTable) weekdayStyle(width int) TextStyle {
	if width >= st.FullTextMinWidth {
		return TextFull
	}
	return TextShort
}

// names returns the name table for a text directive: one entry per field
// value, indexed by value-1.
func (st *StyleTable) names(f chrono.Field, style TextStyle) []string {
	switch {
	case f == chrono.FieldMonth && style == TextFull:
		return st.MonthLong[:]
	case f == chrono.FieldMonth:
		return st.MonthShort[:]
	case style == TextFull:
		return st.WeekdayLong[:]
	default:
		return st.WeekdayShort[:]
	}
}
