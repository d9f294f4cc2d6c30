package pattern

// Compiled defaults for the formats the normalizer reaches for most often.
// Compiled patterns are immutable, so sharing these across goroutines is safe.
var (
	// ISODate accepts and renders "2022-09-30".
	ISODate = MustCompile("uuuu-MM-dd")

	// ISODateTime accepts and renders "2022-09-30 12:00:00".
	ISODateTime = MustCompile("uuuu-MM-dd HH:mm:ss")

	// USDateTime accepts and renders "09/30/2022 12:00:00".
	USDateTime = MustCompile("MM/dd/uuuu HH:mm:ss")

	// Compact accepts and renders "20220930", the form used in log filenames.
	Compact = MustCompile("uuuuMMdd")
)
