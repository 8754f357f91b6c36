package entry

import (
	"strconv"
	"strings"
)

// DARRow is one daily-activity-report line: what was done on a date and for
// how long. Each row is its own saveData call; there is no batch atomicity.
type DARRow struct {
	Date     string
	Activity string
	Hours    float64
}

// Row returns the ordered triple the DAR sheet expects.
func (r DARRow) Row() []any {
	return []any{r.Date, r.Activity, r.Hours}
}

// Empty reports whether the row carries no user input at all. Fully-empty
// rows are skipped at submission rather than stored as blanks.
func (r DARRow) Empty() bool {
	return strings.TrimSpace(r.Date) == "" &&
		strings.TrimSpace(r.Activity) == "" &&
		r.Hours == 0
}

// ParseHours reads an hours form field; unparsable or negative input counts
// as zero.
func ParseHours(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value < 0 {
		return 0.0
	}
	return value
}
