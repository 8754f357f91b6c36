// Package entry holds the form-capture layer: typed outreach records, the
// derived-field computations, and the fixed-order arrays the backend expects.
// Nothing in here touches the terminal, so all of it is testable directly.
package entry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// followUpLagDays is the backend's scheduling convention: a follow-up lands
// four calendar days after the connection.
const followUpLagDays = 4

// CRMEntry is one outreach-tracking record as captured from the entry form.
// Only the raw fields live here; derived values are computed in Row.
type CRMEntry struct {
	EntryDate           string
	Platform            string
	ProspectName        string
	Company             string
	Role                string
	ConnectionsSent     int
	ConnectionsAccepted int
	MessagesSent        int
	RepliesReceived     int
	CallsBooked         int
	ConnectionDate      string
	ProspectTimezone    string
	Responded           bool
	Interested          bool
	Notes               string
}

// FieldCount is the length of the ordered array the backend stores per
// entry. The backend appends the array positionally; changing the count or
// order silently corrupts the sheet.
const FieldCount = 19

// Row assembles the 19-field ordered array for the saveData action. now is
// the submission instant and local the operator's zone; both feed the
// timezone-derived fields.
func (e CRMEntry) Row(now time.Time, local *time.Location) []any {
	return []any{
		e.EntryDate,
		e.Platform,
		e.ProspectName,
		e.Company,
		e.Role,
		e.ConnectionsSent,
		e.ConnectionsAccepted,
		ConversionRate(e.ConnectionsSent, e.ConnectionsAccepted),
		e.MessagesSent,
		e.RepliesReceived,
		e.CallsBooked,
		e.ConnectionDate,
		FollowUpDate(e.ConnectionDate),
		e.ProspectTimezone,
		ProspectLocalTime(e.ProspectTimezone, now),
		OutreachWindow(e.ProspectTimezone, local, now),
		yesNo(e.Responded),
		yesNo(e.Interested),
		e.Notes,
	}
}

// ConversionRate formats accepted/sent as a percentage with two decimals.
// A zero send count yields "0.00%", never a division by zero.
func ConversionRate(sent, accepted int) string {
	if sent <= 0 {
		return "0.00%"
	}
	rate := float64(accepted) / float64(sent) * 100.0
	return fmt.Sprintf("%.2f%%", rate)
}

// FollowUpDate returns connectionDate plus four calendar days, or an empty
// string when the connection date is absent or unparsable.
func FollowUpDate(connectionDate string) string {
	raw := strings.TrimSpace(connectionDate)
	if raw == "" {
		return ""
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return ""
	}
	return parsed.AddDate(0, 0, followUpLagDays).Format(dateLayout)
}

// ProspectLocalTime renders the submission instant on the prospect's clock.
// Unresolvable zone names yield an empty string rather than a placeholder.
func ProspectLocalTime(zone string, now time.Time) string {
	loc, ok := loadZone(zone)
	if !ok {
		return ""
	}
	return now.In(loc).Format("2006-01-02 15:04")
}

// OutreachWindow expresses the prospect's 9:00-11:00 morning slot on the
// operator's clock, so the operator knows when to reach out without doing
// zone math. Empty when the prospect zone does not resolve.
func OutreachWindow(zone string, local *time.Location, now time.Time) string {
	loc, ok := loadZone(zone)
	if !ok {
		return ""
	}
	if local == nil {
		local = time.Local
	}
	year, month, day := now.In(loc).Date()
	start := time.Date(year, month, day, 9, 0, 0, 0, loc).In(local)
	end := time.Date(year, month, day, 11, 0, 0, 0, loc).In(local)
	return start.Format("15:04") + "-" + end.Format("15:04")
}

func loadZone(zone string) (*time.Location, bool) {
	name := strings.TrimSpace(zone)
	if name == "" {
		return nil, false
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, false
	}
	return loc, true
}

// ParseCount reads a numeric form field. Blank or unparsable input counts
// as zero; the backend validates real limits.
func ParseCount(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// ParseYesNo treats "yes"/"y"/"true"/"1" (any case) as true.
func ParseYesNo(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "true", "1":
		return true
	default:
		return false
	}
}

func yesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}
