package entry

import (
	"testing"
	"time"
)

func TestConversionRate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		sent, accepted int
		want           string
	}{
		{0, 0, "0.00%"},
		{0, 5, "0.00%"},
		{10, 5, "50.00%"},
		{3, 1, "33.33%"},
		{10, 10, "100.00%"},
	}
	for _, tc := range cases {
		if got := ConversionRate(tc.sent, tc.accepted); got != tc.want {
			t.Fatalf("ConversionRate(%d, %d) = %q, want %q", tc.sent, tc.accepted, got, tc.want)
		}
	}
}

func TestFollowUpDateAddsFourCalendarDays(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"2024-01-01", "2024-01-05"},
		{"2024-01-29", "2024-02-02"},
		{"2024-12-30", "2025-01-03"},
		{"", ""},
		{"not-a-date", ""},
	}
	for _, tc := range cases {
		if got := FollowUpDate(tc.in); got != tc.want {
			t.Fatalf("FollowUpDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestProspectLocalTime(t *testing.T) {
	t.Parallel()

	// 15:00 UTC is 10:00 in New York during January (UTC-5).
	now := time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC)
	if got := ProspectLocalTime("America/New_York", now); got != "2024-01-15 10:00" {
		t.Fatalf("unexpected prospect local time: %q", got)
	}
	if got := ProspectLocalTime("Not/AZone", now); got != "" {
		t.Fatalf("expected empty string for bad zone, got %q", got)
	}
	if got := ProspectLocalTime("", now); got != "" {
		t.Fatalf("expected empty string for blank zone, got %q", got)
	}
}

func TestOutreachWindowConvertsToOperatorClock(t *testing.T) {
	t.Parallel()

	// Prospect in New York (UTC-5 in January), operator on UTC: the 9-11
	// morning slot reads as 14:00-16:00.
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	if got := OutreachWindow("America/New_York", time.UTC, now); got != "14:00-16:00" {
		t.Fatalf("unexpected outreach window: %q", got)
	}
	if got := OutreachWindow("Not/AZone", time.UTC, now); got != "" {
		t.Fatalf("expected empty window for bad zone, got %q", got)
	}
}

func TestRowHasNineteenFieldsInContractOrder(t *testing.T) {
	t.Parallel()

	e := CRMEntry{
		EntryDate:           "2024-01-10",
		Platform:            "LinkedIn",
		ProspectName:        "Jordan Li",
		Company:             "Acme",
		Role:                "CTO",
		ConnectionsSent:     10,
		ConnectionsAccepted: 5,
		MessagesSent:        7,
		RepliesReceived:     3,
		CallsBooked:         1,
		ConnectionDate:      "2024-01-01",
		ProspectTimezone:    "America/New_York",
		Responded:           true,
		Interested:          false,
		Notes:               "warm intro",
	}
	now := time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC)
	row := e.Row(now, time.UTC)

	if len(row) != FieldCount {
		t.Fatalf("expected %d fields, got %d", FieldCount, len(row))
	}
	if row[0] != "2024-01-10" || row[1] != "LinkedIn" || row[2] != "Jordan Li" {
		t.Fatalf("leading fields out of order: %v", row[:3])
	}
	if row[5] != 10 || row[6] != 5 {
		t.Fatalf("count fields out of order: %v", row[5:7])
	}
	if row[7] != "50.00%" {
		t.Fatalf("expected derived conversion rate at index 7, got %v", row[7])
	}
	if row[11] != "2024-01-01" || row[12] != "2024-01-05" {
		t.Fatalf("date fields out of order: %v", row[11:13])
	}
	if row[13] != "America/New_York" {
		t.Fatalf("expected timezone at index 13, got %v", row[13])
	}
	if row[14] != "2024-01-15 10:00" {
		t.Fatalf("expected prospect local time at index 14, got %v", row[14])
	}
	if row[15] != "14:00-16:00" {
		t.Fatalf("expected outreach window at index 15, got %v", row[15])
	}
	if row[16] != "Yes" || row[17] != "No" {
		t.Fatalf("flag fields out of order: %v", row[16:18])
	}
	if row[18] != "warm intro" {
		t.Fatalf("expected notes at index 18, got %v", row[18])
	}
}

func TestRowWithUnresolvableZoneLeavesDerivedFieldsEmpty(t *testing.T) {
	t.Parallel()

	e := CRMEntry{EntryDate: "2024-01-10", ProspectTimezone: "Mars/Olympus"}
	row := e.Row(time.Now(), time.UTC)
	if row[14] != "" || row[15] != "" {
		t.Fatalf("expected empty timezone-derived fields, got %v and %v", row[14], row[15])
	}
}

func TestParseCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
	}{
		{"10", 10},
		{" 7 ", 7},
		{"", 0},
		{"abc", 0},
		{"-3", 0},
		{"3.5", 0},
	}
	for _, tc := range cases {
		if got := ParseCount(tc.in); got != tc.want {
			t.Fatalf("ParseCount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseYesNo(t *testing.T) {
	t.Parallel()

	for _, yes := range []string{"yes", "Yes", "Y", "true", "1", " y "} {
		if !ParseYesNo(yes) {
			t.Fatalf("expected %q to parse as yes", yes)
		}
	}
	for _, no := range []string{"", "no", "N", "0", "maybe"} {
		if ParseYesNo(no) {
			t.Fatalf("expected %q to parse as no", no)
		}
	}
}
