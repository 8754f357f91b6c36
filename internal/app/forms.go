package app

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/amit-agicent/crm-gemini/internal/entry"
)

type fieldSpec struct {
	label       string
	placeholder string
	width       int
}

// entryFieldSpecs lists the editable entry-form fields in display order.
// Derived fields (conversion rate, follow-up date, the timezone pair) never
// appear as inputs; they are computed at submission.
var entryFieldSpecs = []fieldSpec{
	{label: "Entry date", placeholder: "YYYY-MM-DD", width: 12},
	{label: "Platform", placeholder: "LinkedIn / Email / ...", width: 24},
	{label: "Prospect name", placeholder: "", width: 32},
	{label: "Company", placeholder: "", width: 32},
	{label: "Role", placeholder: "", width: 24},
	{label: "Connections sent", placeholder: "0", width: 8},
	{label: "Connections accepted", placeholder: "0", width: 8},
	{label: "Messages sent", placeholder: "0", width: 8},
	{label: "Replies received", placeholder: "0", width: 8},
	{label: "Calls booked", placeholder: "0", width: 8},
	{label: "Connection date", placeholder: "YYYY-MM-DD", width: 12},
	{label: "Prospect timezone", placeholder: "America/New_York", width: 28},
	{label: "Responded", placeholder: "yes/no", width: 8},
	{label: "Interested", placeholder: "yes/no", width: 8},
	{label: "Notes", placeholder: "", width: 48},
}

const (
	entryFieldEntryDate = iota
	entryFieldPlatform
	entryFieldProspectName
	entryFieldCompany
	entryFieldRole
	entryFieldConnectionsSent
	entryFieldConnectionsAccepted
	entryFieldMessagesSent
	entryFieldRepliesReceived
	entryFieldCallsBooked
	entryFieldConnectionDate
	entryFieldProspectTimezone
	entryFieldResponded
	entryFieldInterested
	entryFieldNotes
)

func newEntryInputs(today string) []textinput.Model {
	inputs := make([]textinput.Model, len(entryFieldSpecs))
	for idx, spec := range entryFieldSpecs {
		input := textinput.New()
		input.Prompt = ""
		input.Placeholder = spec.placeholder
		input.CharLimit = 256
		input.Width = spec.width
		inputs[idx] = input
	}
	inputs[entryFieldEntryDate].SetValue(today)
	return inputs
}

// captureEntry reads the submitted form into a typed record. Count fields
// parse to zero when unparsable; the backend owns real validation.
func captureEntry(inputs []textinput.Model) entry.CRMEntry {
	return entry.CRMEntry{
		EntryDate:           inputs[entryFieldEntryDate].Value(),
		Platform:            inputs[entryFieldPlatform].Value(),
		ProspectName:        inputs[entryFieldProspectName].Value(),
		Company:             inputs[entryFieldCompany].Value(),
		Role:                inputs[entryFieldRole].Value(),
		ConnectionsSent:     entry.ParseCount(inputs[entryFieldConnectionsSent].Value()),
		ConnectionsAccepted: entry.ParseCount(inputs[entryFieldConnectionsAccepted].Value()),
		MessagesSent:        entry.ParseCount(inputs[entryFieldMessagesSent].Value()),
		RepliesReceived:     entry.ParseCount(inputs[entryFieldRepliesReceived].Value()),
		CallsBooked:         entry.ParseCount(inputs[entryFieldCallsBooked].Value()),
		ConnectionDate:      inputs[entryFieldConnectionDate].Value(),
		ProspectTimezone:    inputs[entryFieldProspectTimezone].Value(),
		Responded:           entry.ParseYesNo(inputs[entryFieldResponded].Value()),
		Interested:          entry.ParseYesNo(inputs[entryFieldInterested].Value()),
		Notes:               inputs[entryFieldNotes].Value(),
	}
}

func resetEntryInputs(inputs []textinput.Model, today string) {
	for idx := range inputs {
		inputs[idx].SetValue("")
	}
	inputs[entryFieldEntryDate].SetValue(today)
}

// darRowInputs is one growable DAR form row: date, activity, hours.
type darRowInputs struct {
	date     textinput.Model
	activity textinput.Model
	hours    textinput.Model
}

const darColumns = 3

// newDARRow builds a blank row. The date is left empty on purpose: a row
// the user never touched must count as absent at submission time.
func newDARRow() darRowInputs {
	date := textinput.New()
	date.Prompt = ""
	date.Placeholder = "YYYY-MM-DD"
	date.CharLimit = 10
	date.Width = 12

	activity := textinput.New()
	activity.Prompt = ""
	activity.Placeholder = "Activity"
	activity.CharLimit = 256
	activity.Width = 40

	hours := textinput.New()
	hours.Prompt = ""
	hours.Placeholder = "0.0"
	hours.CharLimit = 6
	hours.Width = 6

	return darRowInputs{date: date, activity: activity, hours: hours}
}

func (r *darRowInputs) input(column int) *textinput.Model {
	switch column {
	case 0:
		return &r.date
	case 1:
		return &r.activity
	default:
		return &r.hours
	}
}

func (r darRowInputs) captured() entry.DARRow {
	return entry.DARRow{
		Date:     r.date.Value(),
		Activity: r.activity.Value(),
		Hours:    entry.ParseHours(r.hours.Value()),
	}
}

// captureDARRows extracts the non-empty form rows as submission triples.
// A row the user never touched (all blank) is skipped, not stored.
func captureDARRows(rows []darRowInputs) []entry.DARRow {
	out := make([]entry.DARRow, 0, len(rows))
	for _, row := range rows {
		captured := row.captured()
		if captured.Empty() {
			continue
		}
		out = append(out, captured)
	}
	return out
}

// pruneSavedDARRows keeps only the form rows whose submission failed.
// Result indexes refer to the captured (non-blank) rows in order, so blank
// rows are walked past without consuming an index. Succeeded and blank rows
// are dropped; an empty remainder collapses to one fresh row.
func pruneSavedDARRows(rows []darRowInputs, results []darRowResult) []darRowInputs {
	failed := make(map[int]bool, len(results))
	for _, result := range results {
		if result.err != nil {
			failed[result.index] = true
		}
	}

	kept := make([]darRowInputs, 0, len(rows))
	captured := 0
	for _, row := range rows {
		if row.captured().Empty() {
			continue
		}
		if failed[captured] {
			kept = append(kept, row)
		}
		captured++
	}
	if len(kept) == 0 {
		kept = append(kept, newDARRow())
	}
	return kept
}

func today() string {
	return time.Now().Format("2006-01-02")
}
