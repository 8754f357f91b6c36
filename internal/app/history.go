package app

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/table"
	"github.com/mattn/go-runewidth"

	"github.com/amit-agicent/crm-gemini/internal/api"
)

const (
	historyKindCRM = "crm"
	historyKindDAR = "dar"

	minHistoryColumnWidth = 6
	maxHistoryColumnWidth = 24
)

// humanizeHeader turns a sheet column key into display text: underscores
// become spaces and the first rune is capitalized.
func humanizeHeader(key string) string {
	text := strings.ReplaceAll(strings.TrimSpace(key), "_", " ")
	if text == "" {
		return key
	}
	runes := []rune(text)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// columnWidths measures headers and cells in terminal cells rather than
// bytes, so multi-byte and wide runes stay aligned.
func columnWidths(result api.HistoryResult) []int {
	widths := make([]int, len(result.Columns))
	for idx, key := range result.Columns {
		widths[idx] = runewidth.StringWidth(humanizeHeader(key))
	}
	for _, record := range result.Rows {
		for idx, key := range result.Columns {
			if w := runewidth.StringWidth(formatCell(record[key])); w > widths[idx] {
				widths[idx] = w
			}
		}
	}
	return widths
}

// buildHistoryTable renders uniform rows in the column order of the first
// record. Cells missing from later rows render blank; extra keys are
// dropped. Both are accepted consequences of deriving the shape from the
// first row only.
func buildHistoryTable(result api.HistoryResult, st styles, height int) table.Model {
	widths := columnWidths(result)

	rows := make([]table.Row, 0, len(result.Rows))
	for _, record := range result.Rows {
		row := make(table.Row, len(result.Columns))
		for idx, key := range result.Columns {
			row[idx] = formatCell(record[key])
		}
		rows = append(rows, row)
	}

	columns := make([]table.Column, 0, len(result.Columns))
	for idx, key := range result.Columns {
		columns = append(columns, table.Column{
			Title: humanizeHeader(key),
			Width: clampInt(widths[idx], minHistoryColumnWidth, maxHistoryColumnWidth),
		})
	}

	if height < 3 {
		height = 3
	}
	model := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(true),
	)
	model.SetStyles(st.table)
	return model
}

// formatCell renders one history value for display. Sheets hand back
// numbers as float64, so whole floats print without a decimal tail.
func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', 2, 64)
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	default:
		return fmt.Sprintf("%v", v)
	}
}
