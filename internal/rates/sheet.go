package rates

import (
	"bytes"
	"fmt"
	"github.com/xuri/excelize/v2"
	"net/url"
	"strconv"
	"strings"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SkippedRow is a sheet row that did not yield a usable key/value pair.
type SkippedRow struct {
	Line   int    `json:"line"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

const (
	reasonMissingValue = "missing value"
	reasonMissingKey   = "missing key"
	reasonNotANumber   = "value is not a finite number"
)

// DetectFormat picks the sheet format from the response content type or,
// failing that, from the export URL (path suffix or Google Sheets
// output/format query).
func DetectFormat(rawURL, contentType string) Format {
	if strings.HasPrefix(strings.ToLower(contentType), contentTypeXLSX) {
		return FormatXLSX
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return FormatCSV
	}

	if strings.HasSuffix(strings.ToLower(u.Path), ".xlsx") {
		return FormatXLSX
	}

	q := u.Query()
	if strings.EqualFold(q.Get("output"), "xlsx") || strings.EqualFold(q.Get("format"), "xlsx") {
		return FormatXLSX
	}

	return FormatCSV
}

// SplitCSV splits a line-oriented key,value body into rows. No quoting rules
// are applied beyond what Merge strips.
func SplitCSV(body []byte) [][]string {
	lines := strings.Split(string(body), "\n")
	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = strings.Split(strings.TrimRight(line, "\r"), ",")
	}
	return rows
}

// ReadXLSX returns the rows of the first worksheet, one slice per row, with
// raw (unformatted) cell values.
func ReadXLSX(body []byte) ([][]string, error) {
	const op = "rates.ReadXLSX"

	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: open workbook: %w", op, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", op)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%s: read sheet %q: %w", op, sheets[0], err)
	}

	return rows, nil
}

// Merge overlays every valid key/value row onto a copy of the defaults.
// Blank rows are ignored; malformed rows are reported and otherwise ignored.
func Merge(rows [][]string) (RateConfig, []SkippedRow) {
	values := copyValues(defaults)
	var skipped []SkippedRow

	for i, cells := range rows {
		if isBlankRow(cells) {
			continue
		}

		skip := func(reason string) {
			skipped = append(skipped, SkippedRow{Line: i + 1, Raw: strings.Join(cells, ","), Reason: reason})
		}

		if len(cells) < 2 {
			skip(reasonMissingValue)
			continue
		}

		key := cleanCell(cells[0])
		raw := cleanCell(cells[1])

		switch {
		case key == "":
			skip(reasonMissingKey)
			continue
		case raw == "":
			skip(reasonMissingValue)
			continue
		}

		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || !isFinite(v) {
			skip(reasonNotANumber)
			continue
		}

		values[key] = v
	}

	return RateConfig{values: values}.complete(), skipped
}

func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
