package domain

import "strings"

// DefaultDelimiter separates fields in the GISTEMP export.
const DefaultDelimiter = ','

// Parse splits comma-delimited text into rows of cells.
// See ParseDelimited.
func Parse(text string) [][]string {
	return ParseDelimited(text, DefaultDelimiter)
}

// ParseDelimited splits text into rows of string cells.
//
// Rows end at "\n", "\r\n" or a bare "\r". Fields split on delimiter unless
// they are quoted; a quoted field may hold delimiters, line breaks and doubled
// quotes ("" → "). The result always has at least one row, and every row at
// least one cell, so empty input yields [][]string{{""}}.
//
// ParseDelimited never fails. A quote that is never closed swallows the rest
// of the input into a single field, and a quote in the middle of an unquoted
// field is kept as a literal character.
func ParseDelimited(text string, delimiter rune) [][]string {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}

	var (
		rows  [][]string
		row   []string
		field strings.Builder

		// quoted is true while inside a quoted field.
		quoted bool
		// fieldStart is true until the current field has consumed a rune.
		fieldStart = true
	)

	endField := func() {
		row = append(row, field.String())
		field.Reset()
		fieldStart = true
	}
	endRow := func() {
		endField()
		rows = append(rows, row)
		row = nil
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if quoted {
			if r != '"' {
				field.WriteRune(r)
				continue
			}
			if i+1 < len(runes) && runes[i+1] == '"' {
				field.WriteRune('"')
				i++
				continue
			}
			quoted = false
			continue
		}

		switch {
		case r == '"' && fieldStart:
			quoted = true
			fieldStart = false
		case r == delimiter:
			endField()
		case r == '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			endRow()
		case r == '\n':
			endRow()
		default:
			field.WriteRune(r)
			fieldStart = false
		}
	}
	endRow()

	return rows
}

// FormatDelimited joins rows back into delimited text, quoting any cell that
// holds the delimiter, a quote or a line break. Rows are separated by "\n"
// with no trailing newline, so ParseDelimited(FormatDelimited(t, d), d)
// returns t for any non-empty table whose rows each hold at least one cell.
func FormatDelimited(rows [][]string, delimiter rune) string {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	special := string(delimiter) + "\"\r\n"

	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteRune(delimiter)
			}
			if !strings.ContainsAny(cell, special) {
				b.WriteString(cell)
				continue
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return b.String()
}
