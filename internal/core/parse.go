package core

// parse.go turns raw text into RawRows.
//
// Two modes exist:
//   - Delimited: first non-empty line is the header, separator sniffed from it
//   - Lines: every non-empty line is a bare name
//
// Both parsers are total. Malformed input yields fewer rows, never an error.
// Quoted fields are not recognized: a comma inside quotes still splits the cell.

import "strings"

// Sniff picks the field separator from the header line.
// A tab anywhere in the line wins over commas.
func Sniff(firstLine string) Separator {
	if strings.ContainsRune(firstLine, '\t') {
		return SeparatorTab
	}
	return SeparatorComma
}

// splitLines splits on \n (and \r\n) and drops lines that are blank after trimming.
// Lines are returned untrimmed so cell splitting sees the original text.
func splitLines(raw string) []string {
	parts := strings.Split(raw, "\n")
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSuffix(p, "\r")
		if strings.TrimSpace(p) == "" {
			continue
		}
		lines = append(lines, p)
	}
	return lines
}

// ParseDelimited parses comma or tab separated text with a header row.
//
// Header names are trimmed and lowercased. A duplicated header name keeps the
// value of its right-most column. Short lines get "" for missing cells and
// cells beyond the header count are dropped.
//
// The source label is accepted for symmetry with ParseLines; rows carry no
// provenance until normalization.
func ParseDelimited(raw, source string) []RawRow {
	lines := splitLines(raw)
	if len(lines) == 0 {
		return nil
	}

	sep := string(Sniff(lines[0]))
	header := splitHeader(lines[0], sep)

	rows := make([]RawRow, 0, len(lines)-1)
	for _, line := range lines[1:] {
		cells := strings.Split(line, sep)
		row := make(RawRow, len(header))
		for i, h := range header {
			val := ""
			if i < len(cells) {
				val = strings.TrimSpace(cells[i])
			}
			row[h] = val
		}
		rows = append(rows, row)
	}
	return rows
}

// ParseLines treats each non-empty line as a bare name.
func ParseLines(raw, source string) []RawRow {
	lines := splitLines(raw)
	if len(lines) == 0 {
		return nil
	}

	rows := make([]RawRow, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, RawRow{LineNameKey: strings.TrimSpace(line)})
	}
	return rows
}

// Header returns the parsed header names of delimited text, in column order.
// Returns nil when raw has no non-empty line.
func Header(raw string) []string {
	lines := splitLines(raw)
	if len(lines) == 0 {
		return nil
	}
	return splitHeader(lines[0], string(Sniff(lines[0])))
}

func splitHeader(line, sep string) []string {
	header := strings.Split(line, sep)
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return header
}
