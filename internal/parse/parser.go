// Package parse turns comma-delimited text into a header list and records.
//
// The format is deliberately minimal: one record per line, fields split on
// every comma. Quoted fields, escaped delimiters and embedded newlines are
// not recognised, so a value containing a comma shifts the remaining
// columns of its row (and usually gets the row skipped as malformed).
package parse

import (
	"strings"

	"csvbrowse/internal/model"
	"csvbrowse/internal/util/logx"
)

// Delimiter separates fields within a line.
const Delimiter = ","

const bom = "\ufeff"

// SkippedRow describes a non-blank line that was dropped because its field
// count did not match the header.
type SkippedRow struct {
	Line   int // 1-based, counted within the trimmed input
	Fields int
	Text   string
}

type Result struct {
	Headers model.HeaderList
	Rows    model.Dataset
	Skipped []SkippedRow
	// Lines is the number of lines in the trimmed input, header included.
	Lines int
}

// Parse splits text into a header list and dataset. Blank lines are
// ignored silently; malformed lines are skipped, logged and reported in
// Result.Skipped. Parse never fails.
func Parse(text string) Result {
	text = strings.TrimSpace(strings.TrimPrefix(text, bom))
	if text == "" {
		logx.Warnf("parse: source appears empty")
		return Result{Headers: model.HeaderList{}, Rows: model.Dataset{}}
	}
	lines := strings.Split(text, "\n")
	logx.Debugf("parse: split into %d lines", len(lines))

	res := Result{
		Headers: ParseHeader(lines[0]),
		Rows:    make(model.Dataset, 0, len(lines)-1),
		Lines:   len(lines),
	}
	logx.Debugf("parse: headers %v", []string(res.Headers))
	for i := 1; i < len(lines); i++ {
		rec, skipped, ok := ParseRow(res.Headers, lines[i], i+1)
		if ok {
			res.Rows = append(res.Rows, rec)
			continue
		}
		if skipped != nil {
			res.Skipped = append(res.Skipped, *skipped)
		}
	}
	logx.Infof("parse: %d rows accepted, %d skipped", len(res.Rows), len(res.Skipped))
	return res
}

// ParseHeader splits the header line and trims each name.
func ParseHeader(line string) model.HeaderList {
	parts := strings.Split(line, Delimiter)
	h := make(model.HeaderList, len(parts))
	for i, p := range parts {
		h[i] = strings.TrimSpace(p)
	}
	return h
}

// ParseRow applies the row acceptance rule to one data line. ok is true when
// the line was accepted. A blank line returns ok=false and a nil SkippedRow;
// a malformed line returns ok=false with the skip details (and logs it).
func ParseRow(h model.HeaderList, line string, lineNo int) (rec model.Record, skipped *SkippedRow, ok bool) {
	blank := strings.TrimSpace(line) == ""
	values := strings.Split(line, Delimiter)
	if len(values) == len(h) && !blank {
		rec = make(model.Record, len(h))
		for j, name := range h {
			// duplicate header names: the later column wins
			rec[name] = strings.TrimSpace(values[j])
		}
		return rec, nil, true
	}
	if blank {
		return nil, nil, false
	}
	logx.Warnf("parse: skipping row %d: expected %d columns, got %d", lineNo, len(h), len(values))
	return nil, &SkippedRow{Line: lineNo, Fields: len(values), Text: line}, false
}
