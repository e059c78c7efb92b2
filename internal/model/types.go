package model

// HeaderList is the ordered column list taken from the first source line.
// Names are not de-duplicated.
type HeaderList []string

// Record maps a header name to the trimmed field value of one data line.
type Record map[string]string

// Dataset holds the accepted records in source line order. A Dataset is
// replaced wholesale on reload and never modified in place.
type Dataset []Record

// Values returns the record's values in header order. Headers missing from
// the record yield an empty string.
func (r Record) Values(h HeaderList) []string {
	out := make([]string, len(h))
	for i, name := range h {
		out[i] = r[name]
	}
	return out
}

// With returns a new Dataset with rec appended. The receiver's backing
// array is never written to.
func (d Dataset) With(rec Record) Dataset {
	out := make(Dataset, len(d), len(d)+1)
	copy(out, d)
	return append(out, rec)
}

// Len reports the number of header entries.
func (h HeaderList) Len() int { return len(h) }

// Span is the column span for full-width rows: never less than one.
func (h HeaderList) Span() int {
	if len(h) == 0 {
		return 1
	}
	return len(h)
}
