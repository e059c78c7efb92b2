package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"

	"csvbrowse/internal/model"
)

// Normalize lower-cases and trims a raw query.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Filter returns the records that contain the normalized query in any of
// their values, ignoring case. An empty query returns rows unchanged.
// Order is preserved and rows is never modified.
func Filter(rows model.Dataset, rawQuery string) model.Dataset {
	q := Normalize(rawQuery)
	if q == "" {
		return rows
	}
	out := make(model.Dataset, 0, len(rows))
	for _, r := range rows {
		if Match(r, q) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether any value of r contains the already-normalized
// query q.
func Match(r model.Record, q string) bool {
	for _, v := range r {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// Where is a compiled govaluate predicate over a record's fields, e.g.
// `price > 20 && category == 'Cables'`. Header names that are not valid
// identifiers can be written in brackets: `[unit price] < 5`.
type Where struct {
	src  string
	expr *govaluate.EvaluableExpression
}

// NewWhere compiles src. A blank src yields a nil *Where, which matches
// every record.
func NewWhere(src string) (*Where, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	expr, err := govaluate.NewEvaluableExpression(src)
	if err != nil {
		return nil, fmt.Errorf("where %q: %w", src, err)
	}
	return &Where{src: src, expr: expr}, nil
}

func (w *Where) String() string {
	if w == nil {
		return ""
	}
	return w.src
}

// Match evaluates the predicate. Values that parse as numbers are passed
// as float64. Evaluation errors and non-boolean results do not match.
func (w *Where) Match(r model.Record) bool {
	if w == nil {
		return true
	}
	params := make(map[string]any, len(r))
	for k, v := range r {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			params[k] = f
			continue
		}
		params[k] = v
	}
	result, err := w.expr.Evaluate(params)
	if err != nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}

// Apply keeps the records matching w, preserving order. A nil w returns
// rows unchanged.
func (w *Where) Apply(rows model.Dataset) model.Dataset {
	if w == nil {
		return rows
	}
	out := make(model.Dataset, 0, len(rows))
	for _, r := range rows {
		if w.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
