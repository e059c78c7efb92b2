// Package view builds the display model for a filtered dataset. Rendering
// is a pure function of its inputs; adapters in internal/ui and
// internal/web apply the model to a terminal or an HTML page.
package view

import "csvbrowse/internal/model"

const (
	NoMatchMessage   = "No matching data found."
	LoadErrorMessage = "Error loading data. Please check the application log."
)

type PlaceholderKind int

const (
	PlaceholderNone PlaceholderKind = iota
	PlaceholderNoMatch
	PlaceholderError
)

func (k PlaceholderKind) String() string {
	switch k {
	case PlaceholderNoMatch:
		return "no-match"
	case PlaceholderError:
		return "error"
	default:
		return "none"
	}
}

// Placeholder is a single body row spanning ColSpan columns.
type Placeholder struct {
	Kind    PlaceholderKind `json:"-"`
	Message string          `json:"message"`
	ColSpan int             `json:"colspan"`
}

// Row is one body row with a cell per header, in header order.
type Row []string

// DisplayModel is everything a surface needs to draw the table: the header
// row and either data rows or one placeholder row.
type DisplayModel struct {
	Header      []string     `json:"header"`
	Rows        []Row        `json:"rows"`
	Placeholder *Placeholder `json:"placeholder,omitempty"`
}

// Empty reports whether the body shows a placeholder instead of data.
func (d DisplayModel) Empty() bool { return d.Placeholder != nil }

// RenderHeader returns one header cell per entry, in order.
func RenderHeader(h model.HeaderList) []string {
	out := make([]string, len(h))
	copy(out, h)
	return out
}

// RenderRows builds the body rows. An empty view yields one "no match"
// placeholder spanning max(len(h), 1) columns. Missing keys render as "".
func RenderRows(filtered model.Dataset, h model.HeaderList) ([]Row, *Placeholder) {
	if len(filtered) == 0 {
		return nil, &Placeholder{Kind: PlaceholderNoMatch, Message: NoMatchMessage, ColSpan: h.Span()}
	}
	rows := make([]Row, len(filtered))
	for i, rec := range filtered {
		rows[i] = rec.Values(h)
	}
	return rows, nil
}

// Render combines RenderHeader and RenderRows.
func Render(filtered model.Dataset, h model.HeaderList) DisplayModel {
	rows, ph := RenderRows(filtered, h)
	return DisplayModel{Header: RenderHeader(h), Rows: rows, Placeholder: ph}
}

// RenderError is the display for a failed initial load: the current header
// (usually none) and a single error row.
func RenderError(h model.HeaderList) DisplayModel {
	return DisplayModel{
		Header:      RenderHeader(h),
		Placeholder: &Placeholder{Kind: PlaceholderError, Message: LoadErrorMessage, ColSpan: h.Span()},
	}
}
