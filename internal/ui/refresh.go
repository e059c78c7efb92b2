package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/mattn/go-runewidth"

	"csvbrowse/internal/view"
)

const (
	maxColWidth = 40
	minColWidth = 3
	// right padding configured on header and cell styles
	cellPad = 1
)

// applyDisplay replaces the table contents with dm. A placeholder leaves
// the body empty; renderBody draws the placeholder line under the header.
func (m *Model) applyDisplay(dm view.DisplayModel) {
	m.dm = dm
	widths := computeWidths(dm, m.tableWidth())
	cols := make([]table.Column, len(dm.Header))
	for i, h := range dm.Header {
		cols[i] = table.Column{Title: h, Width: widths[i]}
	}
	rows := make([]table.Row, len(dm.Rows))
	for i, r := range dm.Rows {
		rows[i] = table.Row(r)
	}
	// Clear rows before swapping columns so no row is drawn against a
	// column set of a different length.
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
	m.cols = dm.Header
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.tbl.Rows())
	switch {
	case n == 0:
		return
	case m.tbl.Cursor() < 0:
		m.tbl.SetCursor(0)
	case m.tbl.Cursor() >= n:
		m.tbl.SetCursor(n - 1)
	}
}

func (m *Model) tableWidth() int {
	if m.termWidth > 0 {
		return m.termWidth
	}
	return 120
}

// computeWidths sizes each column to its widest cell (display width, so
// wide runes count double) and shrinks the widest columns until the table
// fits avail.
func computeWidths(dm view.DisplayModel, avail int) []int {
	n := len(dm.Header)
	if n == 0 {
		return nil
	}
	w := make([]int, n)
	for i, h := range dm.Header {
		w[i] = runewidth.StringWidth(h)
	}
	for _, r := range dm.Rows {
		for i := 0; i < n && i < len(r); i++ {
			if cw := runewidth.StringWidth(r[i]); cw > w[i] {
				w[i] = cw
			}
		}
	}
	sum := 0
	for i := range w {
		if w[i] < minColWidth {
			w[i] = minColWidth
		}
		if w[i] > maxColWidth {
			w[i] = maxColWidth
		}
		sum += w[i]
	}
	budget := avail - n*cellPad
	for sum > budget {
		widest := 0
		for i := range w {
			if w[i] > w[widest] {
				widest = i
			}
		}
		if w[widest] <= minColWidth {
			break
		}
		w[widest]--
		sum--
	}
	return w
}
