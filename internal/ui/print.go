package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"csvbrowse/internal/config"
	"csvbrowse/internal/view"
)

// Print writes dm as a bordered table, followed by the placeholder message
// when the view is empty.
func Print(w io.Writer, dm view.DisplayModel, theme config.Theme) error {
	st := NewStyles(theme == config.ThemeDark)
	if len(dm.Header) > 0 {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(st.Status).
			Headers(dm.Header...)
		for _, r := range dm.Rows {
			t.Row(r...)
		}
		if _, err := fmt.Fprintln(w, t.Render()); err != nil {
			return err
		}
	}
	if ph := dm.Placeholder; ph != nil {
		msg := st.PlaceholderStyle(ph.Kind == view.PlaceholderError).Render(ph.Message)
		if _, err := fmt.Fprintln(w, msg); err != nil {
			return err
		}
	}
	return nil
}
