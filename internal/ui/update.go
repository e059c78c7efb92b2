package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"csvbrowse/internal/export"
	"csvbrowse/internal/util/logx"
)

func (m *Model) buildHelpItems() []helpItem {
	km := m.keymap
	return []helpItem{
		{group: "Navigation", text: "Previous row", key: km.Up},
		{group: "Navigation", text: "Next row", key: km.Down},
		{group: "Navigation", text: "Page up", key: km.PageUp},
		{group: "Navigation", text: "Page down", key: km.PageDown},
		{group: "Navigation", text: "Go to top", key: km.Top},
		{group: "Navigation", text: "Go to bottom", key: km.Bottom},

		{group: "Search", text: "Clear query", key: km.ClearQuery},

		{group: "Views", text: "Inspect row", key: km.Inspect},
		{group: "Views", text: "Application logs", key: km.AppLogs},

		{group: "Actions", text: "Copy current row", key: km.CopyRow},
		{group: "Actions", text: "Export filtered rows", key: km.Export},

		{group: "Control", text: "Help", key: km.Help},
		{group: "Control", text: "Quit", key: km.Quit},
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		// Reserve 1 for search, 1 for placeholder, 1 for status
		h := msg.Height - 3
		if h < 2 {
			h = 2
		}
		m.tbl.SetHeight(h)
		m.tbl.SetWidth(msg.Width)
		m.search.Width = msg.Width - 10
		if !m.loading {
			m.applyDisplay(m.dm)
		}
		if m.modalActive {
			m.resizeModal()
		}
		return m, nil
	case loadDoneMsg:
		m.loading = false
		dm, err := m.ctrl.Complete(msg.text, msg.err)
		m.applyDisplay(dm)
		if err != nil {
			m.loadErr = err
			m.lastMsg = "load failed; see application log (ctrl+l)"
			return m, nil
		}
		// A query typed while loading applies now
		if q := m.search.Value(); q != "" {
			m.queryChanged()
		}
		if m.cfg.Follow {
			return m, m.startFollow()
		}
		return m, nil
	case tickMsg:
		if m.lines == nil && m.errs == nil {
			return m, nil
		}
		if m.drainFollow() {
			m.applyDisplay(m.dm)
		}
		return m, tickCmd()
	case toastMsg:
		m.lastMsg = msg.text
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.modalActive {
			return m.updateModal(msg)
		}
		km := m.keymap
		switch {
		case keyMatches(msg, km.Quit):
			return m, tea.Quit
		case keyMatches(msg, km.Help):
			m.openHelpModal()
			return m, nil
		case keyMatches(msg, km.AppLogs):
			m.openAppLogsModal()
			return m, nil
		case keyMatches(msg, km.Inspect):
			m.openInspectorModal()
			return m, nil
		case keyMatches(msg, km.CopyRow):
			m.copySelected()
			return m, nil
		case keyMatches(msg, km.Export):
			return m, m.exportCmd()
		case keyMatches(msg, km.ClearQuery):
			if m.search.Value() != "" {
				m.search.SetValue("")
				m.queryChanged()
			}
			return m, nil
		case keyMatches(msg, km.Up), keyMatches(msg, km.Down),
			keyMatches(msg, km.PageUp), keyMatches(msg, km.PageDown),
			keyMatches(msg, km.Top), keyMatches(msg, km.Bottom):
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			m.clampCursor()
			return m, cmd
		}
		// Everything else edits the query
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.queryChanged()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if keyMatches(msg, m.keymap.Quit) {
		return m, tea.Quit
	}
	if m.modalKind == modalHelp {
		switch msg.Type {
		case tea.KeyUp:
			if m.helpSel > 0 {
				m.helpSel--
			}
			return m, nil
		case tea.KeyDown:
			if m.helpSel+1 < len(m.helpItems) {
				m.helpSel++
			}
			return m, nil
		case tea.KeyEnter:
			m.modalActive = false
			if len(m.helpItems) > 0 {
				return m, keyCmd(m.helpItems[m.helpSel].key)
			}
			return m, nil
		case tea.KeyEsc, tea.KeyF1:
			m.modalActive = false
			return m, nil
		}
		// ignore other keys in help modal
		return m, nil
	}
	switch {
	case msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter:
		m.modalActive = false
		return m, nil
	case keyMatches(msg, m.keymap.CopyRow):
		if m.modalKind == modalInspector {
			m.copySelected()
		} else {
			m.copyText(m.modalBody, "application log")
		}
		return m, nil
	}
	// Otherwise, scroll modal viewport
	var cmd tea.Cmd
	m.modalVP, cmd = m.modalVP.Update(msg)
	return m, cmd
}

// queryChanged pushes the current input value through the controller and
// redraws. Before the load completes the controller ignores it.
func (m *Model) queryChanged() {
	dm, ok := m.ctrl.OnQueryChange(m.search.Value())
	if !ok {
		return
	}
	m.applyDisplay(dm)
	m.tbl.SetCursor(0)
}

func (m *Model) copySelected() {
	idx := m.tbl.Cursor()
	if idx < 0 || idx >= len(m.dm.Rows) {
		m.lastMsg = "no row selected"
		return
	}
	m.copyText(rowText(m.dm.Rows[idx]), fmt.Sprintf("row %d", idx+1))
}

func (m *Model) copyText(s, what string) {
	if err := copyToClipboard(s); err != nil {
		logx.Warnf("clipboard: %v", err)
		m.lastMsg = "copy failed"
		return
	}
	m.lastMsg = "copied " + what + " to clipboard"
}

// exportCmd writes the current filtered view in the background.
func (m *Model) exportCmd() tea.Cmd {
	format, out := m.cfg.ExportFormat, m.cfg.ExportOut
	if format == "" || out == "" {
		m.lastMsg = "use --export and --out to export"
		logx.Warnf("export: missing --export/--out flags")
		return nil
	}
	rows := m.ctrl.Filtered()
	headers := m.ctrl.Snapshot().Headers
	return func() tea.Msg {
		if err := export.Write(format, out, headers, rows); err != nil {
			logx.Errorf("export: %v", err)
			return toastMsg{text: "export failed: " + err.Error()}
		}
		logx.Infof("export: wrote %d rows to %s (%s)", len(rows), out, format)
		return toastMsg{text: fmt.Sprintf("exported %d rows to %s (%s)", len(rows), out, format)}
	}
}
