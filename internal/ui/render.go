package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"csvbrowse/internal/util/logx"
	"csvbrowse/internal/view"
)

func (m *Model) View() string {
	v := m.renderMain()
	if m.modalActive {
		// Dim the background content while keeping it visible
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	return v
}

func (m *Model) renderMain() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.search.View(),
		m.tbl.View(),
		m.renderPlaceholder(),
		m.styles.Status.Render(m.statusLine()),
	)
}

// renderPlaceholder draws the single spanning body row of an empty view.
// The table has no spanning cells, so it is a line under the header.
func (m *Model) renderPlaceholder() string {
	ph := m.dm.Placeholder
	if ph == nil {
		// minimal spacer line to keep layout stable
		return ""
	}
	return m.styles.PlaceholderStyle(ph.Kind == view.PlaceholderError).Render(ph.Message)
}

func (m *Model) statusLine() string {
	if m.loading {
		return fmt.Sprintf("%s loading %s", m.spin.View(), m.cfg.Source)
	}
	total := len(m.ctrl.Snapshot().Rows)
	shown := len(m.dm.Rows)
	cur := 0
	if shown > 0 {
		cur = m.tbl.Cursor() + 1
	}
	parts := []string{
		fmt.Sprintf("row %d/%d", cur, shown),
		fmt.Sprintf("total %d", total),
		"source " + m.cfg.Source,
	}
	if w := m.ctrl.Snapshot().Where; w != nil {
		parts = append(parts, "where "+w.String())
	}
	if m.cfg.Follow {
		parts = append(parts, fmt.Sprintf("follow +%d", m.appended))
	}
	parts = append(parts, "[f1]=help")
	if m.lastMsg != "" {
		parts = append(parts, m.lastMsg)
	}
	return strings.Join(parts, " | ")
}

func (m *Model) openHelpModal() {
	m.modalActive = true
	m.modalKind = modalHelp
	m.modalTitle = "Help"
	m.helpItems = m.buildHelpItems()
	m.helpSel = 0
	m.modalBody = m.renderHelp()
	m.resizeModal()
}

func (m *Model) openInspectorModal() {
	idx := m.tbl.Cursor()
	if idx < 0 || idx >= len(m.dm.Rows) {
		return
	}
	m.modalActive = true
	m.modalKind = modalInspector
	m.modalTitle = fmt.Sprintf("Row %d", idx+1)
	m.modalBody = inspectorBody(m.dm.Header, m.dm.Rows[idx], m.styles)
	m.resizeModal()
}

func (m *Model) openAppLogsModal() {
	m.modalActive = true
	m.modalKind = modalLogs
	m.modalTitle = "Application Logs"
	m.modalBody = logx.Dump()
	m.resizeModal()
	m.modalVP.GotoBottom()
}

func (m *Model) resizeModal() {
	w := m.termWidth - 6
	h := m.termHeight - 6
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.modalVP = viewport.New(w-4, h-4)
	m.modalVP.SetContent(m.modalBody)
}

func (m *Model) renderModal() string {
	content := ""
	switch m.modalKind {
	case modalHelp:
		// Update content dynamically for help menu
		m.modalVP.SetContent(m.renderHelp())
		content = m.modalVP.View() + "\n[esc]=close  [enter]=run"
	case modalInspector:
		content = m.modalVP.View() + "\n[esc/enter]=close  [ctrl+y]=copy row"
	case modalLogs:
		// Fixed status header above navigable application log viewport
		st := m.ctrl.Snapshot()
		header := []string{
			"Status:",
			fmt.Sprintf("rows: %d  columns: %d  skipped: %d  appended: %d", len(st.Rows), len(st.Headers), len(st.Skipped), m.appended),
			fmt.Sprintf("source: %s  follow: %v", m.cfg.Source, m.cfg.Follow),
		}
		if m.loadErr != nil {
			header = append(header, "load error: "+m.loadErr.Error())
		}
		h := m.styles.Help.Render(strings.Join(header, "\n"))
		content = h + "\n" + m.modalVP.View() + "\n[esc/enter]=close  [ctrl+y]=copy"
	default:
		content = m.modalVP.View() + "\n[esc/enter]=close"
	}
	boxW := m.termWidth - 6
	if boxW < 20 {
		boxW = 20
	}
	title := m.styles.PopupTitle.Render(m.modalTitle)
	body := m.styles.PopupBox.Width(boxW).Render(title + "\n" + content)
	// Center the modal box; do not cover entire background to keep it dimmed not dark
	return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) renderHelp() string {
	if len(m.helpItems) == 0 {
		m.helpItems = m.buildHelpItems()
	}
	// Ensure selection is in range
	if m.helpSel < 0 {
		m.helpSel = 0
	}
	if m.helpSel >= len(m.helpItems) {
		m.helpSel = len(m.helpItems) - 1
	}
	lines := []string{"Typing edits the search query.", "", "Shortcuts:"}
	currentGroup := ""
	lineIndexOfSel := 0
	for i, it := range m.helpItems {
		if it.group != currentGroup {
			currentGroup = it.group
			lines = append(lines, "")
			lines = append(lines, currentGroup+":")
		}
		prefix := "  "
		if i == m.helpSel {
			prefix = "> "
			lineIndexOfSel = len(lines)
		}
		lines = append(lines, fmt.Sprintf("%s[%s] %s", prefix, keyLabel(it.key), it.text))
	}
	// Adjust viewport to keep selection visible
	if m.modalVP.Height > 0 {
		top := m.modalVP.YOffset
		bottom := top + m.modalVP.Height - 1
		if lineIndexOfSel <= top {
			if lineIndexOfSel-1 >= 0 {
				m.modalVP.YOffset = lineIndexOfSel - 1
			} else {
				m.modalVP.YOffset = 0
			}
		} else if lineIndexOfSel >= bottom {
			m.modalVP.YOffset = lineIndexOfSel - m.modalVP.Height + 2
			if m.modalVP.YOffset < 0 {
				m.modalVP.YOffset = 0
			}
		}
	}
	return m.styles.Help.Render(strings.Join(lines, "\n"))
}
