package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"csvbrowse/internal/app"
	"csvbrowse/internal/ingest"
	"csvbrowse/internal/util/logx"
)

// loadCmd reads the source off the update loop. The result is applied to
// the controller in Update, which keeps the controller single-writer.
func loadCmd(ctx context.Context, ctrl *app.Controller) tea.Cmd {
	return func() tea.Msg {
		text, err := ctrl.Fetch(ctx)
		return loadDoneMsg{text: text, err: err}
	}
}

// startFollow tails the source file for appended rows. Lines are drained on
// each tick.
func (m *Model) startFollow() tea.Cmd {
	m.stopFollow()
	ctx, cancel := context.WithCancel(m.ctx)
	m.followCancel = cancel
	m.lines, m.errs = ingest.Follow(ctx, m.cfg.Source)
	logx.Infof("follow: tailing %s", m.cfg.Source)
	return tickCmd()
}

func (m *Model) stopFollow() {
	if m.followCancel != nil {
		m.followCancel()
		m.followCancel = nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickEvery, func(time.Time) tea.Msg { return tickMsg{} })
}

// drainFollow moves pending appended lines into the controller. It reports
// whether the display changed.
func (m *Model) drainFollow() bool {
	changed := false
	for i := 0; i < 500; i++ { // limit per tick
		select {
		case l, ok := <-m.lines:
			if !ok {
				m.lines = nil
				return changed
			}
			if dm, ok := m.ctrl.Append(l.Text); ok {
				m.dm = dm
				m.appended++
				changed = true
			}
		default:
			i = 999999 // break outer
		}
	}
	for j := 0; j < 20; j++ {
		select {
		case err, ok := <-m.errs:
			if !ok {
				m.errs = nil
				j = 999999
				break
			}
			logx.Errorf("follow error: %v", err)
			m.lastMsg = "follow error; see application log (ctrl+l)"
		default:
			j = 999999
		}
	}
	return changed
}
