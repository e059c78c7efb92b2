package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"csvbrowse/internal/app"
	"csvbrowse/internal/config"
	"csvbrowse/internal/ingest"
	"csvbrowse/internal/view"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalInspector
	modalLogs
)

type Model struct {
	ctx  context.Context
	cfg  *config.Config
	ctrl *app.Controller
	// cancel stops the follow goroutine started after the load
	followCancel context.CancelFunc

	// Follow pipeline
	lines <-chan ingest.Line
	errs  <-chan error

	// Last display applied to the table
	dm view.DisplayModel

	// UI
	tbl        table.Model
	styles     Styles
	search     textinput.Model
	spin       spinner.Model
	keymap     KeyMap
	cols       []string
	termWidth  int
	termHeight int

	// status
	loading  bool
	loadErr  error
	appended int
	lastMsg  string

	// Modal popup
	modalActive bool
	modalKind   modalKind
	modalVP     viewport.Model
	modalTitle  string
	modalBody   string

	// Help menu state
	helpItems []helpItem
	helpSel   int
}

type helpItem struct {
	group string
	text  string
	key   tea.Key
}

// loadDoneMsg carries the result of Controller.Fetch.
type loadDoneMsg struct {
	text string
	err  error
}

type tickMsg struct{}

// Simple UI toast/status message
type toastMsg struct{ text string }

func keyCmd(k tea.Key) tea.Cmd {
	return func() tea.Msg {
		if k.Type == tea.KeyRunes {
			return tea.KeyMsg{Type: k.Type, Runes: k.Runes}
		}
		return tea.KeyMsg{Type: k.Type}
	}
}

func keyLabel(k tea.Key) string {
	switch k.Type {
	case tea.KeyRunes:
		return strings.ToLower(string(k.Runes))
	case tea.KeyEnter:
		return "enter"
	case tea.KeyEsc:
		return "esc"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyPgUp:
		return "pgup"
	case tea.KeyPgDown:
		return "pgdown"
	default:
		return strings.ToLower(k.String())
	}
}
