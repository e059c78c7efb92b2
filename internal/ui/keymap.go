package ui

import tea "github.com/charmbracelet/bubbletea"

// KeyMap avoids printable keys: the search input always has focus, so
// every rune typed belongs to the query.
type KeyMap struct {
	Up         tea.Key
	Down       tea.Key
	PageUp     tea.Key
	PageDown   tea.Key
	Top        tea.Key
	Bottom     tea.Key
	ClearQuery tea.Key
	Inspect    tea.Key
	CopyRow    tea.Key
	Export     tea.Key
	AppLogs    tea.Key
	Help       tea.Key
	Quit       tea.Key
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:         tea.Key{Type: tea.KeyUp},
		Down:       tea.Key{Type: tea.KeyDown},
		PageUp:     tea.Key{Type: tea.KeyPgUp},
		PageDown:   tea.Key{Type: tea.KeyPgDown},
		Top:        tea.Key{Type: tea.KeyHome},
		Bottom:     tea.Key{Type: tea.KeyEnd},
		ClearQuery: tea.Key{Type: tea.KeyEsc},
		Inspect:    tea.Key{Type: tea.KeyEnter},
		CopyRow:    tea.Key{Type: tea.KeyCtrlY},
		Export:     tea.Key{Type: tea.KeyCtrlE},
		AppLogs:    tea.Key{Type: tea.KeyCtrlL},
		Help:       tea.Key{Type: tea.KeyF1},
		Quit:       tea.Key{Type: tea.KeyCtrlC},
	}
}

func keyMatches(msg tea.KeyMsg, k tea.Key) bool {
	if k.Type != tea.KeyRunes {
		return msg.Type == k.Type
	}
	if len(k.Runes) > 0 {
		return msg.String() == string(k.Runes)
	}
	return false
}
