package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Base        lipgloss.Style
	Status      lipgloss.Style
	Prompt      lipgloss.Style
	Help        lipgloss.Style
	Placeholder lipgloss.Style
	Error       lipgloss.Style
	FieldName   lipgloss.Style
	FieldValue  lipgloss.Style
	TableStyles TableStyles
	PopupBox    lipgloss.Style
	PopupTitle  lipgloss.Style
}

type TableStyles struct {
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
}

func NewStyles(dark bool) Styles {
	s := Styles{}
	if dark {
		s.Base = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		s.Prompt = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		s.Placeholder = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244"))
		s.Error = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
		s.FieldName = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
		s.FieldValue = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	} else {
		s.Base = lipgloss.NewStyle()
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Prompt = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Placeholder = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
		s.Error = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160"))
		s.FieldName = lipgloss.NewStyle().Foreground(lipgloss.Color("27"))
		s.FieldValue = lipgloss.NewStyle()
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
	}
	s.TableStyles = TableStyles{
		Header:   lipgloss.NewStyle().Bold(true),
		Cell:     lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220")),
	}
	return s
}

// PlaceholderStyle picks the style for a no-match or error body row.
func (s Styles) PlaceholderStyle(isError bool) lipgloss.Style {
	if isError {
		return s.Error
	}
	return s.Placeholder
}
