package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"csvbrowse/internal/app"
	"csvbrowse/internal/config"
)

const tickEvery = 200 * time.Millisecond

func initialModel(ctx context.Context, cfg *config.Config, ctrl *app.Controller) *Model {
	m := &Model{
		ctx:     ctx,
		cfg:     cfg,
		ctrl:    ctrl,
		styles:  NewStyles(cfg.Theme == config.ThemeDark),
		keymap:  DefaultKeyMap(),
		search:  textinput.New(),
		spin:    spinner.New(),
		loading: true,
	}
	m.spin.Spinner = spinner.Dot
	m.search.Placeholder = "type to filter rows"
	m.search.CharLimit = 256
	m.search.Prompt = m.styles.Prompt.Render("search> ")
	m.search.SetValue(cfg.Query)
	m.search.Focus()
	m.modalVP = viewport.New(80, 20)

	m.tbl = table.New(table.WithFocused(true), table.WithHeight(20))
	// Remove default padding to make width math exact
	ts := table.DefaultStyles()
	ts.Header = m.styles.TableStyles.Header.PaddingRight(1)
	ts.Cell = m.styles.TableStyles.Cell.PaddingRight(1)
	ts.Selected = m.styles.TableStyles.Selected
	m.tbl.SetStyles(ts)
	return m
}

func Run(ctx context.Context, cfg *config.Config, ctrl *app.Controller) error {
	m := initialModel(ctx, cfg, ctrl)
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if cfg.UseStdin {
		// stdin carries the dataset; keys come from the terminal
		opts = append(opts, tea.WithInputTTY())
	}
	p := tea.NewProgram(m, opts...)
	_, err := p.Run()
	m.stopFollow()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(loadCmd(m.ctx, m.ctrl), m.spin.Tick, textinput.Blink)
}
