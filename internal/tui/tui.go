// Package tui provides the interactive context browser for
// dialmap-admin: pick a dialplan context, see its generated digit map
// and any translation warnings.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/velotel/dialmap/pkg/dialplan"
	"github.com/velotel/dialmap/pkg/digitmap"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	mapStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle = lipgloss.NewStyle().Faint(true)
)

type contextItem string

func (i contextItem) FilterValue() string { return string(i) }
func (i contextItem) Title() string       { return string(i) }
func (i contextItem) Description() string { return "" }

type model struct {
	reg  *dialplan.Registry
	opts digitmap.Options

	list     list.Model
	selected string
	digitmap string
	warnings []digitmap.Warning
	err      error
}

// Run opens the context browser over an already loaded registry.
func Run(reg *dialplan.Registry, opts digitmap.Options, in io.Reader, out io.Writer) error {
	names := reg.Names()
	items := make([]list.Item, 0, len(names))
	for _, name := range names {
		items = append(items, contextItem(name))
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	l := list.New(items, delegate, 40, 16)
	l.Title = "dialplan contexts"
	l.SetShowStatusBar(false)

	m := model{reg: reg, opts: opts, list: l}
	p := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui run failed: %w", err)
	}
	return nil
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width/2, msg.Height-2)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(contextItem); ok {
				m.generate(string(item))
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) generate(context string) {
	m.selected = context
	m.digitmap, m.warnings, m.err = digitmap.Generate(m.reg, context, m.opts)
}

func (m model) View() string {
	var right strings.Builder
	if m.selected == "" {
		right.WriteString(helpStyle.Render("enter: generate digit map  q: quit"))
	} else {
		right.WriteString(titleStyle.Render(m.selected))
		right.WriteString("\n")
		switch {
		case m.err != nil:
			right.WriteString(errStyle.Render(m.err.Error()))
		case m.digitmap == "":
			right.WriteString(helpStyle.Render("(no dialable extensions)"))
		default:
			right.WriteString(mapStyle.Render(m.digitmap))
		}
		for _, w := range m.warnings {
			right.WriteString("\n")
			right.WriteString(warnStyle.Render(w.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), "  ", right.String())
}
