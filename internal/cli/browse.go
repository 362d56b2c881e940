package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/ui"
)

// entryItem adapts model.Entry to bubbles/list.Item
type entryItem struct {
	entry model.Entry
}

func (i entryItem) Title() string       { return i.entry.Title }
func (i entryItem) Description() string { return i.entry.Body }
func (i entryItem) FilterValue() string { return i.entry.Title }

// Custom delegate to control how items render (single line)
type entryDelegate struct{}

func (d entryDelegate) Height() int                               { return 1 }
func (d entryDelegate) Spacing() int                              { return 0 }
func (d entryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d entryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(entryItem)
	if !ok {
		return
	}
	t := ui.Current()
	line := it.entry.Title
	if it.entry.Body != "" {
		line += " " + t.Muted.Render("— "+it.entry.Body)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprint(w, prefix+line)
}

// browser is the Bubble Tea model behind `todo browse`. It edits todos in
// place; the caller saves when changed is set.
type browser struct {
	list    list.Model
	todos   *model.TodoList
	changed bool

	adding bool
	input  textinput.Model
	errMsg string
}

func newBrowser(todos *model.TodoList) browser {
	t := ui.Current()
	l := list.New(entryItems(todos), entryDelegate{}, 0, 0)
	l.Title = "Todos"
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("entry", "entries")

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, delBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{addBind, delBind} }

	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "New entry title..."
	in.CharLimit = 200

	return browser{list: l, todos: todos, input: in}
}

// runBrowser runs the interactive list and reports whether todos changed.
func runBrowser(todos *model.TodoList, in io.Reader, out io.Writer) (bool, error) {
	p := tea.NewProgram(newBrowser(todos), tea.WithAltScreen(), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	b, ok := final.(browser)
	if !ok {
		return false, nil
	}
	return b.changed, nil
}

func (m browser) Init() tea.Cmd { return nil }

func (m browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.list.SetSize(ws.Width-4, ws.Height-6)
		return m, nil
	}
	if m.adding {
		return m.updateAdding(msg)
	}

	if k, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch k.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "a":
			m.adding = true
			m.errMsg = ""
			m.input.SetValue("")
			return m, m.input.Focus()
		case "d":
			return m, m.removeSelected()
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browser) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			title := strings.TrimSpace(m.input.Value())
			if title == "" {
				m.errMsg = "Title cannot be empty"
				return m, nil
			}
			e := m.todos.AddEntry(model.Entry{Title: title, Body: model.PlaceholderBody})
			cmd := m.list.InsertItem(len(m.list.Items()), entryItem{entry: e})
			m.changed = true
			m.stopAdding()
			return m, cmd
		case "esc":
			m.stopAdding()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *browser) stopAdding() {
	m.adding = false
	m.errMsg = ""
	m.input.SetValue("")
	m.input.Blur()
}

// removeSelected deletes by id and rebuilds the items; an applied filter is
// recomputed by the returned command.
func (m *browser) removeSelected() tea.Cmd {
	it, ok := m.list.SelectedItem().(entryItem)
	if !ok {
		return nil
	}
	if err := m.todos.RemoveByID(it.entry.ID); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.changed = true
	return m.list.SetItems(entryItems(m.todos))
}

func entryItems(todos *model.TodoList) []list.Item {
	items := make([]list.Item, 0, todos.Len())
	for _, e := range todos.Entries() {
		items = append(items, entryItem{entry: e})
	}
	return items
}

func (m browser) View() string {
	t := ui.Current()
	content := m.list.View()
	if m.adding {
		title := "Add new entry"
		if m.errMsg != "" {
			title += " " + t.Error.Render(m.errMsg)
		}
		content += "\n" + ui.PanelString(title+"\n"+m.input.View())
	} else if m.errMsg != "" {
		content += "\n" + t.Error.Render(m.errMsg)
	}
	return ui.PanelString(content)
}
