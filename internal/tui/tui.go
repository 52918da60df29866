// Package tui is the interactive view over a task store. Every key that
// changes tasks goes straight to the store, which persists it; the model
// then re-reads the filtered view.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/todos/internal/model"
	"github.com/Makepad-fr/todos/internal/store"
	"github.com/Makepad-fr/todos/internal/ui"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	titleLimit    = 200
)

type mode int

const (
	browsing mode = iota
	adding
	editing
)

// listItem adapts a task to bubbles/list.Item.
type listItem struct{ task model.Task }

func (i listItem) FilterValue() string { return i.task.Title }

// itemDelegate renders one task per line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()
	text := ui.Truncate(it.task.Title, max(m.Width()-6, 10))
	if it.task.Completed {
		text = t.Done.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render(">") + " "
	}
	fmt.Fprint(w, prefix+ui.Checkbox(it.task.Completed)+" "+text)
}

// Model is the Bubble Tea model.
type Model struct {
	store  *store.Store
	filter model.Filter
	keys   keyMap

	list list.Model
	ti   textinput.Model // shared by add and edit
	mode mode
	// editID is the task being renamed while mode == editing.
	editID string
	err    string

	width, height int
}

// New builds a model showing s under filter f.
func New(s *store.Store, f model.Filter) Model {
	t := ui.Current()
	keys := newKeyMap()

	l := list.New(nil, itemDelegate{}, defaultWidth, defaultHeight)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Muted
	l.Styles.PaginationStyle = t.Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	l.KeyMap.NextPage.SetKeys("right", "l", "pgdown", "f")
	l.AdditionalShortHelpKeys = keys.short
	l.AdditionalFullHelpKeys = keys.full

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = titleLimit

	m := Model{
		store:  s,
		filter: f,
		keys:   keys,
		list:   l,
		ti:     ti,
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.refresh()
	m.resize()
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(s *store.Store, f model.Filter) error {
	_, err := tea.NewProgram(New(s, f), tea.WithAltScreen()).Run()
	return err
}

// Filter is the filter currently shown.
func (m Model) Filter() model.Filter { return m.filter }

// Visible returns the tasks currently listed.
func (m Model) Visible() []model.Task {
	items := m.list.Items()
	out := make([]model.Task, 0, len(items))
	for _, it := range items {
		if li, ok := it.(listItem); ok {
			out = append(out, li.task)
		}
	}
	return out
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}

	switch m.mode {
	case adding, editing:
		return m.updateInput(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(km, m.keys.Quit):
		if km.String() == "esc" && m.list.FilterState() == list.FilterApplied {
			break
		}
		return m, tea.Quit
	case key.Matches(km, m.keys.Add):
		m.startInput(adding, "", "New task title...")
		return m, textinput.Blink
	case key.Matches(km, m.keys.Edit):
		if it, ok := m.selected(); ok {
			m.editID = it.ID
			m.startInput(editing, it.Title, "Edit task title...")
			return m, textinput.Blink
		}
		return m, nil
	case key.Matches(km, m.keys.Toggle):
		if it, ok := m.selected(); ok {
			m.store.Toggle(it.ID)
			return m, m.refresh()
		}
		return m, nil
	case key.Matches(km, m.keys.Delete):
		if it, ok := m.selected(); ok {
			m.store.Remove(it.ID)
			return m, m.refresh()
		}
		return m, nil
	case key.Matches(km, m.keys.ClearDone):
		m.store.ClearCompleted()
		return m, m.refresh()
	case key.Matches(km, m.keys.ToggleAll):
		m.store.SetAllCompleted(!m.store.AllCompleted())
		return m, m.refresh()
	case key.Matches(km, m.keys.NextFilter):
		return m, m.setFilter(m.filter.Next())
	case key.Matches(km, m.keys.All):
		return m, m.setFilter(model.FilterAll)
	case key.Matches(km, m.keys.Active):
		return m, m.setFilter(model.FilterActive)
	case key.Matches(km, m.keys.Completed):
		return m, m.setFilter(model.FilterCompleted)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			title := strings.TrimSpace(m.ti.Value())
			if title == "" {
				m.err = "Title cannot be empty"
				return m, nil
			}
			if m.mode == adding {
				m.store.Add(title)
			} else {
				m.store.Rename(m.editID, title)
			}
			m.stopInput()
			return m, m.refresh()
		case "esc":
			// Leaving the editor keeps a non-blank edit; adding is cancelled.
			if m.mode == editing {
				if title := strings.TrimSpace(m.ti.Value()); title != "" {
					m.store.Rename(m.editID, title)
				}
			}
			m.stopInput()
			return m, m.refresh()
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) startInput(md mode, value, placeholder string) {
	m.mode = md
	m.err = ""
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	m.ti.Placeholder = placeholder
	m.ti.Focus()
	m.resize()
}

func (m *Model) stopInput() {
	m.mode = browsing
	m.editID = ""
	m.err = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m *Model) selected() (model.Task, bool) {
	if li, ok := m.list.SelectedItem().(listItem); ok {
		return li.task, true
	}
	return model.Task{}, false
}

func (m *Model) setFilter(f model.Filter) tea.Cmd {
	m.filter = f
	m.list.ResetFilter()
	return m.refresh()
}

// refresh re-reads the filtered view after any change.
func (m *Model) refresh() tea.Cmd {
	tasks := m.store.FilteredView(m.filter)
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, listItem{task: t})
	}
	cmd := m.list.SetItems(items)
	if n := len(m.list.VisibleItems()); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
	m.list.Title = m.header()
	return cmd
}

func (m *Model) resize() {
	h := m.height - 6
	if m.mode != browsing {
		h -= 4
	}
	m.list.SetSize(max(m.width-4, 20), max(h, 5))
}

func (m Model) header() string {
	t := ui.Current()
	left := m.store.RemainingCount()
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		"Todos",
		t.SymDone, m.store.Len()-left,
		t.SymPending, left,
		"Total", m.store.Len(),
	)
}

func (m Model) footer() string {
	t := ui.Current()
	var tabs []string
	for _, f := range model.Filters {
		label := f.Label()
		if f == m.filter {
			tabs = append(tabs, t.Selected.Render(label))
		} else {
			tabs = append(tabs, t.Muted.Render(label))
		}
	}
	left := m.store.RemainingCount()
	count := fmt.Sprintf("%d items left", left)
	if left == 1 {
		count = "1 item left"
	}
	line := t.Pending.Render(count) + "   " + strings.Join(tabs, " ") + "   " + t.Muted.Render(m.filter.Route())
	if m.store.AnyCompleted() {
		line += "   " + t.Muted.Render("c: clear completed")
	}
	return line
}

func (m Model) View() string {
	t := ui.Current()
	content := m.list.View()
	if m.mode != browsing {
		title := "Add task"
		if m.mode == editing {
			title = "Edit task"
		}
		if m.err != "" {
			title += " - " + t.Error.Render(m.err)
		}
		bar := lipgloss.NewStyle().
			Border(t.Border).
			BorderForeground(t.BorderColor).
			Padding(0, 1)
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	content += "\n" + m.footer()
	return ui.PanelString(content)
}
