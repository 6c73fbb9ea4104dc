// Package keys holds the key bindings shared by the views.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists every binding the app reacts to
type KeyMap struct {
	Quit          key.Binding
	Back          key.Binding
	Tab           key.Binding
	ShiftTab      key.Binding
	Up            key.Binding
	Down          key.Binding
	Enter         key.Binding
	New           key.Binding
	Edit          key.Binding
	Delete        key.Binding
	Toggle        key.Binding
	Reload        key.Binding
	Search        key.Binding
	Sort          key.Binding
	ShowCompleted key.Binding
	Theme         key.Binding
	Logout        key.Binding
	Help          key.Binding
	Save          key.Binding
	Confirm       key.Binding
	Cancel        key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Tab:           key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		ShiftTab:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous")),
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Enter:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("↵", "select")),
		New:           key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:          key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Toggle:        key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "done")),
		Reload:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Search:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Sort:          key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		ShowCompleted: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "completed")),
		Theme:         key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "theme")),
		Logout:        key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log out")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Save:          key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Confirm:       key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		Cancel:        key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
	}
}
