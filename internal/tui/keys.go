package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Add     key.Binding
	Toggle  key.Binding
	Done    key.Binding
	Close   key.Binding
	History key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
	Escape  key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Enter:   key.NewBinding(key.WithKeys("enter", "f"), key.WithHelp("enter/f", "focus task")),
	Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
	Toggle:  key.NewBinding(key.WithKeys(" ", "s"), key.WithHelp("space/s", "start/pause")),
	Done:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "complete")),
	Close:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "close session")),
	History: key.NewBinding(key.WithKeys("tab", "v"), key.WithHelp("tab", "tasks/history")),
	Refresh: key.NewBinding(key.WithKeys("R", "r"), key.WithHelp("r", "refresh")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}
