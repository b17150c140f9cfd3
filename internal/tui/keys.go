package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down       key.Binding
	Toggle         key.Binding
	Add            key.Binding
	Remove         key.Binding
	CompleteAll    key.Binding
	ClearCompleted key.Binding
	ClearAll       key.Binding
	Quit           key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:         key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
		Add:            key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Remove:         key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
		CompleteAll:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete all")),
		ClearCompleted: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear done")),
		ClearAll:       key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear all")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Remove, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Add, k.Remove},
		{k.CompleteAll, k.ClearCompleted, k.ClearAll, k.Quit},
	}
}
