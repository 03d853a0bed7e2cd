package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Feed  key.Binding
	Clean key.Binding
	Heal  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Feed: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "feed"),
		),
		Clean: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clean"),
		),
		Heal: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "heal"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp y FullHelp implementan help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Feed, k.Clean, k.Heal, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Feed, k.Clean, k.Heal},
		{k.Help, k.Quit},
	}
}
