package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pause key.Binding
	Next  key.Binding
	Prev  key.Binding
	Jump  key.Binding
	Notes key.Binding
	Copy  key.Binding
	Stop  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Pause: key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause/resume")),
		Next:  key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/→", "next section")),
		Prev:  key.NewBinding(key.WithKeys("b", "left"), key.WithHelp("b/←", "previous section")),
		Jump:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "jump to section")),
		Notes: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "hold audio for notes")),
		Copy:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy transcript")),
		Stop:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop lecture")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Next, k.Jump, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Notes, k.Stop},
		{k.Next, k.Prev, k.Jump},
		{k.Copy, k.Help, k.Quit},
	}
}
