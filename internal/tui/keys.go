package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start     key.Binding
	Process   key.Binding
	Decision  key.Binding
	Connector key.Binding
	Escape    key.Binding
	Delete    key.Binding
	Save      key.Binding
	Open      key.Binding
	Export    key.Binding
	Import    key.Binding
	PNG       key.Binding
	SVG       key.Binding
	Copy      key.Binding
	Clear     key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Start: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "inicio"),
	),
	Process: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "proceso"),
	),
	Decision: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "decisión"),
	),
	Connector: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "conector"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "deseleccionar"),
	),
	Delete: key.NewBinding(
		key.WithKeys("delete", "backspace"),
		key.WithHelp("supr", "eliminar"),
	),
	Save: key.NewBinding(
		key.WithKeys("s", "ctrl+s"),
		key.WithHelp("s", "guardar"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "abrir"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "exportar json"),
	),
	Import: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "importar json"),
	),
	PNG: key.NewBinding(
		key.WithKeys("P"),
		key.WithHelp("P", "exportar png"),
	),
	SVG: key.NewBinding(
		key.WithKeys("V"),
		key.WithHelp("V", "exportar svg"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copiar json"),
	),
	Clear: key.NewBinding(
		key.WithKeys("C"),
		key.WithHelp("C", "limpiar"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "shift+up"),
		key.WithHelp("↑", "desplazar"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "shift+down"),
		key.WithHelp("↓", "desplazar"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "shift+left"),
		key.WithHelp("←", "desplazar"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "shift+right"),
		key.WithHelp("→", "desplazar"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "ayuda"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "salir"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Process, k.Decision, k.Connector, k.Save, k.Open, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Process, k.Decision, k.Connector, k.Escape, k.Delete},
		{k.Save, k.Open, k.Export, k.Import, k.PNG, k.SVG},
		{k.Copy, k.Clear, k.Up, k.Down, k.Left, k.Right},
		{k.Help, k.Quit},
	}
}
