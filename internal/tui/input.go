package tui

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"flowedit/internal/editor"
	"flowedit/internal/fileio"
	"flowedit/internal/storage"
)

type toolButton struct {
	tool  editor.Tool
	label string
	from  int
	to    int
}

var toolLabels = []struct {
	tool  editor.Tool
	label string
}{
	{editor.ToolStart, "1 Inicio"},
	{editor.ToolProcess, "2 Proceso"},
	{editor.ToolDecision, "3 Decisión"},
	{editor.ToolConnector, "4 Conector"},
}

// toolbar lays out the tool buttons on the first row. from and to are
// inclusive screen columns.
func toolbar(active editor.Tool) ([]toolButton, string) {
	buttons := make([]toolButton, 0, len(toolLabels))
	parts := make([]string, 0, len(toolLabels))
	col := 0
	for _, tl := range toolLabels {
		style := toolStyle
		if tl.tool == active {
			style = activeToolStyle
		}
		s := style.Render(tl.label)
		w := lipgloss.Width(s)
		buttons = append(buttons, toolButton{tool: tl.tool, label: tl.label, from: col, to: col + w - 1})
		parts = append(parts, s)
		col += w + 1
	}
	return buttons, lipgloss.JoinHorizontal(lipgloss.Top, joinWithSpaces(parts)...)
}

func joinWithSpaces(parts []string) []string {
	out := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, p)
	}
	return out
}

// release resolves the current gesture wherever the pointer is let go,
// including over the toolbar or under an open modal.
func (m *Model) release(msg tea.MouseMsg) {
	if !m.ed.Busy() {
		return
	}
	row := max(msg.Y-1, 0)
	m.ed.PointerUp(m.viewport().World(msg.X, row))
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action == tea.MouseActionRelease {
		m.release(msg)
		return m, nil
	}
	if msg.Y == 0 {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			buttons, _ := toolbar(m.ed.View().Tool)
			for _, b := range buttons {
				if msg.X >= b.from && msg.X <= b.to {
					m.selectTool(b.tool)
				}
			}
		}
		return m, nil
	}

	row := msg.Y - 1
	p := m.viewport().World(msg.X, row)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		now := m.now()
		double := m.lastPress != nil && m.lastPress.col == msg.X && m.lastPress.row == row &&
			now.Sub(m.lastPress.at) <= DoubleClickWindow
		if double {
			m.lastPress = nil
			if req, ok := m.ed.DoubleClick(p); ok {
				return m, m.openPrompt(promptLabel, "Editar texto", req.Current)
			}
		} else {
			m.lastPress = &press{col: msg.X, row: row, at: now}
		}
		m.ed.PointerDown(p)
	case tea.MouseActionMotion:
		m.ed.PointerMove(p)
	}
	return m, nil
}

func (m *Model) selectTool(t editor.Tool) {
	if !m.ed.SelectTool(t) {
		m.logger.Debug("tool switch ignored")
	}
}

func (m Model) updateCanvas(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ed.Busy() && key.Matches(msg, m.keys.Save, m.keys.Open, m.keys.Export, m.keys.Import,
		m.keys.PNG, m.keys.SVG, m.keys.Copy, m.keys.Clear, m.keys.Help) {
		m.logger.Debug("action ignored during gesture", slog.String("key", msg.String()))
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Start):
		m.selectTool(editor.ToolStart)
	case key.Matches(msg, m.keys.Process):
		m.selectTool(editor.ToolProcess)
	case key.Matches(msg, m.keys.Decision):
		m.selectTool(editor.ToolDecision)
	case key.Matches(msg, m.keys.Connector):
		m.selectTool(editor.ToolConnector)
	case key.Matches(msg, m.keys.Escape):
		m.ed.Escape()
	case key.Matches(msg, m.keys.Delete):
		m.ed.DeleteSelected()
	case key.Matches(msg, m.keys.Save):
		return m, m.openPrompt(promptSave, "Guardar diagrama", storage.DefaultName(m.now()))
	case key.Matches(msg, m.keys.Open):
		return m, m.openLoad()
	case key.Matches(msg, m.keys.Export):
		return m, m.openPrompt(promptExport, "Nombre del archivo", fileio.DefaultExportName)
	case key.Matches(msg, m.keys.Import):
		return m, m.openPrompt(promptImport, "Archivo a importar", "")
	case key.Matches(msg, m.keys.PNG):
		return m, m.openPrompt(promptPNG, "Exportar PNG", "mi_diagrama.png")
	case key.Matches(msg, m.keys.SVG):
		return m, m.openPrompt(promptSVG, "Exportar SVG", "mi_diagrama.svg")
	case key.Matches(msg, m.keys.Copy):
		return m, m.copySnapshot()
	case key.Matches(msg, m.keys.Clear):
		if !m.cfg.Confirmations {
			return m, m.clear()
		}
		m.mode = modeConfirm
		m.confirm = &confirm{
			kind:     confirmClear,
			question: "¿Estás seguro de que quieres limpiar el diagrama? Esta acción no se puede deshacer.",
			back:     modeCanvas,
		}
	case key.Matches(msg, m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right):
		m.pan(msg)
	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
	}
	return m, nil
}

func (m *Model) pan(msg tea.KeyMsg) {
	speed := 1
	switch msg.String() {
	case "shift+up", "shift+down", "shift+left", "shift+right":
		speed = 4
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		m.panY -= speed
	case key.Matches(msg, m.keys.Down):
		m.panY += speed
	case key.Matches(msg, m.keys.Left):
		m.panX -= speed
	case key.Matches(msg, m.keys.Right):
		m.panX += speed
	}
}

func (m *Model) clear() tea.Cmd {
	m.current().Clear()
	m.ed.Reset()
	return m.notify(levelWarning, "Diagrama limpiado")
}

func (m *Model) copySnapshot() tea.Cmd {
	var buf bytes.Buffer
	if err := fileio.Write(&buf, fileio.NewEnvelope(m.current().Snapshot(), m.now())); err != nil {
		return m.notify(levelError, fmt.Sprintf("Error al copiar: %v", err))
	}
	if err := writeClipboard(buf.String()); err != nil {
		return m.notify(levelError, fmt.Sprintf("Error al copiar: %v", err))
	}
	return m.notify(levelSuccess, "Diagrama copiado al portapapeles")
}
