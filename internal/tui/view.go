package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"flowedit/internal/editor"
	"flowedit/internal/render"
)

func (m Model) View() string {
	view := m.ed.View()
	_, bar := toolbar(view.Tool)

	var body string
	switch m.mode {
	case modeHelp:
		body = m.place(modalStyle.Render(modalTitleStyle.Render("Atajos") + "\n" + m.help.FullHelpView(m.keys.FullHelp())))
	case modePrompt:
		body = m.place(modalStyle.Render(modalTitleStyle.Render(m.prompt.title) + "\n" + m.prompt.input.View() +
			"\n\n" + dimStyle.Render("enter aceptar · esc cancelar · ctrl+v pegar")))
	case modeConfirm:
		body = m.place(modalStyle.Render(m.confirm.question + "\n\n" + dimStyle.Render("s/enter sí · n/esc no")))
	case modeLoad:
		body = m.place(modalStyle.Render(modalTitleStyle.Render("Diagramas guardados") + "\n" + m.loadList() +
			"\n\n" + dimStyle.Render(m.storageSummary()) +
			"\n" + dimStyle.Render("enter cargar · d eliminar · esc cerrar")))
	default:
		body = strings.Join(render.Terminal(render.NewScene(m.current(), view), m.viewport()), "\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left, bar, body, m.statusLine(view))
}

func (m Model) place(box string) string {
	return lipgloss.Place(max(m.width, 1), m.canvasHeight(), lipgloss.Center, lipgloss.Center, box)
}

func (m Model) loadList() string {
	var b strings.Builder
	for i, e := range m.entries {
		line := fmt.Sprintf("%s  %s", e.Name, dimStyle.Render("Modificado: "+e.LastModified.Local().Format("02/01/2006 15:04")))
		if i == m.cursor {
			b.WriteString(listCursorStyle.Render("> ") + line)
		} else {
			b.WriteString("  " + line)
		}
		if i < len(m.entries)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// storageSummary is the footer of the load list.
func (m Model) storageSummary() string {
	summary := fmt.Sprintf("%d diagramas · %s", m.info.Count, humanize.Bytes(uint64(m.info.Size)))
	if !m.info.LastModified.IsZero() {
		summary += " · último cambio " + m.info.LastModified.Local().Format("02/01/2006 15:04")
	}
	return summary
}

func (m Model) statusLine(v editor.View) string {
	if m.note != nil {
		return notificationStyles[m.note.level].Render(m.note.text)
	}
	d := m.current()
	state := fmt.Sprintf("%s · %s · %d elementos · %d conexiones",
		v.Tool, v.Phase, d.NumElements(), d.NumConnections())
	if v.Selected != "" {
		if el, ok := d.Element(v.Selected); ok {
			state += fmt.Sprintf(" · [%s]", el.Label)
		}
	}
	if m.panX != 0 || m.panY != 0 {
		state += fmt.Sprintf(" · (%d,%d)", m.panX, m.panY)
	}
	return statusStyle.Render(state) + "  " + m.help.ShortHelpView(m.keys.ShortHelp())
}
