package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"flowedit/internal/diagram"
	"flowedit/internal/fileio"
	"flowedit/internal/render"
)

func (m *Model) openPrompt(kind promptKind, title, value string) tea.Cmd {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Width = 40
	ti.SetValue(value)
	ti.CursorEnd()
	cmd := ti.Focus()
	m.prompt = &prompt{kind: kind, title: title, input: ti}
	m.mode = modePrompt
	return cmd
}

func (m *Model) closePrompt() {
	m.prompt = nil
	m.mode = modeCanvas
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.prompt.kind == promptLabel {
			m.ed.ResolveLabel("", false)
		}
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		return m, m.submitPrompt()
	case tea.KeyCtrlV:
		text, err := readClipboard()
		if err != nil {
			return m, m.notify(levelError, fmt.Sprintf("Error al pegar: %v", err))
		}
		m.prompt.input.SetValue(m.prompt.input.Value() + pasteLabel(text))
		m.prompt.input.CursorEnd()
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt.input, cmd = m.prompt.input.Update(msg)
	return m, cmd
}

func (m *Model) submitPrompt() tea.Cmd {
	p := m.prompt
	value := strings.TrimSpace(p.input.Value())

	switch p.kind {
	case promptLabel:
		m.ed.ResolveLabel(value, true)
		m.closePrompt()
		return nil

	case promptSave:
		if value == "" {
			return m.notify(levelWarning, "Por favor, ingresa un nombre para el diagrama.")
		}
		if err := m.cat.Save(value, m.current().Snapshot()); err != nil {
			m.logger.Error("save diagram", slog.String("name", value), slog.Any("error", err))
			return m.notify(levelError, "Error al guardar el diagrama. Verifica el espacio de almacenamiento.")
		}
		m.closePrompt()
		return m.notify(levelSuccess, "Diagrama guardado exitosamente")

	case promptExport:
		m.closePrompt()
		if value == "" {
			return nil
		}
		return m.exportJSON(value)

	case promptImport:
		m.closePrompt()
		if value == "" {
			return nil
		}
		return m.importFile(value)

	case promptPNG, promptSVG:
		m.closePrompt()
		if value == "" {
			return nil
		}
		return m.exportImage(p.kind, value)
	}
	m.closePrompt()
	return nil
}

func (m *Model) exportJSON(name string) tea.Cmd {
	if filepath.Ext(name) == "" {
		name += ".json"
	}
	path, err := m.cfg.ExportPath(name)
	if err == nil {
		err = fileio.ExportFile(path, fileio.NewEnvelope(m.current().Snapshot(), m.now()))
	}
	if err != nil {
		m.logger.Error("export json", slog.String("file", name), slog.Any("error", err))
		return m.notify(levelError, fmt.Sprintf("Error al exportar: %v", err))
	}
	m.logger.Info("exported", slog.String("file", path))
	return m.notify(levelSuccess, "Diagrama exportado exitosamente")
}

func (m *Model) exportImage(kind promptKind, name string) tea.Cmd {
	ext, export := ".png", render.ExportPNGFile
	if kind == promptSVG {
		ext, export = ".svg", render.ExportSVGFile
	}
	if filepath.Ext(name) == "" {
		name += ext
	}
	path, err := m.cfg.ExportPath(name)
	if err == nil {
		err = export(path, m.current())
	}
	switch {
	case errors.Is(err, render.ErrEmpty):
		return m.notify(levelWarning, "No hay nada que exportar")
	case err != nil:
		m.logger.Error("export image", slog.String("file", name), slog.Any("error", err))
		return m.notify(levelError, fmt.Sprintf("Error al exportar: %v", err))
	}
	m.logger.Info("exported", slog.String("file", path))
	return m.notify(levelSuccess, "Imagen exportada: "+filepath.Base(path))
}

// importFile replaces the diagram with the contents of path. The current
// diagram is kept if the file cannot be read.
func (m *Model) importFile(path string) tea.Cmd {
	env, err := m.importer.ReadFile(path)
	if err != nil {
		m.logger.Warn("import", slog.String("file", path), slog.Any("error", err))
		if errors.Is(err, fileio.ErrMalformedImport) {
			return m.notify(levelError, "Error al importar el archivo: formato de archivo inválido")
		}
		return m.notify(levelError, fmt.Sprintf("Error al importar el archivo: %v", err))
	}
	success := "Diagrama importado exitosamente"
	if created, ok := env.CreatedAt(); ok {
		success += " (creado " + created.Local().Format("02/01/2006 15:04") + ")"
	}
	return m.replace(env.Diagram, success)
}

func (m *Model) replace(s diagram.Snapshot, success string) tea.Cmd {
	report := m.current().Load(s)
	m.ed.Reset()
	m.logger.Info("diagram loaded", slog.String("report", report.String()))
	if n := len(report.SkippedElements) + len(report.SkippedConnections); n > 0 {
		return m.notify(levelWarning, fmt.Sprintf("%s (%d registros omitidos)", success, n))
	}
	return m.notify(levelSuccess, success)
}

func (m *Model) openLoad() tea.Cmd {
	entries, err := m.cat.List()
	if err != nil {
		m.logger.Error("list diagrams", slog.Any("error", err))
		return m.notify(levelError, "Error al leer los diagramas guardados")
	}
	if len(entries) == 0 {
		m.mode = modeCanvas
		return m.notify(levelInfo, "No hay diagramas guardados.")
	}
	info, err := m.cat.Info()
	if err != nil {
		m.logger.Warn("catalogue info", slog.Any("error", err))
	}
	m.entries = entries
	m.info = info
	m.cursor = min(m.cursor, len(entries)-1)
	m.mode = modeLoad
	return nil
}

func (m Model) updateLoad(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeCanvas
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter":
		name := m.entries[m.cursor].Name
		m.mode = modeCanvas
		r, err := m.cat.Load(name)
		if err != nil {
			m.logger.Error("load diagram", slog.String("name", name), slog.Any("error", err))
			return m, m.notify(levelError, "Error al cargar el diagrama.")
		}
		return m, m.replace(r.Data, fmt.Sprintf("Diagrama %q cargado exitosamente", name))
	case "d", "delete":
		name := m.entries[m.cursor].Name
		if !m.cfg.Confirmations {
			return m, m.deleteSaved(name)
		}
		m.mode = modeConfirm
		m.confirm = &confirm{
			kind:     confirmDelete,
			question: fmt.Sprintf("¿Estás seguro de eliminar %q?", name),
			name:     name,
			back:     modeLoad,
		}
	}
	return m, nil
}

func (m *Model) deleteSaved(name string) tea.Cmd {
	if err := m.cat.Delete(name); err != nil {
		m.logger.Error("delete diagram", slog.String("name", name), slog.Any("error", err))
		m.mode = modeCanvas
		return m.notify(levelError, "Error al eliminar el diagrama.")
	}
	return m.openLoad()
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.confirm
	switch msg.String() {
	case "y", "s", "enter":
		m.confirm = nil
		m.mode = modeCanvas
		switch c.kind {
		case confirmClear:
			return m, m.clear()
		case confirmDelete:
			return m, m.deleteSaved(c.name)
		case confirmRecovery:
			return m, m.replace(c.recovery, "Diagrama recuperado")
		}
	case "n", "esc":
		m.confirm = nil
		m.mode = c.back
		if c.kind == confirmDelete {
			return m, m.openLoad()
		}
	}
	return m, nil
}
