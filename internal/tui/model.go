// Package tui is the terminal front end: it turns mouse and keyboard
// events into editor operations and draws the diagram with its toolbar,
// dialogs and notifications.
package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"flowedit/internal/config"
	"flowedit/internal/diagram"
	"flowedit/internal/editor"
	"flowedit/internal/fileio"
	"flowedit/internal/render"
	"flowedit/internal/storage"
)

// DoubleClickWindow is the longest gap between two presses on the same
// cell that still counts as a double click.
const DoubleClickWindow = 400 * time.Millisecond

// AutosaveMsg asks the program to write the recovery snapshot. It is sent
// from the autosave schedule so the snapshot is taken between events.
type AutosaveMsg struct{}

type mode int

const (
	modeCanvas mode = iota
	modePrompt
	modeConfirm
	modeLoad
	modeHelp
)

type promptKind int

const (
	promptLabel promptKind = iota
	promptSave
	promptExport
	promptImport
	promptPNG
	promptSVG
)

type confirmKind int

const (
	confirmClear confirmKind = iota
	confirmDelete
	confirmRecovery
)

type prompt struct {
	kind  promptKind
	title string
	input textinput.Model
}

type confirm struct {
	kind     confirmKind
	question string
	name     string
	recovery diagram.Snapshot
	back     mode
}

type press struct {
	col, row int
	at       time.Time
}

// Deps are the collaborators a Model drives.
type Deps struct {
	Editor    *editor.Editor
	Catalogue *storage.Catalogue
	Importer  *fileio.Importer
	Config    *config.Config
	Logger    *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// InitialFile is imported on start instead of offering recovery.
	InitialFile string
}

// Model is the bubbletea model of the editor.
type Model struct {
	ed       *editor.Editor
	cat      *storage.Catalogue
	importer *fileio.Importer
	cfg      *config.Config
	logger   *slog.Logger
	now      func() time.Time

	width, height int
	panX, panY    int

	mode    mode
	prompt  *prompt
	confirm *confirm

	entries []storage.Entry
	info    storage.Info
	cursor  int

	lastPress *press

	note      *notification
	notifySeq int
	startCmd  tea.Cmd

	help help.Model
	keys keyMap
}

// New builds the model and decides what to show first: the imported
// file, a recovery question, or an empty canvas.
func New(deps Deps) Model {
	m := Model{
		ed:       deps.Editor,
		cat:      deps.Catalogue,
		importer: deps.Importer,
		cfg:      deps.Config,
		logger:   deps.Logger,
		now:      deps.Now,
		width:    80,
		height:   24,
		help:     help.New(),
		keys:     keys,
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.cfg == nil {
		m.cfg = config.Default()
	}

	if deps.InitialFile != "" {
		m.startCmd = m.importFile(deps.InitialFile)
		return m
	}
	m.offerRecovery()
	return m
}

func (m *Model) offerRecovery() {
	if m.cat == nil {
		return
	}
	r, ok, err := m.cat.LoadAutoSave()
	if err != nil {
		m.logger.Warn("recovery unavailable", slog.Any("error", err))
		return
	}
	if !ok || len(r.Data.Elements) == 0 || !r.Fresh(m.now(), m.cfg.RecoveryMaxAge) {
		return
	}
	m.mode = modeConfirm
	m.confirm = &confirm{
		kind:     confirmRecovery,
		question: "Se encontró un diagrama guardado automáticamente. ¿Deseas cargarlo?",
		recovery: r.Data,
		back:     modeCanvas,
	}
}

func (m Model) Init() tea.Cmd {
	return m.startCmd
}

func (m Model) current() *diagram.Diagram {
	return m.ed.Diagram()
}

// canvasHeight leaves the first row for the toolbar and the last for status.
func (m Model) canvasHeight() int {
	return max(m.height-2, 1)
}

func (m Model) viewport() render.Viewport {
	return render.Viewport{
		Width:      max(m.width, 1),
		Height:     m.canvasHeight(),
		CellWidth:  m.cfg.CellWidth,
		CellHeight: m.cfg.CellHeight,
		PanX:       m.panX,
		PanY:       m.panY,
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case clearNotificationMsg:
		if m.note != nil && m.note.id == msg.id {
			m.note = nil
		}
		return m, nil

	case AutosaveMsg:
		if m.mode == modeConfirm && m.confirm != nil && m.confirm.kind == confirmRecovery {
			return m, nil
		}
		m.autosave()
		return m, nil

	case tea.MouseMsg:
		if m.mode != modeCanvas {
			if msg.Action == tea.MouseActionRelease {
				m.release(msg)
			}
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modePrompt:
			return m.updatePrompt(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeLoad:
			return m.updateLoad(msg)
		case modeHelp:
			m.mode = modeCanvas
			return m, nil
		}
		return m.updateCanvas(msg)
	}

	if m.mode == modePrompt {
		var cmd tea.Cmd
		m.prompt.input, cmd = m.prompt.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) autosave() {
	if m.cat == nil {
		return
	}
	if err := m.cat.AutoSave(m.current().Snapshot()); err != nil {
		m.logger.Warn("autosave", slog.Any("error", err))
	}
}
