package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// NotificationTimeout is how long a notification stays on screen.
const NotificationTimeout = 3 * time.Second

type level int

const (
	levelInfo level = iota
	levelSuccess
	levelWarning
	levelError
)

type notification struct {
	id    int
	level level
	text  string
}

type clearNotificationMsg struct{ id int }

// notify replaces the current notification and schedules its removal.
func (m *Model) notify(l level, text string) tea.Cmd {
	m.notifySeq++
	id := m.notifySeq
	m.note = &notification{id: id, level: l, text: text}
	return tea.Tick(NotificationTimeout, func(time.Time) tea.Msg {
		return clearNotificationMsg{id: id}
	})
}
