// Package editor is the interaction state machine that turns pointer and
// keyboard input into diagram mutations.
package editor

import "flowedit/internal/diagram"

// Tool is the active toolbar tool.
type Tool int

const (
	ToolNone Tool = iota
	ToolStart
	ToolProcess
	ToolDecision
	ToolConnector
)

// ElementType returns the shape a creation tool places.
func (t Tool) ElementType() (diagram.ElementType, bool) {
	switch t {
	case ToolStart:
		return diagram.Start, true
	case ToolProcess:
		return diagram.Process, true
	case ToolDecision:
		return diagram.Decision, true
	default:
		return "", false
	}
}

func (t Tool) String() string {
	switch t {
	case ToolNone:
		return "none"
	case ToolStart:
		return "start"
	case ToolProcess:
		return "process"
	case ToolDecision:
		return "decision"
	case ToolConnector:
		return "connector"
	default:
		return "unknown"
	}
}

// Phase is the gesture state of the editor.
type Phase int

const (
	Idle Phase = iota
	ToolSelected
	Dragging
	Connecting
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "IDLE"
	case ToolSelected:
		return "TOOL"
	case Dragging:
		return "DRAG"
	case Connecting:
		return "CONNECT"
	default:
		return "UNKNOWN"
	}
}

// Guide is the transient line drawn while a connection gesture is live.
type Guide struct {
	From, To diagram.Point
}

// View is the read-only editor state renderers use for highlighting.
type View struct {
	Phase    Phase
	Tool     Tool
	Selected string
	Guide    *Guide
	Pending  bool
}

// LabelRequest asks the prompt collaborator for a new label.
type LabelRequest struct {
	ElementID string
	Current   string
}
