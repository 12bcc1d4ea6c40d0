package schedule

import (
	"fmt"
	"strings"
)

type CommandKind string

const (
	CmdDragStart  CommandKind = "start"
	CmdDragHover  CommandKind = "hover"
	CmdDragLeave  CommandKind = "leave"
	CmdDrop       CommandKind = "drop"
	CmdDragCancel CommandKind = "cancel"
)

func ParseCommandKind(s string) (CommandKind, error) {
	switch k := CommandKind(strings.ToLower(strings.TrimSpace(s))); k {
	case CmdDragStart, CmdDragHover, CmdDragLeave, CmdDrop, CmdDragCancel:
		return k, nil
	}
	return "", fmt.Errorf("unknown drag command %q", s)
}

// Command is one step of a drag-and-drop interaction. SendID is the source
// for start, the target for hover and drop, and ignored otherwise.
type Command struct {
	Kind   CommandKind `json:"kind"`
	SendID string      `json:"send_id,omitempty"`
}

type DragPhase string

const (
	DragIdle     DragPhase = "idle"
	DragDragging DragPhase = "dragging"
	DragHovering DragPhase = "hovering"
)

type DragState struct {
	Phase    DragPhase `json:"phase"`
	SourceID string    `json:"source_id,omitempty"`
	TargetID string    `json:"target_id,omitempty"`
}

func idleDrag() DragState { return DragState{Phase: DragIdle} }

func (d DragState) Active() bool { return d.Phase == DragDragging || d.Phase == DragHovering }

// Involves reports whether id is the source or current hover target.
func (d DragState) Involves(id string) bool {
	return d.Active() && (d.SourceID == id || d.TargetID == id)
}

// DragResult is returned by Store.Dispatch.
type DragResult struct {
	Drag      DragState    `json:"drag"`
	Swap      *SwapOutcome `json:"swap,omitempty"`
	Cancelled bool         `json:"cancelled"`
}
