package editor

import (
	"fmt"
	"log/slog"

	"holo-engine/effects"
)

// Command represents an undoable panel action
type Command interface {
	Execute()
	Undo()
	Description() string
}

// History manages undo/redo stacks
type History struct {
	undoStack []Command
	redoStack []Command
	maxDepth  int
}

// NewHistory creates a new history with the given max undo depth
func NewHistory(maxDepth int) *History {
	return &History{
		undoStack: make([]Command, 0, maxDepth),
		redoStack: make([]Command, 0, maxDepth),
		maxDepth:  maxDepth,
	}
}

// Do executes a command and pushes it to the undo stack
func (h *History) Do(cmd Command) {
	cmd.Execute()
	h.undoStack = append(h.undoStack, cmd)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[1:]
	}
	// Clear redo stack on new action
	h.redoStack = h.redoStack[:0]
}

// Undo reverts the last action
func (h *History) Undo() bool {
	if len(h.undoStack) == 0 {
		return false
	}
	cmd := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	cmd.Undo()
	h.redoStack = append(h.redoStack, cmd)
	return true
}

// Redo reapplies the last undone action
func (h *History) Redo() bool {
	if len(h.redoStack) == 0 {
		return false
	}
	cmd := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	cmd.Execute()
	h.undoStack = append(h.undoStack, cmd)
	return true
}

// CanUndo returns whether there are actions to undo
func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }

// CanRedo returns whether there are actions to redo
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// Clear wipes all undo/redo history
func (h *History) Clear() {
	h.undoStack = h.undoStack[:0]
	h.redoStack = h.redoStack[:0]
}

// --- Concrete Commands ---

// ParamTarget is anything holding holographic constants, typically an
// *effects.HoloPass.
type ParamTarget interface {
	Params() effects.HoloParams
	Configure(effects.HoloParams) error
}

// SetParamCommand records a change of one named parameter
type SetParamCommand struct {
	Target ParamTarget
	Name   string
	Old    float32
	New    float32
}

func NewSetParamCommand(target ParamTarget, name string, v float32) (*SetParamCommand, error) {
	old, err := target.Params().Get(name)
	if err != nil {
		return nil, err
	}
	return &SetParamCommand{Target: target, Name: name, Old: old, New: v}, nil
}

func (c *SetParamCommand) Execute() { c.set(c.New) }
func (c *SetParamCommand) Undo()    { c.set(c.Old) }
func (c *SetParamCommand) Description() string {
	return fmt.Sprintf("Set %s %.4g → %.4g", c.Name, c.Old, c.New)
}

func (c *SetParamCommand) set(v float32) {
	p := c.Target.Params()
	if err := p.Set(c.Name, v); err != nil {
		slog.Warn("param command", "name", c.Name, "err", err)
		return
	}
	if err := c.Target.Configure(p); err != nil {
		slog.Warn("param command", "name", c.Name, "err", err)
	}
}

// ReplaceParamsCommand swaps the whole parameter set, e.g. after a reload
type ReplaceParamsCommand struct {
	Target ParamTarget
	Old    effects.HoloParams
	New    effects.HoloParams
}

func NewReplaceParamsCommand(target ParamTarget, p effects.HoloParams) *ReplaceParamsCommand {
	return &ReplaceParamsCommand{Target: target, Old: target.Params(), New: p}
}

func (c *ReplaceParamsCommand) Execute()            { c.apply(c.New) }
func (c *ReplaceParamsCommand) Undo()               { c.apply(c.Old) }
func (c *ReplaceParamsCommand) Description() string { return "Replace parameters" }

func (c *ReplaceParamsCommand) apply(p effects.HoloParams) {
	if err := c.Target.Configure(p); err != nil {
		slog.Warn("replace params", "err", err)
	}
}
