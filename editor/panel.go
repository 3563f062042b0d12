package editor

import (
	"fmt"

	"holo-engine/effects"
)

// Panel is the debug control panel for live tuning: one parameter is
// selected at a time and stepped within its documented range.
type Panel struct {
	target   ParamTarget
	specs    []effects.ParamSpec
	selected int
	history  *History
}

func NewPanel(target ParamTarget) *Panel {
	return &Panel{
		target:  target,
		specs:   effects.ParamSpecs(),
		history: NewHistory(100),
	}
}

// Selected returns the spec of the parameter under the cursor.
func (p *Panel) Selected() effects.ParamSpec { return p.specs[p.selected] }

func (p *Panel) Next() { p.selected = (p.selected + 1) % len(p.specs) }

func (p *Panel) Prev() { p.selected = (p.selected + len(p.specs) - 1) % len(p.specs) }

// Select moves the cursor to a named parameter.
func (p *Panel) Select(name string) bool {
	for i, s := range p.specs {
		if s.Name == name {
			p.selected = i
			return true
		}
	}
	return false
}

func (p *Panel) Increase() bool { return p.step(1) }

func (p *Panel) Decrease() bool { return p.step(-1) }

// Reset puts the selected parameter back to its default.
func (p *Panel) Reset() bool {
	return p.set(p.Selected().Default)
}

// Replace applies a complete parameter set as one undoable step.
func (p *Panel) Replace(params effects.HoloParams) {
	p.history.Do(NewReplaceParamsCommand(p.target, params))
}

func (p *Panel) Undo() bool { return p.history.Undo() }

func (p *Panel) Redo() bool { return p.history.Redo() }

// Status is a one-line summary for a title bar or log.
func (p *Panel) Status() string {
	s := p.Selected()
	v, _ := p.target.Params().Get(s.Name)
	return fmt.Sprintf("%s = %.4g  [%g..%g]", s.Name, v, s.Min, s.Max)
}

func (p *Panel) step(dir float32) bool {
	s := p.Selected()
	cur, err := p.target.Params().Get(s.Name)
	if err != nil {
		return false
	}
	return p.set(s.Clamp(cur + dir*s.Step()))
}

func (p *Panel) set(v float32) bool {
	s := p.Selected()
	cmd, err := NewSetParamCommand(p.target, s.Name, v)
	if err != nil || cmd.Old == cmd.New {
		return false
	}
	p.history.Do(cmd)
	return true
}
