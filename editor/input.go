package editor

// KeySource reports whether a key is held, e.g. a *window.Window.
type KeySource interface {
	IsKeyPressed(key int) bool
}

// InputManager tracks keyboard state between frames so that actions fire on
// the press edge only
type InputManager struct {
	src      KeySource
	watched  []int
	keys     map[int]bool
	keysPrev map[int]bool
}

// NewInputManager polls the given keys from src on every Update
func NewInputManager(src KeySource, keys ...int) *InputManager {
	return &InputManager{
		src:      src,
		watched:  keys,
		keys:     make(map[int]bool, len(keys)),
		keysPrev: make(map[int]bool, len(keys)),
	}
}

// Watch adds keys to the polled set
func (im *InputManager) Watch(keys ...int) {
	im.watched = append(im.watched, keys...)
}

// Update should be called once per frame to poll state
func (im *InputManager) Update() {
	for _, k := range im.watched {
		im.keysPrev[k] = im.keys[k]
		im.keys[k] = im.src.IsKeyPressed(k)
	}
}

// --- Key Queries ---

func (im *InputManager) IsKeyDown(key int) bool {
	return im.keys[key]
}

func (im *InputManager) IsKeyPressed(key int) bool {
	return im.keys[key] && !im.keysPrev[key]
}

// PanelKeys maps panel actions to key codes. Undo and Redo fire together
// with either control key.
type PanelKeys struct {
	Next, Prev         int
	Increase, Decrease int
	Reset              int
	Undo, Redo         int
	Ctrl, CtrlAlt      int
}

func (k PanelKeys) all() []int {
	return []int{k.Next, k.Prev, k.Increase, k.Decrease, k.Reset, k.Undo, k.Redo, k.Ctrl, k.CtrlAlt}
}

// PanelAction reports what one frame's key presses did to a panel.
type PanelAction struct {
	Changed  bool // a parameter value changed
	Selected bool // the selection cursor moved
}

// BindPanel watches every key in keys and returns a function that applies
// this frame's presses to panel.
func (im *InputManager) BindPanel(panel *Panel, keys PanelKeys) func() PanelAction {
	im.Watch(keys.all()...)
	return func() PanelAction {
		ctrl := im.IsKeyDown(keys.Ctrl) || im.IsKeyDown(keys.CtrlAlt)
		var a PanelAction
		switch {
		case ctrl && im.IsKeyPressed(keys.Undo):
			a.Changed = panel.Undo()
		case ctrl && im.IsKeyPressed(keys.Redo):
			a.Changed = panel.Redo()
		case im.IsKeyPressed(keys.Next):
			panel.Next()
			a.Selected = true
		case im.IsKeyPressed(keys.Prev):
			panel.Prev()
			a.Selected = true
		case im.IsKeyPressed(keys.Increase):
			a.Changed = panel.Increase()
		case im.IsKeyPressed(keys.Decrease):
			a.Changed = panel.Decrease()
		case im.IsKeyPressed(keys.Reset):
			a.Changed = panel.Reset()
		}
		return a
	}
}
