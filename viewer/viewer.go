// Package viewer shows the holographic pass live in a glfw window, with the
// debug panel bound to the keyboard.
//
//	Left / Right      select parameter
//	Up / Down         step the selected parameter
//	R                 reset it to its default
//	Ctrl+Z / Ctrl+Y   undo / redo
//	P                 save a screenshot
//	Esc               quit
package viewer

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"

	"github.com/anthonynsimon/bild/clone"

	"holo-engine/clock"
	"holo-engine/editor"
	"holo-engine/effects"
	"holo-engine/internal/opengl"
	"holo-engine/renderer"
	"holo-engine/window"
)

// Keys is the default panel binding.
var Keys = editor.PanelKeys{
	Next:     window.KeyRight,
	Prev:     window.KeyLeft,
	Increase: window.KeyUp,
	Decrease: window.KeyDown,
	Reset:    window.KeyR,
	Undo:     window.KeyZ,
	Redo:     window.KeyY,
	Ctrl:     window.KeyLeftControl,
	CtrlAlt:  window.KeyRightControl,
}

// Options configures a Viewer.
type Options struct {
	Window        window.Config
	Params        effects.HoloParams
	Updates       <-chan effects.HoloParams // optional live reloads
	ScreenshotDir string
}

type Viewer struct {
	win   *window.Window
	gpu   *opengl.HoloPass
	state *effects.HoloPass
	panel *editor.Panel
	input *editor.InputManager
	keys  func() editor.PanelAction
	clock *clock.Wall

	src      renderer.Source
	frame    int
	scene    *image.RGBA
	last     *image.RGBA // source image behind scene
	sceneTex uint32

	title   string
	updates <-chan effects.HoloParams
	shotDir string
	shots   int
}

// New opens the window, uploads the first scene of src and builds the GPU
// pass at its resolution.
func New(src renderer.Source, opts Options) (*Viewer, error) {
	first, err := src.Frame(0, 0)
	if err != nil {
		return nil, fmt.Errorf("first frame: %w", err)
	}
	if first == nil || first.Bounds().Empty() {
		return nil, effects.ErrEmptyImage
	}
	scene := clone.AsRGBA(first)
	state, err := effects.NewHoloPass(opts.Params)
	if err != nil {
		return nil, err
	}

	win, err := window.New(opts.Window)
	if err != nil {
		return nil, err
	}
	v := &Viewer{
		win:     win,
		state:   state,
		src:     src,
		frame:   1,
		scene:   scene,
		title:   opts.Window.Title,
		updates: opts.Updates,
		shotDir: opts.ScreenshotDir,
		clock:   clock.NewWall(),
	}
	if rgba, ok := first.(*image.RGBA); ok {
		v.last = rgba
	}

	v.sceneTex, err = opengl.UploadImage(scene)
	if err != nil {
		v.Destroy()
		return nil, fmt.Errorf("upload scene: %w", err)
	}
	b := scene.Bounds()
	v.gpu, err = opengl.NewHoloPass(b.Dx(), b.Dy(), opts.Params)
	if err != nil {
		v.Destroy()
		return nil, err
	}

	v.panel = editor.NewPanel(state)
	v.input = editor.NewInputManager(win, window.KeyEscape, window.KeyP)
	v.keys = v.input.BindPanel(v.panel, Keys)
	v.updateTitle()

	slog.Info("viewer ready", "width", b.Dx(), "height", b.Dy())
	return v, nil
}

// Panel exposes the debug panel driving this viewer.
func (v *Viewer) Panel() *editor.Panel { return v.panel }

// Run presents frames until the window closes or ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	for !v.win.ShouldClose() {
		if ctx.Err() != nil {
			return nil
		}
		v.win.PollEvents()
		v.input.Update()
		if v.input.IsKeyPressed(window.KeyEscape) {
			v.win.SetShouldClose(true)
		}
		v.drainUpdates()
		switch a := v.keys(); {
		case a.Changed:
			v.sync()
		case a.Selected:
			v.updateTitle()
		}

		t := v.clock.Elapsed()
		if err := v.pullScene(t); err != nil {
			return err
		}
		v.state.SetTime(t)
		v.gpu.SetTime(t)
		v.gpu.Draw(v.sceneTex)

		if v.input.IsKeyPressed(window.KeyP) {
			if err := v.screenshot(); err != nil {
				slog.Error("screenshot failed", "err", err)
			}
		}

		w, h := v.win.GetFramebufferSize()
		v.gpu.Blit(w, h)
		v.win.SwapBuffers()
	}
	return nil
}

// Destroy releases GPU resources and closes the window.
func (v *Viewer) Destroy() {
	if v.gpu != nil {
		v.gpu.Destroy()
		v.gpu = nil
	}
	if v.sceneTex != 0 {
		opengl.DeleteTexture(v.sceneTex)
		v.sceneTex = 0
	}
	if v.win != nil {
		v.win.Destroy()
		v.win = nil
	}
}

func (v *Viewer) drainUpdates() {
	for v.updates != nil {
		select {
		case p, ok := <-v.updates:
			if !ok {
				v.updates = nil
				return
			}
			if err := p.Validate(); err != nil {
				slog.Warn("parameter update rejected", "err", err)
				continue
			}
			v.panel.Replace(p)
			v.sync()
			slog.Info("parameters reloaded")
		default:
			return
		}
	}
}

// pullScene fetches the next scene and re-uploads it when it changed. A nil
// scene keeps showing the previous one.
func (v *Viewer) pullScene(t float64) error {
	img, err := v.src.Frame(v.frame, t)
	v.frame++
	if err != nil {
		return fmt.Errorf("source frame: %w", err)
	}
	if img == nil {
		return nil
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba == v.last {
		return nil
	}
	scene := clone.AsRGBA(img)
	b := scene.Bounds()
	if b.Empty() {
		return nil
	}
	if b.Size() == v.scene.Bounds().Size() {
		opengl.UpdateImage(v.sceneTex, scene)
	} else {
		opengl.DeleteTexture(v.sceneTex)
		if v.sceneTex, err = opengl.UploadImage(scene); err != nil {
			return fmt.Errorf("upload scene: %w", err)
		}
		if err := v.gpu.Resize(b.Dx(), b.Dy()); err != nil {
			return err
		}
	}
	v.scene = scene
	if rgba, ok := img.(*image.RGBA); ok {
		v.last = rgba
	}
	return nil
}

// sync pushes the panel's parameters to the GPU pass.
func (v *Viewer) sync() {
	if err := v.gpu.SetParams(v.state.Params()); err != nil {
		slog.Warn("gpu params", "err", err)
	}
	v.updateTitle()
}

func (v *Viewer) updateTitle() {
	v.win.SetTitle(v.title + " | " + v.panel.Status())
}

func (v *Viewer) screenshot() error {
	path := filepath.Join(v.shotDir, fmt.Sprintf("holo_%03d.png", v.shots))
	if err := renderer.SavePNG(path, v.gpu.ReadPixels()); err != nil {
		return err
	}
	v.shots++
	slog.Info("screenshot saved", "path", path)
	return nil
}
