package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"holo-engine/clock"
	"holo-engine/core"
	"holo-engine/effects"
	"holo-engine/encoder"
	holoio "holo-engine/io"
	"holo-engine/renderer"
	"holo-engine/shader"
	"holo-engine/viewer"
	"holo-engine/window"
)

type options struct {
	mode       string
	input      string
	params     string
	watch      bool
	time       float64
	duration   float64
	fps        float64
	width      int
	height     int
	output     string
	ffmpegPath string
	codec      string
	target     string
	logLevel   string
}

func main() {
	var o options
	flag.StringVar(&o.mode, "mode", "still", "still | frames | record | view | shader | init")
	flag.StringVar(&o.input, "input", "", "source image (PNG/JPEG); a test card is used when empty")
	flag.StringVar(&o.params, "params", "", "TOML parameter file")
	flag.BoolVar(&o.watch, "watch", false, "reload -params when the file changes")
	flag.Float64Var(&o.time, "time", 0, "effect time in seconds for -mode still")
	flag.Float64Var(&o.duration, "duration", 5, "seconds to render for frames/record")
	flag.Float64Var(&o.fps, "fps", 30, "frames per second for frames/record")
	flag.IntVar(&o.width, "width", 0, "output width (0 keeps the source size)")
	flag.IntVar(&o.height, "height", 0, "output height (0 keeps the source size)")
	flag.StringVar(&o.output, "output", "", "output file or directory")
	flag.StringVar(&o.ffmpegPath, "ffmpeg", "", "path to ffmpeg executable")
	flag.StringVar(&o.codec, "codec", "h264", "h264 | hevc")
	flag.StringVar(&o.target, "target", "glsl410", "shader dialect for -mode shader: glsl410 | glsl330 | essl")
	flag.StringVar(&o.logLevel, "log-level", "info", "debug | info | warn | error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "bad -log-level: %v\n", err)
		os.Exit(2)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, o); err != nil {
		slog.Error("holo failed", "mode", o.mode, "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options) error {
	switch o.mode {
	case "shader":
		return printShader(o)
	case "init":
		return writeDefaults(o)
	}

	params, err := loadParams(o.params)
	if err != nil {
		return err
	}
	size := core.Size{Width: o.width, Height: o.height}
	src, err := openSource(o.input, size)
	if err != nil {
		return err
	}

	updates := watchParams(ctx, o)

	switch o.mode {
	case "still":
		return renderStill(src, params, o)
	case "frames", "record":
		return renderSequence(ctx, src, params, updates, o)
	case "view":
		return view(ctx, src, params, updates, o)
	}
	return fmt.Errorf("unknown mode %q", o.mode)
}

func loadParams(path string) (effects.HoloParams, error) {
	if path == "" {
		return effects.DefaultHoloParams(), nil
	}
	f, err := holoio.LoadParams(path)
	if err != nil {
		return effects.HoloParams{}, err
	}
	slog.Info("parameters loaded", "path", path, "name", f.Name)
	return f.Holo.ToParams(), nil
}

func openSource(path string, size core.Size) (*renderer.StaticSource, error) {
	if path == "" {
		return renderer.NewStaticSource(renderer.ColorBars(size), core.Size{}), nil
	}
	return renderer.OpenStaticSource(path, size)
}

func watchParams(ctx context.Context, o options) <-chan effects.HoloParams {
	if !o.watch || o.params == "" {
		return nil
	}
	ch := make(chan effects.HoloParams, 4)
	go func() {
		if err := holoio.WatchParams(ctx, o.params, ch); err != nil {
			slog.Error("param watcher stopped", "err", err)
		}
	}()
	return ch
}

func renderStill(src *renderer.StaticSource, params effects.HoloParams, o options) error {
	pass, err := effects.NewHoloPass(params)
	if err != nil {
		return err
	}
	clk := clock.NewManual()
	clk.Set(o.time)
	out := o.output
	if out == "" {
		out = "holo.png"
	}
	saved := false
	sink := renderer.FuncSink(func(f renderer.Frame) error {
		saved = true
		return renderer.SavePNG(out, f.Image)
	})
	loop, err := renderer.NewLoop(clk, effects.NewChain(pass), src, sink)
	if err != nil {
		return err
	}
	if _, err := loop.Step(context.Background()); err != nil {
		return err
	}
	if !saved {
		return errors.New("no source image")
	}
	slog.Info("still written", "path", out, "time", o.time)
	return nil
}

func renderSequence(ctx context.Context, src *renderer.StaticSource, params effects.HoloParams,
	updates <-chan effects.HoloParams, o options) error {
	pass, err := effects.NewHoloPass(params)
	if err != nil {
		return err
	}
	clk, err := clock.NewStepped(o.fps)
	if err != nil {
		return err
	}
	frames, err := clk.FramesFor(o.duration)
	if err != nil {
		return err
	}
	img := src.Image()
	if img == nil {
		return errors.New("no source image")
	}

	var sink renderer.Sink
	if o.mode == "record" {
		out := o.output
		if out == "" {
			out = "holo.mp4"
		}
		b := img.Bounds()
		vs, err := encoder.NewVideoSink(encoder.Options{
			Output:     out,
			Width:      b.Dx(),
			Height:     b.Dy(),
			FPS:        o.fps,
			Codec:      o.codec,
			FFmpegPath: o.ffmpegPath,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := vs.Close(); err != nil {
				slog.Error("encoder close", "err", err)
			}
		}()
		sink = vs
	} else {
		dir := o.output
		if dir == "" {
			dir = "frames"
		}
		ps, err := renderer.NewPNGSink(dir)
		if err != nil {
			return err
		}
		sink = ps
	}

	loop, err := renderer.NewLoop(clk, effects.NewChain(pass), src, sink)
	if err != nil {
		return err
	}
	loop.Updates = updates
	loop.Target = pass

	slog.Info("rendering", "mode", o.mode, "frames", frames, "fps", o.fps)
	return loop.Run(ctx, frames)
}

func view(ctx context.Context, src *renderer.StaticSource, params effects.HoloParams,
	updates <-chan effects.HoloParams, o options) error {
	img := src.Image()
	if img == nil {
		return errors.New("no source image")
	}
	cfg := window.DefaultConfig()
	cfg.Title = "Holo"
	cfg.Width = img.Bounds().Dx()
	cfg.Height = img.Bounds().Dy()

	v, err := viewer.New(src, viewer.Options{
		Window:        cfg,
		Params:        params,
		Updates:       updates,
		ScreenshotDir: o.output,
	})
	if err != nil {
		return err
	}
	defer v.Destroy()
	return v.Run(ctx)
}

func printShader(o options) error {
	target, err := shader.ParseTarget(o.target)
	if err != nil {
		return err
	}
	prog, err := shader.TranslateFragment(effects.HoloFragmentSource, target)
	if err != nil {
		return err
	}
	if o.output == "" {
		fmt.Println(prog.Code)
		return nil
	}
	return os.WriteFile(o.output, []byte(prog.Code), 0o644)
}

func writeDefaults(o options) error {
	out := o.output
	if out == "" {
		out = "holo.toml"
	}
	if err := holoio.SaveParams(out, holoio.NewDefaultParamsFile("default")); err != nil {
		return err
	}
	slog.Info("default parameters written", "path", out)
	return nil
}
