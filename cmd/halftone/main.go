// Command halftone renders an image, GIF, video frame or 3D mesh as a
// shape mosaic and writes the result as PNG and/or SVG.
//
// Usage:
//
//	halftone -in photo.jpg -png out.png
//	halftone -in model.stl -svg out.svg -shape triangle -spacing 12
//	halftone -config render.yaml -frames 60
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/gogpu/halftone"
)

const tickInterval = 33 * time.Millisecond

func main() {
	var (
		configPath = flag.String("config", "", "YAML settings file")
		input      = flag.String("in", "", "input media (image, gif, video, obj, stl)")
		outputPNG  = flag.String("png", "", "PNG output path")
		outputSVG  = flag.String("svg", "", "SVG output path")
		shape      = flag.String("shape", "", "cell shape: disc, square, triangle, glyph, path")
		spacing    = flag.Float64("spacing", 0, "cell spacing in pixels")
		frames     = flag.Int("frames", 0, "number of ticks to render for animated media")
	)
	flag.Parse()

	settings, err := LoadSettings(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *input != "" {
		settings.Input = *input
	}
	if *outputPNG != "" {
		settings.OutputPNG = *outputPNG
	}
	if *outputSVG != "" {
		settings.OutputSVG = *outputSVG
	}
	if *shape != "" {
		settings.Render.Shape = *shape
	}
	if *spacing > 0 {
		settings.Render.Spacing = *spacing
	}
	if *frames > 0 {
		settings.Frames = *frames
	}

	log := setupLogging(settings.Logging)
	defer func() {
		_ = log.Sync()
	}()
	halftone.SetLogger(newSlogBridge(log))

	if err := run(settings, log); err != nil {
		log.Fatal("render failed", zap.Error(err))
	}
}

func run(settings *Settings, log *zap.Logger) error {
	if settings.Input == "" {
		return fmt.Errorf("no input media (use -in or the config file)")
	}
	if settings.OutputPNG == "" && settings.OutputSVG == "" {
		return fmt.Errorf("no output (use -png and/or -svg)")
	}

	cfg, err := settings.RenderConfig()
	if err != nil {
		return err
	}

	session := halftone.NewSession(
		halftone.WithViewport(settings.Width, settings.Height, settings.DPR))
	defer func() {
		_ = session.Close()
	}()
	session.SetConfig(cfg)

	log.Info("loading media", zap.String("path", settings.Input))
	if err := session.Load(settings.Input); err != nil {
		return err
	}

	if settings.Frames > 1 {
		return renderSequence(session, settings, log)
	}

	if _, err := session.Tick(time.Now()); err != nil {
		return err
	}
	if settings.OutputPNG != "" {
		if err := writeFile(settings.OutputPNG, session.ExportPNG); err != nil {
			return err
		}
		log.Info("wrote png", zap.String("path", settings.OutputPNG))
	}
	if settings.OutputSVG != "" {
		if err := writeFile(settings.OutputSVG, session.ExportSVG); err != nil {
			return err
		}
		log.Info("wrote svg", zap.String("path", settings.OutputSVG))
	}
	return nil
}

// renderSequence ticks an animated source N times and writes a numbered
// PNG per frame. Time advances by the fixed tick interval rather than
// wall time so output is deterministic regardless of encode speed.
func renderSequence(session *halftone.Session, settings *Settings, log *zap.Logger) error {
	if settings.OutputPNG == "" {
		return fmt.Errorf("-frames needs a -png output pattern")
	}
	now := time.Now()
	for i := 0; i < settings.Frames; i++ {
		if _, err := session.Tick(now); err != nil {
			return err
		}
		path := fmt.Sprintf("%s.%04d.png", settings.OutputPNG, i)
		if err := writeFile(path, session.ExportPNG); err != nil {
			return err
		}
		now = now.Add(tickInterval)
	}
	log.Info("wrote frame sequence",
		zap.Int("frames", settings.Frames), zap.String("pattern", settings.OutputPNG))
	return nil
}

func writeFile(path string, encode func(w io.Writer) error) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
