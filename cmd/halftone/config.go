package main

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/halftone"
)

// Settings is the CLI configuration, loaded with precedence
// defaults < YAML file < flags.
type Settings struct {
	Input     string  `yaml:"input"`
	OutputPNG string  `yaml:"output_png"`
	OutputSVG string  `yaml:"output_svg"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	DPR       float64 `yaml:"dpr"`
	Frames    int     `yaml:"frames"`

	Render  RenderSettings  `yaml:"render"`
	Logging LoggingSettings `yaml:"logging"`
}

// RenderSettings mirrors halftone.RenderConfig in YAML-friendly types.
type RenderSettings struct {
	Shape      string  `yaml:"shape"`
	Spacing    float64 `yaml:"spacing"`
	Invert     bool    `yaml:"invert"`
	MinSize    float64 `yaml:"min_size"`
	MaxSize    float64 `yaml:"max_size"`
	Contrast   float64 `yaml:"contrast"`
	Brightness float64 `yaml:"brightness"`
	Foreground string  `yaml:"foreground"`
	Background string  `yaml:"background"`

	Glyph      string    `yaml:"glyph"`
	PathData   string    `yaml:"path_data"`
	PathBounds []float64 `yaml:"path_bounds"` // x, y, w, h

	ViewScale    float64 `yaml:"view_scale"`
	ViewOffsetX  float64 `yaml:"view_offset_x"`
	ViewOffsetY  float64 `yaml:"view_offset_y"`
	MediaScale   float64 `yaml:"media_scale"`
	MediaOffsetX float64 `yaml:"media_offset_x"`
	MediaOffsetY float64 `yaml:"media_offset_y"`

	AutoRotate bool    `yaml:"auto_rotate"`
	RotationX  float64 `yaml:"rotation_x"`
	RotationY  float64 `yaml:"rotation_y"`

	BackgroundBrightness float64 `yaml:"background_brightness"`
}

// LoggingSettings holds CLI logging options.
type LoggingSettings struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the settings the CLI starts from.
func Default() *Settings {
	base := halftone.DefaultConfig()
	return &Settings{
		Width:  800,
		Height: 600,
		DPR:    1,
		Frames: 1,
		Render: RenderSettings{
			Shape:                base.Shape.String(),
			Spacing:              base.Spacing,
			MinSize:              base.MinSize,
			MaxSize:              base.MaxSize,
			Contrast:             base.Contrast,
			Brightness:           base.Brightness,
			Foreground:           "#000000",
			Background:           "#ffffff",
			Glyph:                string(base.Glyph),
			ViewScale:            1,
			MediaScale:           1,
			BackgroundBrightness: base.BackgroundBrightness,
		},
		Logging: LoggingSettings{Level: "info"},
	}
}

// LoadSettings loads settings from the YAML file at path, merged over the
// defaults. An empty path returns plain defaults.
func LoadSettings(path string) (*Settings, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// RenderConfig converts the YAML settings to the library snapshot.
func (s *Settings) RenderConfig() (halftone.RenderConfig, error) {
	cfg := halftone.DefaultConfig()
	r := s.Render

	shape, err := parseShape(r.Shape)
	if err != nil {
		return cfg, err
	}
	cfg.Shape = shape
	cfg.Spacing = r.Spacing
	cfg.Invert = r.Invert
	cfg.MinSize = r.MinSize
	cfg.MaxSize = r.MaxSize
	cfg.Contrast = r.Contrast
	cfg.Brightness = r.Brightness
	cfg.Foreground = halftone.Hex(r.Foreground)
	cfg.Background = halftone.Hex(r.Background)
	cfg.View = halftone.ViewTransform{Scale: r.ViewScale, OffsetX: r.ViewOffsetX, OffsetY: r.ViewOffsetY}
	cfg.Media = halftone.MediaTransform{Scale: r.MediaScale, OffsetX: r.MediaOffsetX, OffsetY: r.MediaOffsetY}
	cfg.AutoRotate = r.AutoRotate
	cfg.RotationX = r.RotationX
	cfg.RotationY = r.RotationY
	cfg.BackgroundBrightness = r.BackgroundBrightness

	if r.Glyph != "" {
		cfg.Glyph, _ = utf8.DecodeRuneInString(r.Glyph)
	}
	cfg.PathData = r.PathData
	if len(r.PathBounds) == 4 {
		cfg.PathBounds = halftone.Rect{
			X: r.PathBounds[0], Y: r.PathBounds[1],
			W: r.PathBounds[2], H: r.PathBounds[3],
		}
	} else if len(r.PathBounds) != 0 {
		return cfg, fmt.Errorf("path_bounds needs 4 values (x, y, w, h), got %d", len(r.PathBounds))
	}
	return cfg, nil
}

func parseShape(name string) (halftone.ShapeKind, error) {
	switch strings.ToLower(name) {
	case "", "disc", "circle":
		return halftone.ShapeDisc, nil
	case "square":
		return halftone.ShapeSquare, nil
	case "triangle":
		return halftone.ShapeTriangle, nil
	case "glyph":
		return halftone.ShapeGlyph, nil
	case "path":
		return halftone.ShapePath, nil
	default:
		return halftone.ShapeDisc, fmt.Errorf("unknown shape %q", name)
	}
}
