package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fbmandel/internal/anim"
	"github.com/san-kum/fbmandel/internal/fractal"
	"github.com/san-kum/fbmandel/internal/input"
	"github.com/san-kum/fbmandel/internal/render"
	"github.com/san-kum/fbmandel/internal/storage"
	"github.com/san-kum/fbmandel/internal/view"
)

const (
	DefaultSink        = "fbdev"
	DefaultDevice      = "/dev/fb1"
	DefaultTouchDevice = "/dev/input/event4"
	DefaultWidth       = 320
	DefaultHeight      = 240
	DefaultDepth       = 16
	DefaultScale       = 2
	DefaultTouchMax    = 4096
	DefaultZoomOut     = 2.0
	DefaultViewsPath   = "mandelbrot_views.txt"
)

type Config struct {
	Display   DisplayConfig   `yaml:"display"`
	Touch     TouchConfig     `yaml:"touch"`
	Buttons   ButtonsConfig   `yaml:"buttons"`
	Fractal   FractalConfig   `yaml:"fractal"`
	Render    RenderConfig    `yaml:"render"`
	View      view.State      `yaml:"view"`
	Animation AnimationConfig `yaml:"animation"`
	Views     ViewsConfig     `yaml:"views"`
	Journal   JournalConfig   `yaml:"journal"`
	Log       LogConfig       `yaml:"log"`
}

// DisplayConfig selects the sink. Width, Height and Depth apply to the
// window, terminal and offscreen sinks; fbdev takes its geometry from the
// device.
type DisplayConfig struct {
	Sink   string        `yaml:"sink"`
	Device string        `yaml:"device"`
	Width  int           `yaml:"width"`
	Height int           `yaml:"height"`
	Depth  int           `yaml:"depth"`
	Scale  int           `yaml:"scale"`
	Marker bool          `yaml:"marker"`
	Tick   time.Duration `yaml:"tick"`
}

type TouchConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Device      string        `yaml:"device"`
	Orientation string        `yaml:"orientation"`
	MaxX        int           `yaml:"max_x"`
	MaxY        int           `yaml:"max_y"`
	Interval    time.Duration `yaml:"interval"`
	ZoomIn      float64       `yaml:"zoom_in"`
}

// ButtonsConfig pairs GPIO names with action names by index. An action
// of "none" leaves that line unmapped.
type ButtonsConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Pins     []string      `yaml:"pins"`
	Actions  []string      `yaml:"actions"`
	Interval time.Duration `yaml:"interval"`
	ZoomOut  float64       `yaml:"zoom_out"`
}

type FractalConfig struct {
	MaxIterations int `yaml:"max_iterations"`
	ColourScale   int `yaml:"colour_scale"`
}

type RenderConfig struct {
	Workers int `yaml:"workers"`
}

type AnimationConfig struct {
	Enabled     bool          `yaml:"enabled"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	Rate        float64       `yaml:"rate"`
	ScaleSnap   float64       `yaml:"scale_snap"`
	OffsetSnap  float64       `yaml:"offset_snap"`
}

type ViewsConfig struct {
	Path     string `yaml:"path"`
	Capacity int    `yaml:"capacity"`
}

// JournalConfig enables the render journal when Path is set.
type JournalConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Sink:   DefaultSink,
			Device: DefaultDevice,
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Depth:  DefaultDepth,
			Scale:  DefaultScale,
			Marker: true,
			Tick:   anim.DefaultTick,
		},
		Touch: TouchConfig{
			Enabled:     true,
			Device:      DefaultTouchDevice,
			Orientation: input.Direct.String(),
			MaxX:        DefaultTouchMax,
			MaxY:        DefaultTouchMax,
			Interval:    input.DefaultTouchInterval,
			ZoomIn:      input.DefaultZoomIn,
		},
		Buttons: ButtonsConfig{
			Enabled:  true,
			Pins:     []string{"GPIO17", "GPIO22", "GPIO23", "GPIO27"},
			Actions:  []string{"save", "zoom_out", "reset", "cycle"},
			Interval: input.DefaultButtonInterval,
			ZoomOut:  DefaultZoomOut,
		},
		Fractal: FractalConfig{
			MaxIterations: fractal.DefaultMaxIterations,
			ColourScale:   fractal.DefaultColourScale,
		},
		Render: RenderConfig{
			Workers: render.DefaultWorkers,
		},
		View: view.Default(),
		Animation: AnimationConfig{
			Enabled:     true,
			IdleTimeout: anim.DefaultIdleTimeout,
			Rate:        anim.DefaultRate,
			ScaleSnap:   anim.DefaultScaleSnap,
			OffsetSnap:  anim.DefaultOffsetSnap,
		},
		Views: ViewsConfig{
			Path:     DefaultViewsPath,
			Capacity: storage.DefaultCapacity,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Fractal.MaxIterations <= 0 {
		return fmt.Errorf("config: max_iterations must be positive, got %d", c.Fractal.MaxIterations)
	}
	if c.Fractal.ColourScale <= 0 {
		return fmt.Errorf("config: colour_scale must be positive, got %d", c.Fractal.ColourScale)
	}
	if !c.View.IsValid() {
		return fmt.Errorf("config: invalid starting view %v", c.View)
	}
	if !(c.Animation.ScaleSnap > 0) || !(c.Animation.OffsetSnap > 0) {
		return fmt.Errorf("config: animation snap thresholds must be positive, got %g and %g",
			c.Animation.ScaleSnap, c.Animation.OffsetSnap)
	}
	if _, err := input.ParseOrientation(c.Touch.Orientation); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for _, name := range c.Buttons.Actions {
		if name == "" || name == "none" {
			continue
		}
		if _, err := view.ParseAction(name, 0, 0, 1); err != nil {
			return fmt.Errorf("config: buttons: %w", err)
		}
	}
	return nil
}

func (c *Config) Palette() fractal.Palette {
	return fractal.Palette{
		MaxIterations: c.Fractal.MaxIterations,
		ColourScale:   c.Fractal.ColourScale,
	}
}

func (c *Config) AnimConfig() anim.Config {
	return anim.Config{
		IdleTimeout: c.Animation.IdleTimeout,
		Rate:        c.Animation.Rate,
		ScaleSnap:   c.Animation.ScaleSnap,
		OffsetSnap:  c.Animation.OffsetSnap,
	}
}

func (c *Config) TouchRange() input.Range {
	return input.Range{MaxX: c.Touch.MaxX, MaxY: c.Touch.MaxY}
}

// ButtonTable resolves the configured action names for a surface of the
// given size. Zoom actions centre on the surface.
func (c *Config) ButtonTable(width, height int) (input.ButtonTable, error) {
	table := make(input.ButtonTable, len(c.Buttons.Actions))
	for i, name := range c.Buttons.Actions {
		if name == "" || name == "none" {
			continue
		}
		factor := c.Buttons.ZoomOut
		if name == "zoom_in" {
			factor = c.Touch.ZoomIn
		}
		a, err := view.ParseAction(name, width/2, height/2, factor)
		if err != nil {
			return nil, err
		}
		table[i] = a
	}
	return table, nil
}
