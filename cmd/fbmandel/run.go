package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/fbmandel/internal/anim"
	"github.com/san-kum/fbmandel/internal/app"
	"github.com/san-kum/fbmandel/internal/config"
	"github.com/san-kum/fbmandel/internal/display"
	"github.com/san-kum/fbmandel/internal/input"
	"github.com/san-kum/fbmandel/internal/journal"
	"github.com/san-kum/fbmandel/internal/render"
	"github.com/san-kum/fbmandel/internal/storage"
	"github.com/san-kum/fbmandel/internal/view"
	"github.com/san-kum/fbmandel/internal/viz"
	"github.com/san-kum/fbmandel/internal/window"
)

// uiSink is a sink with its own event loop that must own the main
// goroutine.
type uiSink interface {
	display.Sink
	OnAction(fn func(view.Action))
	SetZoom(in, out float64)
	Run(ctx context.Context) error
}

func runExplorer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink, ui, err := openSink(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()
	surf := sink.Surface()
	log.Info("display ready",
		"sink", cfg.Display.Sink,
		"width", surf.Width(),
		"height", surf.Height(),
		"bpp", int(surf.Depth()),
	)

	shared := view.NewShared(cfg.View, cfg.Fractal.ColourScale)

	store := storage.New(cfg.Views.Path, cfg.Views.Capacity)
	if err := store.Init(); err != nil {
		log.Warn("saved views unavailable", "path", cfg.Views.Path, "err", err)
	} else if err := store.Load(); err != nil {
		log.Warn("saved views not loaded", "path", cfg.Views.Path, "err", err)
	}
	log.Info("saved views", "count", store.Len(), "capacity", store.Capacity())

	dispatcher := app.NewDispatcher(shared, store, log)
	opts := app.Options{
		Tick:           cfg.Display.Tick,
		TouchInterval:  cfg.Touch.Interval,
		ButtonInterval: cfg.Buttons.Interval,
		Marker:         cfg.Display.Marker,
	}
	a := app.New(shared, render.New(cfg.Palette(), cfg.Render.Workers), sink, dispatcher, opts, log)

	if cfg.Animation.Enabled {
		a.SetAnimator(anim.New(cfg.AnimConfig(), shared, store, time.Now()))
	}

	if cfg.Journal.Path != "" {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			log.Warn("journal disabled", "err", err)
		} else {
			defer j.Close()
			a.SetRecorder(j)
		}
	}

	if cfg.Touch.Enabled {
		if closer := attachTouch(a, cfg, surf.Width(), surf.Height(), log); closer != nil {
			defer closer()
		}
	}
	if cfg.Buttons.Enabled {
		attachButtons(a, cfg, surf.Width(), surf.Height(), log)
	}

	if ui == nil {
		return a.Run(ctx)
	}

	ui.SetZoom(cfg.Touch.ZoomIn, cfg.Buttons.ZoomOut)
	ui.OnAction(dispatcher.Dispatch)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		defer cancel()
		return a.Run(ctx)
	})
	err = ui.Run(ctx)
	cancel()
	if werr := g.Wait(); err == nil {
		err = werr
	}
	return err
}

func openSink(cfg *config.Config) (display.Sink, uiSink, error) {
	switch cfg.Display.Sink {
	case "fbdev", "":
		s, err := openFramebuffer(cfg.Display.Device)
		return s, nil, err
	case "window":
		s, err := window.New(cfg.Display.Width, cfg.Display.Height, cfg.Display.Scale, "fbmandel")
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case "term":
		cols, rows, err := term.GetSize(os.Stdout.Fd())
		if err != nil {
			cols, rows = 80, 24
		}
		s, err := viz.New(cols, rows)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case "memory":
		s, err := display.NewMemory(cfg.Display.Width, cfg.Display.Height, cfg.Display.Depth)
		return s, nil, err
	}
	return nil, nil, fmt.Errorf("unknown sink: %s", cfg.Display.Sink)
}

// attachTouch wires the touch device into a. It returns a function that
// releases the device, or nil when touch is unavailable.
func attachTouch(a *app.App, cfg *config.Config, width, height int, log *slog.Logger) func() {
	orientation, err := input.ParseOrientation(cfg.Touch.Orientation)
	if err != nil {
		log.Warn("touch disabled", "err", err)
		return nil
	}
	dev, err := openTouch(cfg.Touch.Device)
	if err != nil {
		log.Warn("touch disabled", "device", cfg.Touch.Device, "err", err)
		return nil
	}
	r := dev.Range(cfg.TouchRange())
	log.Info("touch ready", "device", cfg.Touch.Device, "max_x", r.MaxX, "max_y", r.MaxY, "orientation", orientation)

	a.AddTouch(dev, input.NewTouchTracker(orientation, r, width, height, cfg.Touch.ZoomIn))
	return func() { dev.Close() }
}

func attachButtons(a *app.App, cfg *config.Config, width, height int, log *slog.Logger) {
	table, err := cfg.ButtonTable(width, height)
	if err != nil {
		log.Warn("buttons disabled", "err", err)
		return
	}
	lines, err := input.OpenGPIO(cfg.Buttons.Pins)
	if err != nil {
		log.Warn("buttons disabled", "err", err)
		return
	}
	poller, err := input.NewButtonPoller(lines, table)
	if err != nil {
		log.Warn("buttons disabled", "err", err)
		return
	}
	log.Info("buttons ready", "pins", lines.Names())
	a.AddButtons(poller)
}

var errUnsupported = errors.New("not supported on this platform")
