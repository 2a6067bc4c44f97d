package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"golang.org/x/image/draw"

	"github.com/san-kum/fbmandel/internal/display"
	"github.com/san-kum/fbmandel/internal/journal"
	"github.com/san-kum/fbmandel/internal/render"
	"github.com/san-kum/fbmandel/internal/storage"
	"github.com/san-kum/fbmandel/internal/viz"
)

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := "mandelbrot.png"
	if len(args) > 0 {
		out = args[0]
	}

	sink, err := display.NewMemory(cfg.Display.Width, cfg.Display.Height, 32)
	if err != nil {
		return err
	}
	stats := render.New(cfg.Palette(), cfg.Render.Workers).Render(context.Background(), cfg.View, sink.Surface())

	var img image.Image = sink.Surface().Image()
	if outScale > 0 && outScale != 1 {
		b := img.Bounds()
		w := int(float64(b.Dx()) * outScale)
		h := int(float64(b.Dy()) * outScale)
		if w < 1 || h < 1 {
			return fmt.Errorf("scale %g too small", outScale)
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("wrote %s (%dx%d, %v)\n", out, img.Bounds().Dx(), img.Bounds().Dy(), stats.Elapsed)
	fmt.Printf("view: %s\n", cfg.View)
	return nil
}

func bench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if frames < 1 {
		frames = 1
	}

	sink, err := display.NewMemory(cfg.Display.Width, cfg.Display.Height, cfg.Display.Depth)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %dx%d @ %dbpp, %d frames each\n\n",
		cfg.Display.Width, cfg.Display.Height, cfg.Display.Depth, frames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tMEAN\tMIN\tMAX\tSPEEDUP")

	var baseline time.Duration
	for _, n := range []int{1, 2, 4, 8} {
		r := render.New(cfg.Palette(), n)
		var total, lo, hi time.Duration
		for i := 0; i < frames; i++ {
			d := r.Render(context.Background(), cfg.View, sink.Surface()).Elapsed
			total += d
			if i == 0 || d < lo {
				lo = d
			}
			hi = max(hi, d)
		}
		mean := total / time.Duration(frames)
		if n == 1 {
			baseline = mean
		}
		fmt.Fprintf(w, "%d\t%v\t%v\t%v\t%.2fx\n", n, mean, lo, hi, float64(baseline)/float64(mean))
	}

	return w.Flush()
}

func listViews(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(cfg.Views.Path, cfg.Views.Capacity)
	if err := st.Load(); err != nil {
		return err
	}
	views := st.All()
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}
	if len(views) == 0 {
		fmt.Println("no saved views")
		return nil
	}

	fmt.Printf("%s (%d/%d)\n", cfg.Views.Path, len(views), st.Capacity())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSCALING\tX_OFFSET\tY_OFFSET\tCOLOUR\tCENTRE")
	for i, v := range views {
		u, im := v.Point(cfg.Display.Width/2, cfg.Display.Height/2)
		fmt.Fprintf(w, "%d\t%.6g\t%.9g\t%.9g\t%d\t%.6f%+.6fi\n",
			i, v.Scaling, v.XOffset, v.YOffset, v.ColourOffset, u, im)
	}
	return w.Flush()
}

func history(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Journal.Path == "" {
		return fmt.Errorf("no journal configured (use --journal or journal.path)")
	}

	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.Recent(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no renders recorded")
		return nil
	}
	slices.Reverse(entries)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tELAPSED\tWORKERS\tROWS\tSCALING\tCOLOUR")
	data := make([]float64, len(entries))
	for i, e := range entries {
		data[i] = float64(e.Elapsed) / float64(time.Millisecond)
		rows := fmt.Sprintf("%d", e.Rows)
		if e.Cancelled {
			rows += "*"
		}
		fmt.Fprintf(w, "%s\t%v\t%d\t%s\t%.6g\t%d\n",
			e.At.Format("2006-01-02 15:04:05"),
			e.Elapsed.Round(time.Microsecond),
			e.Workers,
			rows,
			e.View.Scaling,
			e.View.ColourOffset,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	if len(data) > 1 {
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("render time (ms)"),
		)
		fmt.Println(graph)
	}
	fmt.Println(viz.SparklineChart(data, 60, viz.ThemeMinimal))
	return nil
}
