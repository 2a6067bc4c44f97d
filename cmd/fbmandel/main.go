package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/fbmandel/internal/config"
)

var (
	configFile string
	presetName string
	logLevel   string
	logFormat  string
	// Explorer
	fbDevice    string
	touchDevice string
	sinkName    string
	workers     int
	viewsPath   string
	journalPath string
	noAnimate   bool
	noTouch     bool
	noButtons   bool
	// Offscreen rendering
	outWidth  int
	outHeight int
	outScale  float64
	scaling   float64
	xOffset   float64
	yOffset   float64
	colour    int
	frames    int
	limit     int
	asJSON    bool
)

// main registers the commands; with no subcommand the explorer runs.
func main() {
	rootCmd := &cobra.Command{
		Use:          "fbmandel",
		Short:        "touch-driven mandelbrot explorer for small framebuffers",
		SilenceUsage: true,
		RunE:         runExplorer,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	addRunFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the explorer",
		Args:  cobra.NoArgs,
		RunE:  runExplorer,
	}
	addRunFlags(runCmd)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file.png]",
		Short: "render one view to a png",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshot,
	}
	addViewFlags(snapshotCmd)
	snapshotCmd.Flags().Float64Var(&outScale, "scale", 1, "output scale factor")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the renderer across worker counts",
		Args:  cobra.NoArgs,
		RunE:  bench,
	}
	addViewFlags(benchCmd)
	benchCmd.Flags().IntVar(&frames, "frames", 5, "frames per worker count")

	viewsCmd := &cobra.Command{
		Use:   "views",
		Short: "list saved views",
		Args:  cobra.NoArgs,
		RunE:  listViews,
	}
	viewsCmd.Flags().StringVar(&viewsPath, "views", "", "saved view file")
	viewsCmd.Flags().BoolVar(&asJSON, "json", false, "print the views as json")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "show recent render times from the journal",
		Args:  cobra.NoArgs,
		RunE:  history,
	}
	historyCmd.Flags().StringVar(&journalPath, "journal", "", "render journal database")
	historyCmd.Flags().IntVar(&limit, "limit", 60, "number of renders")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in starting views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				st, _ := config.GetPreset(name)
				fmt.Printf("  %-10s %s\n", name, st)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [file.yaml]",
		Short: "write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "fbmandel.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, snapshotCmd, benchCmd, viewsCmd, historyCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&fbDevice, "device", "d", config.DefaultDevice, "framebuffer device")
	cmd.Flags().StringVarP(&touchDevice, "touch", "t", config.DefaultTouchDevice, "touch input device")
	cmd.Flags().StringVar(&sinkName, "sink", config.DefaultSink, "display sink (fbdev, window, term)")
	cmd.Flags().StringVar(&presetName, "preset", "", "start from a built-in view")
	cmd.Flags().IntVar(&workers, "workers", 4, "render workers")
	cmd.Flags().StringVar(&viewsPath, "views", config.DefaultViewsPath, "saved view file")
	cmd.Flags().StringVar(&journalPath, "journal", "", "render journal database (empty disables)")
	cmd.Flags().BoolVar(&noAnimate, "no-animate", false, "disable idle playback")
	cmd.Flags().BoolVar(&noTouch, "no-touch", false, "disable touch input")
	cmd.Flags().BoolVar(&noButtons, "no-buttons", false, "disable gpio buttons")
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&outWidth, "width", config.DefaultWidth, "surface width")
	cmd.Flags().IntVar(&outHeight, "height", config.DefaultHeight, "surface height")
	cmd.Flags().StringVar(&presetName, "preset", "", "built-in view")
	cmd.Flags().IntVar(&workers, "workers", 4, "render workers")
	cmd.Flags().Float64Var(&scaling, "scaling", 0.013, "complex units per pixel")
	cmd.Flags().Float64Var(&xOffset, "x-offset", 2.6, "x offset")
	cmd.Flags().Float64Var(&yOffset, "y-offset", 1.6, "y offset")
	cmd.Flags().IntVar(&colour, "colour", 0, "colour offset")
}

// loadConfig layers the config file, the preset and then any flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	if presetName != "" {
		st, ok := config.GetPreset(presetName)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
		cfg.View = st
	}

	flags := cmd.Flags()
	if flags.Changed("device") {
		cfg.Display.Device = fbDevice
	}
	if flags.Changed("touch") {
		cfg.Touch.Device = touchDevice
	}
	if flags.Changed("sink") {
		cfg.Display.Sink = sinkName
	}
	if flags.Changed("workers") {
		cfg.Render.Workers = workers
	}
	if flags.Changed("views") {
		cfg.Views.Path = viewsPath
	}
	if flags.Changed("journal") {
		cfg.Journal.Path = journalPath
	}
	if flags.Changed("width") {
		cfg.Display.Width = outWidth
	}
	if flags.Changed("height") {
		cfg.Display.Height = outHeight
	}
	if flags.Changed("scaling") {
		cfg.View.Scaling = scaling
	}
	if flags.Changed("x-offset") {
		cfg.View.XOffset = xOffset
	}
	if flags.Changed("y-offset") {
		cfg.View.YOffset = yOffset
	}
	if flags.Changed("colour") {
		cfg.View.ColourOffset = colour
	}
	if noAnimate {
		cfg.Animation.Enabled = false
	}
	if noTouch {
		cfg.Touch.Enabled = false
	}
	if noButtons {
		cfg.Buttons.Enabled = false
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(c config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
